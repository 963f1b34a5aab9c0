package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/storefront/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const fallbackMessage = "an unexpected error occurred"

// Invalidator ends the current session.
type Invalidator interface {
	Logout() error
}

// Normalize turns a failed exchange into an *Error. resp is nil when the
// request never produced a response, in which case transportErr is set.
//
// The display message is picked in order from: a top level "message" field,
// the flattened field level "errors", the transport level description of the
// failure, and finally a generic fallback.
func Normalize(req *http.Request, resp *http.Response, body []byte, transportErr error) *Error {
	if resp == nil {
		msg := fallbackMessage
		if transportErr != nil {
			msg = transportErr.Error()
		}
		return WrapError(KindTransport, msg, transportErr)
	}

	e := &Error{
		Kind:   kindForStatus(resp.StatusCode),
		Status: resp.StatusCode,
	}

	e.Message = messageFromBody(body)
	if e.Message == "" {
		e.Message = describeFailure(req, resp)
	}

	return e
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindAuthorization
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	}
	return KindUnexpected
}

func describeFailure(req *http.Request, resp *http.Response) string {
	if req == nil || req.URL == nil {
		if resp.Status != "" {
			return resp.Status
		}
		return fallbackMessage
	}
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return fmt.Sprintf("%s %s: %s", req.Method, req.URL.Path, status)
}

// messageFromBody extracts a display message from a JSON error body, empty
// when none could be found.
func messageFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}

	for _, key := range []string{"message", "Message"} {
		if msg, ok := doc[key].(string); ok && strings.TrimSpace(msg) != "" {
			return msg
		}
	}

	for _, key := range []string{"errors", "Errors"} {
		if v, ok := doc[key]; ok {
			if msgs := flatten(v); len(msgs) > 0 {
				return strings.Join(msgs, ", ")
			}
		}
	}

	return ""
}

// flatten collects every string found in a field error structure. Object keys
// are visited in sorted order so the output is stable.
func flatten(v any) []string {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil
		}
		return []string{val}
	case []any:
		var out []string
		for _, item := range val {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var out []string
		for _, k := range keys {
			out = append(out, flatten(val[k])...)
		}
		return out
	}
	return nil
}

// Normalizer is the single place failed exchanges are classified. A 401
// always ends the session through the Invalidator.
type Normalizer struct {
	Session Invalidator
}

// Check returns nil for 2xx responses and a normalized *Error otherwise.
func (n *Normalizer) Check(ctx context.Context, req *http.Request, resp *http.Response, body []byte, transportErr error) error {
	if transportErr == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	e := Normalize(req, resp, body, transportErr)

	if e.Kind == KindAuthentication {
		e.RedirectToLogin = true
		n.forceLogout(ctx)
	}

	log.Debug().
		Str("kind", e.Kind.String()).
		Int("status", e.Status).
		Bool("redirectToLogin", e.RedirectToLogin).
		Msg("request failed")

	return e
}

func (n *Normalizer) forceLogout(ctx context.Context) {
	if n.Session == nil {
		return
	}

	telemetry.GetMetrics().ForcedLogoutsTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", "unauthorized")))

	if err := n.Session.Logout(); err != nil {
		log.Warn().Err(err).Msg("failed to clear session after 401")
		return
	}

	log.Info().Msg("session cleared after 401 response")
}
