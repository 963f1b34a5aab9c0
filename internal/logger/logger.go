package logger

import (
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the per request correlation id.
const RequestIDHeader = "X-Request-ID"

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

var _ http.RoundTripper = (*RequestLogger)(nil)

// RequestLogger logs every HTTP exchange and tags it with a request id.
// Header values are never logged.
type RequestLogger struct {
	next   http.RoundTripper
	logger *zerolog.Logger
}

// NewRequestLogger logs through the global logger.
func NewRequestLogger(next http.RoundTripper) *RequestLogger {
	return &RequestLogger{next: next}
}

// NewRequestLoggerWith logs through logger instead of the global logger.
func NewRequestLoggerWith(logger zerolog.Logger, next http.RoundTripper) *RequestLogger {
	return &RequestLogger{next: next, logger: &logger}
}

func (r *RequestLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	next := r.next
	if next == nil {
		next = http.DefaultTransport
	}

	if req.Header.Get(RequestIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	l := r.log().With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("requestID", req.Header.Get(RequestIDHeader)).
		Logger()

	started := time.Now()
	resp, err := next.RoundTrip(req)
	if err != nil {
		l.Error().
			Err(err).
			Dur("duration", time.Since(started)).
			Msg("http request")

		return resp, err
	}

	l.Debug().
		Int("status", resp.StatusCode).
		Bool("fromCache", resp.Header.Get("X-From-Cache") != "").
		Dur("duration", time.Since(started)).
		Msg("http request")

	return resp, nil
}

func (r *RequestLogger) log() *zerolog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return &log.Logger
}
