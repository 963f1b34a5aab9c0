package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/storefront"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// HTTP client metrics
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram

	// Session metrics
	LoginsTotal        metric.Int64Counter
	LoginFailuresTotal metric.Int64Counter
	LogoutsTotal       metric.Int64Counter
	ForcedLogoutsTotal metric.Int64Counter
	SessionReloads     metric.Int64Counter

	// Guard metrics
	GuardDenialsTotal metric.Int64Counter

	// Checkout metrics
	OrdersPlacedTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = NewMetrics(otel.GetMeterProvider().Meter(meterName))
	})
	return metrics
}

// NewMetrics creates all metric instruments from meter.
func NewMetrics(meter metric.Meter) *Metrics {
	m := &Metrics{}

	m.RequestsTotal, _ = meter.Int64Counter(
		"storefront.http.requests.total",
		metric.WithDescription("Total number of backend requests"),
		metric.WithUnit("{request}"),
	)

	m.RequestDuration, _ = meter.Float64Histogram(
		"storefront.http.request.duration",
		metric.WithDescription("Duration of backend requests"),
		metric.WithUnit("ms"),
	)

	m.LoginsTotal, _ = meter.Int64Counter(
		"storefront.session.logins.total",
		metric.WithDescription("Total number of successful logins"),
		metric.WithUnit("{login}"),
	)

	m.LoginFailuresTotal, _ = meter.Int64Counter(
		"storefront.session.login_failures.total",
		metric.WithDescription("Total number of rejected logins"),
		metric.WithUnit("{login}"),
	)

	m.LogoutsTotal, _ = meter.Int64Counter(
		"storefront.session.logouts.total",
		metric.WithDescription("Total number of logouts"),
		metric.WithUnit("{logout}"),
	)

	m.ForcedLogoutsTotal, _ = meter.Int64Counter(
		"storefront.session.forced_logouts.total",
		metric.WithDescription("Total number of sessions ended by a 401 response"),
		metric.WithUnit("{logout}"),
	)

	m.SessionReloads, _ = meter.Int64Counter(
		"storefront.session.reloads.total",
		metric.WithDescription("Total number of session reloads after an external change"),
		metric.WithUnit("{reload}"),
	)

	m.GuardDenialsTotal, _ = meter.Int64Counter(
		"storefront.guard.denials.total",
		metric.WithDescription("Total number of commands refused by a guard"),
		metric.WithUnit("{denial}"),
	)

	m.OrdersPlacedTotal, _ = meter.Int64Counter(
		"storefront.checkout.orders.total",
		metric.WithDescription("Total number of orders placed"),
		metric.WithUnit("{order}"),
	)

	return m
}
