package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's prometheus instruments behind one
// registry. Each instance owns its registry so tests can create as
// many as they like without duplicate-registration panics.
type Metrics struct {
	Registry *prometheus.Registry

	ReadingsStored   prometheus.Counter
	ReadingsRejected prometheus.Counter
	AlertsCreated    *prometheus.CounterVec
	DevicesOnline    prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		ReadingsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smarthome_readings_stored_total",
			Help: "Sensor readings accepted and written to the store.",
		}),
		ReadingsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smarthome_readings_rejected_total",
			Help: "Sensor readings skipped during ingestion validation.",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smarthome_alerts_created_total",
			Help: "Alerts created, by alert type.",
		}, []string{"type"}),
		DevicesOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smarthome_devices_online",
			Help: "Devices seen within the online window at last evaluation.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smarthome_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}

	registry.MustRegister(
		m.ReadingsStored,
		m.ReadingsRejected,
		m.AlertsCreated,
		m.DevicesOnline,
		m.HTTPRequests,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
