package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndependentInstances(t *testing.T) {
	// two instances must not trip duplicate registration
	first := New()
	second := New()

	first.ReadingsStored.Inc()
	second.ReadingsStored.Add(5)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	first.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "smarthome_readings_stored_total 1")
}

func TestExposedInstruments(t *testing.T) {
	m := New()

	m.ReadingsStored.Inc()
	m.ReadingsRejected.Inc()
	m.AlertsCreated.WithLabelValues("temperature_high").Inc()
	m.DevicesOnline.Set(3)
	m.HTTPRequests.WithLabelValues("/api/sensors/data", "2xx").Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "smarthome_readings_rejected_total 1")
	assert.Contains(t, body, `smarthome_alerts_created_total{type="temperature_high"} 1`)
	assert.Contains(t, body, "smarthome_devices_online 3")
	assert.Contains(t, body, `smarthome_http_requests_total{code="2xx",route="/api/sensors/data"} 1`)
}
