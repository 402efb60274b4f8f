package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casakit.xyz/smarthome-service/pkg/models"
)

func TestAlertEventEncoding(t *testing.T) {
	threshold := 30.0
	current := 36.5
	created := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	alert := models.SensorAlert{
		ID:             7,
		DeviceID:       "esp32-attic-02",
		AlertType:      models.AlertTemperatureHigh,
		Severity:       models.SeverityCritical,
		Message:        "Temperature above threshold: 36.5°C (threshold: 30.0°C)",
		ThresholdValue: &threshold,
		CurrentValue:   &current,
		CreatedAt:      created,
	}

	event := alertEvent{
		ID:             alert.ID,
		DeviceID:       alert.DeviceID,
		AlertType:      string(alert.AlertType),
		Severity:       string(alert.Severity),
		Message:        alert.Message,
		ThresholdValue: alert.ThresholdValue,
		CurrentValue:   alert.CurrentValue,
		CreatedAt:      alert.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "esp32-attic-02", decoded["device_id"])
	assert.Equal(t, "temperature_high", decoded["alert_type"])
	assert.Equal(t, "critical", decoded["severity"])
	assert.Equal(t, 30.0, decoded["threshold_value"])
	assert.Equal(t, "2025-06-01T12:30:00Z", decoded["created_at"])
}
