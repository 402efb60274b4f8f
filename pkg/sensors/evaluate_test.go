package sensors

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
	_ "casakit.xyz/smarthome-service/pkg/testing"
)

func registerWithThresholds(t *testing.T, sensorsObj *Sensors, th models.Thresholds) string {
	t.Helper()

	deviceID := uuid.NewString()
	_, err := sensorsObj.Registry.RegisterOrUpdate(&models.RegisterInput{
		DeviceID:      deviceID,
		Name:          "Sensor",
		Location:      "lab",
		Configuration: &models.SensorDeviceConfig{Thresholds: th},
	})
	require.NoError(t, err)
	return deviceID
}

func appendNow(t *testing.T, sensorsObj *Sensors, deviceID, sensorType string, value float64) {
	t.Helper()

	reading := models.SensorReading{
		DeviceID:   deviceID,
		SensorType: sensorType,
		Value:      value,
		Unit:       "°C",
		Timestamp:  time.Now().UTC(),
	}
	require.NoError(t, sensorsObj.Readings.Append(&reading))
}

func TestEvaluateAllCriticalBreach(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{
		TemperatureHigh: float64Ptr(30),
	})
	appendNow(t, sensorsObj, deviceID, "temperature", 36.0)

	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTemperatureHigh, alerts[0].AlertType)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	require.NotNil(t, alerts[0].CurrentValue)
	assert.Equal(t, 36.0, *alerts[0].CurrentValue)
	require.NotNil(t, alerts[0].ThresholdValue)
	assert.Equal(t, 30.0, *alerts[0].ThresholdValue)
}

func TestEvaluateAllWarningAtBoundary(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{
		TemperatureHigh: float64Ptr(30),
	})
	appendNow(t, sensorsObj, deviceID, "temperature", 35.0)

	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityWarning, alerts[0].Severity)
}

func TestEvaluateAllWithinThresholdsNoAlert(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{
		TemperatureHigh: float64Ptr(30),
		TemperatureLow:  float64Ptr(10),
	})
	appendNow(t, sensorsObj, deviceID, "temperature", 21.0)

	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestEvaluateAllIndependentTemperatureAndHumidity(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{
		TemperatureHigh: float64Ptr(30),
		HumidityLow:     float64Ptr(40),
	})
	appendNow(t, sensorsObj, deviceID, "temperature", 32.0)
	appendNow(t, sensorsObj, deviceID, "humidity", 25.0)

	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	kinds := map[models.AlertType]bool{}
	for _, alert := range alerts {
		kinds[alert.AlertType] = true
	}
	assert.True(t, kinds[models.AlertTemperatureHigh])
	assert.True(t, kinds[models.AlertHumidityLow])
}

func TestEvaluateAllDoesNotDeduplicateBreaches(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{
		TemperatureHigh: float64Ptr(30),
	})
	appendNow(t, sensorsObj, deviceID, "temperature", 33.0)

	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())
	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestEvaluateAllOfflineAlertFiresExactlyOnce(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{})

	staleSeen := time.Now().UTC().Add(-10 * time.Minute)
	err := sensorsObj.Db.Conn.Model(&models.SensorDevice{}).
		Where("device_id = ?", deviceID).
		Update("last_seen", staleSeen).Error
	require.NoError(t, err)

	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())
	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertDeviceOffline, alerts[0].AlertType)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)

	device, err := sensorsObj.Registry.Get(deviceID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStatusOffline, device.Status)
	assert.True(t, device.OfflineAlerted)
}

func TestEvaluateAllOfflineAlertRearmsAfterRecovery(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{})

	goOffline := func() {
		staleSeen := time.Now().UTC().Add(-10 * time.Minute)
		err := sensorsObj.Db.Conn.Model(&models.SensorDevice{}).
			Where("device_id = ?", deviceID).
			Update("last_seen", staleSeen).Error
		require.NoError(t, err)
	}

	goOffline()
	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	// Device reports again, clearing the latch, then goes silent again.
	require.NoError(t, sensorsObj.Registry.Touch(deviceID))
	goOffline()
	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestEvaluateAllSkipsOfflineDeviceThresholds(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{
		TemperatureHigh: float64Ptr(30),
	})
	appendNow(t, sensorsObj, deviceID, "temperature", 40.0)

	staleSeen := time.Now().UTC().Add(-10 * time.Minute)
	err := sensorsObj.Db.Conn.Model(&models.SensorDevice{}).
		Where("device_id = ?", deviceID).
		Update("last_seen", staleSeen).Error
	require.NoError(t, err)

	require.NoError(t, sensorsObj.Evaluator.EvaluateAll())

	// Only the offline transition alert, no threshold alert.
	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertDeviceOffline, alerts[0].AlertType)
}

func TestRegisterIngestEvaluateScenario(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := registerWithThresholds(t, sensorsObj, models.Thresholds{
		TemperatureHigh: float64Ptr(30),
	})

	stored, err := sensorsObj.Ingest.IngestBatch(deviceID, []models.ReadingInput{
		{Type: "temperature", Value: 36.0, Unit: "°C"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stored)

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, models.AlertTemperatureHigh, alerts[0].AlertType)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
}
