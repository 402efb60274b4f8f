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

func TestTemperatureAlertSeverityBoundary(t *testing.T) {
	// 5 over the threshold is still a warning; more than 5 is critical.
	warning := newTemperatureAlert("dev", 35.0, 30.0, true)
	assert.Equal(t, models.SeverityWarning, warning.Severity)

	critical := newTemperatureAlert("dev", 36.0, 30.0, true)
	assert.Equal(t, models.SeverityCritical, critical.Severity)

	lowCritical := newTemperatureAlert("dev", 2.0, 10.0, false)
	assert.Equal(t, models.SeverityCritical, lowCritical.Severity)
	assert.Equal(t, models.AlertTemperatureLow, lowCritical.AlertType)
	assert.Contains(t, lowCritical.Message, "below threshold")
}

func TestHumidityAlertAlwaysWarning(t *testing.T) {
	alert := newHumidityAlert("dev", 95.0, 60.0, true)
	assert.Equal(t, models.SeverityWarning, alert.Severity)
	assert.Equal(t, models.AlertHumidityHigh, alert.AlertType)

	far := newHumidityAlert("dev", 5.0, 40.0, false)
	assert.Equal(t, models.SeverityWarning, far.Severity)
	assert.Equal(t, models.AlertHumidityLow, far.AlertType)
}

func TestAcknowledgeAlertIsIdempotent(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	alert := newTemperatureAlert(uuid.NewString(), 36.0, 30.0, true)
	require.NoError(t, sensorsObj.Alerts.Create(&alert))

	first, err := sensorsObj.Alerts.Acknowledge(alert.ID)
	require.NoError(t, err)
	assert.True(t, first.Acknowledged)
	require.NotNil(t, first.AcknowledgedAt)

	time.Sleep(10 * time.Millisecond)

	second, err := sensorsObj.Alerts.Acknowledge(alert.ID)
	require.NoError(t, err)
	assert.True(t, second.Acknowledged)
	assert.Equal(t, first.AcknowledgedAt.Unix(), second.AcknowledgedAt.Unix())
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	_, err := sensorsObj.Alerts.Acknowledge(99999999)
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestListAlertsActiveOnlyExcludesAcknowledged(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	deviceID := uuid.NewString()

	active := newTemperatureAlert(deviceID, 36.0, 30.0, true)
	require.NoError(t, sensorsObj.Alerts.Create(&active))

	acknowledged := newHumidityAlert(deviceID, 80.0, 60.0, true)
	require.NoError(t, sensorsObj.Alerts.Create(&acknowledged))
	_, err := sensorsObj.Alerts.Acknowledge(acknowledged.ID)
	require.NoError(t, err)

	alerts, err := sensorsObj.Alerts.RecentForDevice(deviceID, 10)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)

	activeAlerts, err := sensorsObj.Alerts.List(true, 0)
	require.NoError(t, err)
	for _, alert := range activeAlerts {
		assert.False(t, alert.Acknowledged)
	}
}

func TestCreateAlertNotifiesOptionalSink(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sensorsObj, _, _, _, _ := GetMockSensorsWithMemorySqliteDialector(t, false, false, false, false)
	defer ctrl.Finish()

	notifier := &captureNotifier{}
	sensorsObj.Notifier = notifier
	defer func() { sensorsObj.Notifier = nil }()

	alert := newDeviceOfflineAlert(uuid.NewString())
	require.NoError(t, sensorsObj.Alerts.Create(&alert))

	require.Len(t, notifier.published, 1)
	assert.Equal(t, models.AlertDeviceOffline, notifier.published[0].AlertType)
	assert.Equal(t, models.SeverityCritical, notifier.published[0].Severity)
}
