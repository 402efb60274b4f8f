package sensors

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
)

func newTemperatureAlert(deviceID string, current, threshold float64, high bool) models.SensorAlert {
	alertType := models.AlertTemperatureLow
	comparison := "below"
	if high {
		alertType = models.AlertTemperatureHigh
		comparison = "above"
	}

	severity := models.SeverityWarning
	if math.Abs(current-threshold) > 5 {
		severity = models.SeverityCritical
	}

	return models.SensorAlert{
		DeviceID:       deviceID,
		AlertType:      alertType,
		ThresholdValue: &threshold,
		CurrentValue:   &current,
		Severity:       severity,
		Message:        fmt.Sprintf("Temperature %s threshold: %.1f°C (threshold: %.1f°C)", comparison, current, threshold),
		IsActive:       true,
	}
}

func newHumidityAlert(deviceID string, current, threshold float64, high bool) models.SensorAlert {
	alertType := models.AlertHumidityLow
	comparison := "below"
	if high {
		alertType = models.AlertHumidityHigh
		comparison = "above"
	}

	return models.SensorAlert{
		DeviceID:       deviceID,
		AlertType:      alertType,
		ThresholdValue: &threshold,
		CurrentValue:   &current,
		Severity:       models.SeverityWarning,
		Message:        fmt.Sprintf("Humidity %s threshold: %.1f%% (threshold: %.1f%%)", comparison, current, threshold),
		IsActive:       true,
	}
}

func newDeviceOfflineAlert(deviceID string) models.SensorAlert {
	return models.SensorAlert{
		DeviceID:  deviceID,
		AlertType: models.AlertDeviceOffline,
		Severity:  models.SeverityCritical,
		Message:   fmt.Sprintf("Device %s is offline and not responding", deviceID),
		IsActive:  true,
	}
}

// createAlert always inserts a new row. Active alerts of the same kind are
// never merged; only the offline transition is deduped, and that happens
// in the evaluator via the per-device latch.
func (s *Sensors) createAlert(alert *models.SensorAlert) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSensorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryAlert),
	)

	if err := s.Db.Conn.Create(alert).Error; err != nil {
		return err
	}

	logger.Info("Alert saved", zap.Reflect("alert", alert))
	s.afterAlertCreated(alert)
	return nil
}

// afterAlertCreated handles the best-effort side channels: prometheus
// counters and the optional notifier.
func (s *Sensors) afterAlertCreated(alert *models.SensorAlert) {
	if s.Metrics != nil {
		s.Metrics.AlertsCreated.WithLabelValues(string(alert.AlertType)).Inc()
	}
	if s.Notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Notifier.PublishAlert(ctx, alert); err != nil {
			common.GetLogger().Warn("Failed to publish alert", zap.Error(err))
		}
	}
}

// acknowledgeAlert is idempotent: a second call returns the alert
// unchanged, acknowledged_at keeps its first value.
func (s *Sensors) acknowledgeAlert(alertID uint) (*models.SensorAlert, error) {
	var alert models.SensorAlert
	err := s.Db.Conn.First(&alert, alertID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, err
	}

	if alert.Acknowledged {
		return &alert, nil
	}

	now := time.Now().UTC()
	alert.Acknowledged = true
	alert.AcknowledgedAt = &now
	if err := s.Db.Conn.Save(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// listAlerts returns alerts newest first. A non-positive limit means no
// limit.
func (s *Sensors) listAlerts(activeOnly bool, limit int) ([]models.SensorAlert, error) {
	query := s.Db.Conn.Model(&models.SensorAlert{})
	if activeOnly {
		query = query.Where("is_active = ? AND acknowledged = ?", true, false)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var alerts []models.SensorAlert
	err := query.Order("created_at desc, id desc").Find(&alerts).Error
	return alerts, err
}

func (s *Sensors) recentAlertsForDevice(deviceID string, limit int) ([]models.SensorAlert, error) {
	var alerts []models.SensorAlert
	err := s.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

type IAlertsImpl struct {
	sensors *Sensors
}

func (ia *IAlertsImpl) Create(alert *models.SensorAlert) error {
	return ia.sensors.createAlert(alert)
}

func (ia *IAlertsImpl) Acknowledge(alertID uint) (*models.SensorAlert, error) {
	return ia.sensors.acknowledgeAlert(alertID)
}

func (ia *IAlertsImpl) List(activeOnly bool, limit int) ([]models.SensorAlert, error) {
	return ia.sensors.listAlerts(activeOnly, limit)
}

func (ia *IAlertsImpl) RecentForDevice(deviceID string, limit int) ([]models.SensorAlert, error) {
	return ia.sensors.recentAlertsForDevice(deviceID, limit)
}

func (s *Sensors) GetIAlerts() IAlerts {
	return &IAlertsImpl{sensors: s}
}
