package sensors

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
)

// evaluateAll runs one full fleet pass: threshold checks for every online
// device, then offline-transition detection for every device. All writes
// of one pass commit as a single transaction.
//
// Liveness is recomputed from last_seen for every device; the cached
// status column is never consulted. Threshold breaches are deliberately
// not deduplicated against active alerts of the same kind.
func (s *Sensors) evaluateAll() error {
	logger := common.GetLoggerWith(
		common.LoggerNameSensorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryEvaluate),
	)

	now := time.Now().UTC()
	var created []models.SensorAlert

	err := s.Db.Conn.Transaction(func(tx *gorm.DB) error {
		var devices []models.SensorDevice
		if err := tx.Find(&devices).Error; err != nil {
			return err
		}

		online := 0
		for i := range devices {
			device := &devices[i]
			if !device.IsOnlineAt(now) {
				continue
			}
			online++

			cfg, err := device.Config()
			if err != nil {
				logger.Warn("Skipping device with malformed configuration",
					zap.String("device_id", device.DeviceID), zap.Error(err))
				continue
			}

			alerts, err := evaluateDeviceThresholds(tx, device.DeviceID, cfg.Thresholds)
			if err != nil {
				return err
			}
			for _, alert := range alerts {
				alert := alert
				if err := tx.Create(&alert).Error; err != nil {
					return err
				}
				logger.Info("Alert found", zap.Reflect("alert", alert))
				created = append(created, alert)
			}
		}

		if s.Metrics != nil {
			s.Metrics.DevicesOnline.Set(float64(online))
		}

		// Offline pass covers every device. The explicit latch makes the
		// transition alert fire exactly once per online->offline edge.
		for i := range devices {
			device := &devices[i]
			if device.IsOnlineAt(now) || device.OfflineAlerted {
				continue
			}

			err := tx.Model(device).Updates(map[string]any{
				"status":          models.DeviceStatusOffline,
				"offline_alerted": true,
			}).Error
			if err != nil {
				return err
			}

			alert := newDeviceOfflineAlert(device.DeviceID)
			if err := tx.Create(&alert).Error; err != nil {
				return err
			}
			logger.Info("Device went offline", zap.String("device_id", device.DeviceID))
			created = append(created, alert)
		}

		return nil
	})
	if err != nil {
		return err
	}

	for i := range created {
		s.afterAlertCreated(&created[i])
	}
	return nil
}

// evaluateDeviceThresholds compares the latest temperature and humidity
// readings (fetched independently) against the configured bounds. A high
// breach short-circuits the low check for the same quantity.
func evaluateDeviceThresholds(tx *gorm.DB, deviceID string, th models.Thresholds) ([]models.SensorAlert, error) {
	var alerts []models.SensorAlert

	temperature, err := latestValueTx(tx, deviceID, "temperature")
	if err != nil {
		return nil, err
	}
	if temperature != nil {
		switch {
		case th.TemperatureHigh != nil && *temperature > *th.TemperatureHigh:
			alerts = append(alerts, newTemperatureAlert(deviceID, *temperature, *th.TemperatureHigh, true))
		case th.TemperatureLow != nil && *temperature < *th.TemperatureLow:
			alerts = append(alerts, newTemperatureAlert(deviceID, *temperature, *th.TemperatureLow, false))
		}
	}

	humidity, err := latestValueTx(tx, deviceID, "humidity")
	if err != nil {
		return nil, err
	}
	if humidity != nil {
		switch {
		case th.HumidityHigh != nil && *humidity > *th.HumidityHigh:
			alerts = append(alerts, newHumidityAlert(deviceID, *humidity, *th.HumidityHigh, true))
		case th.HumidityLow != nil && *humidity < *th.HumidityLow:
			alerts = append(alerts, newHumidityAlert(deviceID, *humidity, *th.HumidityLow, false))
		}
	}

	return alerts, nil
}

func latestValueTx(tx *gorm.DB, deviceID, sensorType string) (*float64, error) {
	var reading models.SensorReading
	err := tx.
		Where("device_id = ? AND sensor_type = ?", deviceID, sensorType).
		Order("timestamp desc, id desc").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading.Value, nil
}

type IEvaluatorImpl struct {
	sensors *Sensors
}

func (ie *IEvaluatorImpl) EvaluateAll() error {
	return ie.sensors.evaluateAll()
}

func (s *Sensors) GetIEvaluator() IEvaluator {
	return &IEvaluatorImpl{sensors: s}
}
