package sensors

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
)

func (s *Sensors) registerOrUpdate(input *models.RegisterInput) (*models.SensorDevice, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSensorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRegistry),
	)

	now := time.Now().UTC()

	var device models.SensorDevice
	err := s.Db.Conn.First(&device, "device_id = ?", input.DeviceID).Error
	switch {
	case err == nil:
		device.Name = input.Name
		device.Location = input.Location
		if input.DeviceType != "" {
			device.DeviceType = input.DeviceType
		}
		device.IPAddress = input.IPAddress
		if input.MACAddress != "" {
			device.MACAddress = input.MACAddress
		}
		if input.FirmwareVersion != "" {
			device.FirmwareVersion = input.FirmwareVersion
		}
		if input.Configuration != nil {
			if err := device.SetConfig(*input.Configuration); err != nil {
				return nil, err
			}
		}
		device.LastSeen = &now
		device.Status = models.DeviceStatusOnline
		device.OfflineAlerted = false

		if err := s.Db.Conn.Save(&device).Error; err != nil {
			return nil, err
		}
		logger.Info("Updated sensor device", zap.String("device_id", device.DeviceID))

	case errors.Is(err, gorm.ErrRecordNotFound):
		device = models.SensorDevice{
			DeviceID:        input.DeviceID,
			Name:            input.Name,
			Location:        input.Location,
			DeviceType:      input.DeviceType,
			IPAddress:       input.IPAddress,
			MACAddress:      input.MACAddress,
			FirmwareVersion: input.FirmwareVersion,
			LastSeen:        &now,
			Status:          models.DeviceStatusOnline,
		}
		if device.DeviceType == "" {
			device.DeviceType = "esp32_dht22"
		}
		if input.Configuration != nil {
			if err := device.SetConfig(*input.Configuration); err != nil {
				return nil, err
			}
		}
		if err := s.Db.Conn.Create(&device).Error; err != nil {
			return nil, err
		}
		logger.Info("Registered new sensor device", zap.String("device_id", device.DeviceID))

	default:
		return nil, err
	}

	return &device, nil
}

// touch refreshes liveness. Unknown device ids are a silent no-op: the
// ingestion path checks existence first, and last-write-wins races between
// concurrent touches of the same device are accepted.
func (s *Sensors) touch(deviceID string) error {
	now := time.Now().UTC()
	return s.Db.Conn.Model(&models.SensorDevice{}).
		Where("device_id = ?", deviceID).
		Updates(map[string]any{
			"last_seen":       now,
			"status":          models.DeviceStatusOnline,
			"offline_alerted": false,
		}).Error
}

func (s *Sensors) get(deviceID string) (*models.SensorDevice, error) {
	var device models.SensorDevice
	err := s.Db.Conn.First(&device, "device_id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *Sensors) list() ([]models.SensorDevice, error) {
	var devices []models.SensorDevice
	err := s.Db.Conn.Order("device_id asc").Find(&devices).Error
	return devices, err
}

// refreshStatuses recomputes the display status column for the whole
// fleet. The column is cosmetic; alerting never reads it.
func (s *Sensors) refreshStatuses() ([]models.SensorDevice, error) {
	devices, err := s.list()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i := range devices {
		device := &devices[i]
		status := models.DeviceStatusOffline
		if device.IsOnlineAt(now) {
			status = models.DeviceStatusOnline
		}
		if device.Status == status {
			continue
		}
		device.Status = status
		if err := s.Db.Conn.Model(device).Update("status", status).Error; err != nil {
			return nil, err
		}
	}
	return devices, nil
}

func (s *Sensors) updateConfig(deviceID string, cfg models.SensorDeviceConfig) (*models.SensorDevice, error) {
	device, err := s.get(deviceID)
	if err != nil {
		return nil, err
	}
	if err := device.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err := s.Db.Conn.Save(device).Error; err != nil {
		return nil, err
	}
	return device, nil
}

type IRegistryImpl struct {
	sensors *Sensors
}

func (ir *IRegistryImpl) RegisterOrUpdate(input *models.RegisterInput) (*models.SensorDevice, error) {
	return ir.sensors.registerOrUpdate(input)
}

func (ir *IRegistryImpl) Touch(deviceID string) error {
	return ir.sensors.touch(deviceID)
}

func (ir *IRegistryImpl) Get(deviceID string) (*models.SensorDevice, error) {
	return ir.sensors.get(deviceID)
}

func (ir *IRegistryImpl) List() ([]models.SensorDevice, error) {
	return ir.sensors.list()
}

func (ir *IRegistryImpl) RefreshStatuses() ([]models.SensorDevice, error) {
	return ir.sensors.refreshStatuses()
}

func (ir *IRegistryImpl) UpdateConfig(deviceID string, cfg models.SensorDeviceConfig) (*models.SensorDevice, error) {
	return ir.sensors.updateConfig(deviceID, cfg)
}

func (s *Sensors) GetIRegistry() IRegistry {
	return &IRegistryImpl{sensors: s}
}
