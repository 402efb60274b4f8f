package sensors

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"casakit.xyz/smarthome-service/pkg/models"
)

func (s *Sensors) appendReading(reading *models.SensorReading) error {
	return s.Db.Conn.Create(reading).Error
}

// latestReading returns the reading with the maximum timestamp for the
// pair, breaking timestamp ties by insertion order (higher id wins).
// Returns nil when no reading exists.
func (s *Sensors) latestReading(deviceID, sensorType string) (*models.SensorReading, error) {
	var reading models.SensorReading
	err := s.Db.Conn.
		Where("device_id = ? AND sensor_type = ?", deviceID, sensorType).
		Order("timestamp desc, id desc").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

// rangeReadings returns readings since the cutoff, ascending by timestamp.
// Readings arrive out of order, so the sort is always explicit.
func (s *Sensors) rangeReadings(deviceID, sensorType string, since time.Time) ([]models.SensorReading, error) {
	var readings []models.SensorReading
	err := s.Db.Conn.
		Where("device_id = ? AND sensor_type = ? AND timestamp >= ?", deviceID, sensorType, since).
		Order("timestamp asc, id asc").
		Find(&readings).Error
	return readings, err
}

// pruneReadings unconditionally deletes everything older than the cutoff.
func (s *Sensors) pruneReadings(olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	result := s.Db.Conn.
		Where("timestamp < ?", cutoff).
		Delete(&models.SensorReading{})
	return result.RowsAffected, result.Error
}

type IReadingsImpl struct {
	sensors *Sensors
}

func (ir *IReadingsImpl) Append(reading *models.SensorReading) error {
	return ir.sensors.appendReading(reading)
}

func (ir *IReadingsImpl) Latest(deviceID, sensorType string) (*models.SensorReading, error) {
	return ir.sensors.latestReading(deviceID, sensorType)
}

func (ir *IReadingsImpl) Range(deviceID, sensorType string, since time.Time) ([]models.SensorReading, error) {
	return ir.sensors.rangeReadings(deviceID, sensorType, since)
}

func (ir *IReadingsImpl) Prune(olderThanDays int) (int64, error) {
	return ir.sensors.pruneReadings(olderThanDays)
}

func (s *Sensors) GetIReadings() IReadings {
	return &IReadingsImpl{sensors: s}
}
