package sensors

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
)

// ingestBatch validates and stores a batch of readings for one device.
// Unknown devices are rejected wholesale; malformed entries are skipped
// per entry and never abort the batch. Returns the count actually stored.
func (s *Sensors) ingestBatch(deviceID string, entries []models.ReadingInput) (int, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSensorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryIngest),
	)

	if _, err := s.Registry.Get(deviceID); err != nil {
		if err == ErrDeviceNotFound {
			logger.Warn("Received data from unregistered device", zap.String("device_id", deviceID))
			return 0, ErrDeviceNotRegistered
		}
		return 0, err
	}

	if err := s.Registry.Touch(deviceID); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	stored := 0
	for _, entry := range entries {
		value, ok := parseNumeric(entry.Value)
		if entry.Type == "" || entry.Unit == "" || !ok {
			logger.Warn("Skipping malformed reading",
				zap.String("device_id", deviceID),
				zap.Reflect("entry", entry))
			if s.Metrics != nil {
				s.Metrics.ReadingsRejected.Inc()
			}
			continue
		}

		reading := models.SensorReading{
			DeviceID:   deviceID,
			SensorType: entry.Type,
			Value:      value,
			Unit:       entry.Unit,
			Quality:    parseQuality(entry.Quality),
			Timestamp:  parseTimestamp(entry.Timestamp, now),
		}

		if err := s.Readings.Append(&reading); err != nil {
			// store unreachable is a batch-level failure
			return stored, err
		}
		stored++

		if s.Metrics != nil {
			s.Metrics.ReadingsStored.Inc()
		}
		if s.Cache != nil {
			// an out-of-order entry must not regress the cached latest
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			cached, err := s.Cache.GetLatest(ctx, deviceID, reading.SensorType)
			if err != nil {
				logger.Warn("Failed to read cached reading", zap.Error(err))
			}
			if cached == nil || !cached.Timestamp.After(reading.Timestamp) {
				if err := s.Cache.SetLatest(ctx, &reading); err != nil {
					logger.Warn("Failed to cache reading", zap.Error(err))
				}
			}
			cancel()
		}
	}

	logger.Info("Stored readings from device",
		zap.String("device_id", deviceID),
		zap.Int("stored", stored),
		zap.Int("submitted", len(entries)))

	// Fleet-wide pass, O(fleet size) per ingest. A thresholds bug must
	// never block data capture.
	if err := s.Evaluator.EvaluateAll(); err != nil {
		logger.Error("Threshold evaluation failed", zap.Error(err))
	}

	return stored, nil
}

func parseNumeric(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(value, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func parseQuality(q string) models.ReadingQuality {
	switch models.ReadingQuality(q) {
	case models.QualityPoor:
		return models.QualityPoor
	case models.QualityError:
		return models.QualityError
	default:
		return models.QualityGood
	}
}

// parseTimestamp falls back to ingestion time on absent or unparseable
// client timestamps.
func parseTimestamp(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return fallback
}

type IIngestImpl struct {
	sensors *Sensors
}

func (ii *IIngestImpl) IngestBatch(deviceID string, entries []models.ReadingInput) (int, error) {
	return ii.sensors.ingestBatch(deviceID, entries)
}

func (s *Sensors) GetIIngest() IIngest {
	return &IIngestImpl{sensors: s}
}
