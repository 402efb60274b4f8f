package sensors

import (
	"context"
	"errors"
	"time"

	"casakit.xyz/smarthome-service/pkg/db"
	"casakit.xyz/smarthome-service/pkg/metrics"
	"casakit.xyz/smarthome-service/pkg/models"
)

var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceNotRegistered = errors.New("device not registered")
	ErrAlertNotFound       = errors.New("alert not found")
)

type IRegistry interface {
	RegisterOrUpdate(input *models.RegisterInput) (*models.SensorDevice, error)
	Touch(deviceID string) error
	Get(deviceID string) (*models.SensorDevice, error)
	List() ([]models.SensorDevice, error)
	RefreshStatuses() ([]models.SensorDevice, error)
	UpdateConfig(deviceID string, cfg models.SensorDeviceConfig) (*models.SensorDevice, error)
}

type IReadings interface {
	Append(reading *models.SensorReading) error
	Latest(deviceID, sensorType string) (*models.SensorReading, error)
	Range(deviceID, sensorType string, since time.Time) ([]models.SensorReading, error)
	Prune(olderThanDays int) (int64, error)
}

type IAlerts interface {
	Create(alert *models.SensorAlert) error
	Acknowledge(alertID uint) (*models.SensorAlert, error)
	List(activeOnly bool, limit int) ([]models.SensorAlert, error)
	RecentForDevice(deviceID string, limit int) ([]models.SensorAlert, error)
}

type IIngest interface {
	IngestBatch(deviceID string, entries []models.ReadingInput) (int, error)
}

type IEvaluator interface {
	EvaluateAll() error
}

// AlertNotifier forwards created alerts to an external channel. Optional;
// failures are logged and never surface to callers.
type AlertNotifier interface {
	PublishAlert(ctx context.Context, alert *models.SensorAlert) error
}

// ReadingCache keeps the latest reading per (device, type) close to the
// summary read path. Optional; always backed by the store.
type ReadingCache interface {
	SetLatest(ctx context.Context, reading *models.SensorReading) error
	GetLatest(ctx context.Context, deviceID, sensorType string) (*models.SensorReading, error)
}

type Sensors struct {
	Db        db.DB
	Registry  IRegistry
	Readings  IReadings
	Alerts    IAlerts
	Ingest    IIngest
	Evaluator IEvaluator

	Notifier AlertNotifier
	Cache    ReadingCache
	Metrics  *metrics.Metrics
}

type ServiceOpts struct {
	Registry  IRegistry
	Readings  IReadings
	Alerts    IAlerts
	Ingest    IIngest
	Evaluator IEvaluator
}

func (s *Sensors) WithServices(opts ServiceOpts) *Sensors {
	if opts.Registry != nil {
		s.Registry = opts.Registry
	}
	if opts.Readings != nil {
		s.Readings = opts.Readings
	}
	if opts.Alerts != nil {
		s.Alerts = opts.Alerts
	}
	if opts.Ingest != nil {
		s.Ingest = opts.Ingest
	}
	if opts.Evaluator != nil {
		s.Evaluator = opts.Evaluator
	}
	return s
}
