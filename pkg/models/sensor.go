package models

import (
	"encoding/json"
	"time"
)

// OnlineWindow is how long a device may stay silent before it is
// considered offline. Exactly OnlineWindow of silence is offline.
const OnlineWindow = 300 * time.Second

type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
)

type ReadingQuality string

const (
	QualityGood  ReadingQuality = "good"
	QualityPoor  ReadingQuality = "poor"
	QualityError ReadingQuality = "error"
)

type AlertType string

const (
	AlertTemperatureHigh AlertType = "temperature_high"
	AlertTemperatureLow  AlertType = "temperature_low"
	AlertHumidityHigh    AlertType = "humidity_high"
	AlertHumidityLow     AlertType = "humidity_low"
	AlertDeviceOffline   AlertType = "device_offline"
)

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// Thresholds is the typed shape of the per-device alerting bounds stored
// inside the configuration blob. A nil field means "unchecked".
type Thresholds struct {
	TemperatureHigh *float64 `json:"temperature_high,omitempty"`
	TemperatureLow  *float64 `json:"temperature_low,omitempty"`
	HumidityHigh    *float64 `json:"humidity_high,omitempty"`
	HumidityLow     *float64 `json:"humidity_low,omitempty"`
}

// SensorDeviceConfig is the free-form device configuration. Only the
// thresholds section is interpreted by the backend; everything else is
// carried through for the firmware.
type SensorDeviceConfig struct {
	Thresholds      Thresholds `json:"thresholds"`
	ReportIntervalS *int       `json:"report_interval_seconds,omitempty"`
}

type SensorDevice struct {
	ID              uint   `gorm:"primaryKey"`
	DeviceID        string `gorm:"uniqueIndex;size:50"`
	Name            string `gorm:"size:100"`
	Location        string `gorm:"size:100"`
	DeviceType      string `gorm:"size:50;default:esp32_dht22"`
	IPAddress       string `gorm:"size:45"`
	MACAddress      string `gorm:"size:17"`
	FirmwareVersion string `gorm:"size:20"`
	LastSeen        *time.Time
	// Status is a lazily refreshed display value. Liveness decisions must
	// always go through IsOnlineAt, never this column.
	Status DeviceStatus `gorm:"size:20;default:offline"`
	// OfflineAlerted latches the online->offline transition so the offline
	// alert fires exactly once. Cleared whenever the device reports again.
	OfflineAlerted bool
	Configuration  string `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOnlineAt reports liveness purely from last_seen.
func (d *SensorDevice) IsOnlineAt(now time.Time) bool {
	if d.LastSeen == nil {
		return false
	}
	return now.Sub(*d.LastSeen) < OnlineWindow
}

func (d *SensorDevice) IsOnline() bool {
	return d.IsOnlineAt(time.Now().UTC())
}

// Config parses the configuration blob. An empty blob is a valid empty
// configuration.
func (d *SensorDevice) Config() (SensorDeviceConfig, error) {
	var cfg SensorDeviceConfig
	if d.Configuration == "" {
		return cfg, nil
	}
	err := json.Unmarshal([]byte(d.Configuration), &cfg)
	return cfg, err
}

func (d *SensorDevice) SetConfig(cfg SensorDeviceConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	d.Configuration = string(raw)
	return nil
}

// RegisterInput carries the caller-supplied fields of a device
// registration. MACAddress and FirmwareVersion only overwrite stored
// values when non-empty.
type RegisterInput struct {
	DeviceID        string
	Name            string
	Location        string
	DeviceType      string
	IPAddress       string
	MACAddress      string
	FirmwareVersion string
	Configuration   *SensorDeviceConfig
}

// ReadingInput is one entry of an ingestion batch, before validation.
// Value is any because firmware sends both numbers and numeric strings.
type ReadingInput struct {
	Type      string `json:"type"`
	Value     any    `json:"value"`
	Unit      string `json:"unit"`
	Quality   string `json:"quality"`
	Timestamp string `json:"timestamp"`
}

type SensorReading struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	DeviceID   string         `gorm:"size:50;index:idx_device_sensor_time,priority:1" json:"device_id"`
	SensorType string         `gorm:"size:50;index:idx_device_sensor_time,priority:2" json:"sensor_type"`
	Value      float64        `json:"value"`
	Unit       string         `gorm:"size:10" json:"unit"`
	Quality    ReadingQuality `gorm:"size:20;default:good" json:"quality"`
	Timestamp  time.Time      `gorm:"index;index:idx_device_sensor_time,priority:3" json:"timestamp"`
}

type SensorAlert struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	DeviceID       string        `gorm:"size:50;index" json:"device_id"`
	AlertType      AlertType     `gorm:"size:50" json:"alert_type"`
	ThresholdValue *float64      `json:"threshold_value"`
	CurrentValue   *float64      `json:"current_value"`
	Severity       AlertSeverity `gorm:"size:20;default:warning" json:"severity"`
	Message        string        `gorm:"type:text" json:"message"`
	IsActive       bool          `gorm:"default:true" json:"is_active"`
	Acknowledged   bool          `gorm:"default:false" json:"acknowledged"`
	CreatedAt      time.Time     `json:"created_at"`
	AcknowledgedAt *time.Time    `json:"acknowledged_at"`
}

type OTAStatus string

const (
	OTAInitiated  OTAStatus = "initiated"
	OTAInProgress OTAStatus = "in_progress"
	OTACompleted  OTAStatus = "completed"
	OTAFailed     OTAStatus = "failed"
)

type OTAUpdate struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	DeviceID        string     `gorm:"size:50;index" json:"device_id"`
	FirmwareVersion string     `gorm:"size:20" json:"firmware_version"`
	UpdateStatus    OTAStatus  `gorm:"size:20" json:"update_status"`
	Progress        int        `gorm:"default:0" json:"progress_percentage"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	ErrorMessage    string     `gorm:"type:text" json:"error_message"`
	FileSize        int64      `json:"file_size"`
	Checksum        string     `gorm:"size:64" json:"checksum"`
}
