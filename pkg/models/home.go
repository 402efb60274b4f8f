package models

import (
	"encoding/json"
	"time"
)

// HomeDevice is a controllable appliance (light, thermostat, jacuzzi,
// powerwall, recuperation, custom). Distinct from SensorDevice: these are
// actuated, not reporting.
type HomeDevice struct {
	ID            string `gorm:"primaryKey;size:50"`
	Name          string `gorm:"size:100"`
	DeviceType    string `gorm:"size:50"`
	Category      string `gorm:"size:50"`
	Room          string `gorm:"size:50"`
	Icon          string `gorm:"size:50"`
	// No store-side default: CreateDevice and ImportConfig decide the
	// enabled flag, so an explicit false must land as false.
	Enabled       bool
	Configuration string `gorm:"type:text"`
	CurrentState  string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (d *HomeDevice) ConfigMap() map[string]any {
	return decodeJSONMap(d.Configuration)
}

func (d *HomeDevice) SetConfigMap(cfg map[string]any) {
	d.Configuration = encodeJSONMap(cfg)
}

func (d *HomeDevice) StateMap() map[string]any {
	return decodeJSONMap(d.CurrentState)
}

func (d *HomeDevice) SetStateMap(state map[string]any) {
	d.CurrentState = encodeJSONMap(state)
}

// DeviceState is one append-only property change of a HomeDevice. The
// value column holds the JSON encoding of the property value.
type DeviceState struct {
	ID           uint   `gorm:"primaryKey"`
	HomeDeviceID string `gorm:"size:50;index;column:device_id"`
	PropertyName string `gorm:"size:50"`
	Value        string `gorm:"type:text"`
	Timestamp    time.Time
}

func (s *DeviceState) GetValue() any {
	var v any
	if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
		return s.Value
	}
	return v
}

func (s *DeviceState) SetValue(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Value = string(raw)
	return nil
}

type Room struct {
	ID          string `gorm:"primaryKey;size:50"`
	Name        string `gorm:"size:100"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"size:50;default:home"`
	CreatedAt   time.Time
}

func decodeJSONMap(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return map[string]any{}
	}
	return m
}

func encodeJSONMap(m map[string]any) string {
	if m == nil {
		m = map[string]any{}
	}
	raw, _ := json.Marshal(m)
	return string(raw)
}
