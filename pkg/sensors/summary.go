package sensors

import (
	"context"
	"time"

	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
)

type DeviceLatest struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Location    string   `json:"location"`
}

type FleetSummary struct {
	TotalDevices   int                     `json:"total_devices"`
	OnlineDevices  int                     `json:"online_devices"`
	OfflineDevices int                     `json:"offline_devices"`
	LatestReadings map[string]DeviceLatest `json:"latest_readings"`
	ActiveAlerts   int                     `json:"active_alerts"`
	CriticalAlerts int                     `json:"critical_alerts"`
}

// FleetSummary assembles the dashboard view: fleet counts, the latest
// temperature/humidity per device, and active alert counts.
func (s *Sensors) FleetSummary(ctx context.Context) (*FleetSummary, error) {
	devices, err := s.Registry.List()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	onlineCount := common.Reducer(devices, func(acc int, d models.SensorDevice) int {
		if d.IsOnlineAt(now) {
			return acc + 1
		}
		return acc
	}, 0)

	latest := map[string]DeviceLatest{}
	for i := range devices {
		device := &devices[i]
		temperature, err := s.latestValue(ctx, device.DeviceID, "temperature")
		if err != nil {
			return nil, err
		}
		humidity, err := s.latestValue(ctx, device.DeviceID, "humidity")
		if err != nil {
			return nil, err
		}
		if temperature == nil && humidity == nil {
			continue
		}
		latest[device.DeviceID] = DeviceLatest{
			Temperature: temperature,
			Humidity:    humidity,
			Location:    device.Location,
		}
	}

	alerts, err := s.Alerts.List(true, 0)
	if err != nil {
		return nil, err
	}
	criticalCount := common.Reducer(alerts, func(acc int, a models.SensorAlert) int {
		if a.Severity == models.SeverityCritical {
			return acc + 1
		}
		return acc
	}, 0)

	return &FleetSummary{
		TotalDevices:   len(devices),
		OnlineDevices:  onlineCount,
		OfflineDevices: len(devices) - onlineCount,
		LatestReadings: latest,
		ActiveAlerts:   len(alerts),
		CriticalAlerts: criticalCount,
	}, nil
}

// latestValue consults the optional cache before the store.
func (s *Sensors) latestValue(ctx context.Context, deviceID, sensorType string) (*float64, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.GetLatest(ctx, deviceID, sensorType); err == nil && cached != nil {
			return &cached.Value, nil
		}
	}
	reading, err := s.Readings.Latest(deviceID, sensorType)
	if err != nil {
		return nil, err
	}
	if reading == nil {
		return nil, nil
	}
	return &reading.Value, nil
}
