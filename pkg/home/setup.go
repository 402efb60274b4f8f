package home

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"casakit.xyz/smarthome-service/pkg/models"
)

// ExportedConfig is the portable snapshot of the control plane: every
// device, every room, and the folded latest state per device.
type ExportedConfig struct {
	Version      string                    `json:"version"`
	ExportedAt   string                    `json:"exported_at"`
	Devices      []map[string]any          `json:"devices"`
	Rooms        []models.Room             `json:"rooms"`
	DeviceStates map[string]map[string]any `json:"device_states"`
}

type ImportSummary struct {
	ImportedDevices int      `json:"imported_devices"`
	ImportedRooms   int      `json:"imported_rooms"`
	Errors          []string `json:"errors"`
}

func deviceView(device *models.HomeDevice) map[string]any {
	return map[string]any{
		"id":            device.ID,
		"name":          device.Name,
		"device_type":   device.DeviceType,
		"category":      device.Category,
		"room":          device.Room,
		"icon":          device.Icon,
		"enabled":       device.Enabled,
		"configuration": device.ConfigMap(),
	}
}

// ExportConfig snapshots all devices (including disabled ones), rooms
// and latest states.
func (h *Home) ExportConfig() (*ExportedConfig, error) {
	var devices []models.HomeDevice
	if err := h.Db.Conn.Order("id asc").Find(&devices).Error; err != nil {
		return nil, err
	}

	rooms, err := h.ListRooms()
	if err != nil {
		return nil, err
	}

	deviceStates := map[string]map[string]any{}
	views := make([]map[string]any, 0, len(devices))
	for i := range devices {
		device := &devices[i]
		views = append(views, deviceView(device))

		_, latest, err := h.Status(device.ID)
		if err != nil {
			return nil, err
		}
		states := map[string]any{}
		for name, status := range latest {
			states[name] = status.Value
		}
		deviceStates[device.ID] = states
	}

	return &ExportedConfig{
		Version:      "1.0",
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		Devices:      views,
		Rooms:        rooms,
		DeviceStates: deviceStates,
	}, nil
}

type ImportDevice struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	DeviceType    string         `json:"device_type"`
	Category      string         `json:"category"`
	Room          string         `json:"room"`
	Icon          string         `json:"icon"`
	Enabled       *bool          `json:"enabled"`
	Configuration map[string]any `json:"configuration"`
}

type ImportConfigInput struct {
	Devices      []ImportDevice            `json:"devices"`
	Rooms        []models.Room             `json:"rooms"`
	DeviceStates map[string]map[string]any `json:"device_states"`
}

// ImportConfig merges a snapshot in. Existing ids are skipped, never
// overwritten; per-item failures collect into the summary.
func (h *Home) ImportConfig(input *ImportConfigInput) (*ImportSummary, error) {
	summary := &ImportSummary{Errors: []string{}}

	for _, room := range input.Rooms {
		var existing models.Room
		if err := h.Db.Conn.First(&existing, "id = ?", room.ID).Error; err == nil {
			continue
		}
		if room.Icon == "" {
			room.Icon = "home"
		}
		if err := h.Db.Conn.Create(&room).Error; err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Room %s: %v", room.ID, err))
			continue
		}
		summary.ImportedRooms++
	}

	for _, imported := range input.Devices {
		var existing models.HomeDevice
		if err := h.Db.Conn.First(&existing, "id = ?", imported.ID).Error; err == nil {
			continue
		}

		enabled := true
		if imported.Enabled != nil {
			enabled = *imported.Enabled
		}
		device := models.HomeDevice{
			ID:         imported.ID,
			Name:       imported.Name,
			DeviceType: imported.DeviceType,
			Category:   imported.Category,
			Room:       imported.Room,
			Icon:       imported.Icon,
			Enabled:    enabled,
		}
		device.SetConfigMap(imported.Configuration)
		device.SetStateMap(input.DeviceStates[imported.ID])

		if err := h.Db.Conn.Create(&device).Error; err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Device %s: %v", imported.ID, err))
			continue
		}
		summary.ImportedDevices++

		for name, value := range input.DeviceStates[imported.ID] {
			state := models.DeviceState{
				HomeDeviceID: imported.ID,
				PropertyName: name,
				Timestamp:    time.Now().UTC(),
			}
			if err := state.SetValue(value); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("Device %s: %v", imported.ID, err))
				continue
			}
			if err := h.Db.Conn.Create(&state).Error; err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("Device %s: %v", imported.ID, err))
			}
		}
	}

	return summary, nil
}

type defaultDevice struct {
	device       models.HomeDevice
	config       map[string]any
	initialState map[string]any
}

// ResetConfig wipes the control plane and reinstates the stock five-room
// five-device setup.
func (h *Home) ResetConfig() error {
	return h.Db.Conn.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.DeviceState{}, &models.HomeDevice{}, &models.Room{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		for _, room := range defaultRooms() {
			room := room
			if err := tx.Create(&room).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		for _, dd := range defaultDevices() {
			device := dd.device
			device.SetConfigMap(dd.config)
			device.SetStateMap(dd.initialState)
			if err := tx.Create(&device).Error; err != nil {
				return err
			}
			for name, value := range dd.initialState {
				state := models.DeviceState{
					HomeDeviceID: device.ID,
					PropertyName: name,
					Timestamp:    now,
				}
				if err := state.SetValue(value); err != nil {
					return err
				}
				if err := tx.Create(&state).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func defaultRooms() []models.Room {
	return []models.Room{
		{ID: "living_room", Name: "Living Room", Icon: "living"},
		{ID: "bedroom", Name: "Bedroom", Icon: "bed"},
		{ID: "bathroom", Name: "Bathroom", Icon: "bathroom"},
		{ID: "kitchen", Name: "Kitchen", Icon: "kitchen"},
		{ID: "outdoor", Name: "Outdoor", Icon: "outdoor"},
	}
}

func defaultDevices() []defaultDevice {
	return []defaultDevice{
		{
			device: models.HomeDevice{
				ID: "living_room_light", Name: "Living Room Light",
				DeviceType: "light", Category: "lighting",
				Room: "living_room", Icon: "lightbulb", Enabled: true,
			},
			config: map[string]any{
				"capabilities": map[string]any{"power": true, "brightness": true},
				"controls": []map[string]any{
					{"type": "toggle", "property": "power", "label": "Power"},
					{"type": "slider", "property": "brightness", "label": "Brightness",
						"min": 0, "max": 100, "unit": "%"},
				},
			},
			initialState: map[string]any{"power": false, "brightness": 50},
		},
		{
			device: models.HomeDevice{
				ID: "outdoor_jacuzzi", Name: "Outdoor Jacuzzi",
				DeviceType: "jacuzzi", Category: "climate",
				Room: "outdoor", Icon: "hot_tub", Enabled: true,
			},
			config: map[string]any{
				"capabilities": map[string]any{"power": true, "temperature": true, "timer": true},
				"controls": []map[string]any{
					{"type": "toggle", "property": "power", "label": "Power"},
					{"type": "slider", "property": "temperature", "label": "Temperature",
						"min": 20, "max": 40, "unit": "°C"},
					{"type": "slider", "property": "timer", "label": "Timer",
						"min": 0, "max": 120, "unit": "min"},
				},
			},
			initialState: map[string]any{"power": false, "temperature": 37, "timer": 0},
		},
		{
			device: models.HomeDevice{
				ID: "house_powerwall", Name: "House Powerwall",
				DeviceType: "powerwall", Category: "energy",
				Room: "outdoor", Icon: "battery_charging_full", Enabled: true,
			},
			config: map[string]any{
				"capabilities": map[string]any{"power": true, "charge_level": true, "charging_mode": true},
				"controls": []map[string]any{
					{"type": "toggle", "property": "power", "label": "Power"},
					{"type": "dropdown", "property": "charging_mode", "label": "Mode",
						"options": []string{"auto", "charge", "discharge", "standby"}},
				},
			},
			initialState: map[string]any{"power": true, "charge_level": 85, "charging_mode": "auto"},
		},
		{
			device: models.HomeDevice{
				ID: "house_recuperation", Name: "House Recuperation",
				DeviceType: "recuperation", Category: "ventilation",
				Room: "living_room", Icon: "air", Enabled: true,
			},
			config: map[string]any{
				"capabilities": map[string]any{"power": true, "fan_speed": true, "mode": true},
				"controls": []map[string]any{
					{"type": "toggle", "property": "power", "label": "Power"},
					{"type": "slider", "property": "fan_speed", "label": "Fan Speed", "min": 1, "max": 5},
					{"type": "dropdown", "property": "mode", "label": "Mode",
						"options": []string{"auto", "manual", "eco", "boost"}},
				},
			},
			initialState: map[string]any{"power": true, "fan_speed": 2, "mode": "auto"},
		},
		{
			device: models.HomeDevice{
				ID: "living_room_thermostat", Name: "Living Room Thermostat",
				DeviceType: "thermostat", Category: "climate",
				Room: "living_room", Icon: "thermostat", Enabled: true,
			},
			config: map[string]any{
				"capabilities": map[string]any{
					"power": true, "target_temperature": true, "current_temperature": true,
					"mode": true, "fan_mode": true, "schedule": true, "humidity": true,
					"eco_mode": true,
				},
				"controls": []map[string]any{
					{"type": "toggle", "property": "power", "label": "Power"},
					{"type": "temperature", "property": "target_temperature", "label": "Target Temperature",
						"min": 10, "max": 35, "step": 0.5, "unit": "°C"},
					{"type": "dropdown", "property": "mode", "label": "Mode",
						"options": []string{"heat", "cool", "auto", "off", "fan_only"}},
					{"type": "dropdown", "property": "fan_mode", "label": "Fan Mode",
						"options": []string{"auto", "on", "circulate", "eco"}},
					{"type": "toggle", "property": "eco_mode", "label": "Eco Mode"},
					{"type": "schedule", "property": "schedule", "label": "Schedule",
						"presets": []string{"home", "away", "sleep", "custom"}},
				},
				"advanced_features": map[string]any{
					"learning": true, "geofencing": true, "weather_integration": true,
					"energy_reports": true, "multi_zone": false, "voice_control": true,
				},
			},
			initialState: map[string]any{
				"power": true, "target_temperature": 22.0, "current_temperature": 21.5,
				"mode": "auto", "fan_mode": "auto", "eco_mode": false,
				"humidity": 45, "schedule": "home",
			},
		},
	}
}

// ValidationResult reports configuration problems without persisting
// anything.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateDeviceConfig checks a device payload before creation. An
// unknown room is a warning, not an error; it gets created on demand.
func (h *Home) ValidateDeviceConfig(data map[string]any) (*ValidationResult, error) {
	result := &ValidationResult{Errors: []string{}, Warnings: []string{}}

	for _, field := range []string{"name", "device_type", "category", "room"} {
		if _, ok := data[field]; !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("Missing required field: %s", field))
		}
	}

	validTypes := map[string]bool{
		"light": true, "jacuzzi": true, "powerwall": true,
		"recuperation": true, "thermostat": true, "custom": true,
	}
	if deviceType, _ := data["device_type"].(string); !validTypes[deviceType] {
		result.Errors = append(result.Errors,
			"Invalid device type. Must be one of: light, jacuzzi, powerwall, recuperation, thermostat, custom")
	}

	validCategories := map[string]bool{
		"lighting": true, "climate": true, "energy": true, "ventilation": true,
	}
	if category, _ := data["category"].(string); !validCategories[category] {
		result.Errors = append(result.Errors,
			"Invalid category. Must be one of: lighting, climate, energy, ventilation")
	}

	if roomID, ok := data["room"].(string); ok && roomID != "" {
		var room models.Room
		if err := h.Db.Conn.First(&room, "id = ?", roomID).Error; err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Room %q does not exist. It will be created automatically.", roomID))
		}
	}

	if rawConfig, ok := data["configuration"]; ok {
		config, ok := rawConfig.(map[string]any)
		if !ok {
			result.Errors = append(result.Errors, "Configuration must be a JSON object")
		} else if rawControls, ok := config["controls"]; ok {
			controls, ok := rawControls.([]any)
			if !ok {
				result.Errors = append(result.Errors, "Controls must be an array")
			} else {
				for i, rawControl := range controls {
					control, ok := rawControl.(map[string]any)
					if !ok {
						result.Errors = append(result.Errors, fmt.Sprintf("Control %d: Must be an object", i))
						continue
					}
					if _, ok := control["type"]; !ok {
						result.Errors = append(result.Errors, fmt.Sprintf("Control %d: Missing type field", i))
					}
					if _, ok := control["property"]; !ok {
						result.Errors = append(result.Errors, fmt.Sprintf("Control %d: Missing property field", i))
					}
				}
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}
