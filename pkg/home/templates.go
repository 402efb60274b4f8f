package home

// DeviceTemplates describes the device kinds the frontend can offer at
// creation time. Static; custom devices skip the template entirely.
func DeviceTemplates() map[string]map[string]any {
	return map[string]map[string]any{
		"light": {
			"name":     "Smart Light",
			"icon":     "lightbulb",
			"category": "lighting",
			"capabilities": map[string]any{
				"power": true, "brightness": true, "color": false, "temperature": false,
			},
			"controls": []map[string]any{
				{"type": "toggle", "property": "power", "label": "Power"},
				{"type": "slider", "property": "brightness", "label": "Brightness",
					"min": 0, "max": 100, "step": 1, "unit": "%"},
			},
		},
		"jacuzzi": {
			"name":     "Jacuzzi/Spa",
			"icon":     "hot_tub",
			"category": "climate",
			"capabilities": map[string]any{
				"power": true, "temperature": true, "timer": true, "jets": true,
			},
			"controls": []map[string]any{
				{"type": "toggle", "property": "power", "label": "Power"},
				{"type": "slider", "property": "temperature", "label": "Temperature",
					"min": 20, "max": 40, "step": 0.5, "unit": "°C"},
				{"type": "slider", "property": "timer", "label": "Timer",
					"min": 0, "max": 120, "step": 5, "unit": "min"},
			},
		},
		"powerwall": {
			"name":     "Powerwall Battery",
			"icon":     "battery_charging_full",
			"category": "energy",
			"capabilities": map[string]any{
				"power": true, "charge_level": true, "charging_mode": true,
			},
			"controls": []map[string]any{
				{"type": "toggle", "property": "power", "label": "Power"},
				{"type": "dropdown", "property": "charging_mode", "label": "Charging Mode",
					"options": []string{"auto", "charge", "discharge", "standby"}},
			},
		},
		"recuperation": {
			"name":     "Recuperation System",
			"icon":     "air",
			"category": "ventilation",
			"capabilities": map[string]any{
				"power": true, "fan_speed": true, "mode": true, "air_quality": true,
			},
			"controls": []map[string]any{
				{"type": "toggle", "property": "power", "label": "Power"},
				{"type": "slider", "property": "fan_speed", "label": "Fan Speed",
					"min": 1, "max": 5, "step": 1},
				{"type": "dropdown", "property": "mode", "label": "Mode",
					"options": []string{"auto", "manual", "eco", "boost"}},
			},
		},
		"thermostat": {
			"name":     "Smart Thermostat",
			"icon":     "thermostat",
			"category": "climate",
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
				"energy_reports": true, "multi_zone": true, "voice_control": true,
			},
		},
	}
}
