package assist

import (
	"fmt"
	"strings"
)

type valueKind int

const (
	kindBool valueKind = iota
	kindNumber
	kindInteger
	kindEnum
)

type propertyRule struct {
	kind     valueKind
	min, max float64
	values   []string
}

// propertyRules bounds every writable property per device type.
// Read-only properties (current_temperature, charge_level) are absent
// on purpose; writing them is an error.
var propertyRules = map[string]map[string]propertyRule{
	"light": {
		"power":      {kind: kindBool},
		"brightness": {kind: kindNumber, min: 0, max: 100},
	},
	"thermostat": {
		"power":              {kind: kindBool},
		"target_temperature": {kind: kindNumber, min: 10, max: 35},
		"mode":               {kind: kindEnum, values: []string{"heat", "cool", "auto", "off"}},
	},
	"jacuzzi": {
		"power":       {kind: kindBool},
		"temperature": {kind: kindNumber, min: 20, max: 40},
		"timer":       {kind: kindNumber, min: 0, max: 120},
	},
	"powerwall": {
		"power":         {kind: kindBool},
		"charging_mode": {kind: kindEnum, values: []string{"auto", "charge", "discharge", "standby"}},
	},
	"recuperation": {
		"power":     {kind: kindBool},
		"fan_speed": {kind: kindInteger, min: 1, max: 5},
		"mode":      {kind: kindEnum, values: []string{"auto", "manual", "eco", "boost"}},
	},
}

func validateDeviceProperty(deviceType, property string, value any) error {
	rules, ok := propertyRules[deviceType]
	if !ok {
		return fmt.Errorf("unknown device type: %s", deviceType)
	}
	rule, ok := rules[property]
	if !ok {
		return fmt.Errorf("unknown property %s for %s", property, deviceType)
	}

	switch rule.kind {
	case kindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("invalid type for %s, expected boolean", property)
		}
	case kindNumber, kindInteger:
		number, ok := asFloat(value)
		if !ok {
			return fmt.Errorf("invalid type for %s, expected number", property)
		}
		if rule.kind == kindInteger && number != float64(int64(number)) {
			return fmt.Errorf("invalid type for %s, expected integer", property)
		}
		if number < rule.min {
			return fmt.Errorf("%s must be >= %g", property, rule.min)
		}
		if number > rule.max {
			return fmt.Errorf("%s must be <= %g", property, rule.max)
		}
	case kindEnum:
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid type for %s, expected string", property)
		}
		for _, allowed := range rule.values {
			if text == allowed {
				return nil
			}
		}
		return fmt.Errorf("%s must be one of: %s", property, strings.Join(rule.values, ", "))
	}
	return nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
