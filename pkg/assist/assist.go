package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/home"
	"casakit.xyz/smarthome-service/pkg/models"
)

const systemPrompt = `You are a smart home assistant AI. You help users control their smart home devices through natural language commands.

Available device types and their controls:
- Lights: power (on/off), brightness (0-100%)
- Thermostat: power (on/off), target_temperature (10-35°C), mode (heat/cool/auto/off), current_temperature (read-only)
- Jacuzzi: power (on/off), temperature (20-40°C), timer (0-120 minutes)
- Powerwall: power (on/off), charging_mode (auto/charge/discharge/standby), charge_level (read-only)
- Recuperation: power (on/off), fan_speed (1-5), mode (auto/manual/eco/boost)

When users ask you to control devices:
1. Parse their request and identify which devices and properties to control
2. Respond with a JSON object containing "response" (your natural language response) and "actions" (array of device control actions)
3. Each action should have: device_id, device_type, property, value, and room (if specified)

If you can't identify specific devices, ask for clarification. Always be helpful and conversational.
For status requests, provide current device information in a friendly way.`

// Service turns natural language into device control. The upstream is
// optional; without it Chat reports the assistant as unavailable.
type Service struct {
	Home     *home.Home
	Upstream *Upstream
}

func NewService(h *home.Home, upstream *Upstream) *Service {
	return &Service{Home: h, Upstream: upstream}
}

// DeviceAction is one model-proposed property change.
type DeviceAction struct {
	DeviceID   string `json:"device_id"`
	DeviceType string `json:"device_type"`
	Property   string `json:"property"`
	Value      any    `json:"value"`
	Room       string `json:"room,omitempty"`
}

// ActionResult is the outcome of executing one DeviceAction.
type ActionResult struct {
	Success    bool         `json:"success"`
	DeviceID   string       `json:"device_id,omitempty"`
	DeviceName string       `json:"device_name,omitempty"`
	Property   string       `json:"property,omitempty"`
	Value      any          `json:"value,omitempty"`
	Error      string       `json:"error,omitempty"`
	Action     DeviceAction `json:"action"`
}

type ChatResult struct {
	Response         string         `json:"response"`
	Actions          []DeviceAction `json:"actions"`
	ExecutionResults []ActionResult `json:"execution_results,omitempty"`
	Timestamp        string         `json:"timestamp"`
}

type functionArguments struct {
	Response string         `json:"response"`
	Actions  []DeviceAction `json:"actions"`
}

// Chat runs one turn: device context plus optional history goes to the
// model; a function call back means actions to validate and execute.
func (s *Service) Chat(ctx context.Context, message string, history []ChatMessage) (*ChatResult, error) {
	if s.Upstream == nil {
		return nil, fmt.Errorf("assistant is not configured")
	}
	logger := common.GetLoggerWith(common.LoggerNameAssist)

	deviceContext, err := s.devicesContext()
	if err != nil {
		return nil, err
	}
	contextJSON, _ := json.MarshalIndent(deviceContext, "", "  ")

	messages := []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "system", Content: fmt.Sprintf("Current device states: %s", contextJSON)},
	}
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	reply, err := s.Upstream.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if reply.FunctionCall == nil {
		return &ChatResult{Response: reply.Content, Actions: []DeviceAction{}, Timestamp: now}, nil
	}

	var args functionArguments
	if err := json.Unmarshal([]byte(reply.FunctionCall.Arguments), &args); err != nil {
		logger.Warn("Undecodable function call from model", zap.Error(err))
		return &ChatResult{Response: reply.Content, Actions: []DeviceAction{}, Timestamp: now}, nil
	}

	response := args.Response
	if response == "" {
		response = "I'll help you with that."
	}

	results := make([]ActionResult, 0, len(args.Actions))
	for _, action := range args.Actions {
		results = append(results, s.executeAction(action))
	}

	return &ChatResult{
		Response:         response,
		Actions:          args.Actions,
		ExecutionResults: results,
		Timestamp:        now,
	}, nil
}

// executeAction resolves the target device, validates the property
// change, and applies it through the control plane.
func (s *Service) executeAction(action DeviceAction) ActionResult {
	device, err := s.resolveDevice(action)
	if err != nil {
		return ActionResult{Success: false, Error: err.Error(), Action: action}
	}

	if err := validateDeviceProperty(action.DeviceType, action.Property, action.Value); err != nil {
		return ActionResult{Success: false, Error: err.Error(), Action: action}
	}

	if _, err := s.Home.Control(device.ID, map[string]any{action.Property: action.Value}); err != nil {
		return ActionResult{Success: false, Error: err.Error(), Action: action}
	}

	return ActionResult{
		Success:    true,
		DeviceID:   device.ID,
		DeviceName: device.Name,
		Property:   action.Property,
		Value:      action.Value,
		Action:     action,
	}
}

func (s *Service) resolveDevice(action DeviceAction) (*models.HomeDevice, error) {
	if action.DeviceID != "" {
		return s.Home.GetDevice(action.DeviceID)
	}

	devices, err := s.Home.ListDevices()
	if err != nil {
		return nil, err
	}
	for i := range devices {
		device := &devices[i]
		if device.DeviceType != action.DeviceType {
			continue
		}
		if action.Room != "" && device.Room != action.Room {
			continue
		}
		return device, nil
	}
	if action.Room != "" {
		return nil, fmt.Errorf("device not found: %s in %s", action.DeviceType, action.Room)
	}
	return nil, fmt.Errorf("device not found: %s", action.DeviceType)
}

type deviceContextEntry struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	DeviceType   string         `json:"device_type"`
	Room         string         `json:"room"`
	Enabled      bool           `json:"enabled"`
	CurrentState map[string]any `json:"current_state"`
}

func (s *Service) devicesContext() ([]deviceContextEntry, error) {
	devices, err := s.Home.ListDevices()
	if err != nil {
		return nil, err
	}

	entries := make([]deviceContextEntry, 0, len(devices))
	for i := range devices {
		device := &devices[i]
		entries = append(entries, deviceContextEntry{
			ID:           device.ID,
			Name:         device.Name,
			DeviceType:   device.DeviceType,
			Room:         device.Room,
			Enabled:      device.Enabled,
			CurrentState: device.StateMap(),
		})
	}
	return entries, nil
}

type SystemStatus struct {
	TotalDevices       int                  `json:"total_devices"`
	ActiveDevices      int                  `json:"active_devices"`
	EnergyUsage        float64              `json:"energy_usage"`
	AverageTemperature float64              `json:"average_temperature"`
	Devices            []deviceContextEntry `json:"devices"`
	Timestamp          string               `json:"timestamp"`
}

// energyUsageKW estimates draw per powered device type. The powerwall
// stores energy rather than consuming it.
var energyUsageKW = map[string]float64{
	"light":        0.1,
	"jacuzzi":      2.5,
	"thermostat":   1.2,
	"recuperation": 0.8,
	"powerwall":    0.0,
}

// Status summarizes the home for the assistant's context panel.
func (s *Service) Status() (*SystemStatus, error) {
	entries, err := s.devicesContext()
	if err != nil {
		return nil, err
	}

	active := 0
	energy := 0.0
	tempSum := 0.0
	thermostats := 0
	for _, entry := range entries {
		powered, _ := entry.CurrentState["power"].(bool)
		if powered {
			active++
			if usage, ok := energyUsageKW[entry.DeviceType]; ok {
				energy += usage
			} else {
				energy += 0.5
			}
		}
		if entry.DeviceType == "thermostat" {
			if temp, ok := entry.CurrentState["current_temperature"].(float64); ok {
				tempSum += temp
				thermostats++
			}
		}
	}

	avgTemp := 22.0
	if thermostats > 0 {
		avgTemp = tempSum / float64(thermostats)
	}

	return &SystemStatus{
		TotalDevices:       len(entries),
		ActiveDevices:      active,
		EnergyUsage:        math.Round(energy*10) / 10,
		AverageTemperature: math.Round(avgTemp*10) / 10,
		Devices:            entries,
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}
