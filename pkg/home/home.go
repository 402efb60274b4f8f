package home

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/db"
	"casakit.xyz/smarthome-service/pkg/models"
)

var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrDeviceDisabled = errors.New("device is disabled")
	ErrRoomNotFound   = errors.New("room not found")
)

// Home is the control plane for actuated devices: lights, thermostats,
// jacuzzi, powerwall, recuperation. Property changes append to the
// device_states journal and fold into the device's current_state column.
type Home struct {
	Db db.DB
}

func New(database db.DB) *Home {
	return &Home{Db: database}
}

// CreateDeviceInput carries the caller-supplied fields of a new device.
// ID is generated when absent.
type CreateDeviceInput struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	DeviceType    string         `json:"device_type"`
	Category      string         `json:"category"`
	Room          string         `json:"room"`
	Icon          string         `json:"icon"`
	Enabled       *bool          `json:"enabled"`
	Configuration map[string]any `json:"configuration"`
}

func (h *Home) CreateDevice(input *CreateDeviceInput) (*models.HomeDevice, error) {
	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	device := models.HomeDevice{
		ID:         id,
		Name:       input.Name,
		DeviceType: input.DeviceType,
		Category:   input.Category,
		Room:       input.Room,
		Icon:       input.Icon,
		Enabled:    enabled,
	}
	device.SetConfigMap(input.Configuration)
	device.SetStateMap(nil)

	if err := h.Db.Conn.Create(&device).Error; err != nil {
		return nil, err
	}

	common.GetLoggerWith(common.LoggerNameHomeCore).Info("Device created",
		zap.String("device_id", device.ID), zap.String("type", device.DeviceType))
	return &device, nil
}

type UpdateDeviceInput struct {
	Name          *string        `json:"name"`
	DeviceType    *string        `json:"device_type"`
	Category      *string        `json:"category"`
	Room          *string        `json:"room"`
	Icon          *string        `json:"icon"`
	Enabled       *bool          `json:"enabled"`
	Configuration map[string]any `json:"configuration"`
}

// UpdateDevice overwrites only the fields present in the input.
func (h *Home) UpdateDevice(deviceID string, input *UpdateDeviceInput) (*models.HomeDevice, error) {
	device, err := h.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		device.Name = *input.Name
	}
	if input.DeviceType != nil {
		device.DeviceType = *input.DeviceType
	}
	if input.Category != nil {
		device.Category = *input.Category
	}
	if input.Room != nil {
		device.Room = *input.Room
	}
	if input.Icon != nil {
		device.Icon = *input.Icon
	}
	if input.Enabled != nil {
		device.Enabled = *input.Enabled
	}
	if input.Configuration != nil {
		device.SetConfigMap(input.Configuration)
	}

	if err := h.Db.Conn.Save(device).Error; err != nil {
		return nil, err
	}
	return device, nil
}

func (h *Home) GetDevice(deviceID string) (*models.HomeDevice, error) {
	var device models.HomeDevice
	err := h.Db.Conn.First(&device, "id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// ListDevices returns enabled devices only; disabled devices stay in the
// store but disappear from the fleet view.
func (h *Home) ListDevices() ([]models.HomeDevice, error) {
	var devices []models.HomeDevice
	err := h.Db.Conn.Where("enabled = ?", true).Order("id asc").Find(&devices).Error
	return devices, err
}

// DeleteDevice removes the device and its whole state journal.
func (h *Home) DeleteDevice(deviceID string) error {
	device, err := h.GetDevice(deviceID)
	if err != nil {
		return err
	}

	return h.Db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", deviceID).Delete(&models.DeviceState{}).Error; err != nil {
			return err
		}
		return tx.Delete(device).Error
	})
}

// Control applies a set of property values to an enabled device. Each
// property appends one journal row; the folded map lands in
// current_state in the same transaction.
func (h *Home) Control(deviceID string, properties map[string]any) (*models.HomeDevice, error) {
	device, err := h.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if !device.Enabled {
		return nil, ErrDeviceDisabled
	}

	now := time.Now().UTC()
	err = h.Db.Conn.Transaction(func(tx *gorm.DB) error {
		state := device.StateMap()
		for name, value := range properties {
			entry := models.DeviceState{
				HomeDeviceID: deviceID,
				PropertyName: name,
				Timestamp:    now,
			}
			if err := entry.SetValue(value); err != nil {
				return err
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			state[name] = value
		}
		device.SetStateMap(state)
		return tx.Save(device).Error
	})
	if err != nil {
		return nil, err
	}

	common.GetLoggerWith(common.LoggerNameHomeCore).Info("Device controlled",
		zap.String("device_id", deviceID), zap.Int("properties", len(properties)))
	return device, nil
}

// PropertyStatus is one property's latest value with its change time.
type PropertyStatus struct {
	Value     any    `json:"value"`
	Timestamp string `json:"timestamp"`
}

// Status returns the latest value per property from the journal.
func (h *Home) Status(deviceID string) (*models.HomeDevice, map[string]PropertyStatus, error) {
	device, err := h.GetDevice(deviceID)
	if err != nil {
		return nil, nil, err
	}

	var states []models.DeviceState
	err = h.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("timestamp desc, id desc").
		Find(&states).Error
	if err != nil {
		return nil, nil, err
	}

	latest := map[string]PropertyStatus{}
	for _, state := range states {
		if _, seen := latest[state.PropertyName]; seen {
			continue
		}
		latest[state.PropertyName] = PropertyStatus{
			Value:     state.GetValue(),
			Timestamp: state.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return device, latest, nil
}

// History returns journal rows newest first, optionally filtered to one
// property.
func (h *Home) History(deviceID, propertyName string, limit int) ([]models.DeviceState, error) {
	if _, err := h.GetDevice(deviceID); err != nil {
		return nil, err
	}

	query := h.Db.Conn.Where("device_id = ?", deviceID)
	if propertyName != "" {
		query = query.Where("property_name = ?", propertyName)
	}

	var states []models.DeviceState
	err := query.Order("timestamp desc, id desc").Limit(limit).Find(&states).Error
	return states, err
}

// BulkResult is the per-device outcome of a bulk control call.
type BulkResult struct {
	DeviceID string `json:"device_id"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// BulkControl applies one command set to many devices. Failures are
// per-device; one missing device never aborts the rest.
func (h *Home) BulkControl(deviceIDs []string, commands map[string]any) []BulkResult {
	results := make([]BulkResult, 0, len(deviceIDs))
	for _, deviceID := range deviceIDs {
		if _, err := h.Control(deviceID, commands); err != nil {
			results = append(results, BulkResult{DeviceID: deviceID, Success: false, Error: err.Error()})
			continue
		}
		results = append(results, BulkResult{DeviceID: deviceID, Success: true})
	}
	return results
}

type CreateRoomInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (h *Home) CreateRoom(input *CreateRoomInput) (*models.Room, error) {
	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}
	icon := input.Icon
	if icon == "" {
		icon = "home"
	}

	room := models.Room{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Icon:        icon,
	}
	if err := h.Db.Conn.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (h *Home) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	err := h.Db.Conn.Order("id asc").Find(&rooms).Error
	return rooms, err
}
