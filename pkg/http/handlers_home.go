package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/home"
	"casakit.xyz/smarthome-service/pkg/models"
)

type homeDeviceView struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	DeviceType    string         `json:"device_type"`
	Category      string         `json:"category"`
	Room          string         `json:"room"`
	Icon          string         `json:"icon"`
	Enabled       bool           `json:"enabled"`
	Configuration map[string]any `json:"configuration"`
	CurrentState  map[string]any `json:"current_state"`
}

func toHomeDeviceView(device models.HomeDevice) homeDeviceView {
	return homeDeviceView{
		ID:            device.ID,
		Name:          device.Name,
		DeviceType:    device.DeviceType,
		Category:      device.Category,
		Room:          device.Room,
		Icon:          device.Icon,
		Enabled:       device.Enabled,
		Configuration: device.ConfigMap(),
		CurrentState:  device.StateMap(),
	}
}

func (rs *RestfulServer) homeDeviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, home.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
	case errors.Is(err, home.ErrDeviceDisabled):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Device is disabled"})
	default:
		internalError(c, err)
	}
}

func (rs *RestfulServer) ListHomeDevices(c *gin.Context) {
	devices, err := rs.Home.ListDevices()
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"devices": common.Mapper(devices, toHomeDeviceView),
	})
}

func (rs *RestfulServer) GetHomeDevice(c *gin.Context) {
	device, err := rs.Home.GetDevice(c.Param("device_id"))
	if err != nil {
		rs.homeDeviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHomeDeviceView(*device))
}

func (rs *RestfulServer) CreateHomeDevice(c *gin.Context) {
	var input home.CreateDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	for field, value := range map[string]string{
		"name":        input.Name,
		"device_type": input.DeviceType,
		"category":    input.Category,
		"room":        input.Room,
		"icon":        input.Icon,
	} {
		if value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + field})
			return
		}
	}

	device, err := rs.Home.CreateDevice(&input)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHomeDeviceView(*device))
}

func (rs *RestfulServer) UpdateHomeDevice(c *gin.Context) {
	var input home.UpdateDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	device, err := rs.Home.UpdateDevice(c.Param("device_id"), &input)
	if err != nil {
		rs.homeDeviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHomeDeviceView(*device))
}

func (rs *RestfulServer) DeleteHomeDevice(c *gin.Context) {
	if err := rs.Home.DeleteDevice(c.Param("device_id")); err != nil {
		rs.homeDeviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device deleted successfully"})
}

func (rs *RestfulServer) ControlHomeDevice(c *gin.Context) {
	var properties map[string]any
	if err := c.ShouldBindJSON(&properties); err != nil || len(properties) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	device, err := rs.Home.Control(c.Param("device_id"), properties)
	if err != nil {
		rs.homeDeviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHomeDeviceView(*device))
}

func (rs *RestfulServer) GetHomeDeviceStatus(c *gin.Context) {
	deviceID := c.Param("device_id")

	device, latest, err := rs.Home.Status(deviceID)
	if err != nil {
		rs.homeDeviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"device_id": deviceID,
		"name":      device.Name,
		"enabled":   device.Enabled,
		"status":    latest,
	})
}

type historyEntry struct {
	ID           uint   `json:"id"`
	PropertyName string `json:"property_name"`
	Value        any    `json:"value"`
	Timestamp    string `json:"timestamp"`
}

func (rs *RestfulServer) GetHomeDeviceHistory(c *gin.Context) {
	deviceID := c.Param("device_id")
	property := c.Query("property")
	limit := queryInt(c, "limit", 100)

	states, err := rs.Home.History(deviceID, property, limit)
	if err != nil {
		rs.homeDeviceError(c, err)
		return
	}

	history := common.Mapper(states, func(state models.DeviceState) historyEntry {
		return historyEntry{
			ID:           state.ID,
			PropertyName: state.PropertyName,
			Value:        state.GetValue(),
			Timestamp:    state.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	})

	c.JSON(http.StatusOK, gin.H{
		"device_id": deviceID,
		"history":   history,
	})
}

type bulkControlRequest struct {
	DeviceIDs []string       `json:"device_ids"`
	Commands  map[string]any `json:"commands"`
}

func (rs *RestfulServer) BulkControlHomeDevices(c *gin.Context) {
	var req bulkControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	results := rs.Home.BulkControl(req.DeviceIDs, req.Commands)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (rs *RestfulServer) ListRooms(c *gin.Context) {
	rooms, err := rs.Home.ListRooms()
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

func (rs *RestfulServer) CreateRoom(c *gin.Context) {
	var input home.CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: name"})
		return
	}

	room, err := rs.Home.CreateRoom(&input)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (rs *RestfulServer) GetDeviceTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": home.DeviceTemplates()})
}

func (rs *RestfulServer) ExportConfig(c *gin.Context) {
	exported, err := rs.Home.ExportConfig()
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, exported)
}

func (rs *RestfulServer) ImportConfig(c *gin.Context) {
	var input home.ImportConfigInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid configuration format"})
		return
	}
	if input.Devices == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid configuration format"})
		return
	}

	summary, err := rs.Home.ImportConfig(&input)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Configuration imported successfully",
		"imported_devices": summary.ImportedDevices,
		"imported_rooms":   summary.ImportedRooms,
		"errors":           summary.Errors,
	})
}

func (rs *RestfulServer) ResetConfig(c *gin.Context) {
	if err := rs.Home.ResetConfig(); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Configuration reset to defaults successfully"})
}

func (rs *RestfulServer) ValidateConfig(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := rs.Home.ValidateDeviceConfig(data)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
