package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
	"casakit.xyz/smarthome-service/pkg/sensors"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

func internalError(c *gin.Context, err error) {
	common.GetLoggerWith(common.LoggerNameRestfulServer).Error("Request failed",
		zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

type deviceView struct {
	ID              uint       `json:"id"`
	DeviceID        string     `json:"device_id"`
	Name            string     `json:"name"`
	Location        string     `json:"location"`
	DeviceType      string     `json:"device_type"`
	IPAddress       string     `json:"ip_address"`
	MACAddress      string     `json:"mac_address"`
	FirmwareVersion string     `json:"firmware_version"`
	Status          string     `json:"status"`
	LastSeen        *time.Time `json:"last_seen"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toDeviceView(device models.SensorDevice) deviceView {
	return deviceView{
		ID:              device.ID,
		DeviceID:        device.DeviceID,
		Name:            device.Name,
		Location:        device.Location,
		DeviceType:      device.DeviceType,
		IPAddress:       device.IPAddress,
		MACAddress:      device.MACAddress,
		FirmwareVersion: device.FirmwareVersion,
		Status:          string(device.Status),
		LastSeen:        device.LastSeen,
		CreatedAt:       device.CreatedAt,
		UpdatedAt:       device.UpdatedAt,
	}
}

type registerRequest struct {
	DeviceID        string                     `json:"device_id"`
	Name            string                     `json:"name"`
	Location        string                     `json:"location"`
	DeviceType      string                     `json:"device_type"`
	MACAddress      string                     `json:"mac_address"`
	FirmwareVersion string                     `json:"firmware_version"`
	Configuration   *models.SensorDeviceConfig `json:"configuration"`
}

func (rs *RestfulServer) RegisterSensor(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	for field, value := range map[string]string{
		"device_id": req.DeviceID,
		"name":      req.Name,
		"location":  req.Location,
	} {
		if value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + field})
			return
		}
	}

	if !rs.CheckDeviceLimiter(req.DeviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	_, err := rs.Sensors.Registry.RegisterOrUpdate(&models.RegisterInput{
		DeviceID:        req.DeviceID,
		Name:            req.Name,
		Location:        req.Location,
		DeviceType:      req.DeviceType,
		IPAddress:       c.ClientIP(),
		MACAddress:      req.MACAddress,
		FirmwareVersion: req.FirmwareVersion,
		Configuration:   req.Configuration,
	})
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"device_id":     req.DeviceID,
		"message":       "Device registered successfully",
		"registered_at": time.Now().UTC().Format(time.RFC3339),
	})
}

type sensorDataRequest struct {
	DeviceID string                 `json:"device_id"`
	Readings []models.ReadingInput `json:"readings"`
}

func (rs *RestfulServer) ReceiveSensorData(c *gin.Context) {
	var req sensorDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.DeviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing device_id"})
		return
	}
	if len(req.Readings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No readings provided"})
		return
	}

	if !rs.CheckDeviceLimiter(req.DeviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	stored, err := rs.Sensors.Ingest.IngestBatch(req.DeviceID, req.Readings)
	if err != nil {
		if errors.Is(err, sensors.ErrDeviceNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not registered"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"readings_stored": stored,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

func (rs *RestfulServer) ListSensors(c *gin.Context) {
	devices, err := rs.Sensors.Registry.RefreshStatuses()
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"devices": common.Mapper(devices, toDeviceView),
		"count":   len(devices),
	})
}

func (rs *RestfulServer) GetSensorDetails(c *gin.Context) {
	deviceID := c.Param("device_id")

	device, err := rs.Sensors.Registry.Get(deviceID)
	if err != nil {
		if errors.Is(err, sensors.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return
		}
		internalError(c, err)
		return
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	latest := []models.SensorReading{}
	for _, sensorType := range []string{"temperature", "humidity"} {
		readings, err := rs.Sensors.Readings.Range(deviceID, sensorType, since)
		if err != nil {
			internalError(c, err)
			return
		}
		latest = append(latest, readings...)
	}
	if len(latest) > 20 {
		latest = latest[len(latest)-20:]
	}

	alerts, err := rs.Sensors.Alerts.RecentForDevice(deviceID, 10)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "success",
		"device":          toDeviceView(*device),
		"latest_readings": latest,
		"recent_alerts":   alerts,
	})
}

func (rs *RestfulServer) GetSensorReadings(c *gin.Context) {
	deviceID := c.Param("device_id")

	if _, err := rs.Sensors.Registry.Get(deviceID); err != nil {
		if errors.Is(err, sensors.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return
		}
		internalError(c, err)
		return
	}

	sensorType := c.DefaultQuery("type", "temperature")
	hours := queryInt(c, "hours", 24)
	limit := queryInt(c, "limit", 100)

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	readings, err := rs.Sensors.Readings.Range(deviceID, sensorType, since)
	if err != nil {
		internalError(c, err)
		return
	}
	readings = decimate(readings, limit)

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"device_id":   deviceID,
		"sensor_type": sensorType,
		"readings":    readings,
		"count":       len(readings),
	})
}

// decimate thins a series to at most limit points with a fixed stride,
// keeping the result deterministic for a given input.
func decimate(readings []models.SensorReading, limit int) []models.SensorReading {
	if limit <= 0 || len(readings) <= limit {
		return readings
	}
	step := len(readings) / limit
	sampled := make([]models.SensorReading, 0, limit)
	for i := 0; i < len(readings) && len(sampled) < limit; i += step {
		sampled = append(sampled, readings[i])
	}
	return sampled
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func (rs *RestfulServer) GetSensorConfig(c *gin.Context) {
	deviceID := c.Param("device_id")

	device, err := rs.Sensors.Registry.Get(deviceID)
	if err != nil {
		if errors.Is(err, sensors.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return
		}
		internalError(c, err)
		return
	}

	cfg, err := device.Config()
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"device_id":     deviceID,
		"configuration": cfg,
	})
}

type sensorConfigRequest struct {
	Configuration *models.SensorDeviceConfig `json:"configuration"`
}

func (rs *RestfulServer) UpdateSensorConfig(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req sensorConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Configuration must be a JSON object"})
		return
	}
	if req.Configuration == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Configuration must be a JSON object"})
		return
	}

	if _, err := rs.Sensors.Registry.UpdateConfig(deviceID, *req.Configuration); err != nil {
		if errors.Is(err, sensors.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"device_id": deviceID,
		"message":   "Configuration updated successfully",
	})
}

func (rs *RestfulServer) GetSensorsSummary(c *gin.Context) {
	summary, err := rs.Sensors.FleetSummary(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"summary": summary,
	})
}

func (rs *RestfulServer) GetSensorAlerts(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") == "true"
	limit := queryInt(c, "limit", 50)

	alerts, err := rs.Sensors.Alerts.List(activeOnly, limit)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (rs *RestfulServer) AcknowledgeAlert(c *gin.Context) {
	alertID, err := strconv.ParseUint(c.Param("alert_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert id"})
		return
	}

	if _, err := rs.Sensors.Alerts.Acknowledge(uint(alertID)); err != nil {
		if errors.Is(err, sensors.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"alert_id": alertID,
		"message":  "Alert acknowledged",
	})
}

type cleanupRequest struct {
	Days int `json:"days"`
}

var cleanupRequestSchema = z.Struct(z.Shape{
	"days": z.Int().Default(30).GTE(1),
})

func (rs *RestfulServer) CleanupOldData(c *gin.Context) {
	var req cleanupRequest
	if err := cleanupRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	pruned, err := rs.Sensors.Readings.Prune(req.Days)
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"pruned":  pruned,
		"message": "Cleaned up data older than " + strconv.Itoa(req.Days) + " days",
	})
}

func (rs *RestfulServer) SensorHealthCheck(c *gin.Context) {
	var deviceCount, recentReadings, activeAlerts int64

	if err := rs.Sensors.Db.Conn.Model(&models.SensorDevice{}).Count(&deviceCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": "store unreachable"})
		return
	}

	cutoff := time.Now().UTC().Add(-10 * time.Minute)
	if err := rs.Sensors.Db.Conn.Model(&models.SensorReading{}).
		Where("timestamp >= ?", cutoff).Count(&recentReadings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": "store unreachable"})
		return
	}

	if err := rs.Sensors.Db.Conn.Model(&models.SensorAlert{}).
		Where("is_active = ? AND acknowledged = ?", true, false).Count(&activeAlerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": "store unreachable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"metrics": gin.H{
			"total_devices":   deviceCount,
			"recent_readings": recentReadings,
			"active_alerts":   activeAlerts,
		},
	})
}

type limiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req limiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}
