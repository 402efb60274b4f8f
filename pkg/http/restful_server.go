package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"casakit.xyz/smarthome-service/pkg/assist"
	"casakit.xyz/smarthome-service/pkg/home"
	"casakit.xyz/smarthome-service/pkg/metrics"
	"casakit.xyz/smarthome-service/pkg/ota"
	"casakit.xyz/smarthome-service/pkg/sensors"
)

type RestfulServer struct {
	Server           *gin.Engine
	Sensors          *sensors.Sensors
	Home             *home.Home
	Assist           *assist.Service
	OTA              *ota.Service
	Metrics          *metrics.Metrics
	RateLimiterStore *sensors.RateLimiterStore
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	if rs.Metrics != nil {
		rs.Server.Use(rs.countRequests)
		rs.Server.GET("/metrics", gin.WrapH(rs.Metrics.Handler()))
	}

	rs.Server.GET("/healthz", rs.HealthCheck)

	api := rs.Server.Group("/api")
	{
		api.POST("/sensors/register", rs.RegisterSensor)
		api.POST("/sensors/data", rs.ReceiveSensorData)
		api.GET("/sensors", rs.ListSensors)
		api.GET("/sensors/summary", rs.GetSensorsSummary)
		api.GET("/sensors/alerts", rs.GetSensorAlerts)
		api.POST("/sensors/alerts/:alert_id/acknowledge", rs.AcknowledgeAlert)
		api.POST("/sensors/cleanup", rs.CleanupOldData)
		api.GET("/sensors/health", rs.SensorHealthCheck)

		api.GET("/sensors/:device_id", rs.GetSensorDetails)
		api.GET("/sensors/:device_id/readings", rs.GetSensorReadings)
		api.GET("/sensors/:device_id/config", rs.GetSensorConfig)
		api.PUT("/sensors/:device_id/config", rs.UpdateSensorConfig)
		api.POST("/sensors/:device_id/limiter", rs.PostLimiter)
		api.POST("/sensors/:device_id/ota", rs.TriggerOTAUpdate)
		api.GET("/sensors/:device_id/ota/status", rs.GetOTAStatus)
		api.POST("/ota/updates/:update_id/progress", rs.UpdateOTAProgress)

		api.GET("/devices", rs.ListHomeDevices)
		api.POST("/devices", rs.CreateHomeDevice)
		api.POST("/devices/bulk-control", rs.BulkControlHomeDevices)
		api.GET("/devices/:device_id", rs.GetHomeDevice)
		api.PUT("/devices/:device_id", rs.UpdateHomeDevice)
		api.DELETE("/devices/:device_id", rs.DeleteHomeDevice)
		api.POST("/devices/:device_id/control", rs.ControlHomeDevice)
		api.GET("/devices/:device_id/status", rs.GetHomeDeviceStatus)
		api.GET("/devices/:device_id/history", rs.GetHomeDeviceHistory)

		api.GET("/rooms", rs.ListRooms)
		api.POST("/rooms", rs.CreateRoom)
		api.GET("/device-templates", rs.GetDeviceTemplates)

		api.GET("/config/export", rs.ExportConfig)
		api.POST("/config/import", rs.ImportConfig)
		api.POST("/config/reset", rs.ResetConfig)
		api.POST("/config/validate", rs.ValidateConfig)

		api.POST("/chat", rs.Chat)
		api.GET("/chat/status", rs.ChatStatus)
	}
}

func (rs *RestfulServer) countRequests(c *gin.Context) {
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	rs.Metrics.HTTPRequests.WithLabelValues(route, statusLabel(c.Writer.Status())).Inc()
}

func statusLabel(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
