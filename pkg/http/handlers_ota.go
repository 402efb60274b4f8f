package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"casakit.xyz/smarthome-service/pkg/ota"
	"casakit.xyz/smarthome-service/pkg/sensors"
)

func (rs *RestfulServer) TriggerOTAUpdate(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req ota.TriggerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.FirmwareVersion == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing firmware_version"})
		return
	}

	update, err := rs.OTA.Trigger(deviceID, req)
	if err != nil {
		switch {
		case errors.Is(err, sensors.ErrDeviceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		case errors.Is(err, ota.ErrDeviceOffline):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Device is offline"})
		case errors.Is(err, ota.ErrUpdateInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "Update already in progress"})
		default:
			internalError(c, err)
		}
		return
	}

	message := "OTA update failed"
	if update.UpdateStatus == "in_progress" {
		message = "OTA update initiated"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    update.UpdateStatus,
		"update_id": update.ID,
		"message":   message,
	})
}

func (rs *RestfulServer) GetOTAStatus(c *gin.Context) {
	deviceID := c.Param("device_id")

	update, err := rs.OTA.LatestForDevice(deviceID)
	if err != nil {
		if errors.Is(err, sensors.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
			return
		}
		internalError(c, err)
		return
	}

	if update == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"device_id":  deviceID,
			"ota_status": "none",
			"message":    "No OTA updates found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"device_id":  deviceID,
		"ota_update": update,
	})
}

func (rs *RestfulServer) UpdateOTAProgress(c *gin.Context) {
	updateID, err := strconv.ParseUint(c.Param("update_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update id"})
		return
	}

	var req ota.ProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	update, err := rs.OTA.Progress(uint(updateID), req)
	if err != nil {
		if errors.Is(err, ota.ErrUpdateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Update not found"})
			return
		}
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"update_id": update.ID,
		"progress":  update.Progress,
	})
}
