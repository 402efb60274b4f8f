package ota

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/db"
	"casakit.xyz/smarthome-service/pkg/models"
	"casakit.xyz/smarthome-service/pkg/sensors"
)

var (
	ErrDeviceOffline    = errors.New("device is offline")
	ErrUpdateInProgress = errors.New("update already in progress")
	ErrUpdateNotFound   = errors.New("update not found")
)

// Service drives firmware updates: it records the attempt, pokes the
// device over HTTP, and tracks the progress the device reports back.
type Service struct {
	Db       db.DB
	Registry sensors.IRegistry
	Client   *http.Client
}

func NewService(database db.DB, registry sensors.IRegistry) *Service {
	return &Service{
		Db:       database,
		Registry: registry,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type TriggerInput struct {
	FirmwareVersion string `json:"firmware_version"`
	FirmwareURL     string `json:"firmware_url"`
}

// Trigger starts an update for the device. One in-progress update per
// device at a time. The device is contacted exactly once; a refusal or
// connection error marks the attempt failed without retry.
func (s *Service) Trigger(deviceID string, input TriggerInput) (*models.OTAUpdate, error) {
	logger := common.GetLoggerWith(common.LoggerNameOTA)

	device, err := s.Registry.Get(deviceID)
	if err != nil {
		return nil, err
	}
	if !device.IsOnline() {
		return nil, ErrDeviceOffline
	}

	var existing models.OTAUpdate
	err = s.Db.Conn.
		Where("device_id = ? AND update_status = ?", deviceID, models.OTAInProgress).
		First(&existing).Error
	if err == nil {
		return nil, ErrUpdateInProgress
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	update := models.OTAUpdate{
		DeviceID:        deviceID,
		FirmwareVersion: input.FirmwareVersion,
		UpdateStatus:    models.OTAInitiated,
		StartedAt:       time.Now().UTC(),
	}
	if err := s.Db.Conn.Create(&update).Error; err != nil {
		return nil, err
	}

	payload := map[string]any{
		"firmware_version": input.FirmwareVersion,
		"update_id":        update.ID,
	}
	if input.FirmwareURL != "" {
		payload["firmware_url"] = input.FirmwareURL
	}
	body, _ := json.Marshal(payload)

	resp, err := s.Client.Post(
		fmt.Sprintf("http://%s/update", device.IPAddress),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		update.UpdateStatus = models.OTAFailed
		update.ErrorMessage = fmt.Sprintf("Connection error: %v", err)
		logger.Error("OTA update connection error",
			zap.String("device_id", deviceID), zap.Error(err))
	} else {
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			update.UpdateStatus = models.OTAInProgress
			logger.Info("OTA update initiated", zap.String("device_id", deviceID))
		} else {
			text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			update.UpdateStatus = models.OTAFailed
			update.ErrorMessage = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, text)
			logger.Error("OTA update refused by device",
				zap.String("device_id", deviceID), zap.Int("code", resp.StatusCode))
		}
	}

	if err := s.Db.Conn.Save(&update).Error; err != nil {
		return nil, err
	}
	return &update, nil
}

// LatestForDevice returns the most recent update record, nil when the
// device has never been updated.
func (s *Service) LatestForDevice(deviceID string) (*models.OTAUpdate, error) {
	if _, err := s.Registry.Get(deviceID); err != nil {
		return nil, err
	}

	var update models.OTAUpdate
	err := s.Db.Conn.
		Where("device_id = ?", deviceID).
		Order("started_at desc, id desc").
		First(&update).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &update, nil
}

type ProgressInput struct {
	Progress     int    `json:"progress"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Progress records a device-reported checkpoint. Progress clamps to
// [0,100]; a terminal status stamps completed_at and, on success,
// forces progress to 100.
func (s *Service) Progress(updateID uint, input ProgressInput) (*models.OTAUpdate, error) {
	var update models.OTAUpdate
	err := s.Db.Conn.First(&update, updateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUpdateNotFound
	}
	if err != nil {
		return nil, err
	}

	progress := input.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	update.Progress = progress

	switch input.Status {
	case string(models.OTACompleted):
		now := time.Now().UTC()
		update.UpdateStatus = models.OTACompleted
		update.CompletedAt = &now
		update.Progress = 100
	case string(models.OTAFailed):
		now := time.Now().UTC()
		update.UpdateStatus = models.OTAFailed
		update.CompletedAt = &now
		update.ErrorMessage = input.ErrorMessage
	}

	if err := s.Db.Conn.Save(&update).Error; err != nil {
		return nil, err
	}

	common.GetLoggerWith(common.LoggerNameOTA).Info("OTA progress",
		zap.Uint("update_id", update.ID),
		zap.Int("progress", update.Progress),
		zap.String("status", string(update.UpdateStatus)))
	return &update, nil
}
