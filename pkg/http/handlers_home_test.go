package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/models"
	_ "casakit.xyz/smarthome-service/pkg/testing"
)

func createHomeDevice(t *testing.T, rs *RestfulServer) string {
	t.Helper()

	w := postJSON(rs, "/api/devices", map[string]any{
		"name":        "Desk Lamp",
		"device_type": "light",
		"category":    "lighting",
		"room":        "bedroom",
		"icon":        "lightbulb",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created homeDeviceView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func TestHomeDeviceLifecycle(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := createHomeDevice(t, rs)

	// control
	w := postJSON(rs, "/api/devices/"+deviceID+"/control", map[string]any{
		"power":      true,
		"brightness": 70,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var controlled homeDeviceView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &controlled))
	assert.Equal(t, true, controlled.CurrentState["power"])

	// status reflects the change
	req := httptest.NewRequest("GET", "/api/devices/"+deviceID+"/status", nil)
	statusW := httptest.NewRecorder()
	rs.Server.ServeHTTP(statusW, req)
	require.Equal(t, http.StatusOK, statusW.Code)
	assert.Contains(t, statusW.Body.String(), `"power"`)

	// history has both properties
	req = httptest.NewRequest("GET", "/api/devices/"+deviceID+"/history", nil)
	historyW := httptest.NewRecorder()
	rs.Server.ServeHTTP(historyW, req)
	require.Equal(t, http.StatusOK, historyW.Code)

	var historyResp struct {
		History []historyEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(historyW.Body.Bytes(), &historyResp))
	assert.Len(t, historyResp.History, 2)

	// delete
	delReq := httptest.NewRequest(http.MethodDelete, "/api/devices/"+deviceID, nil)
	delW := httptest.NewRecorder()
	rs.Server.ServeHTTP(delW, delReq)
	require.Equal(t, http.StatusOK, delW.Code)

	getReq := httptest.NewRequest("GET", "/api/devices/"+deviceID, nil)
	getW := httptest.NewRecorder()
	rs.Server.ServeHTTP(getW, getReq)
	assert.Equal(t, http.StatusNotFound, getW.Code)
}

func TestCreateHomeDevice_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	w := postJSON(rs, "/api/devices", map[string]any{
		"name":        "Incomplete",
		"device_type": "light",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required field")
}

func TestControlHomeDevice_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := createHomeDevice(t, rs)

	// empty property set
	w := postJSON(rs, "/api/devices/"+deviceID+"/control", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown device
	w = postJSON(rs, "/api/devices/"+uuid.NewString()+"/control", map[string]any{"power": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// disabled device
	req := httptest.NewRequest(http.MethodPut, "/api/devices/"+deviceID,
		strings.NewReader(`{"enabled": false}`))
	req.Header.Set("Content-Type", "application/json")
	putW := httptest.NewRecorder()
	rs.Server.ServeHTTP(putW, req)
	require.Equal(t, http.StatusOK, putW.Code)

	w = postJSON(rs, "/api/devices/"+deviceID+"/control", map[string]any{"power": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "disabled")
}

func TestBulkControlEndpoint(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := createHomeDevice(t, rs)
	missingID := uuid.NewString()

	w := postJSON(rs, "/api/devices/bulk-control", map[string]any{
		"device_ids": []string{deviceID, missingID},
		"commands":   map[string]any{"power": true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []struct {
			DeviceID string `json:"device_id"`
			Success  bool   `json:"success"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
}

func TestRoomsAndTemplatesEndpoints(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	w := postJSON(rs, "/api/rooms", map[string]any{"name": "Attic"})
	require.Equal(t, http.StatusCreated, w.Code)

	var room models.Room
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
	assert.Equal(t, "home", room.Icon)

	w = postJSON(rs, "/api/rooms", map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest("GET", "/api/device-templates", nil)
	tmplW := httptest.NewRecorder()
	rs.Server.ServeHTTP(tmplW, req)
	require.Equal(t, http.StatusOK, tmplW.Code)
	assert.Contains(t, tmplW.Body.String(), "thermostat")
}

func TestConfigEndpoints(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	w := postJSON(rs, "/api/config/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/api/config/export", nil)
	exportW := httptest.NewRecorder()
	rs.Server.ServeHTTP(exportW, req)
	require.Equal(t, http.StatusOK, exportW.Code)

	var exported struct {
		Version string           `json:"version"`
		Devices []map[string]any `json:"devices"`
	}
	require.NoError(t, json.Unmarshal(exportW.Body.Bytes(), &exported))
	assert.Equal(t, "1.0", exported.Version)
	assert.Len(t, exported.Devices, 5)

	// import with no devices key is rejected
	w = postJSON(rs, "/api/config/import", map[string]any{"rooms": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(rs, "/api/config/import", map[string]any{
		"devices": []map[string]any{{
			"id": uuid.NewString(), "name": "Imported",
			"device_type": "light", "category": "lighting", "room": "bedroom",
		}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported_devices":1`)

	w = postJSON(rs, "/api/config/validate", map[string]any{
		"name":        "Lamp",
		"device_type": "light",
		"category":    "lighting",
		"room":        "bedroom",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":true`)
}

func TestOTAEndpoints(t *testing.T) {
	common.SetTestLoggerNop()

	// fake device firmware endpoint
	deviceServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer deviceServer.Close()

	rs := setupTestServer()

	deviceID := uuid.NewString()
	registerDevice(t, rs, deviceID, nil)
	// point the stored IP at the fake device
	err := rs.Sensors.Db.Conn.Model(&models.SensorDevice{}).
		Where("device_id = ?", deviceID).
		Update("ip_address", deviceServer.Listener.Addr().String()).Error
	require.NoError(t, err)

	// missing firmware_version
	w := postJSON(rs, "/api/sensors/"+deviceID+"/ota", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(rs, "/api/sensors/"+deviceID+"/ota", map[string]any{"firmware_version": "2.1.0"})
	require.Equal(t, http.StatusOK, w.Code)

	var triggerResp struct {
		Status   string `json:"status"`
		UpdateID uint   `json:"update_id"`
		Message  string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &triggerResp))
	assert.Equal(t, "in_progress", triggerResp.Status)
	assert.Equal(t, "OTA update initiated", triggerResp.Message)

	// concurrent trigger conflicts
	w = postJSON(rs, "/api/sensors/"+deviceID+"/ota", map[string]any{"firmware_version": "2.2.0"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// progress checkpoint
	w = postJSON(rs, fmt.Sprintf("/api/ota/updates/%d/progress", triggerResp.UpdateID),
		map[string]any{"progress": 42})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progress":42`)

	// status shows the update
	req := httptest.NewRequest("GET", "/api/sensors/"+deviceID+"/ota/status", nil)
	statusW := httptest.NewRecorder()
	rs.Server.ServeHTTP(statusW, req)
	require.Equal(t, http.StatusOK, statusW.Code)
	assert.Contains(t, statusW.Body.String(), `"ota_update"`)

	// unknown device has no updates
	otherID := uuid.NewString()
	registerDevice(t, rs, otherID, nil)
	req = httptest.NewRequest("GET", "/api/sensors/"+otherID+"/ota/status", nil)
	noneW := httptest.NewRecorder()
	rs.Server.ServeHTTP(noneW, req)
	require.Equal(t, http.StatusOK, noneW.Code)
	assert.Contains(t, noneW.Body.String(), `"ota_status":"none"`)
}

func TestChatEndpoint_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	// empty message
	w := postJSON(rs, "/api/chat", map[string]any{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// upstream not configured
	w = postJSON(rs, "/api/chat", map[string]any{"message": "turn on the light"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// status works without an upstream
	req := httptest.NewRequest("GET", "/api/chat/status", nil)
	statusW := httptest.NewRecorder()
	rs.Server.ServeHTTP(statusW, req)
	require.Equal(t, http.StatusOK, statusW.Code)
	assert.Contains(t, statusW.Body.String(), "total_devices")
}

func TestGetHomeDeviceStatusTimestampFormat(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := createHomeDevice(t, rs)

	w := postJSON(rs, "/api/devices/"+deviceID+"/control", map[string]any{"power": true})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/api/devices/"+deviceID+"/status", nil)
	statusW := httptest.NewRecorder()
	rs.Server.ServeHTTP(statusW, req)
	require.Equal(t, http.StatusOK, statusW.Code)

	var resp struct {
		Status map[string]struct {
			Value     any    `json:"value"`
			Timestamp string `json:"timestamp"`
		} `json:"status"`
	}
	require.NoError(t, json.Unmarshal(statusW.Body.Bytes(), &resp))
	power, ok := resp.Status["power"]
	require.True(t, ok)
	assert.Equal(t, true, power.Value)
	_, err := time.Parse(time.RFC3339, power.Timestamp)
	assert.NoError(t, err)
}
