package home

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casakit.xyz/smarthome-service/pkg/common"
	"casakit.xyz/smarthome-service/pkg/db"
	_ "casakit.xyz/smarthome-service/pkg/testing"
)

func newTestHome() *Home {
	return New(*db.GetInstance(db.UseMemorySqliteDialector()))
}

func boolPtr(v bool) *bool { return &v }

func createTestLight(t *testing.T, h *Home) string {
	t.Helper()

	device, err := h.CreateDevice(&CreateDeviceInput{
		Name:       "Test Light",
		DeviceType: "light",
		Category:   "lighting",
		Room:       "living_room",
	})
	require.NoError(t, err)
	return device.ID
}

func TestCreateDeviceGeneratesID(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()

	device, err := h.CreateDevice(&CreateDeviceInput{
		Name:       "Lamp",
		DeviceType: "light",
		Category:   "lighting",
		Room:       "bedroom",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, device.ID)
	assert.True(t, device.Enabled)

	explicit, err := h.CreateDevice(&CreateDeviceInput{
		ID:         uuid.NewString(),
		Name:       "Other Lamp",
		DeviceType: "light",
		Category:   "lighting",
		Room:       "bedroom",
		Enabled:    boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, explicit.Enabled)

	// the flag must survive the round trip to the store
	stored, err := h.GetDevice(explicit.ID)
	require.NoError(t, err)
	assert.False(t, stored.Enabled)
}

func TestUpdateDevicePartialFields(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()
	deviceID := createTestLight(t, h)

	name := "Renamed Light"
	updated, err := h.UpdateDevice(deviceID, &UpdateDeviceInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Light", updated.Name)
	// untouched fields keep their values
	assert.Equal(t, "light", updated.DeviceType)
	assert.Equal(t, "living_room", updated.Room)

	_, err = h.UpdateDevice(uuid.NewString(), &UpdateDeviceInput{Name: &name})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestListDevicesExcludesDisabled(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()
	deviceID := createTestLight(t, h)

	_, err := h.UpdateDevice(deviceID, &UpdateDeviceInput{Enabled: boolPtr(false)})
	require.NoError(t, err)

	devices, err := h.ListDevices()
	require.NoError(t, err)
	for _, device := range devices {
		assert.NotEqual(t, deviceID, device.ID)
	}
}

func TestControlAppendsJournalAndFoldsState(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()
	deviceID := createTestLight(t, h)

	device, err := h.Control(deviceID, map[string]any{"power": true, "brightness": 80})
	require.NoError(t, err)

	state := device.StateMap()
	assert.Equal(t, true, state["power"])
	assert.EqualValues(t, 80, state["brightness"])

	history, err := h.History(deviceID, "", 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	powerOnly, err := h.History(deviceID, "power", 10)
	require.NoError(t, err)
	require.Len(t, powerOnly, 1)
	assert.Equal(t, "power", powerOnly[0].PropertyName)
}

func TestControlDisabledDevice(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()
	deviceID := createTestLight(t, h)

	_, err := h.UpdateDevice(deviceID, &UpdateDeviceInput{Enabled: boolPtr(false)})
	require.NoError(t, err)

	_, err = h.Control(deviceID, map[string]any{"power": true})
	assert.ErrorIs(t, err, ErrDeviceDisabled)

	_, err = h.Control(uuid.NewString(), map[string]any{"power": true})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestStatusReturnsLatestValuePerProperty(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()
	deviceID := createTestLight(t, h)

	_, err := h.Control(deviceID, map[string]any{"power": true})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = h.Control(deviceID, map[string]any{"power": false, "brightness": 30})
	require.NoError(t, err)

	_, latest, err := h.Status(deviceID)
	require.NoError(t, err)
	require.Contains(t, latest, "power")
	assert.Equal(t, false, latest["power"].Value)
	assert.EqualValues(t, 30, latest["brightness"].Value)
}

func TestDeleteDeviceRemovesJournal(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()
	deviceID := createTestLight(t, h)

	_, err := h.Control(deviceID, map[string]any{"power": true})
	require.NoError(t, err)

	require.NoError(t, h.DeleteDevice(deviceID))

	_, err = h.GetDevice(deviceID)
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	_, err = h.History(deviceID, "", 10)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestBulkControlPartialFailure(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()
	deviceID := createTestLight(t, h)
	missingID := uuid.NewString()

	results := h.BulkControl([]string{deviceID, missingID}, map[string]any{"power": true})
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.Equal(t, deviceID, results[0].DeviceID)

	assert.False(t, results[1].Success)
	assert.Equal(t, missingID, results[1].DeviceID)
	assert.NotEmpty(t, results[1].Error)
}

func TestCreateRoomDefaultsIcon(t *testing.T) {
	common.SetTestLoggerNop()

	h := newTestHome()

	room, err := h.CreateRoom(&CreateRoomInput{Name: "Garage"})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "home", room.Icon)
}
