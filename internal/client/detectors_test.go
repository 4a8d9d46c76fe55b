package client

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-e2e/pkg/models"
)

const cameraAP = "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0"

func TestNewAVDetectorUnit(t *testing.T) {
	u := NewAVDetectorUnit(AVDetectorSpec{CameraAP: cameraAP, Kind: "MotionDetection", PeriodMs: 500})

	_, err := uuid.Parse(u.UID)
	assert.NoError(t, err, "uid is a random UUID")
	assert.Equal(t, models.UnitAVDetector, u.Type)

	want := map[string]any{
		"detector":     "MotionDetection",
		"display_name": "MotionDetection",
		"enabled":      true,
		"input":        "Video",
		"camera_ref":   cameraAP,
		"period":       int32(500),
	}
	for id, v := range want {
		p, ok := u.Property(id)
		require.True(t, ok, id)
		assert.Equal(t, v, p.Value(), id)
	}

	other := NewAVDetectorUnit(AVDetectorSpec{CameraAP: cameraAP, Kind: "MotionDetection"})
	assert.NotEqual(t, u.UID, other.UID)
	_, hasPeriod := other.Property("period")
	assert.False(t, hasPeriod)
}

func TestCreateAVDetectorAddsUnderDevice(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodChangeConfig, http.StatusOK, map[string]any{
		"added": []string{"hosts/Server1/AVDetector.4"},
	})

	uid, err := c.CreateAVDetector(testContext(t), AVDetectorSpec{CameraAP: cameraAP, Kind: "SceneChange", Name: "tamper"})
	require.NoError(t, err)
	assert.Equal(t, "hosts/Server1/AVDetector.4", uid)

	sent := decode[models.ChangeConfigRequest](t, g.recorded(methodChangeConfig)[0].Data)
	require.Len(t, sent.Added, 1)
	assert.Equal(t, "hosts/Server1/DeviceIpint.1", sent.Added[0].UID)
	require.Len(t, sent.Added[0].Units, 1)
	name, _ := sent.Added[0].Units[0].Property("display_name")
	assert.Equal(t, "tamper", name.Value())
}

func TestCreateAppDataDetectorWithoutUID(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodChangeConfig, http.StatusOK, map[string]any{"added": []string{}})

	_, err := c.CreateAppDataDetector(testContext(t), AppDataDetectorSpec{ParentUID: "hosts/Server1/AVDetector.4", Kind: "MoveInZone"})
	require.ErrorIs(t, err, ErrRejected)
}

func TestChangeAVDetector(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodChangeConfig, http.StatusOK, map[string]any{})

	err := c.ChangeAVDetector(testContext(t), "hosts/Server1/AVDetector.4",
		models.BoolProperty("enabled", false),
		models.DoubleProperty("sensitivity", 0.75))
	require.NoError(t, err)

	sent := decode[models.ChangeConfigRequest](t, g.recorded(methodChangeConfig)[0].Data)
	require.Len(t, sent.Changed, 1)
	assert.Equal(t, "hosts/Server1/AVDetector.4", sent.Changed[0].UID)
	p, ok := sent.Changed[0].Property("sensitivity")
	require.True(t, ok)
	assert.Equal(t, 0.75, p.Value())
}

func TestGetDetectorEventsPath(t *testing.T) {
	g, c := newGateway(t)
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	path := "GET /archive/events/detectors/Server1/DeviceIpint.1/SourceEndpoint.video:0:0/20240301T100130.000/20240301T100000.000"
	g.on(path, func(json.RawMessage) (int, any) {
		return http.StatusOK, map[string]any{
			"events": []map[string]string{{"id": "e1", "type": "MotionDetected", "timestamp": "20240301T100010.000"}},
			"more":   false,
		}
	})

	events, err := c.GetDetectorEvents(testContext(t), cameraAP, start, end, 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "MotionDetected", events[0].Type)
}
