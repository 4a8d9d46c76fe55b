package alerts

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-e2e/pkg/models"
)

func TestSnifferRaiseThenComplete(t *testing.T) {
	reg := NewRegistry()
	defer reg.Close()
	s := NewSniffer(reg)

	var raised []models.ActiveAlert
	var completed []string
	s.OnRaise = func(a models.ActiveAlert) { raised = append(raised, a) }
	s.OnComplete = func(id string) { completed = append(completed, id) }

	s.Observe(Exchange{
		URL:          "/v1/logic_service/raisealert",
		RequestBody:  []byte(`{"camera_ap":"hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0"}`),
		StatusCode:   http.StatusOK,
		ResponseBody: []byte(`{"result":true,"alert_id":"A7"}`),
	})
	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, models.ActiveAlert{CameraAP: "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0", AlertID: "A7"}, snap[0])
	require.Len(t, raised, 1)

	s.Observe(Exchange{
		URL:          "/v1/logic_service/completealert",
		RequestBody:  []byte(`{"alert_id":"A7","severity":"SV_ALARM"}`),
		StatusCode:   http.StatusOK,
		ResponseBody: []byte(`{"result":true}`),
	})
	assert.Zero(t, reg.Len())
	assert.Equal(t, []string{"A7"}, completed)
}

func TestSnifferIgnoresFailures(t *testing.T) {
	reg := NewRegistry()
	defer reg.Close()
	s := NewSniffer(reg)
	require.NoError(t, reg.Add(models.ActiveAlert{AlertID: "A1"}))

	tests := []Exchange{
		{URL: "/v1/logic_service/raisealert", StatusCode: http.StatusInternalServerError, ResponseBody: []byte(`{"alert_id":"A2"}`)},
		{URL: "/v1/logic_service/raisealert", StatusCode: http.StatusOK, ResponseBody: []byte(`{"result":false}`)},
		{URL: "/v1/logic_service/completealert", StatusCode: http.StatusOK, RequestBody: []byte(`{"alert_id":"A1"}`), ResponseBody: []byte(`{"result":false}`)},
		{URL: "/v1/logic_service/completealert", StatusCode: http.StatusOK, RequestBody: []byte(`not json`), ResponseBody: []byte(`{"result":true}`)},
		{URL: "/v1/logic_service/beginalert", StatusCode: http.StatusOK, RequestBody: []byte(`{"alert_id":"A1"}`), ResponseBody: []byte(`{"result":true}`)},
	}
	for _, ex := range tests {
		s.Observe(ex)
	}

	snap := reg.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "A1", snap[0].AlertID)
}

func TestInteresting(t *testing.T) {
	assert.True(t, Interesting("/v1/logic_service/raisealert"))
	assert.True(t, Interesting("/v1/logic_service/completealert"))
	assert.False(t, Interesting("/v1/logic_service/beginalert"))
	assert.False(t, Interesting("/grpc"))
}

func TestDirectAndSniffedRaiseShareOneCompletion(t *testing.T) {
	h, _ := newHarness(t)
	s := NewSniffer(h.Registry())

	a, err := h.RaiseAlert(testContext(t), "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0")
	require.NoError(t, err)
	s.Observe(Exchange{
		URL:          "/v1/logic_service/raisealert",
		RequestBody:  []byte(`{"camera_ap":"hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0"}`),
		StatusCode:   http.StatusOK,
		ResponseBody: []byte(`{"result":true,"alert_id":"` + a.AlertID + `"}`),
	})
	require.Equal(t, 2, h.Registry().Len(), "same raise seen by both paths")

	require.NoError(t, h.CompleteAlert(testContext(t), a))
	assert.Zero(t, h.Registry().Len())

	// A browser completion of an alert already completed directly is a no-op.
	s.Observe(Exchange{
		URL:          "/v1/logic_service/completealert",
		RequestBody:  []byte(`{"alert_id":"` + a.AlertID + `"}`),
		StatusCode:   http.StatusOK,
		ResponseBody: []byte(`{"result":true}`),
	})
	assert.Zero(t, h.Registry().Len())
}

func TestSniffedRaiseCompletedByHarness(t *testing.T) {
	h, api := newHarness(t)
	s := NewSniffer(h.Registry())

	s.Observe(Exchange{
		URL:          "/v1/logic_service/raisealert",
		RequestBody:  []byte(`{"camera_ap":"cam/7"}`),
		StatusCode:   http.StatusOK,
		ResponseBody: []byte(`{"result":true,"alert_id":"B1"}`),
	})
	api.open["B1"] = true
	require.True(t, h.Registry().Contains("B1"))

	require.NoError(t, h.Drain(testContext(t)))
	assert.Zero(t, h.Registry().Len())
	assert.Empty(t, api.open)
}
