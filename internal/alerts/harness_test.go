package alerts

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-e2e/internal/client"
	"vms-e2e/pkg/models"
)

// fakeAPI hands out sequential ids and remembers which alerts are still open.
type fakeAPI struct {
	mu       sync.Mutex
	next     int
	open     map[string]bool
	failRise bool
	failDone map[string]bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{open: make(map[string]bool), failDone: make(map[string]bool)}
}

func (f *fakeAPI) InitiateAlert(_ context.Context, cameraAP string) (models.ActiveAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRise {
		return models.ActiveAlert{}, fmt.Errorf("raisealert: %w", client.ErrRejected)
	}
	f.next++
	id := fmt.Sprintf("A%d", f.next)
	f.open[id] = true
	return models.ActiveAlert{CameraAP: cameraAP, AlertID: id}, nil
}

func (f *fakeAPI) AlarmFullProcessing(_ context.Context, alert *models.ActiveAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert.Severity = models.SeverityFalse
	if f.failDone[alert.AlertID] {
		return fmt.Errorf("completealert: %w", client.ErrRejected)
	}
	delete(f.open, alert.AlertID)
	return nil
}

func newHarness(t *testing.T) (*Harness, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	reg := NewRegistry()
	t.Cleanup(reg.Close)
	return NewHarness(api, reg), api
}

func TestRaiseThenCompleteConverges(t *testing.T) {
	h, api := newHarness(t)

	a, err := h.RaiseAlert(testContext(t), "cam/42")
	require.NoError(t, err)
	assert.Equal(t, "cam/42", a.CameraAP)
	assert.True(t, h.Registry().Contains(a.AlertID))

	require.NoError(t, h.CompleteAlert(testContext(t), a))
	assert.Zero(t, h.Registry().Len())
	assert.Empty(t, api.open)
}

func TestCompleteTwiceLeavesRegistryUnchanged(t *testing.T) {
	h, _ := newHarness(t)
	a, err := h.RaiseAlert(testContext(t), "cam/1")
	require.NoError(t, err)
	b, err := h.RaiseAlert(testContext(t), "cam/2")
	require.NoError(t, err)

	require.NoError(t, h.CompleteAlert(testContext(t), a))
	before := h.Registry().Snapshot()
	require.NoError(t, h.CompleteAlert(testContext(t), a))
	assert.Equal(t, before, h.Registry().Snapshot())
	assert.True(t, h.Registry().Contains(b.AlertID))
}

func TestFailedRaiseRecordsNothing(t *testing.T) {
	h, api := newHarness(t)
	api.failRise = true

	_, err := h.RaiseAlert(testContext(t), "cam/1")
	require.ErrorIs(t, err, client.ErrRejected)
	assert.Zero(t, h.Registry().Len())
}

func TestFailedCompleteKeepsRecord(t *testing.T) {
	h, api := newHarness(t)
	a, err := h.RaiseAlert(testContext(t), "cam/1")
	require.NoError(t, err)
	api.failDone[a.AlertID] = true

	require.Error(t, h.CompleteAlert(testContext(t), a))
	assert.True(t, h.Registry().Contains(a.AlertID))
}

func TestDrain(t *testing.T) {
	h, api := newHarness(t)
	for i := 0; i < 3; i++ {
		_, err := h.RaiseAlert(testContext(t), fmt.Sprintf("cam/%d", i))
		require.NoError(t, err)
	}
	api.failDone["A2"] = true

	err := h.Drain(testContext(t))
	require.ErrorIs(t, err, client.ErrRejected)
	assert.Contains(t, err.Error(), "A2")

	snap := h.Registry().Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "A2", snap[0].AlertID)

	delete(api.failDone, "A2")
	require.NoError(t, h.Drain(testContext(t)))
	assert.Zero(t, h.Registry().Len())
	assert.NoError(t, h.Drain(testContext(t)), "nothing left to drain")
}

func TestCompleteRemovesEveryCopy(t *testing.T) {
	h, api := newHarness(t)
	a, err := h.RaiseAlert(testContext(t), "cam/42")
	require.NoError(t, err)
	require.NoError(t, h.Registry().Add(a))
	require.Equal(t, 2, h.Registry().Len())

	require.NoError(t, h.CompleteAlert(testContext(t), a))
	assert.False(t, h.Registry().Contains(a.AlertID))
	assert.Zero(t, h.Registry().Len())

	require.NoError(t, h.Drain(testContext(t)))
	assert.Empty(t, api.open)
}
