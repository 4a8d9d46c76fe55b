package alerts

import (
	"context"
	"errors"
	"fmt"

	"vms-e2e/internal/client"
	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// AlertAPI is the subset of the client the harness drives.
type AlertAPI interface {
	InitiateAlert(ctx context.Context, cameraAP string) (models.ActiveAlert, error)
	AlarmFullProcessing(ctx context.Context, alert *models.ActiveAlert) error
}

var _ AlertAPI = (*client.Client)(nil)

// Harness raises and completes alerts through the API and keeps the registry
// in step with confirmed results.
type Harness struct {
	api AlertAPI
	reg *Registry
}

func NewHarness(api AlertAPI, reg *Registry) *Harness {
	return &Harness{api: api, reg: reg}
}

func (h *Harness) Registry() *Registry {
	return h.reg
}

// RaiseAlert raises an alert on the camera and records it on success.
func (h *Harness) RaiseAlert(ctx context.Context, cameraAP string) (models.ActiveAlert, error) {
	alert, err := h.api.InitiateAlert(ctx, cameraAP)
	if err != nil {
		return models.ActiveAlert{}, err
	}
	if err := h.reg.Add(alert); err != nil {
		return alert, err
	}
	return alert, nil
}

// CompleteAlert reviews and completes the alert, dropping it from the
// registry only when the server confirmed both steps.
func (h *Harness) CompleteAlert(ctx context.Context, alert models.ActiveAlert) error {
	if err := h.api.AlarmFullProcessing(ctx, &alert); err != nil {
		return err
	}
	if _, err := h.reg.Remove(alert.AlertID); err != nil {
		return err
	}
	return nil
}

// Drain completes every recorded alert. Alerts that fail stay recorded and
// their errors are joined.
func (h *Harness) Drain(ctx context.Context) error {
	pending := h.reg.Snapshot()
	if len(pending) == 0 {
		return nil
	}
	logger.Info("draining outstanding alerts", "count", len(pending))

	var errs []error
	for _, alert := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := h.CompleteAlert(ctx, alert); err != nil {
			errs = append(errs, fmt.Errorf("alert %s: %w", alert.AlertID, err))
		}
	}
	return errors.Join(errs...)
}
