package client

import (
	"context"
	"errors"
	"fmt"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

const methodGetActiveAlerts = "axxonsoft.bl.logic.LogicService.GetActiveAlerts"

// Alert lifecycle verbs of /v1/logic_service.
const (
	verbBegin    = "beginalert"
	verbComplete = "completealert"
	verbRaise    = "raisealert"
	verbCancel   = "cancelalert"
)

// GetActiveAlerts lists the active alerts of one camera, following page tokens.
// On failure it returns the alerts collected from earlier pages along with the error.
func (c *Client) GetActiveAlerts(ctx context.Context, cameraAP string) ([]models.ActiveAlert, error) {
	alerts := []models.ActiveAlert{}
	token := ""

	for {
		var page models.ActiveAlertsResponse
		err := c.grpc(ctx, methodGetActiveAlerts, models.ActiveAlertsRequest{
			CameraAP:  cameraAP,
			PageToken: token,
		}, &page)
		if err != nil {
			return alerts, fmt.Errorf("failed to get active alerts for %s: %w", cameraAP, err)
		}

		for _, a := range page.Alerts {
			if a.CameraAP == "" {
				a.CameraAP = cameraAP
			}
			alerts = append(alerts, a)
		}

		if page.NextPageToken == "" || page.NextPageToken == token {
			return alerts, nil
		}
		token = page.NextPageToken
	}
}

// logicCall posts one alert verb and requires "result": true.
func (c *Client) logicCall(ctx context.Context, verb string, body any) (*models.AlertActionResponse, error) {
	var out models.AlertActionResponse

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/v1/logic_service/" + verb)

	if err != nil {
		logger.Error("alert call failed", err, "verb", verb)
		return nil, fmt.Errorf("%s: %w", verb, err)
	}
	if err := checkResponse(verb, resp); err != nil {
		return nil, err
	}
	if !out.Result {
		err := fmt.Errorf("%s: %w", verb, ErrRejected)
		logger.Error("alert call rejected", err, "verb", verb)
		return nil, err
	}
	return &out, nil
}

// StartAlertHandle puts the alert into review ("being handled") state.
func (c *Client) StartAlertHandle(ctx context.Context, alert models.ActiveAlert) error {
	if _, err := c.logicCall(ctx, verbBegin, models.AlertActionRequest{AlertID: alert.AlertID}); err != nil {
		return err
	}
	logger.Debug("alert review started", "alert_id", alert.AlertID)
	return nil
}

// HandleAlert completes the alert as a false alarm. The severity is written
// back into alert so callers see the verdict that was sent.
func (c *Client) HandleAlert(ctx context.Context, alert *models.ActiveAlert) error {
	alert.Severity = models.SeverityFalse

	_, err := c.logicCall(ctx, verbComplete, models.AlertActionRequest{
		AlertID:  alert.AlertID,
		Severity: alert.Severity,
	})
	if err != nil {
		return err
	}
	logger.Debug("alert completed", "alert_id", alert.AlertID, "severity", alert.Severity)
	return nil
}

// InitiateAlert raises a new alert on the camera and returns the server-assigned id.
func (c *Client) InitiateAlert(ctx context.Context, cameraAP string) (models.ActiveAlert, error) {
	out, err := c.logicCall(ctx, verbRaise, models.RaiseAlertRequest{CameraAP: cameraAP})
	if err != nil {
		return models.ActiveAlert{}, err
	}
	if out.AlertID == "" {
		err := fmt.Errorf("%s: %w: no alert_id returned", verbRaise, ErrRejected)
		logger.Error("alert raise returned no id", err, "camera", cameraAP)
		return models.ActiveAlert{}, err
	}

	logger.Success("alert raised", "camera", cameraAP, "alert_id", out.AlertID)
	return models.ActiveAlert{CameraAP: cameraAP, AlertID: out.AlertID}, nil
}

// CancelAlertHandle releases the review lock taken by StartAlertHandle.
func (c *Client) CancelAlertHandle(ctx context.Context, alert models.ActiveAlert) error {
	if _, err := c.logicCall(ctx, verbCancel, models.AlertActionRequest{AlertID: alert.AlertID}); err != nil {
		return err
	}
	logger.Debug("alert review cancelled", "alert_id", alert.AlertID)
	return nil
}

// AlarmFullProcessing starts reviewing the alert and completes it.
// Completion is attempted even when the review could not be started;
// the returned error is nil only if both steps succeeded.
func (c *Client) AlarmFullProcessing(ctx context.Context, alert *models.ActiveAlert) error {
	startErr := c.StartAlertHandle(ctx, *alert)
	if startErr != nil {
		logger.Warn("alert review not started, completing anyway", "alert_id", alert.AlertID)
	}

	if err := c.HandleAlert(ctx, alert); err != nil {
		return errors.Join(startErr, err)
	}
	if startErr != nil {
		return startErr
	}

	logger.Success("alert processed", "camera", alert.CameraAP, "alert_id", alert.AlertID)
	return nil
}
