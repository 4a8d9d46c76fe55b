package client

import (
	"context"
	"errors"
	"fmt"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// GetSnapshot downloads the current JPEG frame of a camera.
func (c *Client) GetSnapshot(ctx context.Context, cameraAP string) ([]byte, error) {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetHeader("Accept", "image/jpeg").
		SetRawPathParam("camera", models.ShortAP(cameraAP)).
		Get("/live/media/snapshot/{camera}")

	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to get snapshot: %w", &APIError{
			Method: "GET",
			Path:   resp.Request.URL,
			Status: resp.StatusCode(),
			Body:   resp.String(),
		})
	}

	if len(resp.Body()) == 0 {
		return nil, errors.New("response body is empty")
	}

	logger.Debug("snapshot received",
		"camera", cameraAP,
		"content_type", resp.Header().Get("Content-Type"),
		"bytes", len(resp.Body()))

	return resp.Body(), nil
}
