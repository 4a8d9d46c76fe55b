package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"vms-e2e/pkg/models"
)

// GetDetectorEvents reads detector events recorded for a camera between start and end.
// The archive API takes the range newest-first in the path.
func (c *Client) GetDetectorEvents(ctx context.Context, cameraAP string, start, end time.Time, limit int) ([]models.DetectorEvent, error) {
	var respData models.DetectorEventsResponse

	if end.IsZero() {
		end = time.Now()
	}

	req := c.HTTP.R().
		SetContext(ctx).
		SetRawPathParams(map[string]string{
			"camera": models.ShortAP(cameraAP),
			"end":    end.UTC().Format(models.EventTimeFormat),
			"start":  start.UTC().Format(models.EventTimeFormat),
		})

	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.
		SetResult(&respData).
		Get("/archive/events/detectors/{camera}/{end}/{start}")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("GET /archive/events/detectors", resp); err != nil {
		return nil, fmt.Errorf("failed to read detector events for %s: %w", cameraAP, err)
	}

	return respData.Events, nil
}
