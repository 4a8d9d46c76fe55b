package client

import (
	"context"
	"fmt"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

const methodUpdateLayouts = "axxonsoft.bl.layout.LayoutManager.Update"

// CreateLayout submits one layout built by the layout package and returns its id.
func (c *Client) CreateLayout(ctx context.Context, l models.Layout) (string, error) {
	if err := c.grpc(ctx, methodUpdateLayouts, models.LayoutUpdateRequest{Created: []models.Layout{l}}, nil); err != nil {
		return "", fmt.Errorf("failed to create layout %q: %w", l.DisplayName, err)
	}
	logger.Success("layout created", "id", l.ID, "name", l.DisplayName, "cells", len(l.Cells))
	return l.ID, nil
}

// ListLayouts returns the layouts visible to the current user.
func (c *Client) ListLayouts(ctx context.Context) ([]models.Layout, error) {
	var respData models.ListLayoutsResponse

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&respData).
		Get("/v1/layouts")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("GET /v1/layouts", resp); err != nil {
		return nil, fmt.Errorf("failed to list layouts: %w", err)
	}

	return respData.Items, nil
}

// DeleteLayouts removes layouts by id.
func (c *Client) DeleteLayouts(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := c.grpc(ctx, methodUpdateLayouts, models.LayoutUpdateRequest{Removed: ids}, nil); err != nil {
		return fmt.Errorf("failed to delete layouts: %w", err)
	}
	logger.Debug("layouts removed", "count", len(ids))
	return nil
}
