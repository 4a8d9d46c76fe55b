package client

import (
	"context"
	"fmt"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

const (
	methodChangeMacros = "axxonsoft.bl.logic.LogicService.ChangeMacros"
	methodListMacros   = "axxonsoft.bl.logic.LogicService.ListMacros"
)

// CreateMacro submits a new macro. Build the value with the macro package.
func (c *Client) CreateMacro(ctx context.Context, m models.Macro) error {
	if err := c.grpc(ctx, methodChangeMacros, models.ChangeMacrosRequest{AddedMacros: []models.Macro{m}}, nil); err != nil {
		return fmt.Errorf("failed to create macro %q: %w", m.Name, err)
	}
	logger.Success("macro created", "guid", m.GUID, "name", m.Name)
	return nil
}

// ListMacros returns all macros with conditions and rules.
func (c *Client) ListMacros(ctx context.Context) ([]models.Macro, error) {
	var out models.ListMacrosResponse
	if err := c.grpc(ctx, methodListMacros, models.ListMacrosRequest{View: models.ViewModeFull}, &out); err != nil {
		return nil, fmt.Errorf("failed to list macros: %w", err)
	}
	return out.Items, nil
}

// SetMacroEnabled switches a macro on or off.
func (c *Client) SetMacroEnabled(ctx context.Context, m models.Macro, enabled bool) error {
	m.Mode.Enabled = enabled
	if err := c.grpc(ctx, methodChangeMacros, models.ChangeMacrosRequest{ModifiedMacros: []models.Macro{m}}, nil); err != nil {
		return fmt.Errorf("failed to modify macro %q: %w", m.Name, err)
	}
	logger.Debug("macro modified", "guid", m.GUID, "enabled", enabled)
	return nil
}

// DeleteMacros removes macros by guid.
func (c *Client) DeleteMacros(ctx context.Context, guids ...string) error {
	if len(guids) == 0 {
		return nil
	}
	if err := c.grpc(ctx, methodChangeMacros, models.ChangeMacrosRequest{RemovedMacros: guids}, nil); err != nil {
		return fmt.Errorf("failed to delete macros: %w", err)
	}
	logger.Debug("macros removed", "count", len(guids))
	return nil
}
