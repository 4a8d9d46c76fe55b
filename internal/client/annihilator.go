package client

import (
	"context"
	"fmt"
	"strings"

	"vms-e2e/internal/logger"
)

// Annihilators delete every matching object so the next test starts from a
// known server state. An empty prefix matches everything; otherwise only
// objects whose display name starts with prefix are removed.
// Each returns the number of objects deleted.

func matches(name, prefix string) bool {
	return prefix == "" || strings.HasPrefix(name, prefix)
}

// AnnihilateCameras removes the devices of all matching cameras.
func (c *Client) AnnihilateCameras(ctx context.Context, prefix string) (int, error) {
	cameras, err := c.ListCameras(ctx)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	var uids []string
	for _, cam := range cameras {
		uid := cam.DeviceUID()
		if !matches(cam.DisplayName, prefix) || seen[uid] {
			continue
		}
		seen[uid] = true
		uids = append(uids, uid)
	}

	if err := c.RemoveUnits(ctx, uids...); err != nil {
		return 0, fmt.Errorf("annihilate cameras: %w", err)
	}
	logger.Info("cameras annihilated", "count", len(uids), "prefix", prefix)
	return len(uids), nil
}

// AnnihilateArchives removes matching archives, keeping the embedded default one.
func (c *Client) AnnihilateArchives(ctx context.Context, prefix string) (int, error) {
	archives, err := c.ListArchives(ctx)
	if err != nil {
		return 0, err
	}

	var uids []string
	for _, a := range archives {
		if a.IsEmbedded || a.IsDefault || !matches(a.DisplayName, prefix) {
			continue
		}
		uids = append(uids, a.StorageUID())
	}

	if err := c.RemoveUnits(ctx, uids...); err != nil {
		return 0, fmt.Errorf("annihilate archives: %w", err)
	}
	logger.Info("archives annihilated", "count", len(uids), "prefix", prefix)
	return len(uids), nil
}

// AnnihilateLayouts removes matching layouts.
func (c *Client) AnnihilateLayouts(ctx context.Context, prefix string) (int, error) {
	layouts, err := c.ListLayouts(ctx)
	if err != nil {
		return 0, err
	}

	var ids []string
	for _, l := range layouts {
		if matches(l.DisplayName, prefix) {
			ids = append(ids, l.ID)
		}
	}

	if err := c.DeleteLayouts(ctx, ids...); err != nil {
		return 0, fmt.Errorf("annihilate layouts: %w", err)
	}
	logger.Info("layouts annihilated", "count", len(ids), "prefix", prefix)
	return len(ids), nil
}

// AnnihilateMacros removes matching macros.
func (c *Client) AnnihilateMacros(ctx context.Context, prefix string) (int, error) {
	macros, err := c.ListMacros(ctx)
	if err != nil {
		return 0, err
	}

	var guids []string
	for _, m := range macros {
		if matches(m.Name, prefix) {
			guids = append(guids, m.GUID)
		}
	}

	if err := c.DeleteMacros(ctx, guids...); err != nil {
		return 0, fmt.Errorf("annihilate macros: %w", err)
	}
	logger.Info("macros annihilated", "count", len(guids), "prefix", prefix)
	return len(guids), nil
}
