package client

import (
	"context"
	"fmt"
	"strings"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

const (
	methodListCameras  = "axxonsoft.bl.domain.DomainService.ListCameras"
	methodListArchives = "axxonsoft.bl.domain.DomainService.ListArchives"
	methodChangeConfig = "axxonsoft.bl.config.ConfigurationService.ChangeConfig"
	methodListUnits    = "axxonsoft.bl.config.ConfigurationService.ListUnits"
)

// ListCameras returns every camera of the domain, following page tokens.
func (c *Client) ListCameras(ctx context.Context) ([]models.Camera, error) {
	var cameras []models.Camera
	token := ""

	for {
		var page models.ListCamerasResponse
		err := c.grpc(ctx, methodListCameras, models.ListCamerasRequest{
			View:      models.ViewModeFull,
			PageToken: token,
		}, &page)
		if err != nil {
			return cameras, fmt.Errorf("failed to list cameras: %w", err)
		}

		cameras = append(cameras, page.Items...)

		if page.NextPageToken == "" || page.NextPageToken == token {
			return cameras, nil
		}
		token = page.NextPageToken
	}
}

// ChangeConfig submits added/changed/removed units in one request.
func (c *Client) ChangeConfig(ctx context.Context, change models.ChangeConfigRequest) (*models.ChangeConfigResponse, error) {
	var out models.ChangeConfigResponse
	if err := c.grpc(ctx, methodChangeConfig, change, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUnits fetches configuration units with their properties.
func (c *Client) ListUnits(ctx context.Context, uids ...string) ([]models.Unit, error) {
	if len(uids) == 0 {
		return nil, nil
	}
	var out models.ListUnitsResponse
	if err := c.grpc(ctx, methodListUnits, models.ListUnitsRequest{UnitUIDs: uids}, &out); err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	if len(out.NotFoundObjects) > 0 {
		logger.Warn("units not found", "uids", strings.Join(out.NotFoundObjects, ","))
	}
	return out.Units, nil
}

// VirtualCamera describes a camera backed by the server's virtual video source.
type VirtualCamera struct {
	DisplayID   string
	DisplayName string
	Model       string // defaults to "Virtual several streams"
	Streams     int32
}

// CreateVirtualCamera adds a DeviceIpint under the configured host and
// returns its uid ("hosts/Server1/DeviceIpint.3").
func (c *Client) CreateVirtualCamera(ctx context.Context, cam VirtualCamera) (string, error) {
	model := cam.Model
	if model == "" {
		model = "Virtual several streams"
	}
	streams := cam.Streams
	if streams <= 0 {
		streams = 1
	}

	props := []models.Property{
		models.StringProperty("vendor", "Virtual"),
		models.StringProperty("model", model),
		models.StringProperty("display_name", cam.DisplayName),
		models.Int32Property("streams_count", streams),
		models.BoolProperty("enabled", true),
	}
	if cam.DisplayID != "" {
		props = append(props, models.StringProperty("display_id", cam.DisplayID))
	}

	out, err := c.ChangeConfig(ctx, models.ChangeConfigRequest{
		Added: []models.UnitAddition{{
			UID:   "hosts/" + c.Config.HostName,
			Units: []models.Unit{{Type: models.UnitDeviceIpint, Properties: props}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create camera %q: %w", cam.DisplayName, err)
	}
	if len(out.Added) == 0 {
		return "", fmt.Errorf("failed to create camera %q: %w: no uid returned", cam.DisplayName, ErrRejected)
	}

	logger.Success("camera created", "uid", out.Added[0], "name", cam.DisplayName)
	return out.Added[0], nil
}

// RemoveUnits deletes configuration units (cameras, detectors, archives) by uid.
func (c *Client) RemoveUnits(ctx context.Context, uids ...string) error {
	if len(uids) == 0 {
		return nil
	}
	refs := make([]models.UnitRef, len(uids))
	for i, uid := range uids {
		refs[i] = models.UnitRef{UID: uid}
	}
	if _, err := c.ChangeConfig(ctx, models.ChangeConfigRequest{Removed: refs}); err != nil {
		return fmt.Errorf("failed to remove units: %w", err)
	}
	logger.Debug("units removed", "count", len(uids))
	return nil
}
