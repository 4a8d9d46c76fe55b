package client

import (
	"context"
	"fmt"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// ListArchives returns every archive known to the domain.
func (c *Client) ListArchives(ctx context.Context) ([]models.Archive, error) {
	var archives []models.Archive
	token := ""

	for {
		var page models.ListArchivesResponse
		err := c.grpc(ctx, methodListArchives, models.ListArchivesRequest{
			View:      models.ViewModeFull,
			PageToken: token,
		}, &page)
		if err != nil {
			return archives, fmt.Errorf("failed to list archives: %w", err)
		}

		archives = append(archives, page.Items...)

		if page.NextPageToken == "" || page.NextPageToken == token {
			return archives, nil
		}
		token = page.NextPageToken
	}
}

// CreateArchive adds a file-backed MultimediaStorage under the configured host.
func (c *Client) CreateArchive(ctx context.Context, name string, sizeGB int32) (string, error) {
	out, err := c.ChangeConfig(ctx, models.ChangeConfigRequest{
		Added: []models.UnitAddition{{
			UID: "hosts/" + c.Config.HostName,
			Units: []models.Unit{{
				Type: models.UnitMultimediaStorage,
				Properties: []models.Property{
					models.StringProperty("display_name", name),
					models.StringProperty("storage_type", "object"),
					models.Int32Property("max_size_gb", sizeGB),
				},
			}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create archive %q: %w", name, err)
	}
	if len(out.Added) == 0 {
		return "", fmt.Errorf("failed to create archive %q: %w: no uid returned", name, ErrRejected)
	}

	logger.Success("archive created", "uid", out.Added[0], "name", name)
	return out.Added[0], nil
}

// BindArchive makes the camera record into the archive.
func (c *Client) BindArchive(ctx context.Context, cameraAP, archiveAP string) error {
	_, err := c.ChangeConfig(ctx, models.ChangeConfigRequest{
		Added: []models.UnitAddition{{
			UID: models.DeviceUID(cameraAP),
			Units: []models.Unit{{
				Type: models.UnitArchiveContext,
				Properties: []models.Property{
					models.StringProperty("archive_ap", archiveAP),
					models.StringProperty("camera_ref", cameraAP),
					models.BoolProperty("constant_recording", false),
					models.Int32Property("prerecord_sec", 5),
				},
			}},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to bind %s to %s: %w", cameraAP, archiveAP, err)
	}
	logger.Debug("archive bound", "camera", cameraAP, "archive", archiveAP)
	return nil
}
