package client

import (
	"context"
	"fmt"

	"vms-e2e/pkg/models"
)

// GetHosts fetches the node names of the cluster
func (c *Client) GetHosts(ctx context.Context) (models.HostList, error) {
	var hosts models.HostList

	// GET /hosts/ (bare JSON array)
	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&hosts).
		Get("/hosts/")

	if err != nil {
		return nil, err
	}

	if err := checkResponse("GET /hosts/", resp); err != nil {
		return nil, fmt.Errorf("failed to get hosts: %w", err)
	}

	return hosts, nil
}

// ListConfiguratorUnits lists the configuration subtree below uid through
// the configurator REST endpoint (the one the web client's settings page uses).
func (c *Client) ListConfiguratorUnits(ctx context.Context, uid string) ([]models.Unit, error) {
	var respData models.ListUnitsResponse

	req := c.HTTP.R().
		SetContext(ctx).
		SetResult(&respData)
	if uid != "" {
		req.SetQueryParam("unit_uids", uid)
	}

	resp, err := req.Get("/v1/configurator/list")
	if err != nil {
		return nil, err
	}

	if err := checkResponse("GET /v1/configurator/list", resp); err != nil {
		return nil, fmt.Errorf("failed to list configurator units: %w", err)
	}

	return respData.Units, nil
}
