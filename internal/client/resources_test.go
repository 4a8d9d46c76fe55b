package client

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-e2e/pkg/models"
)

func TestCreateAndListMacros(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodChangeMacros, http.StatusOK, map[string]any{})
	g.reply(methodListMacros, http.StatusOK, map[string]any{
		"items": []map[string]any{{"guid": "m1", "name": "rec", "mode": map[string]any{"enabled": true}}},
	})

	m := models.Macro{GUID: "m1", Name: "rec", Mode: models.MacroMode{Enabled: true}}
	require.NoError(t, c.CreateMacro(testContext(t), m))
	sent := decode[models.ChangeMacrosRequest](t, g.recorded(methodChangeMacros)[0].Data)
	require.Len(t, sent.AddedMacros, 1)
	assert.Equal(t, "m1", sent.AddedMacros[0].GUID)

	macros, err := c.ListMacros(testContext(t))
	require.NoError(t, err)
	require.Len(t, macros, 1)

	require.NoError(t, c.SetMacroEnabled(testContext(t), macros[0], false))
	sent = decode[models.ChangeMacrosRequest](t, g.recorded(methodChangeMacros)[1].Data)
	require.Len(t, sent.ModifiedMacros, 1)
	assert.False(t, sent.ModifiedMacros[0].Mode.Enabled)
	assert.True(t, macros[0].Mode.Enabled, "caller's copy untouched")
}

func TestCreateLayout(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodUpdateLayouts, http.StatusOK, map[string]any{})

	id, err := c.CreateLayout(testContext(t), models.Layout{ID: "L1", DisplayName: "Base", Cells: map[string]models.Cell{"0": {Position: 0}}})
	require.NoError(t, err)
	assert.Equal(t, "L1", id)

	sent := decode[models.LayoutUpdateRequest](t, g.recorded(methodUpdateLayouts)[0].Data)
	require.Len(t, sent.Created, 1)
	assert.Equal(t, "Base", sent.Created[0].DisplayName)
}

func TestListLayouts(t *testing.T) {
	g, c := newGateway(t)
	g.reply("GET /v1/layouts", http.StatusOK, map[string]any{
		"items": []map[string]any{{"id": "L1", "display_name": "e2e-layout"}},
	})

	layouts, err := c.ListLayouts(testContext(t))
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	assert.Equal(t, "e2e-layout", layouts[0].DisplayName)
}

func TestDeleteMacrosWithoutGUIDsSendsNothing(t *testing.T) {
	g, c := newGateway(t)
	require.NoError(t, c.DeleteMacros(testContext(t)))
	require.NoError(t, c.DeleteLayouts(testContext(t)))
	assert.Empty(t, g.recorded(methodChangeMacros))
	assert.Empty(t, g.recorded(methodUpdateLayouts))
}

func TestGetSnapshot(t *testing.T) {
	g, c := newGateway(t)
	g.reply("GET /live/media/snapshot/Server1/DeviceIpint.1/SourceEndpoint.video:0:0", http.StatusOK, "jpeg")

	img, err := c.GetSnapshot(testContext(t), cameraAP)
	require.NoError(t, err)
	assert.NotEmpty(t, img)

	_, err = c.GetSnapshot(testContext(t), "hosts/Server1/DeviceIpint.9/SourceEndpoint.video:0:0")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestCreateAndBindArchive(t *testing.T) {
	g, c := newGateway(t)
	g.on(methodChangeConfig, func(data json.RawMessage) (int, any) {
		req := decode[models.ChangeConfigRequest](t, data)
		if req.Added[0].Units[0].Type == models.UnitMultimediaStorage {
			return http.StatusOK, map[string]any{"added": []string{"hosts/Server1/MultimediaStorage.Black"}}
		}
		return http.StatusOK, map[string]any{"added": []string{"hosts/Server1/DeviceIpint.1/ArchiveContext.0"}}
	})

	uid, err := c.CreateArchive(testContext(t), "e2e-archive", 5)
	require.NoError(t, err)
	assert.Equal(t, "hosts/Server1/MultimediaStorage.Black", uid)

	require.NoError(t, c.BindArchive(testContext(t), cameraAP, uid+"/MultimediaStorage"))
	bind := decode[models.ChangeConfigRequest](t, g.recorded(methodChangeConfig)[1].Data)
	assert.Equal(t, "hosts/Server1/DeviceIpint.1", bind.Added[0].UID)
	ap, ok := bind.Added[0].Units[0].Property("archive_ap")
	require.True(t, ok)
	assert.Equal(t, "hosts/Server1/MultimediaStorage.Black/MultimediaStorage", ap.Value())
}

func TestListConfiguratorUnits(t *testing.T) {
	g, c := newGateway(t)
	g.reply("GET /v1/configurator/list", http.StatusOK, map[string]any{
		"units": []map[string]any{{"uid": "hosts/Server1/DeviceIpint.1", "type": "DeviceIpint"}},
	})

	units, err := c.ListConfiguratorUnits(testContext(t), "hosts/Server1/DeviceIpint.1")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, models.UnitDeviceIpint, units[0].Type)
}
