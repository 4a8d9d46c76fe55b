package client

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-e2e/pkg/models"
)

func TestInitiateAlert(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		want    models.ActiveAlert
		wantErr error
	}{
		{
			name:   "server assigns id",
			status: http.StatusOK,
			body:   map[string]any{"result": true, "alert_id": "A1"},
			want:   models.ActiveAlert{CameraAP: "cam/42", AlertID: "A1"},
		},
		{
			name:    "result false",
			status:  http.StatusOK,
			body:    map[string]any{"result": false},
			wantErr: ErrRejected,
		},
		{
			name:    "result true without id",
			status:  http.StatusOK,
			body:    map[string]any{"result": true},
			wantErr: ErrRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, c := newGateway(t)
			g.reply("POST /v1/logic_service/raisealert", tt.status, tt.body)

			got, err := c.InitiateAlert(testContext(t), "cam/42")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, models.ActiveAlert{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			sent := decode[models.RaiseAlertRequest](t, g.recorded("POST /v1/logic_service/raisealert")[0].Data)
			assert.Equal(t, "cam/42", sent.CameraAP)
		})
	}
}

func TestInitiateAlertTransportFailure(t *testing.T) {
	g, c := newGateway(t)
	g.reply("POST /v1/logic_service/raisealert", http.StatusServiceUnavailable, map[string]string{"message": "down"})

	_, err := c.InitiateAlert(testContext(t), "cam/42")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestHandleAlertMarksFalseAlarm(t *testing.T) {
	g, c := newGateway(t)
	g.reply("POST /v1/logic_service/completealert", http.StatusOK, map[string]bool{"result": true})

	alert := models.ActiveAlert{CameraAP: "cam/1", AlertID: "A7"}
	require.NoError(t, c.HandleAlert(testContext(t), &alert))
	assert.Equal(t, models.SeverityFalse, alert.Severity, "caller's alert is updated")

	sent := decode[models.AlertActionRequest](t, g.recorded("POST /v1/logic_service/completealert")[0].Data)
	assert.Equal(t, models.AlertActionRequest{AlertID: "A7", Severity: models.SeverityFalse}, sent)
}

func TestStartAndCancelAlertHandle(t *testing.T) {
	g, c := newGateway(t)
	g.reply("POST /v1/logic_service/beginalert", http.StatusOK, map[string]bool{"result": true})
	g.reply("POST /v1/logic_service/cancelalert", http.StatusOK, map[string]bool{"result": false})

	alert := models.ActiveAlert{CameraAP: "cam/1", AlertID: "A2"}
	require.NoError(t, c.StartAlertHandle(testContext(t), alert))
	require.ErrorIs(t, c.CancelAlertHandle(testContext(t), alert), ErrRejected)
}

func TestAlarmFullProcessing(t *testing.T) {
	t.Run("both steps succeed", func(t *testing.T) {
		g, c := newGateway(t)
		g.reply("POST /v1/logic_service/beginalert", http.StatusOK, map[string]bool{"result": true})
		g.reply("POST /v1/logic_service/completealert", http.StatusOK, map[string]bool{"result": true})

		alert := models.ActiveAlert{CameraAP: "cam/1", AlertID: "A1"}
		require.NoError(t, c.AlarmFullProcessing(testContext(t), &alert))
	})

	t.Run("completes even when start fails", func(t *testing.T) {
		g, c := newGateway(t)
		g.reply("POST /v1/logic_service/beginalert", http.StatusOK, map[string]bool{"result": false})
		g.reply("POST /v1/logic_service/completealert", http.StatusOK, map[string]bool{"result": true})

		alert := models.ActiveAlert{CameraAP: "cam/1", AlertID: "A1"}
		err := c.AlarmFullProcessing(testContext(t), &alert)
		require.ErrorIs(t, err, ErrRejected)
		assert.Len(t, g.recorded("POST /v1/logic_service/completealert"), 1)
	})

	t.Run("complete fails", func(t *testing.T) {
		g, c := newGateway(t)
		g.reply("POST /v1/logic_service/beginalert", http.StatusOK, map[string]bool{"result": true})
		g.reply("POST /v1/logic_service/completealert", http.StatusInternalServerError, map[string]string{})

		alert := models.ActiveAlert{CameraAP: "cam/1", AlertID: "A1"}
		var apiErr *APIError
		require.ErrorAs(t, c.AlarmFullProcessing(testContext(t), &alert), &apiErr)
	})
}

func TestGetActiveAlerts(t *testing.T) {
	g, c := newGateway(t)
	pages := 0
	g.on(methodGetActiveAlerts, func(data json.RawMessage) (int, any) {
		req := decode[models.ActiveAlertsRequest](t, data)
		assert.Equal(t, "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0", req.CameraAP)
		pages++
		switch req.PageToken {
		case "":
			return http.StatusOK, map[string]any{
				"alerts":          []map[string]string{{"alert_id": "A1"}, {"alert_id": "A2"}},
				"next_page_token": "t2",
			}
		case "t2":
			return http.StatusOK, map[string]any{
				"alerts":          []map[string]string{{"alert_id": "A3"}},
				"next_page_token": "t3",
			}
		default:
			return http.StatusBadGateway, map[string]string{"message": "lost"}
		}
	})

	alerts, err := c.GetActiveAlerts(testContext(t), "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0")
	require.Error(t, err, "third page fails")
	assert.Equal(t, 3, pages)
	require.Len(t, alerts, 3, "alerts from earlier pages are kept")
	assert.Equal(t, "A3", alerts[2].AlertID)
	assert.Equal(t, "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0", alerts[0].CameraAP)
}

func TestGetActiveAlertsFirstPageFailure(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodGetActiveAlerts, http.StatusUnauthorized, map[string]string{})

	alerts, err := c.GetActiveAlerts(testContext(t), "cam/1")
	require.Error(t, err)
	assert.Empty(t, alerts)
	assert.NotNil(t, alerts)
}
