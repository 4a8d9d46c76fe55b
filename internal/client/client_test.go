package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vms-e2e/internal/auth"
)

// call is one request seen by the fake gateway.
type call struct {
	Method string // gRPC method, or "VERB /path" for REST
	Data   json.RawMessage
	Auth   string
}

type handlerFunc func(data json.RawMessage) (int, any)

// gateway emulates POST /grpc and the REST endpoints of the server.
type gateway struct {
	t       *testing.T
	mu      sync.Mutex
	methods map[string]handlerFunc
	calls   []call
}

func newGateway(t *testing.T) (*gateway, *Client) {
	t.Helper()
	g := &gateway{t: t, methods: make(map[string]handlerFunc)}
	srv := httptest.NewServer(g)
	t.Cleanup(srv.Close)

	c := New(ClientConfig{
		BaseURL:  srv.URL,
		HostName: "Server1",
		Username: "root",
		Password: "root",
	})
	return g, c
}

// on registers a handler for a gRPC method or a "VERB /path" REST route.
func (g *gateway) on(key string, h handlerFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.methods[key] = h
}

// reply registers a fixed JSON answer.
func (g *gateway) reply(key string, status int, body any) {
	g.on(key, func(json.RawMessage) (int, any) { return status, body })
}

func (g *gateway) recorded(key string) []call {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []call
	for _, c := range g.calls {
		if c.Method == key {
			out = append(out, c)
		}
	}
	return out
}

func (g *gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	assert.NoError(g.t, err)

	key := r.Method + " " + r.URL.Path
	data := json.RawMessage(body)
	if r.URL.Path == "/grpc" {
		var env struct {
			Method string          `json:"method"`
			Data   json.RawMessage `json:"data"`
		}
		assert.NoError(g.t, json.Unmarshal(body, &env))
		key, data = env.Method, env.Data
	}

	g.mu.Lock()
	g.calls = append(g.calls, call{Method: key, Data: data, Auth: r.Header.Get("Authorization")})
	h, ok := g.methods[key]
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"unknown route"}`))
		return
	}
	status, out := h(data)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(out)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestClientSendsBasicAuth(t *testing.T) {
	g, c := newGateway(t)
	g.reply("GET /hosts/", http.StatusOK, []string{"Server1", "Server2"})

	hosts, err := c.GetHosts(testContext(t))
	require.NoError(t, err)
	assert.True(t, hosts.Contains("Server2"))
	assert.False(t, hosts.Contains("Server3"))

	calls := g.recorded("GET /hosts/")
	require.Len(t, calls, 1)
	assert.Equal(t, auth.BasicToken("root", "root"), calls[0].Auth)
	assert.Equal(t, calls[0].Auth, c.Token())
}

func TestGrpcTransportFailureIsAPIError(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodListCameras, http.StatusInternalServerError, map[string]string{"message": "boom"})

	_, err := c.ListCameras(testContext(t))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, methodListCameras, apiErr.Method)
	assert.Contains(t, apiErr.Body, "boom")
}

func TestGrpcFailedListIsRejected(t *testing.T) {
	g, c := newGateway(t)
	g.reply(methodChangeConfig, http.StatusOK, map[string]any{
		"failed": []map[string]string{{"uid": "hosts/Server1/DeviceIpint.9"}},
	})

	err := c.RemoveUnits(testContext(t), "hosts/Server1/DeviceIpint.9")
	require.ErrorIs(t, err, ErrRejected)
}

func TestListCamerasFollowsPages(t *testing.T) {
	g, c := newGateway(t)
	g.on(methodListCameras, func(data json.RawMessage) (int, any) {
		req := decode[struct {
			PageToken string `json:"page_token"`
		}](t, data)
		if req.PageToken == "" {
			return http.StatusOK, map[string]any{
				"items":           []map[string]string{{"access_point": "hosts/Server1/DeviceIpint.1/SourceEndpoint.video:0:0"}},
				"next_page_token": "p2",
			}
		}
		return http.StatusOK, map[string]any{
			"items": []map[string]string{{"access_point": "hosts/Server1/DeviceIpint.2/SourceEndpoint.video:0:0"}},
		}
	})

	cams, err := c.ListCameras(testContext(t))
	require.NoError(t, err)
	require.Len(t, cams, 2)
	assert.Equal(t, "hosts/Server1/DeviceIpint.2", cams[1].DeviceUID())
}
