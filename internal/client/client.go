package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"vms-e2e/internal/auth"
	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// ErrRejected is returned when the server answered 2xx but refused the
// request: "result" false or a non-empty "failed" list.
var ErrRejected = errors.New("request rejected by server")

// APIError describes a transport-level failure (non-2xx status).
type APIError struct {
	Method string // gRPC method or HTTP verb
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to one VMS server through the gRPC gateway and the REST endpoints.
type Client struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	BaseURL     string
	HostName    string // Node that owns created cameras and archives, e.g. "Server1"
	Username    string
	Password    string
	InsecureTLS bool
	Timeout     time.Duration
}

func New(cfg ClientConfig) *Client {
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	if cfg.Username != "" {
		r.SetHeader("Authorization", auth.BasicToken(cfg.Username, cfg.Password))
	}
	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}
	// Test servers usually run with self-signed certificates.
	if cfg.InsecureTLS {
		r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &Client{
		HTTP:   r,
		Config: cfg,
	}
}

// Token returns the Authorization header value used by this client.
func (c *Client) Token() string {
	return c.HTTP.Header.Get("Authorization")
}

// grpc issues POST /grpc {method, data} and decodes the payload into result.
// result may be nil when only the status matters.
func (c *Client) grpc(ctx context.Context, method string, data, result any) error {
	req := c.HTTP.R().
		SetContext(ctx).
		SetBody(models.GrpcRequest{Method: method, Data: data})
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Post("/grpc")
	if err != nil {
		logger.Error("gateway call failed", err, "method", method)
		return fmt.Errorf("%s: %w", method, err)
	}
	return checkResponse(method, resp)
}

// checkResponse turns non-2xx statuses and business rejections into errors.
func checkResponse(method string, resp *resty.Response) error {
	if resp.IsError() {
		apiErr := &APIError{
			Method: method,
			Path:   resp.Request.URL,
			Status: resp.StatusCode(),
			Body:   resp.String(),
		}
		logger.Error("request failed", apiErr, "method", method, "status", resp.StatusCode())
		return apiErr
	}

	var st models.Status
	if body := resp.Body(); len(body) > 0 && body[0] == '{' {
		if err := json.Unmarshal(body, &st); err != nil {
			return fmt.Errorf("%s: decode status: %w", method, err)
		}
	}
	if st.Rejected() {
		err := fmt.Errorf("%s: %w: %s", method, ErrRejected, resp.String())
		logger.Error("request rejected", err, "method", method)
		return err
	}
	return nil
}
