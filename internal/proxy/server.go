// Package proxy sits between the browser under test and the VMS server. It
// forwards everything unchanged, feeds alert traffic to the sniffer and
// exposes Prometheus metrics about what it saw.
package proxy

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vms-e2e/internal/alerts"
	"vms-e2e/internal/auth"
	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// maxSniffBody caps how much of a request or response is buffered for the sniffer.
const maxSniffBody = 1 << 20

type Options struct {
	Target *url.URL
	// Token is injected as Authorization on requests that carry none.
	Token       string
	InsecureTLS bool
}

type Server struct {
	router  chi.Router
	proxy   *httputil.ReverseProxy
	reg     *alerts.Registry
	sniffer *alerts.Sniffer
	metrics *metrics
	opts    Options
	http    *http.Server
}

type ctxKey struct{}

func NewServer(opts Options, reg *alerts.Registry) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		reg:     reg,
		sniffer: alerts.NewSniffer(reg),
		metrics: newMetrics(reg),
		opts:    opts,
	}
	s.sniffer.OnRaise = func(models.ActiveAlert) { s.metrics.raised.Inc() }
	s.sniffer.OnComplete = func(string) { s.metrics.completed.Inc() }

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	s.proxy = &httputil.ReverseProxy{
		Rewrite:        s.rewrite,
		Transport:      transport,
		ModifyResponse: s.modifyResponse,
		ErrorHandler:   s.proxyError,
		FlushInterval:  -1,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	s.router.Get("/_proxy/alerts", s.handleAlerts)
	s.router.With(captureBody).Handle("/*", s.proxy)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe blocks until the server stops. It returns nil after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("proxy listening", "addr", addr, "target", s.opts.Target.String())
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) rewrite(pr *httputil.ProxyRequest) {
	pr.SetURL(s.opts.Target)
	pr.SetXForwarded()
	if !auth.Inject(pr.Out, s.opts.Token) {
		s.observeBrowserAuth(pr.Out)
	}
	// The sniffer reads plain JSON.
	if alerts.Interesting(pr.Out.URL.Path) {
		pr.Out.Header.Del("Accept-Encoding")
	}
}

// observeBrowserAuth records which user the browser authenticated as.
// Non-Basic schemes are left alone.
func (s *Server) observeBrowserAuth(r *http.Request) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return
	}
	user, _, err := auth.ParseBasicToken(header)
	if err != nil {
		logger.Debug("browser sent non-basic credentials", "path", r.URL.Path)
		return
	}
	s.metrics.browserAuth.WithLabelValues(user).Inc()
	logger.Debug("browser credentials kept", "user", user, "path", r.URL.Path)
}

func (s *Server) modifyResponse(resp *http.Response) error {
	s.metrics.observeStatus(resp.StatusCode)

	path := resp.Request.URL.Path
	if !alerts.Interesting(path) || resp.Header.Get("Content-Encoding") != "" {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSniffBody))
	if err != nil {
		return err
	}
	resp.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), resp.Body), resp.Body}

	reqBody, _ := resp.Request.Context().Value(ctxKey{}).([]byte)
	s.sniffer.Observe(alerts.Exchange{
		URL:          path,
		RequestBody:  reqBody,
		StatusCode:   resp.StatusCode,
		ResponseBody: body,
	})
	return nil
}

func (s *Server) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.requests.WithLabelValues("error").Inc()
	logger.Error("upstream request failed", err, "method", r.Method, "path", r.URL.Path)
	w.WriteHeader(http.StatusBadGateway)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"alerts": s.reg.Snapshot()})
}

// captureBody keeps a copy of alert request bodies in the context so the
// response side can see what was posted.
func captureBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil || !alerts.Interesting(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, maxSniffBody))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}
		r.Body = struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, body)))
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("proxied",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
