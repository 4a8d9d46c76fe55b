package proxy

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"vms-e2e/internal/alerts"
)

type metrics struct {
	registry  *prometheus.Registry
	raised    prometheus.Counter
	completed prometheus.Counter
	requests  *prometheus.CounterVec
	// requests forwarded with the browser's own credentials, by user
	browserAuth *prometheus.CounterVec
}

func newMetrics(reg *alerts.Registry) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		raised: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vms_e2e_alerts_raised_total",
			Help: "Alerts raised through the proxy.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vms_e2e_alerts_completed_total",
			Help: "Alert completions confirmed by the server.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vms_e2e_proxied_requests_total",
			Help: "Proxied requests by upstream status class.",
		}, []string{"class"}),
		browserAuth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vms_e2e_browser_auth_requests_total",
			Help: "Requests forwarded with the browser's own credentials, by user.",
		}, []string{"user"}),
	}
	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vms_e2e_active_alerts",
		Help: "Alerts recorded and not yet completed.",
	}, func() float64 { return float64(reg.Len()) })

	m.registry.MustRegister(m.raised, m.completed, m.requests, m.browserAuth, active)
	return m
}

// observeStatus counts a response under "2xx", "4xx" and so on.
func (m *metrics) observeStatus(code int) {
	m.requests.WithLabelValues(strconv.Itoa(code/100) + "xx").Inc()
}
