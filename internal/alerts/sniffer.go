package alerts

import (
	"encoding/json"
	"strings"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

// Exchange is one request/response pair seen between the browser and the server.
type Exchange struct {
	URL          string
	RequestBody  []byte
	StatusCode   int
	ResponseBody []byte
}

// Sniffer mirrors alert transitions triggered from the UI into the registry.
type Sniffer struct {
	reg *Registry

	// Optional hooks, called after the registry was updated.
	OnRaise    func(models.ActiveAlert)
	OnComplete func(alertID string)
}

func NewSniffer(reg *Registry) *Sniffer {
	return &Sniffer{reg: reg}
}

// Interesting reports whether Observe would look at an exchange for url.
func Interesting(url string) bool {
	return strings.Contains(url, "raisealert") || strings.Contains(url, "complete")
}

// Observe inspects an exchange. Anything that is not a successful raise or
// complete is ignored.
func (s *Sniffer) Observe(ex Exchange) {
	if ex.StatusCode < 200 || ex.StatusCode > 299 {
		return
	}

	switch {
	case strings.Contains(ex.URL, "raisealert"):
		s.observeRaise(ex)
	case strings.Contains(ex.URL, "complete"):
		s.observeComplete(ex)
	}
}

func (s *Sniffer) observeRaise(ex Exchange) {
	var resp models.AlertActionResponse
	if err := json.Unmarshal(ex.ResponseBody, &resp); err != nil || resp.AlertID == "" {
		return
	}
	var req models.RaiseAlertRequest
	if err := json.Unmarshal(ex.RequestBody, &req); err != nil {
		logger.Debug("raise request not decodable", "url", ex.URL, "error", err)
	}

	alert := models.ActiveAlert{CameraAP: req.CameraAP, AlertID: resp.AlertID}
	if err := s.reg.Add(alert); err != nil {
		return
	}
	logger.Debug("sniffed alert raise", "alert_id", alert.AlertID, "camera", alert.CameraAP)
	if s.OnRaise != nil {
		s.OnRaise(alert)
	}
}

func (s *Sniffer) observeComplete(ex Exchange) {
	var resp models.AlertActionResponse
	if err := json.Unmarshal(ex.ResponseBody, &resp); err != nil || !resp.Result {
		return
	}
	var req models.AlertActionRequest
	if err := json.Unmarshal(ex.RequestBody, &req); err != nil || req.AlertID == "" {
		return
	}

	removed, err := s.reg.Remove(req.AlertID)
	if err != nil {
		return
	}
	logger.Debug("sniffed alert completion", "alert_id", req.AlertID, "known", removed)
	if s.OnComplete != nil {
		s.OnComplete(req.AlertID)
	}
}
