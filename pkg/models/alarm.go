package models

// ActiveAlert is one outstanding alert tied to one camera endpoint.
type ActiveAlert struct {
	CameraAP string `json:"camera_ap"`
	AlertID  string `json:"alert_id"`
	Severity string `json:"severity,omitempty"`
	// Timestamp is only filled by list responses.
	Timestamp string `json:"timestamp,omitempty"`
}

// Alert review verdicts sent with completealert.
const (
	SeverityFalse        = "SV_FALSE"
	SeverityWarning      = "SV_WARNING"
	SeverityAlarm        = "SV_ALARM"
	SeverityUnclassified = "SV_UNCLASSIFIED"
)

// ActiveAlertsRequest is the body of LogicService.GetActiveAlerts.
type ActiveAlertsRequest struct {
	CameraAP  string `json:"camera_ap"`
	PageToken string `json:"page_token,omitempty"`
}

// ActiveAlertsResponse wraps one page of active alerts.
type ActiveAlertsResponse struct {
	Alerts        []ActiveAlert `json:"alerts"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// RaiseAlertRequest is the body for POST /v1/logic_service/raisealert
type RaiseAlertRequest struct {
	CameraAP  string `json:"camera_ap"`
	ArchiveAP string `json:"archive_ap,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// AlertActionRequest is the body for beginalert, completealert and cancelalert.
type AlertActionRequest struct {
	AlertID  string `json:"alert_id"`
	Severity string `json:"severity,omitempty"` // completealert only
}

// AlertActionResponse is returned by every /v1/logic_service alert verb.
// AlertID is set by raisealert only.
type AlertActionResponse struct {
	Result  bool   `json:"result"`
	AlertID string `json:"alert_id,omitempty"`
}
