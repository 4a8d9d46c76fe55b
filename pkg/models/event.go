package models

// DetectorEventsResponse wraps GET /archive/events/detectors/{camera}/{end}/{start}
type DetectorEventsResponse struct {
	Events []DetectorEvent `json:"events"`
	More   bool            `json:"more"` // More events exist past the limit
}

type DetectorEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`      // e.g. "MotionDetected", "MoveInZone"
	Timestamp  string `json:"timestamp"` // 20240101T120000.000
	Source     string `json:"source"`    // Detector access point
	Phase      string `json:"phase,omitempty"`
	AlertState string `json:"alertState,omitempty"`
}

// EventTimeFormat is the compact timestamp used in archive event paths.
const EventTimeFormat = "20060102T150405.000"
