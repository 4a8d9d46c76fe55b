package models

import "encoding/json"

// GrpcRequest is the envelope accepted by POST /grpc.
// Method is the fully qualified name, e.g. "axxonsoft.bl.config.ConfigurationService.ListUnits".
type GrpcRequest struct {
	Method string `json:"method"`
	Data   any    `json:"data"`
}

// Status holds the fields every gateway response may carry next to its payload.
// A nil Result means the method does not report one.
type Status struct {
	Result *bool             `json:"result,omitempty"`
	Failed []json.RawMessage `json:"failed,omitempty"`
}

// Rejected reports whether the server refused the request at the business level.
func (s Status) Rejected() bool {
	if s.Result != nil && !*s.Result {
		return true
	}
	return len(s.Failed) > 0
}

// View modes accepted by the List* methods.
const (
	ViewModeFull     = "VIEW_MODE_FULL"
	ViewModeStripped = "VIEW_MODE_STRIPPED"
)
