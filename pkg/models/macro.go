package models

// Macro is a server-side rule: when a condition fires, rules run in index order.
// Conditions and Rules are keyed by stringified index ("0", "1", ...).
type Macro struct {
	GUID       string               `json:"guid"`
	Name       string               `json:"name"`
	Mode       MacroMode            `json:"mode"`
	Conditions map[string]Condition `json:"conditions"`
	Rules      map[string]Rule      `json:"rules"`
}

// MacroMode selects between event-driven (Common) and cyclic (Continuous) macros.
type MacroMode struct {
	Enabled     bool            `json:"enabled"`
	UserRole    string          `json:"user_role"`
	IsAddToMenu bool            `json:"is_add_to_menu"`
	Common      *CommonMode     `json:"common,omitempty"`
	Continuous  *ContinuousMode `json:"continuous,omitempty"`
}

type CommonMode struct{}

type ContinuousMode struct {
	Server string `json:"server"`
}

// Condition is either a detector event match or None (always true).
type Condition struct {
	Detector *DetectorCondition `json:"detector,omitempty"`
	None     *NoneCondition     `json:"none,omitempty"`
}

type DetectorCondition struct {
	EventType string `json:"event_type"`
	Source    string `json:"source"`
	State     string `json:"state"` // BEGAN, ENDED, HAPPENED
}

type NoneCondition struct{}

// Detector event states.
const (
	StateBegan    = "BEGAN"
	StateEnded    = "ENDED"
	StateHappened = "HAPPENED"
)

// Rule is one step of a macro.
type Rule struct {
	Action RuleAction `json:"action"`
}

// RuleAction is either a wait (Timeout, optionally aborted by CancelConditions)
// or a terminal Action.
type RuleAction struct {
	Timeout          *Timeout             `json:"timeout,omitempty"`
	CancelConditions map[string]Condition `json:"cancel_conditions,omitempty"`
	Action           *TerminalAction      `json:"action,omitempty"`
}

type Timeout struct {
	TimeoutMs int `json:"timeout_ms"`
}

type TerminalAction struct {
	WriteArchive *WriteArchiveAction `json:"write_archive,omitempty"`
	RaiseAlert   *RaiseAlertAction   `json:"raise_alert,omitempty"`
	CloseAlert   *CloseAlertAction   `json:"close_alert,omitempty"`
}

type WriteArchiveAction struct {
	Camera             string `json:"camera"`
	Archive            string `json:"archive"`
	MinPrehistoryMs    int    `json:"min_prehistory_ms"`
	PostEventTimeoutMs int    `json:"post_event_timeout_ms"`
}

type RaiseAlertAction struct {
	Zone               string `json:"zone"` // camera access point
	Archive            string `json:"archive,omitempty"`
	MinPrehistoryMs    int    `json:"min_prehistory_ms"`
	PostEventTimeoutMs int    `json:"post_event_timeout_ms"`
}

type CloseAlertAction struct {
	Zone     string `json:"zone"`
	Severity string `json:"severity"`
}

// ChangeMacrosRequest is the body of LogicService.ChangeMacros.
type ChangeMacrosRequest struct {
	AddedMacros    []Macro  `json:"added_macros,omitempty"`
	ModifiedMacros []Macro  `json:"modified_macros,omitempty"`
	RemovedMacros  []string `json:"removed_macros,omitempty"`
}

type ListMacrosRequest struct {
	View string `json:"view"`
}

type ListMacrosResponse struct {
	Items []Macro `json:"items"`
}
