// Package macro assembles rule graphs for the server's macro engine. The
// builders only produce values; submit them with client.CreateMacro.
package macro

import (
	"strconv"

	"github.com/google/uuid"

	"vms-e2e/pkg/models"
)

const (
	DefaultEventType    = "MotionDetected"
	DefaultUserRole     = "admin"
	DefaultPrehistoryMs = 1000
	DefaultPostEventMs  = 1000
)

// Trigger selects the detector event that starts a macro.
type Trigger struct {
	Detector  string // detector access point
	EventType string // defaults to DefaultEventType
	State     string // defaults to models.StateBegan
}

// Wait holds the optional pause between the action and the follow-up rules.
// Zero TimeoutMs means no wait rule.
type Wait struct {
	TimeoutMs int
	// CancelOn aborts the wait when the detector reports this state.
	CancelOn string
}

// RecordingOptions configures DetectorRecording.
type RecordingOptions struct {
	Name     string
	Trigger  Trigger
	Camera   string
	Archive  string
	Wait     Wait
	Disabled bool
	// Zero falls back to DefaultPrehistoryMs / DefaultPostEventMs.
	PrehistoryMs int
	PostEventMs  int
}

// AlarmingOptions configures DetectorAlarming and CycleAlarming.
type AlarmingOptions struct {
	Name     string
	Trigger  Trigger // ignored by CycleAlarming
	Camera   string
	Archive  string
	Wait     Wait
	Disabled bool
	// AutoClose adds a close_alert rule with this severity.
	AutoClose string
	// Server hosts the cyclic macro, CycleAlarming only.
	Server string
}

func newMacro(name string, enabled bool) models.Macro {
	if name == "" {
		name = "e2e-macro-" + uuid.NewString()[:8]
	}
	return models.Macro{
		GUID: uuid.NewString(),
		Name: name,
		Mode: models.MacroMode{
			Enabled:  enabled,
			UserRole: DefaultUserRole,
		},
		Conditions: map[string]models.Condition{},
		Rules:      map[string]models.Rule{},
	}
}

func detectorCondition(t Trigger) models.Condition {
	eventType, state := t.EventType, t.State
	if eventType == "" {
		eventType = DefaultEventType
	}
	if state == "" {
		state = models.StateBegan
	}
	return models.Condition{Detector: &models.DetectorCondition{
		EventType: eventType,
		Source:    t.Detector,
		State:     state,
	}}
}

func waitRule(w Wait, t Trigger) models.Rule {
	action := models.RuleAction{Timeout: &models.Timeout{TimeoutMs: w.TimeoutMs}}
	if w.CancelOn != "" {
		cancel := t
		cancel.State = w.CancelOn
		action.CancelConditions = map[string]models.Condition{"0": detectorCondition(cancel)}
	}
	return models.Rule{Action: action}
}

// Rule slots. The terminal action is always "0"; the wait and close rules keep
// their slot even when an earlier optional rule is absent.
const (
	ruleAction = iota
	ruleWait
	ruleClose
)

func setRule(m *models.Macro, slot int, r models.Rule) {
	m.Rules[strconv.Itoa(slot)] = r
}

// DetectorRecording writes the camera to the archive while the detector fires.
func DetectorRecording(opts RecordingOptions) models.Macro {
	m := newMacro(opts.Name, !opts.Disabled)
	m.Mode.Common = &models.CommonMode{}
	m.Conditions["0"] = detectorCondition(opts.Trigger)

	pre, post := opts.PrehistoryMs, opts.PostEventMs
	if pre == 0 {
		pre = DefaultPrehistoryMs
	}
	if post == 0 {
		post = DefaultPostEventMs
	}
	setRule(&m, ruleAction, models.Rule{Action: models.RuleAction{Action: &models.TerminalAction{
		WriteArchive: &models.WriteArchiveAction{
			Camera:             opts.Camera,
			Archive:            opts.Archive,
			MinPrehistoryMs:    pre,
			PostEventTimeoutMs: post,
		},
	}}})
	if opts.Wait.TimeoutMs > 0 {
		setRule(&m, ruleWait, waitRule(opts.Wait, opts.Trigger))
	}
	return m
}

// DetectorAlarming raises an alert on the camera when the detector fires.
func DetectorAlarming(opts AlarmingOptions) models.Macro {
	m := newMacro(opts.Name, !opts.Disabled)
	m.Mode.Common = &models.CommonMode{}
	m.Conditions["0"] = detectorCondition(opts.Trigger)
	alarmRules(&m, opts)
	return m
}

// CycleAlarming raises an alert on the camera continuously, with no trigger.
func CycleAlarming(opts AlarmingOptions) models.Macro {
	m := newMacro(opts.Name, !opts.Disabled)
	m.Mode.Continuous = &models.ContinuousMode{Server: opts.Server}
	m.Conditions["0"] = models.Condition{None: &models.NoneCondition{}}
	opts.Wait.CancelOn = ""
	alarmRules(&m, opts)
	return m
}

func alarmRules(m *models.Macro, opts AlarmingOptions) {
	setRule(m, ruleAction, models.Rule{Action: models.RuleAction{Action: &models.TerminalAction{
		RaiseAlert: &models.RaiseAlertAction{
			Zone:               opts.Camera,
			Archive:            opts.Archive,
			MinPrehistoryMs:    DefaultPrehistoryMs,
			PostEventTimeoutMs: DefaultPostEventMs,
		},
	}}})
	if opts.Wait.TimeoutMs > 0 {
		setRule(m, ruleWait, waitRule(opts.Wait, opts.Trigger))
	}
	if opts.AutoClose != "" {
		setRule(m, ruleClose, models.Rule{Action: models.RuleAction{Action: &models.TerminalAction{
			CloseAlert: &models.CloseAlertAction{Zone: opts.Camera, Severity: opts.AutoClose},
		}}})
	}
}
