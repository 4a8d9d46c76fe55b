// Package alerts tracks the alerts a test run raised so teardown can complete
// whatever is still outstanding. Records arrive from two places: the harness
// calls the API directly, and the sniffer watches the browser's traffic.
package alerts

import (
	"errors"
	"sync"

	"vms-e2e/internal/logger"
	"vms-e2e/pkg/models"
)

var ErrClosed = errors.New("alert registry closed")

type opKind int

const (
	opAdd opKind = iota
	opRemove
	opSnapshot
	opContains
)

type command struct {
	kind  opKind
	alert models.ActiveAlert
	id    string
	reply chan result
}

type result struct {
	alerts []models.ActiveAlert
	found  bool
}

// Registry is an ordered list of active alerts owned by a single goroutine.
// All methods are safe for concurrent use.
type Registry struct {
	cmds      chan command
	done      chan struct{}
	closeOnce sync.Once
	// stopped is closed when the loop exits.
	stopped chan struct{}
}

func NewRegistry() *Registry {
	r := &Registry{
		cmds:    make(chan command),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Registry) loop() {
	defer close(r.stopped)
	var list []models.ActiveAlert

	for {
		select {
		case <-r.done:
			if len(list) > 0 {
				logger.Warn("alert registry closed with outstanding alerts", "count", len(list))
			}
			return
		case cmd := <-r.cmds:
			var res result
			switch cmd.kind {
			case opAdd:
				if indexOf(list, cmd.alert.AlertID) >= 0 {
					logger.Warn("duplicate alert recorded", "alert_id", cmd.alert.AlertID, "camera", cmd.alert.CameraAP)
				}
				list = append(list, cmd.alert)
				res.found = true
			case opRemove:
				kept := list[:0]
				for _, a := range list {
					if a.AlertID == cmd.id {
						res.found = true
						continue
					}
					kept = append(kept, a)
				}
				list = kept
			case opContains:
				res.found = indexOf(list, cmd.id) >= 0
			case opSnapshot:
				res.alerts = append([]models.ActiveAlert{}, list...)
			}
			cmd.reply <- res
		}
	}
}

func indexOf(list []models.ActiveAlert, id string) int {
	for i, a := range list {
		if a.AlertID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) send(cmd command) (result, error) {
	cmd.reply = make(chan result, 1)
	select {
	case r.cmds <- cmd:
		return <-cmd.reply, nil
	case <-r.stopped:
		return result{}, ErrClosed
	}
}

// Add appends an alert. Duplicated ids are kept and logged.
func (r *Registry) Add(alert models.ActiveAlert) error {
	_, err := r.send(command{kind: opAdd, alert: alert})
	return err
}

// Remove drops every record with the id and reports whether any existed.
// Removing an unknown id is a no-op.
func (r *Registry) Remove(alertID string) (bool, error) {
	res, err := r.send(command{kind: opRemove, id: alertID})
	return res.found, err
}

func (r *Registry) Contains(alertID string) bool {
	res, _ := r.send(command{kind: opContains, id: alertID})
	return res.found
}

// Snapshot returns a copy of the records in insertion order.
func (r *Registry) Snapshot() []models.ActiveAlert {
	res, _ := r.send(command{kind: opSnapshot})
	return res.alerts
}

func (r *Registry) Len() int {
	return len(r.Snapshot())
}

// Close stops the registry goroutine. Calls after Close return ErrClosed or
// zero values.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.done) })
	<-r.stopped
}
