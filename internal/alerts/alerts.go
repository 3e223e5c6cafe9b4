// Package alerts shows one transient notification at a time.
package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/telemetry"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
)

// DismissAfter is how long an alert stays up.
const DismissAfter = 5 * time.Second

// Alert is one notification.
type Alert struct {
	ID      string
	Level   view.Level
	Message string
}

// Sink displays alerts.
type Sink interface {
	Show(a Alert)
	Dismiss(id string)
}

// Notifier replaces any visible alert with the new one and dismisses it after DismissAfter.
// Its methods must be called from scheduler callbacks.
type Notifier struct {
	s       *sched.Scheduler
	sink    Sink
	current *Alert
	timer   *sched.Task
}

// New builds a notifier; a nil sink only logs.
func New(s *sched.Scheduler, sink Sink) *Notifier {
	return &Notifier{s: s, sink: sink}
}

// Show displays message at level.
func (n *Notifier) Show(level view.Level, message string) Alert {
	n.Clear()

	a := Alert{ID: uuid.NewString(), Level: level, Message: message}
	n.current = &a
	if n.sink != nil {
		n.sink.Show(a)
	}
	telemetry.Debug("alert.show", map[string]any{"alert_id": a.ID, "level": string(level), "message": message})

	id := a.ID
	n.timer = n.s.After(DismissAfter, func() {
		if n.current != nil && n.current.ID == id {
			n.dismiss()
		}
	})
	return a
}

// Current returns the visible alert, if any.
func (n *Notifier) Current() (Alert, bool) {
	if n.current == nil {
		return Alert{}, false
	}
	return *n.current, true
}

// Clear removes the visible alert now.
func (n *Notifier) Clear() {
	n.timer.Cancel()
	n.timer = nil
	if n.current != nil {
		n.dismiss()
	}
}

func (n *Notifier) dismiss() {
	id := n.current.ID
	n.current = nil
	if n.sink != nil {
		n.sink.Dismiss(id)
	}
}

// Recorder is a Sink that remembers every alert shown.
type Recorder struct {
	Shown     []Alert
	Dismissed []string
}

// Show implements Sink.
func (r *Recorder) Show(a Alert) { r.Shown = append(r.Shown, a) }

// Dismiss implements Sink.
func (r *Recorder) Dismiss(id string) { r.Dismissed = append(r.Dismissed, id) }

// Last returns the most recently shown alert.
func (r *Recorder) Last() (Alert, bool) {
	if len(r.Shown) == 0 {
		return Alert{}, false
	}
	return r.Shown[len(r.Shown)-1], true
}
