// Package ntf implements the alarm/notification fan-out named throughout
// spec §7 ("alarm-producing events emit NTF notifications") and the
// GLOSSARY's "NTF — Notification service: delivers alarms and state-change
// notifications to subscribers." The core's own process never owns
// subscriber management (spec §1 names the NTF service as an external
// collaborator); this package is the thin producer side other subsystems
// call into, fanning notifications out over the Message Bus Adapter's
// broadcast primitive to whatever subscribes at the well-known service id.
//
// Grounded on internal/bus's Broadcast/Encoder contract (this core's own
// Message Bus Adapter) rather than any teacher package — giantswarm-muster
// has no alarm/notification concept of its own to model this on; the shape
// (severity, probable cause, producing object, free-text) follows the
// Design Note's and GLOSSARY's description of the original's NTF surface.
package ntf

import (
	"context"
	"time"

	"amfcore/internal/bus"
	"amfcore/internal/model"
	"amfcore/pkg/logging"
)

// ServiceID is the bus virtual destination subscribers register against to
// receive notifications (spec §4.7 "best-effort delivery to all
// subscribers of a service id").
const ServiceID = "ntf"

// Severity mirrors the coarse alarm/notification severities the spec's
// error taxonomy implies (NOTICE-level state machine errors vs. the
// harder alarm-producing failures).
type Severity int

const (
	SeverityCleared Severity = iota
	SeverityWarning
	SeverityMinor
	SeverityMajor
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCleared:
		return "CLEARED"
	case SeverityWarning:
		return "WARNING"
	case SeverityMinor:
		return "MINOR"
	case SeverityMajor:
		return "MAJOR"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ProbableCause names why the notification was raised, matching the kinds
// of alarm spec §4.5/§4.4/§4.6 call out by name.
type ProbableCause string

const (
	CauseInstantiationFailed ProbableCause = "INSTANTIATION-FAILED"
	CauseTerminationFailed   ProbableCause = "TERMINATION-FAILED"
	CauseNodeFailfast        ProbableCause = "NODE-FAILFAST-REQUESTED"
	CauseRepairPending       ProbableCause = "REPAIR-PENDING"
	CauseAssignmentTimeout   ProbableCause = "ASSIGNMENT-TIMEOUT"
	CauseVersionMismatch     ProbableCause = "CHECKPOINT-VERSION-MISMATCH"
	CauseStateChange         ProbableCause = "STATE-CHANGE"
)

// Notification is one alarm or state-change event (spec glossary "NTF").
type Notification struct {
	Severity      Severity
	ProbableCause ProbableCause
	ObjectDN      string
	Message       string
	Time          time.Time
}

// Notifier raises notifications. Production code calls through this
// interface so call sites never need to know whether a Service is actually
// wired yet (the null object below makes that safe before bootstrap wires
// one in, matching model.nullSink's pattern).
type Notifier interface {
	Raise(n Notification)
}

// nullNotifier discards every notification, used as the default before
// internal/amfctx wires a real Service into each engine (Design Note
// "global singletons" — init order means the bus/Service may not exist yet
// when an Engine is constructed).
type nullNotifier struct{}

func (nullNotifier) Raise(Notification) {}

// Null is the shared no-op Notifier.
var Null Notifier = nullNotifier{}

// Service is the concrete Notifier, broadcasting every notification over
// the Message Bus Adapter and logging it locally at the matching severity
// (spec §7 "alarm-producing events emit NTF notifications" — logging and
// notification are both sinks for the same event, not alternatives).
type Service struct {
	adapter bus.Adapter
}

// NewService builds a Service that broadcasts over adapter.
func NewService(adapter bus.Adapter) *Service {
	return &Service{adapter: adapter}
}

// Raise logs the notification and broadcasts it to ServiceID subscribers.
// Broadcast is best-effort (spec §4.7); a delivery failure is logged but
// never escalated — NTF delivery is not on the critical path of any state
// machine in this core.
func (s *Service) Raise(n Notification) {
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	logSeverity(n)
	rec := bus.Record{
		Tag:     "ntf",
		Payload: []byte(string(n.ProbableCause) + ": " + n.ObjectDN + ": " + n.Message),
	}
	if err := s.adapter.Broadcast(context.Background(), ServiceID, rec); err != nil {
		logging.Warn("ntf", "broadcast of %s for %s failed: %v", n.ProbableCause, n.ObjectDN, err)
	}
}

func logSeverity(n Notification) {
	switch n.Severity {
	case SeverityCritical, SeverityMajor:
		logging.Notice("ntf", model.NewFault(model.KindUnrecoverable, n.ObjectDN, "%s", n.Message), "%s: %s", n.ProbableCause, n.Message)
	default:
		logging.Warn("ntf", "%s: %s: %s", n.ProbableCause, n.ObjectDN, n.Message)
	}
}
