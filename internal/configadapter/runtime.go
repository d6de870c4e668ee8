package configadapter

import (
	"sync"

	"amfcore/internal/model"
	"amfcore/pkg/logging"
)

// RuntimeSink implements model.RuntimeNotifier (spec §4.1 step 4: "schedules
// a runtime-object update to the Config Adapter"). The configuration object
// store itself is an external collaborator out of this core's scope (§1);
// RuntimeSink stands in for "forward toward the store" by caching the last
// reported value per (kind, dn, field) so the runtime-attribute read
// callback (spec §4.2) can answer synchronously without re-deriving from
// the Entity Model, and logging every update at DEBUG for traceability.
type RuntimeSink struct {
	mu    sync.RWMutex
	cache map[string]model.AttrValue
}

// NewRuntimeSink builds an empty RuntimeSink.
func NewRuntimeSink() *RuntimeSink {
	return &RuntimeSink{cache: map[string]model.AttrValue{}}
}

func runtimeKey(kind model.EntityKind, dn, field string) string {
	return kind.String() + "/" + dn + "/" + field
}

// NotifyRuntimeUpdate implements model.RuntimeNotifier.
func (s *RuntimeSink) NotifyRuntimeUpdate(kind model.EntityKind, dn string, field string, value model.AttrValue) {
	s.mu.Lock()
	s.cache[runtimeKey(kind, dn, field)] = value
	s.mu.Unlock()
	logging.Debug("configadapter", "runtime update %s.%s on %s = %s", kind, field, dn, value.AsString())
}

// ReadRuntimeAttribute answers the spec §4.2 "runtime-attribute read"
// synchronous callback: the live value of a named attribute on a named
// object, as last reported by the Entity Model.
func (s *RuntimeSink) ReadRuntimeAttribute(kind model.EntityKind, dn, field string) (model.AttrValue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[runtimeKey(kind, dn, field)]
	return v, ok
}
