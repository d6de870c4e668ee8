package adminop

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"amfcore/internal/model"
)

// Task tracks one in-flight admin operation invocation (spec §4.4 Design
// Note "coroutine-like continuation"): an id, the target DN, an outstanding
// acknowledgment counter for fan-out operations (e.g. LOCK-INSTANTIATION on a
// node that must wait for every hosted SU's terminate to complete), and a
// deadline. Because the core runs on a single event-loop goroutine (spec
// §5), a Task does not block that goroutine itself — callers that need to
// wait synchronously (the CLI, via Engine.Execute) do so on Task.Wait, which
// completes once every participant has Ack'd, one has Fail'd, or the
// deadline fires. Ack/Fail may be called concurrently from the goroutines
// driving each participant.
type Task struct {
	ID       string
	TargetDN string
	Op       model.AdminOperation
	Deadline time.Time
	Done     chan error

	mu          sync.Mutex
	outstanding int
	completed   bool
}

// NewTask allocates a Task with a fresh invocation id (spec §4.4 "id =
// invocation") and outstanding set to the number of participants the caller
// is about to fan out to.
func NewTask(targetDN string, op model.AdminOperation, outstanding int, timeout time.Duration) *Task {
	return &Task{
		ID:          uuid.NewString(),
		TargetDN:    targetDN,
		Op:          op,
		outstanding: outstanding,
		Deadline:    time.Now().Add(timeout),
		Done:        make(chan error, 1),
	}
}

// Ack decrements the outstanding counter by one; when it reaches zero the
// task completes successfully. Safe for concurrent use.
func (t *Task) Ack() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return
	}
	t.outstanding--
	if t.outstanding <= 0 {
		t.completed = true
		t.Done <- nil
	}
}

// Fail completes the task immediately with err, regardless of outstanding
// count — used when any one participant reports an unrecoverable failure.
// Safe for concurrent use.
func (t *Task) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.completed {
		return
	}
	t.completed = true
	t.Done <- err
}

// Remaining reports how many participants have not yet Ack'd, for the
// REPAIR-PENDING notification's "completed N/total" accounting.
func (t *Task) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.outstanding
}

// Wait blocks until the task completes, the deadline passes, or ctx is
// canceled, whichever comes first.
func (t *Task) Wait(ctx context.Context) error {
	deadlineCtx, cancel := context.WithDeadline(ctx, t.Deadline)
	defer cancel()
	select {
	case err := <-t.Done:
		return err
	case <-deadlineCtx.Done():
		return model.NewFault(model.KindTimeout, t.TargetDN, "admin operation %s timed out", t.Op)
	}
}
