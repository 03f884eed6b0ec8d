// internal/checkout/queue.go
package checkout

import "github.com/vaxcare/vaxhub/internal/types"

/*
 * IssueQueue: the sorted work queue of open issues for the dose under
 * resolution.
 *
 * Single-threaded and externally driven: the queue never blocks and never
 * spawns anything. The UI pops one issue per user response via NextIssue,
 * answers through NotifyResultReceived, and the coordinator mutates the
 * live queue in between (force-add/force-remove).
 *
 * One queue instance belongs to one checkout-flow session; it is not global
 * state. At most one listener registration is active at a time - last
 * register wins and fully replaces prior queue contents.
 *
 * Correctness invariant: the one-shot after-resolved action runs exactly
 * once on natural drain and never on cancel. This distinction is what lets
 * resolution handlers schedule side effects that only apply when the dose
 * is actually kept.
 */

// QueueState tracks whether a listener registration is live.
type QueueState int

const (
	QueueIdle QueueState = iota
	QueueActive
)

// IssueListener is the queue's single extension point, implemented by the
// layer presenting dialogs.
type IssueListener interface {
	// HandleIssue presents the dialog for one popped issue.
	HandleIssue(issue types.ProductIssue)

	// OnIssuesEmpty fires once when the queue drains naturally.
	OnIssuesEmpty()

	// OnCancelIssues fires when resolution is abandoned.
	OnCancelIssues()

	// OnDialogResponse receives a forwarded UI dialog result.
	OnDialogResponse(action DialogAction, result DialogResult)

	// OnAppointmentChanged signals the underlying appointment was refetched.
	OnAppointmentChanged(appt *types.Appointment)
}

// IssueQueue is the mutable, priority-sorted queue of open issues for the
// currently staged dose.
type IssueQueue struct {
	state         QueueState
	issues        []types.ProductIssue
	listener      IssueListener
	afterResolved func()
}

// NewIssueQueue returns an idle queue.
func NewIssueQueue() *IssueQueue {
	return &IssueQueue{}
}

// State reports whether a registration is live.
func (q *IssueQueue) State() QueueState {
	return q.state
}

// Pending returns a copy of the queued issues in presentation order.
func (q *IssueQueue) Pending() []types.ProductIssue {
	out := make([]types.ProductIssue, len(q.issues))
	copy(out, q.issues)
	return out
}

// RegisterIssues replaces any prior queue contents with the given issues,
// sorted into presentation order, and binds the listener.
func (q *IssueQueue) RegisterIssues(issues []types.ProductIssue, listener IssueListener) {
	q.issues = make([]types.ProductIssue, len(issues))
	copy(q.issues, issues)
	types.SortIssues(q.issues)
	q.listener = listener
	q.state = QueueActive
}

// NextIssue pops the lowest-order issue and hands it to the listener, or -
// when the queue is empty - runs the one-shot after-resolved action, signals
// OnIssuesEmpty, and returns the queue to idle. Safe no-op with no listener.
func (q *IssueQueue) NextIssue() {
	if q.listener == nil {
		return
	}
	if len(q.issues) > 0 {
		issue := q.issues[0]
		q.issues = q.issues[1:]
		q.listener.HandleIssue(issue)
		return
	}

	if fn := q.afterResolved; fn != nil {
		q.afterResolved = nil
		fn()
	}
	l := q.listener
	l.OnIssuesEmpty()
	// OnIssuesEmpty may have re-registered; only tear down our own binding.
	if q.listener == l {
		q.listener = nil
		q.state = QueueIdle
	}
}

// CancelPendingIssues discards the queue and the after-resolved action
// (without running it) and notifies the listener the flow was abandoned.
func (q *IssueQueue) CancelPendingIssues() {
	q.afterResolved = nil
	q.issues = nil
	l := q.listener
	q.listener = nil
	q.state = QueueIdle
	if l != nil {
		l.OnCancelIssues()
	}
}

// ForceAddIssue inserts an issue into the live queue, re-sorted. Duplicates
// (tag plus payload) are dropped: re-adding a queued issue is a no-op.
func (q *IssueQueue) ForceAddIssue(issue types.ProductIssue) {
	for _, existing := range q.issues {
		if existing == issue {
			return
		}
	}
	q.issues = append(q.issues, issue)
	types.SortIssues(q.issues)
}

// ForceRemoveIssues drops exact (tag plus payload) matches from the live
// queue without notifying the listener. Unrelated issues keep their
// relative order.
func (q *IssueQueue) ForceRemoveIssues(issues ...types.ProductIssue) {
	kept := q.issues[:0]
	for _, queued := range q.issues {
		match := false
		for _, rm := range issues {
			if queued == rm {
				match = true
				break
			}
		}
		if !match {
			kept = append(kept, queued)
		}
	}
	q.issues = kept
}

// NotifyResultReceived forwards a UI dialog result to the listener. This is
// how resolution logic gets invoked. Safe no-op with no listener.
func (q *IssueQueue) NotifyResultReceived(action DialogAction, result DialogResult) {
	if q.listener == nil {
		return
	}
	q.listener.OnDialogResponse(action, result)
}

// AddActionAfterIssuesResolved registers a one-shot callback to run only
// when the queue drains naturally. Cancel discards it unrun. A second
// registration replaces the first.
func (q *IssueQueue) AddActionAfterIssuesResolved(fn func()) {
	q.afterResolved = fn
}

// ResetWithNewAppointment tells the listener to rebuild against refreshed
// appointment state. Queue contents are untouched; the owner of the
// appointment snapshot decides what to re-register.
func (q *IssueQueue) ResetWithNewAppointment(appt *types.Appointment) {
	if q.listener == nil {
		return
	}
	q.listener.OnAppointmentChanged(appt)
}
