package ports

import "context"

// RefreshTask asks for the unread notification count of one session to be
// re-fetched.
type RefreshTask struct {
	SessionKey string
}

// RefreshProcessor handles a single RefreshTask.
type RefreshProcessor interface {
	Process(ctx context.Context, task RefreshTask) error
}

// RefreshQueue accepts refresh work. Enqueue reports false when the task was
// dropped because the shard is saturated.
type RefreshQueue interface {
	Enqueue(task RefreshTask) bool
}
