package provision

import "sync/atomic"

// CancellationToken is a shared stop request polled by the orchestrator between steps.
type CancellationToken struct {
	requested atomic.Bool
}

// NewCancellationToken constructs an unset token.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel requests the workflow to stop at the next step boundary.
func (token *CancellationToken) Cancel() {
	token.requested.Store(true)
}

// IsCancelled reports whether a stop was requested.
func (token *CancellationToken) IsCancelled() bool {
	return token.requested.Load()
}
