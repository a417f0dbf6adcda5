package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned when a backend credential is absent.
	// The failure is fatal for the call, never retried, and surfaces at
	// call time rather than startup.
	ErrMissingCredential = errors.New("backend credential is not configured")

	// ErrPollTimeout is returned when a remote job is still pending after
	// the poll attempt ceiling.
	ErrPollTimeout = errors.New("remote job did not finish within the poll limit")
)

// UpstreamError reports a non-success status from a remote call. It is
// fatal for the call and not retried.
type UpstreamError struct {
	Op         string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Op, e.StatusCode)
}

// RunFailedError reports a remote job that reached a failure terminal
// state.
type RunFailedError struct {
	RunID  string
	Status JobStatus
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("remote job %s finished with status %s", e.RunID, e.Status)
}
