package orchestrator

import "errors"

// Error taxonomy for orchestration failures. All but ErrFatalState are
// recoverable: the Router converts them into stream events and the session
// continues.
var (
	// ErrInputRejected marks a guardrail input failure; the caller is
	// re-prompted with a clarification.
	ErrInputRejected = errors.New("input rejected")

	// ErrToolFailure marks a tool that returned an error. The session is
	// left in its last good state.
	ErrToolFailure = errors.New("tool failure")

	// ErrOutputRejected marks a tool result that failed the guardrail
	// output check; treated as a tool failure.
	ErrOutputRejected = errors.New("tool output rejected")

	// ErrHandoffFailure marks an unavailable handoff target; routing
	// stays with the current agent.
	ErrHandoffFailure = errors.New("handoff failed")

	// ErrFatalState marks a session invariant violation. The session is
	// aborted and accepts no further utterances.
	ErrFatalState = errors.New("fatal session state")
)
