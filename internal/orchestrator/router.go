package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/guardrail"
	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// State is the routing state of a session.
type State string

const (
	// StateIdle is the initial state: nothing committed yet.
	StateIdle State = "idle"
	// StateAwaitingGoal means the session still needs a usable goal.
	StateAwaitingGoal State = "awaiting_goal"
	// StatePlanning is the normal working state of the primary agent.
	StatePlanning State = "planning"
	// StateHandedOff means a specialist holds routing authority.
	StateHandedOff State = "handed_off"
	// StateEscalated is terminal: a human follows up, no tools run.
	StateEscalated State = "escalated"
)

// Router drives one session through the transition algorithm. It owns the
// session context exclusively; Process serializes turns, so the context is
// never mutated concurrently.
type Router struct {
	orch *Orchestrator
	sess *session.Context

	mu     sync.Mutex
	state  State
	active Capability
	origin Capability
	fatal  bool
}

// State returns the current routing state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Active returns the capability set currently holding routing authority.
func (r *Router) Active() Capability {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Session returns the session context owned by this router.
func (r *Router) Session() *session.Context {
	return r.sess
}

// Process runs one turn and streams its output. Events arrive in causal
// order; the channel closes when the turn completes. Cancelling ctx
// abandons the stream: an in-flight tool invocation either commits fully
// before the cancellation point or not at all.
func (r *Router) Process(ctx context.Context, utterance string) <-chan Event {
	ch := make(chan Event, 8)
	go func() {
		defer close(ch)
		r.mu.Lock()
		defer r.mu.Unlock()
		r.turn(ctx, utterance, ch)
	}()
	return ch
}

// turn implements the transition algorithm for one utterance.
func (r *Router) turn(ctx context.Context, utterance string, ch chan<- Event) {
	if r.fatal {
		emit(ctx, ch, errorEvent("this session was closed after a state verification failure; please start a new one", true))
		return
	}
	if err := r.sess.Verify(); err != nil {
		r.abort(ctx, ch, err)
		return
	}

	// Terminal: escalation holds authority and only acknowledges.
	if r.state == StateEscalated {
		emit(ctx, ch, partialText(r.orch.agents[CapabilityEscalation].greeting))
		return
	}

	// Step 1: guardrail input check.
	match, err := r.orch.guardrails.CheckInput(utterance)
	if err != nil {
		r.rejectInput(ctx, err, ch)
		return
	}

	// Steps 2-3: handoff triggers take priority over tool dispatch.
	if match.Family.Handoff() {
		r.handoff(ctx, match, ch)
		return
	}

	// Steps 4-6: tool dispatch under the active capability set.
	r.dispatch(ctx, match, ch)
}

func (r *Router) rejectInput(ctx context.Context, cause error, ch chan<- Event) {
	r.orch.hooks.OnError("guardrail_input", cause.Error(), r.sess)
	r.orch.logger.Debug("input rejected", zap.Error(fmt.Errorf("%w: %v", ErrInputRejected, cause)))

	// Rejection never moves the state machine.
	msg := "I didn't catch that."
	var rej *guardrail.RejectionError
	if errors.As(cause, &rej) && rej.Hint != "" {
		msg = fmt.Sprintf("I didn't catch that. You could %s.", rej.Hint)
	}
	emit(ctx, ch, clarification(msg))
}

// handoff transfers routing authority to a specialist. While already with a
// specialist, only an escalation trigger still transfers; other handoff
// triggers are acknowledged and routing stays put.
func (r *Router) handoff(ctx context.Context, match guardrail.Match, ch chan<- Event) {
	target := handoffTargets[match.Family]

	if r.state == StateHandedOff && target != CapabilityEscalation {
		emit(ctx, ch, partialText(fmt.Sprintf(
			"You're already with the %s specialist, so let's keep working here.", displayName(string(r.active)))))
		return
	}

	cfg, ok := r.orch.agents[target]
	if !ok {
		r.orch.hooks.OnError("handoff", fmt.Sprintf("target %s unavailable", target), r.sess)
		r.orch.logger.Warn("handoff target unavailable",
			zap.Error(fmt.Errorf("%w: no %s configuration", ErrHandoffFailure, target)))
		emit(ctx, ch, errorEvent(fmt.Sprintf(
			"I couldn't reach the %s specialist just now; we can keep going here.", displayName(string(target))), false))
		return
	}

	// Injury notes are written immediately before the transfer so the
	// specialist sees them on its first turn.
	if match.Family == guardrail.FamilyInjury {
		r.sess.InjuryNotes = match.Text
	}

	from := string(r.active)
	r.sess.AppendHandoff(session.HandoffRecord{
		Timestamp: r.orch.clock(),
		From:      from,
		To:        string(target),
		Reason:    match.Text,
	})
	r.orch.hooks.OnHandoff(from, string(target), r.sess)

	r.active = target
	if target == CapabilityEscalation {
		r.state = StateEscalated
	} else {
		r.state = StateHandedOff
	}

	r.orch.logger.Info("routing authority transferred",
		zap.String("from", from),
		zap.String("to", string(target)),
		zap.String("reason", match.Text),
	)

	ev := newEvent(EventHandoff)
	ev.From = from
	ev.To = string(target)
	ev.Text = fmt.Sprintf("Transferring you to %s.", displayName(string(target)))
	emit(ctx, ch, ev)
	emit(ctx, ch, partialText(cfg.greeting))
}

func (r *Router) dispatch(ctx context.Context, match guardrail.Match, ch chan<- Event) {
	toolName := familyTools[match.Family]
	cfg := r.orch.agents[r.active]

	if !cfg.registry.Has(toolName) {
		emit(ctx, ch, partialText(fmt.Sprintf(
			"The %s specialist can't help with that here. You can ask about: %s.",
			displayName(string(r.active)), capabilitySummary(cfg))))
		return
	}

	tool, err := cfg.registry.Get(toolName)
	if err != nil {
		// Unreachable after Has, but never let a registry bug crash a turn.
		r.orch.hooks.OnError("tool", err.Error(), r.sess)
		emit(ctx, ch, errorEvent("that capability is unavailable right now", false))
		return
	}

	emit(ctx, ch, partialText(workingMessage(match.Family)))
	r.orch.hooks.OnToolStart(toolName, r.sess)

	result, err := tool.Invoke(ctx, match.Text, r.sess)
	if err != nil {
		if ctx.Err() != nil {
			// Abandoned turn: the tool rolled back, nobody is listening.
			r.orch.hooks.OnError("tool", fmt.Sprintf("%s cancelled", toolName), r.sess)
			return
		}
		r.orch.hooks.OnError("tool", err.Error(), r.sess)
		r.orch.logger.Warn("tool failed",
			zap.String("tool", toolName),
			zap.Error(fmt.Errorf("%w: %v", ErrToolFailure, err)))
		if match.Family == guardrail.FamilyGoal && r.sess.Goal == nil {
			r.state = StateAwaitingGoal
		}
		emit(ctx, ch, errorEvent(fmt.Sprintf("I couldn't finish that: %v.", err), false))
		return
	}

	// Step 5: guardrail output check.
	if err := r.orch.guardrails.CheckOutput(result); err != nil {
		r.orch.hooks.OnError("guardrail_output", err.Error(), r.sess)
		r.orch.logger.Warn("tool output rejected",
			zap.String("tool", toolName),
			zap.Error(fmt.Errorf("%w: %v", ErrOutputRejected, err)))
		emit(ctx, ch, errorEvent(fmt.Sprintf(
			"The %s produced an unusable result; please try again.", displayName(toolName)), false))
		return
	}

	r.orch.hooks.OnToolEnd(toolName, result.Summary(), r.sess)

	ev := newEvent(EventToolResult)
	ev.Tool = toolName
	ev.Result = result
	ev.Text = result.Summary()
	emit(ctx, ch, ev)

	if r.active == CapabilityPrimary {
		r.state = StatePlanning
	}

	if err := r.sess.Verify(); err != nil {
		r.abort(ctx, ch, err)
	}
}

// abort marks the session fatally inconsistent. No further turns run.
func (r *Router) abort(ctx context.Context, ch chan<- Event, cause error) {
	r.fatal = true
	r.orch.hooks.OnError("fatal", cause.Error(), r.sess)
	r.orch.logger.Error("session aborted",
		zap.Error(fmt.Errorf("%w: %v", ErrFatalState, cause)))
	emit(ctx, ch, errorEvent("session state failed verification and the session was closed", true))
}

func workingMessage(family guardrail.Family) string {
	switch family {
	case guardrail.FamilyGoal:
		return "Let me break that goal down..."
	case guardrail.FamilyDietary:
		return "Putting your meal plan together..."
	case guardrail.FamilyWorkoutLevel:
		return "Building your workout plan..."
	case guardrail.FamilyProgress:
		return "Logging that update..."
	case guardrail.FamilyCheckin:
		return "Checking the schedule..."
	}
	return "Working on it..."
}

func capabilitySummary(cfg agentConfig) string {
	names := cfg.registry.Names()
	if len(names) == 0 {
		return "nothing further; a human will follow up"
	}
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += displayName(n)
	}
	return out
}

// displayName renders capability and tool identifiers for user-facing text.
func displayName(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		if r == '_' {
			out = append(out, ' ')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
