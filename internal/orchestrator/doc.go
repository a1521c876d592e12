// Package orchestrator routes utterances through guardrails, tools, and
// specialist handoffs for one conversational session.
//
// # Architecture
//
// Each session owns one Router: a small state machine over the states
//
//	idle → awaiting_goal → planning → handed_off | escalated
//
// Every incoming utterance follows the same path: the guardrail input check
// classifies it into a trigger family (or rejects it), handoff triggers are
// evaluated in fixed priority order, and anything else dispatches the tool
// registered for the family in the active capability set. Tool results pass
// a guardrail output check before being surfaced.
//
// # Capability sets
//
// Specialist agents are not separate types: a Router is parameterized by a
// capability set switched at the single handoff transition point. All
// capability sets share the same session context; none gets a fresh one.
//
//   - primary: all five tools
//   - nutrition_expert: advanced meal planning, progress
//   - injury_support: injury-adapted workouts, progress
//   - escalation: no tools, acknowledgement only
//
// # Streaming
//
// Process returns a channel of events emitted in causal order and closed at
// the end of the turn. Within one session, turns are strictly serialized;
// distinct sessions are fully independent.
//
// # Error handling
//
// Guardrail and tool errors never escape the Router: they become
// clarification or error events on the stream. Only an invariant violation
// (ErrFatalState) terminates a session.
package orchestrator
