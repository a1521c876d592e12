package orchestrator

import (
	"context"

	"github.com/google/uuid"
)

// EventType discriminates stream events.
type EventType string

const (
	// EventPartialText is an incremental piece of conversational output.
	EventPartialText EventType = "partial_text"
	// EventToolResult carries a structured tool result.
	EventToolResult EventType = "tool_result"
	// EventHandoff announces a transfer of routing authority.
	EventHandoff EventType = "handoff"
	// EventClarification asks the caller to rephrase or add detail.
	EventClarification EventType = "clarification"
	// EventError reports a recoverable or fatal orchestration error.
	EventError EventType = "error"
)

// Event is one element of a turn's output stream.
type Event struct {
	ID     string    `json:"id"`
	Type   EventType `json:"type"`
	Text   string    `json:"text,omitempty"`
	Tool   string    `json:"tool,omitempty"`
	Result any       `json:"result,omitempty"`
	From   string    `json:"from,omitempty"`
	To     string    `json:"to,omitempty"`
	Fatal  bool      `json:"fatal,omitempty"`
}

func newEvent(t EventType) Event {
	return Event{ID: uuid.NewString(), Type: t}
}

// emit sends an event unless the caller has abandoned the stream.
func emit(ctx context.Context, ch chan<- Event, ev Event) {
	select {
	case ch <- ev:
	case <-ctx.Done():
	}
}

func partialText(text string) Event {
	ev := newEvent(EventPartialText)
	ev.Text = text
	return ev
}

func clarification(text string) Event {
	ev := newEvent(EventClarification)
	ev.Text = text
	return ev
}

func errorEvent(text string, fatal bool) Event {
	ev := newEvent(EventError)
	ev.Text = text
	ev.Fatal = fatal
	return ev
}
