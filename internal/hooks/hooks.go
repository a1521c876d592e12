// Package hooks provides lifecycle observation for the orchestrator.
//
// A Sink is notified of tool starts and completions, handoffs, and errors.
// Sinks observe only: they have no decisional authority, must not mutate the
// session, and must never panic outward. MultiSink enforces the no-panic
// guarantee for whatever it wraps.
package hooks

import (
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// Sink receives orchestration lifecycle events. Implementations must be
// fast (or hand off to a goroutine), must not mutate the session, and
// should not panic; panics are contained by MultiSink.
type Sink interface {
	OnToolStart(tool string, sess *session.Context)
	OnToolEnd(tool string, summary string, sess *session.Context)
	OnHandoff(from, to string, sess *session.Context)
	OnError(stage, reason string, sess *session.Context)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OnToolStart(string, *session.Context)       {}
func (NopSink) OnToolEnd(string, string, *session.Context) {}
func (NopSink) OnHandoff(string, string, *session.Context) {}
func (NopSink) OnError(string, string, *session.Context)   {}

// ZapSink logs lifecycle events as structured entries.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a logging sink.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

func (s *ZapSink) OnToolStart(tool string, sess *session.Context) {
	s.logger.Info("tool start",
		zap.String("tool", tool),
		zap.Int64("uid", sess.Profile.UID),
	)
}

func (s *ZapSink) OnToolEnd(tool string, summary string, sess *session.Context) {
	s.logger.Info("tool end",
		zap.String("tool", tool),
		zap.String("summary", summary),
		zap.Int64("uid", sess.Profile.UID),
	)
}

func (s *ZapSink) OnHandoff(from, to string, sess *session.Context) {
	s.logger.Info("handoff",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int64("uid", sess.Profile.UID),
		zap.Int("handoff_count", len(sess.HandoffLog)),
	)
}

func (s *ZapSink) OnError(stage, reason string, sess *session.Context) {
	s.logger.Warn("orchestration error",
		zap.String("stage", stage),
		zap.String("reason", reason),
		zap.Int64("uid", sess.Profile.UID),
	)
}

// MultiSink fans out to several sinks, containing panics from each.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a fan-out sink. Nil entries are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &MultiSink{sinks: out}
}

func (m *MultiSink) OnToolStart(tool string, sess *session.Context) {
	for _, s := range m.sinks {
		notify(func() { s.OnToolStart(tool, sess) })
	}
}

func (m *MultiSink) OnToolEnd(tool string, summary string, sess *session.Context) {
	for _, s := range m.sinks {
		notify(func() { s.OnToolEnd(tool, summary, sess) })
	}
}

func (m *MultiSink) OnHandoff(from, to string, sess *session.Context) {
	for _, s := range m.sinks {
		notify(func() { s.OnHandoff(from, to, sess) })
	}
}

func (m *MultiSink) OnError(stage, reason string, sess *session.Context) {
	for _, s := range m.sinks {
		notify(func() { s.OnError(stage, reason, sess) })
	}
}

// notify runs one sink callback, swallowing panics. Observers must never be
// able to break a session turn.
func notify(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
