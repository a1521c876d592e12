package tools

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// ProgressTrackerName is the registry name of the progress tracker.
const ProgressTrackerName = "progress_tracker"

var (
	progressWeight  = regexp.MustCompile(`(?i)\b(lost|gained)\b.{0,30}?\d*\s*(kg|kilo\w*|pound\w*|lbs?)\b`)
	progressWorkout = regexp.MustCompile(`(?i)\b(ran|run|lifted|squatted|trained|workout)\b`)
)

// ProgressResult is the structured outcome of progress tracking.
type ProgressResult struct {
	Entry        session.ProgressEntry `json:"entry"`
	TotalEntries int                   `json:"total_entries"`
}

// Validate verifies the result shape.
func (r *ProgressResult) Validate() error {
	if r.Entry.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is zero")
	}
	if r.Entry.Message == "" {
		return fmt.Errorf("message is empty")
	}
	if r.TotalEntries < 1 {
		return fmt.Errorf("total_entries must be >= 1, got %d", r.TotalEntries)
	}
	return nil
}

// Summary returns a short acknowledgement.
func (r *ProgressResult) Summary() string {
	return fmt.Sprintf("Logged your %s update. That's %d entries so far. Keep going!", r.Entry.Category, r.TotalEntries)
}

// ProgressTracker appends timestamped entries to the session progress log.
// It never removes or rewrites prior entries.
type ProgressTracker struct {
	clock  Clock
	logger *zap.Logger
}

// NewProgressTracker creates a progress tracker using the given clock.
func NewProgressTracker(clock Clock, logger *zap.Logger) *ProgressTracker {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressTracker{clock: clock, logger: logger}
}

// Name returns the registry name.
func (p *ProgressTracker) Name() string { return ProgressTrackerName }

// Invoke appends the utterance as a progress entry.
func (p *ProgressTracker) Invoke(ctx context.Context, utterance string, sess *session.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := session.ProgressEntry{
		Timestamp: p.clock(),
		Message:   utterance,
		Category:  categorize(utterance),
	}

	// Commit.
	sess.AppendProgress(entry)

	p.logger.Debug("progress entry committed",
		zap.String("category", entry.Category),
		zap.Int("total", len(sess.ProgressLog)),
	)
	return &ProgressResult{Entry: entry, TotalEntries: len(sess.ProgressLog)}, nil
}

func categorize(utterance string) string {
	switch {
	case progressWeight.MatchString(utterance):
		return "weight"
	case progressWorkout.MatchString(utterance):
		return "workout"
	}
	return "general"
}
