package tools

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// CheckinSchedulerName is the registry name of the check-in scheduler.
const CheckinSchedulerName = "checkin_scheduler"

// checkinHour is the local hour of day check-ins are scheduled for.
const checkinHour = 9

// CheckinResult is the structured outcome of check-in scheduling.
type CheckinResult struct {
	Scheduled        session.CheckinRecord `json:"scheduled"`
	AlreadyScheduled bool                  `json:"already_scheduled"`
}

// Validate verifies the result shape.
func (r *CheckinResult) Validate() error {
	if r.Scheduled.ScheduledFor.IsZero() {
		return fmt.Errorf("scheduled_for is zero")
	}
	if r.Scheduled.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is zero")
	}
	return nil
}

// Summary returns a short acknowledgement.
func (r *CheckinResult) Summary() string {
	when := r.Scheduled.ScheduledFor.Format("Monday Jan 2 at 15:04")
	if r.AlreadyScheduled {
		return fmt.Sprintf("You already have a check-in scheduled for %s.", when)
	}
	return fmt.Sprintf("Scheduled your weekly check-in for %s.", when)
}

// CheckinScheduler computes the next weekly check-in. Scheduling is
// idempotent: a second request within the same ISO week returns the pending
// record instead of creating another.
type CheckinScheduler struct {
	clock  Clock
	logger *zap.Logger
}

// NewCheckinScheduler creates a scheduler using the given clock.
func NewCheckinScheduler(clock Clock, logger *zap.Logger) *CheckinScheduler {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckinScheduler{clock: clock, logger: logger}
}

// Name returns the registry name.
func (c *CheckinScheduler) Name() string { return CheckinSchedulerName }

// Invoke schedules (or confirms) the next weekly check-in.
func (c *CheckinScheduler) Invoke(ctx context.Context, utterance string, sess *session.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := c.clock()
	next := nextCheckin(now)

	year, week := next.ISOWeek()
	for _, rec := range sess.Checkins {
		ry, rw := rec.ScheduledFor.ISOWeek()
		if ry == year && rw == week {
			return &CheckinResult{Scheduled: rec, AlreadyScheduled: true}, nil
		}
	}

	rec := session.CheckinRecord{ScheduledFor: next, CreatedAt: now}

	// Commit.
	sess.Checkins = append(sess.Checkins, rec)

	c.logger.Debug("check-in scheduled", zap.Time("scheduled_for", next))
	return &CheckinResult{Scheduled: rec}, nil
}

// nextCheckin returns the next Monday 09:00 strictly after now (or today at
// 09:00 if now is a Monday morning).
func nextCheckin(now time.Time) time.Time {
	daysAhead := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day(), checkinHour, 0, 0, 0, now.Location()).
		AddDate(0, 0, daysAhead)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
