package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressTrackerAppends(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	sess := newSession()
	tracker := NewProgressTracker(fixedClock(now), nil)

	result, err := tracker.Invoke(context.Background(), "Lost 1kg this week!", sess)
	require.NoError(t, err)
	require.NoError(t, result.Validate())

	pr := result.(*ProgressResult)
	assert.Equal(t, "Lost 1kg this week!", pr.Entry.Message)
	assert.Equal(t, "weight", pr.Entry.Category)
	assert.Equal(t, 1, pr.TotalEntries)
	assert.Equal(t, now, pr.Entry.Timestamp)
}

func TestProgressTrackerNeverRemovesEntries(t *testing.T) {
	sess := newSession()
	base := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

	updates := []string{"Lost 1kg this week!", "ran 5k today", "feeling good"}
	for i, msg := range updates {
		tracker := NewProgressTracker(fixedClock(base.Add(time.Duration(i)*time.Hour)), nil)
		result, err := tracker.Invoke(context.Background(), msg, sess)
		require.NoError(t, err)
		assert.Equal(t, i+1, result.(*ProgressResult).TotalEntries)
	}

	require.Len(t, sess.ProgressLog, 3)
	assert.Equal(t, updates[0], sess.ProgressLog[0].Message)
	require.NoError(t, sess.Verify())
}

func TestProgressTrackerCategorization(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"Lost 1kg this week!", "weight"},
		{"gained 2 pounds back", "weight"},
		{"lifted a new PR today", "workout"},
		{"ran my first 5k", "workout"},
		{"feeling much more energetic", "general"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, categorize(tt.message), tt.message)
	}
}

func TestProgressTrackerRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := newSession()
	_, err := NewProgressTracker(nil, nil).Invoke(ctx, "Lost 1kg", sess)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sess.ProgressLog)
}
