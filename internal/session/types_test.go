package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalTypeValid(t *testing.T) {
	for _, g := range []GoalType{GoalWeightLoss, GoalWeightGain, GoalMuscleBuild, GoalEndurance} {
		assert.True(t, g.Valid(), string(g))
	}
	assert.False(t, GoalType("get_swole").Valid())
	assert.False(t, GoalType("").Valid())
}

func TestFitnessLevelValid(t *testing.T) {
	for _, l := range []FitnessLevel{LevelBeginner, LevelIntermediate, LevelAdvanced} {
		assert.True(t, l.Valid(), string(l))
	}
	assert.False(t, FitnessLevel("elite").Valid())
}

func TestAppendHelpersAreAppendOnly(t *testing.T) {
	ctx := New(Profile{Name: "Alex", UID: 1})

	base := time.Now()
	for i := 0; i < 3; i++ {
		ctx.AppendProgress(ProgressEntry{Timestamp: base.Add(time.Duration(i) * time.Minute), Message: "update"})
		assert.Len(t, ctx.ProgressLog, i+1)
	}

	ctx.AppendHandoff(HandoffRecord{Timestamp: base, From: "primary", To: "injury_support", Reason: "knee pain"})
	ctx.AppendHandoff(HandoffRecord{Timestamp: base.Add(time.Hour), From: "injury_support", To: "escalation", Reason: "human requested"})
	require.Len(t, ctx.HandoffLog, 2)
	assert.Equal(t, "injury_support", ctx.HandoffLog[0].To)
}

func TestVerify(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(*Context)
		wantErr bool
	}{
		{
			name:   "fresh context",
			mutate: func(c *Context) {},
		},
		{
			name: "meal plan with preferences",
			mutate: func(c *Context) {
				c.DietPreferences = "vegetarian"
				c.MealPlan = []MealDay{{Day: "Monday"}}
			},
		},
		{
			name: "meal plan without preferences",
			mutate: func(c *Context) {
				c.MealPlan = []MealDay{{Day: "Monday"}}
			},
			wantErr: true,
		},
		{
			name: "unknown goal type",
			mutate: func(c *Context) {
				c.Goal = &Goal{Type: "shrink", TargetValue: "5kg", Timeframe: "2 months"}
			},
			wantErr: true,
		},
		{
			name: "progress log out of order",
			mutate: func(c *Context) {
				c.ProgressLog = []ProgressEntry{
					{Timestamp: now, Message: "a"},
					{Timestamp: now.Add(-time.Hour), Message: "b"},
				}
			},
			wantErr: true,
		},
		{
			name: "handoff log out of order",
			mutate: func(c *Context) {
				c.HandoffLog = []HandoffRecord{
					{Timestamp: now},
					{Timestamp: now.Add(-time.Minute)},
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := New(Profile{Name: "Alex", UID: 7})
			tt.mutate(ctx)
			err := ctx.Verify()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvariant)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
