package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

const validWorkoutJSON = `{
	"days": [
		{"day": "Monday", "exercises": ["Squats 3x10", "Bench 3x8"], "duration": "60 minutes", "intensity": "Moderate"},
		{"day": "Thursday", "exercises": ["Deadlifts 3x5"], "duration": "45 minutes", "intensity": "High"}
	],
	"progression_notes": "Add 2.5kg when all reps are clean."
}`

func TestWorkoutRecommenderParsesLevelAndCommits(t *testing.T) {
	sess := newSession()
	rec := NewWorkoutRecommender(&fakeCompleter{response: validWorkoutJSON}, WorkoutRecommenderOptions{}, nil)

	result, err := rec.Invoke(context.Background(), "I'm an intermediate lifter, need a training plan", sess)
	require.NoError(t, err)
	require.NoError(t, result.Validate())

	wr := result.(*WorkoutResult)
	assert.Equal(t, session.LevelIntermediate, wr.Plan.Level)
	assert.False(t, wr.Fallback)
	assert.Len(t, wr.Plan.Days, 2)
	assert.NotEmpty(t, wr.Plan.ProgressionNotes)

	require.NotNil(t, sess.WorkoutPlan)
	assert.Equal(t, wr.Plan, *sess.WorkoutPlan)
}

func TestWorkoutRecommenderRequiresLevel(t *testing.T) {
	sess := newSession()
	rec := NewWorkoutRecommender(&fakeCompleter{response: validWorkoutJSON}, WorkoutRecommenderOptions{}, nil)

	_, err := rec.Invoke(context.Background(), "give me a workout plan", sess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "experience level")
	assert.Nil(t, sess.WorkoutPlan)
}

func TestWorkoutRecommenderReusesStoredLevelOnReplan(t *testing.T) {
	sess := newSession()
	sess.WorkoutPlan = &session.WorkoutPlan{Level: session.LevelAdvanced}
	rec := NewWorkoutRecommender(&fakeCompleter{response: validWorkoutJSON}, WorkoutRecommenderOptions{}, nil)

	result, err := rec.Invoke(context.Background(), "refresh my workout plan", sess)
	require.NoError(t, err)
	assert.Equal(t, session.LevelAdvanced, result.(*WorkoutResult).Plan.Level)
}

func TestWorkoutRecommenderFallsBack(t *testing.T) {
	for name, completer := range map[string]*fakeCompleter{
		"backend error":  {err: errors.New("backend down")},
		"malformed json": {response: "not json"},
		"missing notes":  {response: `{"days": [{"day": "Monday", "exercises": ["x"], "duration": "1h", "intensity": "low"}]}`},
	} {
		t.Run(name, func(t *testing.T) {
			sess := newSession()
			rec := NewWorkoutRecommender(completer, WorkoutRecommenderOptions{}, nil)

			result, err := rec.Invoke(context.Background(), "I'm a beginner", sess)
			require.NoError(t, err)
			require.NoError(t, result.Validate())
			assert.True(t, result.(*WorkoutResult).Fallback)
		})
	}
}

func TestWorkoutRecommenderInjuryAdaptedFallback(t *testing.T) {
	sess := newSession()
	sess.InjuryNotes = "knee pain"
	rec := NewWorkoutRecommender(&fakeCompleter{err: errors.New("down")}, WorkoutRecommenderOptions{InjuryAdapted: true}, nil)

	result, err := rec.Invoke(context.Background(), "beginner please", sess)
	require.NoError(t, err)

	plan := result.(*WorkoutResult).Plan
	for _, day := range plan.Days {
		assert.NotEqual(t, "High", day.Intensity)
	}
}

func TestWorkoutRecommenderRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := newSession()
	rec := NewWorkoutRecommender(&fakeCompleter{response: validWorkoutJSON}, WorkoutRecommenderOptions{}, nil)

	_, err := rec.Invoke(ctx, "I'm a beginner", sess)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, sess.WorkoutPlan)
}
