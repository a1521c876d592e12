package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

func validMealPlanJSON(t *testing.T) string {
	t.Helper()
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	plan := make([]session.MealDay, len(days))
	for i, d := range days {
		plan[i] = session.MealDay{Day: d, Breakfast: "b", Lunch: "l", Dinner: "d", Snacks: "s"}
	}
	out, err := json.Marshal(plan)
	require.NoError(t, err)
	return string(out)
}

func TestMealPlannerGeneratesSevenDays(t *testing.T) {
	sess := newSession()
	completer := &fakeCompleter{response: validMealPlanJSON(t)}
	planner := NewMealPlanner(completer, MealPlannerOptions{}, nil)

	result, err := planner.Invoke(context.Background(), "I'm vegetarian and need a meal plan", sess)
	require.NoError(t, err)
	require.NoError(t, result.Validate())

	mp := result.(*MealPlanResult)
	assert.Equal(t, "vegetarian", mp.Preferences)
	assert.Len(t, mp.Plan, 7)
	assert.False(t, mp.Fallback)

	assert.Equal(t, "vegetarian", sess.DietPreferences)
	assert.Len(t, sess.MealPlan, 7)
	assert.Equal(t, 1, completer.calls)
}

func TestMealPlannerWrapsCompletionInProse(t *testing.T) {
	sess := newSession()
	completer := &fakeCompleter{response: "Here you go!\n```json\n" + validMealPlanJSON(t) + "\n```"}
	planner := NewMealPlanner(completer, MealPlannerOptions{}, nil)

	result, err := planner.Invoke(context.Background(), "vegan meal plan please", sess)
	require.NoError(t, err)
	assert.False(t, result.(*MealPlanResult).Fallback)
	assert.Equal(t, "vegan", sess.DietPreferences)
}

func TestMealPlannerFallsBackOnBackendFailure(t *testing.T) {
	sess := newSession()
	planner := NewMealPlanner(&fakeCompleter{err: errors.New("backend down")}, MealPlannerOptions{}, nil)

	result, err := planner.Invoke(context.Background(), "I'm vegetarian", sess)
	require.NoError(t, err)
	require.NoError(t, result.Validate())

	mp := result.(*MealPlanResult)
	assert.True(t, mp.Fallback)
	assert.Len(t, mp.Plan, 7)
	assert.Len(t, sess.MealPlan, 7)
}

func TestMealPlannerFallsBackOnMalformedJSON(t *testing.T) {
	for _, response := range []string{
		"no json at all",
		`{"not": "an array"}`,
		`[{"day": "Monday"}]`, // incomplete day
	} {
		sess := newSession()
		planner := NewMealPlanner(&fakeCompleter{response: response}, MealPlannerOptions{}, nil)

		result, err := planner.Invoke(context.Background(), "I'm vegetarian", sess)
		require.NoError(t, err, response)
		assert.True(t, result.(*MealPlanResult).Fallback, response)
	}
}

func TestMealPlannerRequiresPreference(t *testing.T) {
	sess := newSession()
	planner := NewMealPlanner(&fakeCompleter{}, MealPlannerOptions{}, nil)

	_, err := planner.Invoke(context.Background(), "just give me a meal plan", sess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dietary preference")
	assert.Empty(t, sess.MealPlan)
}

func TestMealPlannerReusesStoredPreferenceOnReplan(t *testing.T) {
	sess := newSession()
	sess.DietPreferences = "keto"
	planner := NewMealPlanner(&fakeCompleter{response: validMealPlanJSON(t)}, MealPlannerOptions{}, nil)

	result, err := planner.Invoke(context.Background(), "make me a new meal plan", sess)
	require.NoError(t, err)
	assert.Equal(t, "keto", result.(*MealPlanResult).Preferences)
}

func TestMealPlannerRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess := newSession()
	planner := NewMealPlanner(&fakeCompleter{response: validMealPlanJSON(t)}, MealPlannerOptions{}, nil)

	_, err := planner.Invoke(ctx, "I'm vegetarian", sess)
	require.ErrorIs(t, err, context.Canceled)

	// Rollback: nothing committed.
	assert.Empty(t, sess.DietPreferences)
	assert.Empty(t, sess.MealPlan)
}

func TestFallbackMealPlanAdaptsToPreference(t *testing.T) {
	veg := fallbackMealPlan("vegetarian")
	meat := fallbackMealPlan("keto")

	assert.Len(t, veg, 7)
	assert.NotEqual(t, veg[0].Dinner, meat[0].Dinner)
}
