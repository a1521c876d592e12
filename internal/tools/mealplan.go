package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/llm"
	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// MealPlannerName is the registry name of the meal planner.
const MealPlannerName = "meal_planner"

// mealPlanDays is the fixed length of a generated meal plan.
const mealPlanDays = 7

var dietPreference = regexp.MustCompile(`(?i)\b(vegetarian|vegan|pescatarian|keto|paleo|halal|kosher|dairy[- ]free|low[- ]carb)\b`)

// MealPlanResult is the structured outcome of meal planning.
type MealPlanResult struct {
	Preferences string            `json:"preferences"`
	Plan        []session.MealDay `json:"plan"`
	Fallback    bool              `json:"fallback"`
}

// Validate verifies the result shape: exactly seven complete days.
func (r *MealPlanResult) Validate() error {
	if r.Preferences == "" {
		return fmt.Errorf("preferences is empty")
	}
	if len(r.Plan) != mealPlanDays {
		return fmt.Errorf("meal plan has %d days, want %d", len(r.Plan), mealPlanDays)
	}
	for i, day := range r.Plan {
		if day.Day == "" || day.Breakfast == "" || day.Lunch == "" || day.Dinner == "" || day.Snacks == "" {
			return fmt.Errorf("meal plan day %d is incomplete", i+1)
		}
	}
	return nil
}

// Summary returns a short acknowledgement.
func (r *MealPlanResult) Summary() string {
	if r.Fallback {
		return fmt.Sprintf("Prepared a standard 7-day %s meal plan (the planning service was unavailable, so this one is not personalized).", r.Preferences)
	}
	return fmt.Sprintf("Prepared your personalized 7-day %s meal plan.", r.Preferences)
}

// MealPlannerOptions tunes planner behavior per capability set.
type MealPlannerOptions struct {
	// Advanced prompts account for medical dietary conditions. Used by the
	// nutrition-expert capability set.
	Advanced bool
}

// MealPlanner produces seven-day meal plans through the completion backend.
// Backend failures and malformed completions degrade to a built-in plan
// rather than failing the turn; the result is flagged accordingly.
type MealPlanner struct {
	completer llm.Completer
	opts      MealPlannerOptions
	logger    *zap.Logger
}

// NewMealPlanner creates a meal planner.
func NewMealPlanner(completer llm.Completer, opts MealPlannerOptions, logger *zap.Logger) *MealPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MealPlanner{completer: completer, opts: opts, logger: logger}
}

// Name returns the registry name.
func (m *MealPlanner) Name() string { return MealPlannerName }

// Invoke generates a plan and commits preferences plus plan to the session.
// A replan overwrites the previous plan.
func (m *MealPlanner) Invoke(ctx context.Context, utterance string, sess *session.Context) (Result, error) {
	prefs := strings.ToLower(dietPreference.FindString(utterance))
	if prefs == "" {
		prefs = sess.DietPreferences
	}
	if prefs == "" {
		return nil, fmt.Errorf("no dietary preference yet: tell me one like %q", "I'm vegetarian")
	}

	plan, fallback := m.generate(ctx, prefs, sess)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &MealPlanResult{Preferences: prefs, Plan: plan, Fallback: fallback}

	// Commit.
	sess.DietPreferences = prefs
	sess.MealPlan = plan

	m.logger.Debug("meal plan committed",
		zap.String("preferences", prefs),
		zap.Bool("fallback", fallback),
	)
	return result, nil
}

// generate calls the completion backend and validates the response,
// degrading to the built-in plan on any failure.
func (m *MealPlanner) generate(ctx context.Context, prefs string, sess *session.Context) ([]session.MealDay, bool) {
	out, err := m.completer.Complete(ctx, m.prompt(prefs, sess))
	if err != nil {
		m.logger.Warn("meal plan completion failed, using fallback", zap.Error(err))
		return fallbackMealPlan(prefs), true
	}

	raw, err := llm.ExtractJSON(out)
	if err != nil {
		m.logger.Warn("meal plan completion had no JSON, using fallback", zap.Error(err))
		return fallbackMealPlan(prefs), true
	}

	var days []session.MealDay
	if err := json.Unmarshal(raw, &days); err != nil {
		m.logger.Warn("meal plan JSON malformed, using fallback", zap.Error(err))
		return fallbackMealPlan(prefs), true
	}

	valid := days[:0]
	for _, d := range days {
		if d.Day != "" && d.Breakfast != "" && d.Lunch != "" && d.Dinner != "" && d.Snacks != "" {
			valid = append(valid, d)
		}
	}
	if len(valid) != mealPlanDays {
		m.logger.Warn("meal plan had wrong day count, using fallback", zap.Int("days", len(valid)))
		return fallbackMealPlan(prefs), true
	}
	return valid, false
}

func (m *MealPlanner) prompt(prefs string, sess *session.Context) string {
	var b strings.Builder
	b.WriteString("Create a 7-day meal plan as a JSON array. Each item must have the string fields ")
	b.WriteString(`"day", "breakfast", "lunch", "dinner", "snacks".` + "\n\n")
	fmt.Fprintf(&b, "Dietary preference: %s\n", prefs)
	if sess.Goal != nil {
		fmt.Fprintf(&b, "Goal: %s of %s within %s\n", sess.Goal.Type, sess.Goal.TargetValue, sess.Goal.Timeframe)
	}
	if p := sess.Profile; p.Age > 0 {
		fmt.Fprintf(&b, "Age: %d, weight: %.0fkg, height: %.0fcm\n", p.Age, p.WeightKg, p.HeightCm)
	}
	if m.opts.Advanced && sess.InjuryNotes != "" {
		fmt.Fprintf(&b, "Medical/dietary conditions to account for: %s\n", sess.InjuryNotes)
	}
	b.WriteString("\nMake meals realistic and varied. Respond ONLY with valid JSON.")
	return b.String()
}

// fallbackMealPlan is the built-in plan used when the backend is unavailable.
func fallbackMealPlan(prefs string) []session.MealDay {
	protein := "grilled chicken"
	dinner := "salmon with roasted vegetables"
	if strings.Contains(prefs, "veg") {
		protein = "chickpea and halloumi"
		dinner = "vegetable stir-fry with tofu"
	}
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	plan := make([]session.MealDay, len(days))
	for i, day := range days {
		plan[i] = session.MealDay{
			Day:       day,
			Breakfast: "Oatmeal with fruit and nuts",
			Lunch:     protein + " salad with whole grains",
			Dinner:    dinner,
			Snacks:    "Greek yogurt or mixed nuts",
		}
	}
	return plan
}
