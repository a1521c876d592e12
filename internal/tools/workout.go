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

// WorkoutRecommenderName is the registry name of the workout recommender.
const WorkoutRecommenderName = "workout_recommender"

var experienceLevel = regexp.MustCompile(`(?i)\b(beginner|intermediate|advanced)\b`)

// WorkoutResult is the structured outcome of workout recommendation.
type WorkoutResult struct {
	Plan     session.WorkoutPlan `json:"plan"`
	Fallback bool                `json:"fallback"`
}

// Validate verifies the result shape.
func (r *WorkoutResult) Validate() error {
	if !r.Plan.Level.Valid() {
		return fmt.Errorf("level %q is not one of the enumerated values", r.Plan.Level)
	}
	if len(r.Plan.Days) == 0 {
		return fmt.Errorf("workout plan has no days")
	}
	for i, day := range r.Plan.Days {
		if day.Day == "" || len(day.Exercises) == 0 || day.Duration == "" || day.Intensity == "" {
			return fmt.Errorf("workout day %d is incomplete", i+1)
		}
	}
	if r.Plan.ProgressionNotes == "" {
		return fmt.Errorf("progression notes are empty")
	}
	return nil
}

// Summary returns a short acknowledgement.
func (r *WorkoutResult) Summary() string {
	if r.Fallback {
		return fmt.Sprintf("Prepared a standard %s workout plan (the planning service was unavailable).", r.Plan.Level)
	}
	return fmt.Sprintf("Prepared your %s workout plan with progression notes.", r.Plan.Level)
}

// WorkoutRecommenderOptions tunes recommender behavior per capability set.
type WorkoutRecommenderOptions struct {
	// InjuryAdapted restricts plans to low-impact work around recorded
	// injuries. Used by the injury-support capability set.
	InjuryAdapted bool
}

// WorkoutRecommender produces structured training plans through the
// completion backend, degrading to a built-in plan on failure.
type WorkoutRecommender struct {
	completer llm.Completer
	opts      WorkoutRecommenderOptions
	logger    *zap.Logger
}

// NewWorkoutRecommender creates a workout recommender.
func NewWorkoutRecommender(completer llm.Completer, opts WorkoutRecommenderOptions, logger *zap.Logger) *WorkoutRecommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkoutRecommender{completer: completer, opts: opts, logger: logger}
}

// Name returns the registry name.
func (w *WorkoutRecommender) Name() string { return WorkoutRecommenderName }

// Invoke generates a plan and commits it to the session. A later
// experience-level statement overwrites the previous plan.
func (w *WorkoutRecommender) Invoke(ctx context.Context, utterance string, sess *session.Context) (Result, error) {
	level := session.FitnessLevel(strings.ToLower(experienceLevel.FindString(utterance)))
	if level == "" && sess.WorkoutPlan != nil {
		level = sess.WorkoutPlan.Level
	}
	if !level.Valid() {
		return nil, fmt.Errorf("no experience level yet: tell me beginner, intermediate, or advanced")
	}

	plan, fallback := w.generate(ctx, level, sess)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &WorkoutResult{Plan: plan, Fallback: fallback}

	// Commit.
	sess.WorkoutPlan = &plan

	w.logger.Debug("workout plan committed",
		zap.String("level", string(level)),
		zap.Bool("injury_adapted", w.opts.InjuryAdapted),
		zap.Bool("fallback", fallback),
	)
	return result, nil
}

// workoutCompletion is the wire shape expected from the backend.
type workoutCompletion struct {
	Days             []session.WorkoutDay `json:"days"`
	ProgressionNotes string               `json:"progression_notes"`
}

func (w *WorkoutRecommender) generate(ctx context.Context, level session.FitnessLevel, sess *session.Context) (session.WorkoutPlan, bool) {
	out, err := w.completer.Complete(ctx, w.prompt(level, sess))
	if err != nil {
		w.logger.Warn("workout completion failed, using fallback", zap.Error(err))
		return fallbackWorkoutPlan(level, w.opts.InjuryAdapted), true
	}

	raw, err := llm.ExtractJSON(out)
	if err != nil {
		w.logger.Warn("workout completion had no JSON, using fallback", zap.Error(err))
		return fallbackWorkoutPlan(level, w.opts.InjuryAdapted), true
	}

	var parsed workoutCompletion
	if err := json.Unmarshal(raw, &parsed); err != nil {
		w.logger.Warn("workout JSON malformed, using fallback", zap.Error(err))
		return fallbackWorkoutPlan(level, w.opts.InjuryAdapted), true
	}

	plan := session.WorkoutPlan{Level: level, Days: parsed.Days, ProgressionNotes: parsed.ProgressionNotes}
	if err := (&WorkoutResult{Plan: plan}).Validate(); err != nil {
		w.logger.Warn("workout plan incomplete, using fallback", zap.Error(err))
		return fallbackWorkoutPlan(level, w.opts.InjuryAdapted), true
	}
	return plan, false
}

func (w *WorkoutRecommender) prompt(level session.FitnessLevel, sess *session.Context) string {
	var b strings.Builder
	b.WriteString("Create a workout plan as a JSON object with fields ")
	b.WriteString(`"days" (array of {"day", "exercises" (array of strings with sets/reps), "duration", "intensity"}) and "progression_notes" (string).` + "\n\n")
	fmt.Fprintf(&b, "Experience level: %s\n", level)
	if sess.Goal != nil {
		fmt.Fprintf(&b, "Goal: %s of %s within %s\n", sess.Goal.Type, sess.Goal.TargetValue, sess.Goal.Timeframe)
	}
	if sess.InjuryNotes != "" {
		fmt.Fprintf(&b, "Injuries or limitations: %s\n", sess.InjuryNotes)
	}
	if w.opts.InjuryAdapted {
		b.WriteString("The plan MUST be low-impact and avoid loading the injured area.\n")
	}
	b.WriteString("\nMake it safe and progressive. Respond ONLY with valid JSON.")
	return b.String()
}

// fallbackWorkoutPlan is the built-in plan used when the backend is unavailable.
func fallbackWorkoutPlan(level session.FitnessLevel, injuryAdapted bool) session.WorkoutPlan {
	strength := []string{"Squats 3x10", "Push-ups 3x12", "Rows 3x10"}
	cardio := []string{"Jogging 30 min", "Core circuit 3 rounds"}
	intensity := "Moderate"
	if injuryAdapted {
		strength = []string{"Seated band rows 3x12", "Wall push-ups 3x12", "Glute bridges 3x10"}
		cardio = []string{"Stationary bike 20 min, low resistance", "Mobility work 15 min"}
		intensity = "Light"
	}

	return session.WorkoutPlan{
		Level: level,
		Days: []session.WorkoutDay{
			{Day: "Monday", Exercises: strength, Duration: "45 minutes", Intensity: intensity},
			{Day: "Wednesday", Exercises: cardio, Duration: "40 minutes", Intensity: intensity},
			{Day: "Friday", Exercises: strength, Duration: "45 minutes", Intensity: intensity},
			{Day: "Saturday", Exercises: []string{"Yoga 30 min", "Walk 20 min"}, Duration: "50 minutes", Intensity: "Light"},
		},
		ProgressionNotes: "Add one rep per set each week; increase load only when all sets feel controlled.",
	}
}
