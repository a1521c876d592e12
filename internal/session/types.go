// Package session defines the per-conversation state record shared by the
// orchestrator, its tools, and specialist agents. A Context is created once
// per conversation, mutated in place for its lifetime, and never replaced.
package session

import (
	"time"
)

// GoalType categorizes a parsed fitness goal.
type GoalType string

const (
	GoalWeightLoss  GoalType = "weight_loss"
	GoalWeightGain  GoalType = "weight_gain"
	GoalMuscleBuild GoalType = "muscle_build"
	GoalEndurance   GoalType = "endurance"
)

// Valid reports whether the goal type is one of the enumerated values.
func (g GoalType) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalMuscleBuild, GoalEndurance:
		return true
	}
	return false
}

// FitnessLevel represents self-reported training experience.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// Valid reports whether the level is one of the enumerated values.
func (l FitnessLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Profile holds identity and body data captured at session creation.
// Name and UID are immutable after creation.
type Profile struct {
	Name     string  `json:"name"`
	UID      int64   `json:"uid"`
	Age      int     `json:"age,omitempty"`
	Gender   string  `json:"gender,omitempty"`
	WeightKg float64 `json:"weight_kg,omitempty"`
	HeightCm float64 `json:"height_cm,omitempty"`
}

// Goal is a structured fitness goal parsed from a goal utterance.
type Goal struct {
	Type        GoalType `json:"goal_type"`
	TargetValue string   `json:"target_value"`
	Timeframe   string   `json:"timeframe"`
}

// MealDay is one entry of a seven-day meal plan.
type MealDay struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks"`
}

// WorkoutDay is one entry of a workout plan.
type WorkoutDay struct {
	Day       string   `json:"day"`
	Exercises []string `json:"exercises"`
	Duration  string   `json:"duration"`
	Intensity string   `json:"intensity"`
}

// WorkoutPlan is a structured training plan.
type WorkoutPlan struct {
	Level            FitnessLevel `json:"level"`
	Days             []WorkoutDay `json:"days"`
	ProgressionNotes string       `json:"progression_notes,omitempty"`
}

// HandoffRecord is one append-only entry in the handoff log.
type HandoffRecord struct {
	Timestamp time.Time `json:"timestamp"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Reason    string    `json:"reason"`
}

// ProgressEntry is one append-only entry in the progress log.
type ProgressEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Category  string    `json:"category,omitempty"`
}

// CheckinRecord is a pending recurring check-in.
type CheckinRecord struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	CreatedAt    time.Time `json:"created_at"`
}

// Context is the mutable per-conversation state record. It has no behavior
// beyond append helpers and invariant verification; all decisions live in
// the orchestrator.
//
// Access is sequential by construction: the owning router serializes turns,
// so Context carries no lock of its own. It must never be shared across
// sessions.
type Context struct {
	Profile         Profile         `json:"profile"`
	Goal            *Goal           `json:"goal,omitempty"`
	DietPreferences string          `json:"diet_preferences,omitempty"`
	MealPlan        []MealDay       `json:"meal_plan,omitempty"`
	WorkoutPlan     *WorkoutPlan    `json:"workout_plan,omitempty"`
	InjuryNotes     string          `json:"injury_notes,omitempty"`
	HandoffLog      []HandoffRecord `json:"handoff_log,omitempty"`
	ProgressLog     []ProgressEntry `json:"progress_log,omitempty"`
	Checkins        []CheckinRecord `json:"checkins,omitempty"`
}

// New creates a session context for the given profile.
func New(profile Profile) *Context {
	return &Context{Profile: profile}
}

// AppendHandoff records a transfer of routing authority.
func (c *Context) AppendHandoff(rec HandoffRecord) {
	c.HandoffLog = append(c.HandoffLog, rec)
}

// AppendProgress records a progress update.
func (c *Context) AppendProgress(entry ProgressEntry) {
	c.ProgressLog = append(c.ProgressLog, entry)
}
