// Package guardrail validates raw input before routing and structured tool
// output before it is surfaced.
//
// The engine is stateless and pure: checks never touch session state, and
// re-running a check on the same input always yields the same result. Input
// checking classifies an utterance into one of a fixed set of trigger
// families; output checking verifies a tool result conforms to its declared
// shape.
package guardrail

import (
	"fmt"
	"regexp"
	"strings"
)

// Family names a group of recognized input patterns.
type Family string

const (
	// Handoff trigger families, in fixed priority order.
	FamilyEscalation     Family = "escalation"
	FamilyInjury         Family = "injury"
	FamilyDietaryComplex Family = "dietary_complex"

	// Tool dispatch families.
	FamilyGoal         Family = "goal"
	FamilyDietary      Family = "dietary"
	FamilyWorkoutLevel Family = "workout_level"
	FamilyProgress     Family = "progress"
	FamilyCheckin      Family = "checkin"
)

// Handoff reports whether a match in this family transfers routing authority.
func (f Family) Handoff() bool {
	switch f {
	case FamilyEscalation, FamilyInjury, FamilyDietaryComplex:
		return true
	}
	return false
}

// Match is the result of an accepted input check.
type Match struct {
	Family Family
	Text   string
}

// RejectionError reports an input that matched no recognized family. Closest
// names the family with the strongest partial cue overlap so the router can
// ask a pointed clarifying question instead of a generic one.
type RejectionError struct {
	Closest Family
	Hint    string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("input matched no recognized family (closest: %s)", e.Closest)
}

// Validator is implemented by structured tool results that can verify their
// own declared shape.
type Validator interface {
	Validate() error
}

type familyRule struct {
	name     Family
	patterns []*regexp.Regexp
	cues     []string
	hint     string
}

// Engine performs input and output checks. Safe for concurrent use.
type Engine struct {
	families []familyRule
}

// NewEngine creates an engine with the default trigger families.
//
// Families are evaluated in a fixed order with handoff triggers first, so
// classification is deterministic: an utterance matching both an injury cue
// and an escalation cue always classifies as escalation.
func NewEngine() *Engine {
	return &Engine{families: defaultFamilies()}
}

func defaultFamilies() []familyRule {
	return []familyRule{
		{
			name: FamilyEscalation,
			patterns: compile(
				`(?i)\b(talk|speak)\s+to\s+(a\s+|an\s+)?(human|person|agent|coach|trainer)\b`,
				`(?i)\bhuman\s+(help|support|coach|being)\b`,
				`(?i)\breal\s+(person|trainer|coach)\b`,
				`(?i)\bescalat\w+\b`,
			),
			cues: []string{"human", "person", "agent", "escalate", "speak", "talk"},
			hint: "ask to speak to a human coach",
		},
		{
			name: FamilyInjury,
			patterns: compile(
				`(?i)\b(pain|painful|hurt|hurts|hurting|injur\w*|sprain\w*|strain\w*|sore)\b`,
				`(?i)\bcan'?t\s+(run|lift|train|squat|bend)\b`,
			),
			cues: []string{"pain", "hurt", "injury", "injured", "sore", "sprained"},
			hint: "mention any pain or injury",
		},
		{
			name: FamilyDietaryComplex,
			patterns: compile(
				`(?i)\b(diabet\w*|celiac|allerg\w*|intoleran\w*|crohn'?s?|ibs|kidney\s+disease)\b`,
			),
			cues: []string{"diabetic", "allergy", "allergic", "celiac", "intolerant"},
			hint: "describe any medical dietary condition",
		},
		{
			name: FamilyGoal,
			patterns: compile(
				`(?i)\b(lose|gain|build|drop|shed|put\s+on)\b.{0,40}?\d*\s*(kg|kilo\w*|pound\w*|lbs?|weight|muscle)\b`,
				`(?i)\bmy\s+goal\b`,
				`(?i)\b(endurance|stamina|marathon|half[- ]marathon|5k|10k)\b`,
			),
			cues: []string{"lose", "gain", "goal", "weight", "muscle", "kg", "months"},
			hint: "state a goal like \"lose 5kg in 2 months\"",
		},
		{
			name: FamilyDietary,
			patterns: compile(
				`(?i)\b(vegetarian|vegan|pescatarian|keto|paleo|halal|kosher|dairy[- ]free|low[- ]carb)\b`,
				`(?i)\bmeal\s+plan\b`,
				`(?i)\bdiet\b`,
			),
			cues: []string{"vegetarian", "vegan", "meal", "diet", "food", "eat"},
			hint: "share your dietary preference, e.g. \"I'm vegetarian\"",
		},
		{
			name: FamilyWorkoutLevel,
			patterns: compile(
				`(?i)\b(beginner|intermediate|advanced)\b`,
				`(?i)\b(workout|exercise|training)\s+(plan|routine|program)\b`,
			),
			cues: []string{"workout", "exercise", "training", "beginner", "advanced"},
			hint: "tell me your experience level: beginner, intermediate, or advanced",
		},
		{
			name: FamilyProgress,
			patterns: compile(
				`(?i)\b(lost|gained)\b.{0,30}?\d*\s*(kg|kilo\w*|pound\w*|lbs?)\b`,
				`(?i)\bprogress\b`,
				`(?i)\b(this|last)\s+week\b.{0,40}\b(lost|gained|ran|lifted)\b`,
			),
			cues: []string{"lost", "gained", "progress", "week", "update"},
			hint: "share an update like \"Lost 1kg this week\"",
		},
		{
			name: FamilyCheckin,
			patterns: compile(
				`(?i)\bcheck[- ]?in\b`,
				`(?i)\b(remind|schedule)\b.{0,30}\b(me|weekly|week)\b`,
			),
			cues: []string{"check-in", "checkin", "remind", "schedule", "weekly"},
			hint: "ask to schedule a weekly check-in",
		},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// CheckInput classifies an utterance against the recognized trigger families.
// Acceptance is existential: the first family (in priority order) with any
// matching pattern wins. Inputs matching no family are rejected with a
// *RejectionError naming the closest family.
func (e *Engine) CheckInput(text string) (Match, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Match{}, &RejectionError{Closest: FamilyGoal, Hint: e.hintFor(FamilyGoal)}
	}

	for _, fam := range e.families {
		for _, p := range fam.patterns {
			if p.MatchString(trimmed) {
				return Match{Family: fam.name, Text: trimmed}, nil
			}
		}
	}

	closest := e.closestFamily(trimmed)
	return Match{}, &RejectionError{Closest: closest, Hint: e.hintFor(closest)}
}

// CheckOutput verifies a structured tool result against its declared shape.
func (e *Engine) CheckOutput(result Validator) error {
	if result == nil {
		return fmt.Errorf("tool produced no result")
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("tool result failed shape check: %w", err)
	}
	return nil
}

// closestFamily scores token overlap against each family's cue words. An
// exact token match outweighs a substring overlap, so "weekly" pulls toward
// the family with the exact cue rather than one sharing a fragment. Remaining
// ties resolve to the earlier family in priority order; no overlap at all
// resolves to the goal family, the natural conversation opener.
func (e *Engine) closestFamily(text string) Family {
	tokens := strings.Fields(strings.ToLower(text))

	best := FamilyGoal
	bestScore := 0
	for _, fam := range e.families {
		score := 0
		for _, cue := range fam.cues {
			for _, tok := range tokens {
				tok = strings.Trim(tok, ".,!?\"'")
				if len(tok) < 3 {
					continue
				}
				switch {
				case tok == cue:
					score += 2
				case strings.Contains(tok, cue) || strings.Contains(cue, tok):
					score++
				}
			}
		}
		if score > bestScore {
			best = fam.name
			bestScore = score
		}
	}
	return best
}

func (e *Engine) hintFor(f Family) string {
	for _, fam := range e.families {
		if fam.name == f {
			return fam.hint
		}
	}
	return ""
}

// HintFor returns the clarification hint for a family.
func (e *Engine) HintFor(f Family) string {
	return e.hintFor(f)
}
