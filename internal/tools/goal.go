package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// GoalAnalyzerName is the registry name of the goal analyzer.
const GoalAnalyzerName = "goal_analyzer"

var (
	goalQuantity  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|kilos?|kilograms?|pounds?|lbs?)`)
	goalTimeframe = regexp.MustCompile(`(?i)\b(?:in|within|over|by)\s+(\d+(?:\.\d+)?)\s*(days?|weeks?|months?)`)
	goalLose      = regexp.MustCompile(`(?i)\b(lose|drop|shed)\b`)
	goalGain      = regexp.MustCompile(`(?i)\b(gain|put\s+on)\b`)
	goalBuild     = regexp.MustCompile(`(?i)\b(build|bulk)\b`)
	goalMuscle    = regexp.MustCompile(`(?i)\bmuscle\w*\b`)
	goalEndurance = regexp.MustCompile(`(?i)\b(endurance|stamina|marathon|half[- ]marathon|5k|10k)\b`)
)

// GoalResult is the structured outcome of goal analysis.
type GoalResult struct {
	Goal       session.Goal `json:"goal"`
	Overwrites bool         `json:"overwrites"`
}

// Validate verifies the result shape.
func (r *GoalResult) Validate() error {
	if !r.Goal.Type.Valid() {
		return fmt.Errorf("goal_type %q is not one of the enumerated values", r.Goal.Type)
	}
	if r.Goal.TargetValue == "" {
		return fmt.Errorf("target_value is empty")
	}
	if r.Goal.Timeframe == "" {
		return fmt.Errorf("timeframe is empty")
	}
	return nil
}

// Summary returns a short acknowledgement.
func (r *GoalResult) Summary() string {
	verb := "Set"
	if r.Overwrites {
		verb = "Updated"
	}
	return fmt.Sprintf("%s your goal: %s of %s within %s.", verb, r.Goal.Type, r.Goal.TargetValue, r.Goal.Timeframe)
}

// GoalAnalyzer parses validated goal utterances into structured goals.
// Ambiguous or incomplete goals fail with a message naming the missing part;
// nothing is silently defaulted.
type GoalAnalyzer struct {
	logger *zap.Logger
}

// NewGoalAnalyzer creates a goal analyzer.
func NewGoalAnalyzer(logger *zap.Logger) *GoalAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalAnalyzer{logger: logger}
}

// Name returns the registry name.
func (g *GoalAnalyzer) Name() string { return GoalAnalyzerName }

// Invoke parses the utterance and commits the goal to the session.
// A later goal statement overwrites an earlier one.
func (g *GoalAnalyzer) Invoke(ctx context.Context, utterance string, sess *session.Context) (Result, error) {
	goal, err := parseGoal(utterance)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &GoalResult{Goal: goal, Overwrites: sess.Goal != nil}

	// Commit.
	sess.Goal = &goal

	g.logger.Debug("goal committed",
		zap.String("goal_type", string(goal.Type)),
		zap.String("target", goal.TargetValue),
		zap.String("timeframe", goal.Timeframe),
	)
	return result, nil
}

func parseGoal(utterance string) (session.Goal, error) {
	goalType, err := classifyGoal(utterance)
	if err != nil {
		return session.Goal{}, err
	}

	target, err := goalTarget(goalType, utterance)
	if err != nil {
		return session.Goal{}, err
	}

	tf := goalTimeframe.FindStringSubmatch(utterance)
	if tf == nil {
		return session.Goal{}, fmt.Errorf("goal timeframe missing: add one like %q", "in 2 months")
	}

	return session.Goal{
		Type:        goalType,
		TargetValue: target,
		Timeframe:   fmt.Sprintf("%s %s", tf[1], strings.ToLower(tf[2])),
	}, nil
}

func classifyGoal(utterance string) (session.GoalType, error) {
	hasMuscle := goalMuscle.MatchString(utterance)
	switch {
	case goalLose.MatchString(utterance):
		return session.GoalWeightLoss, nil
	case hasMuscle && (goalBuild.MatchString(utterance) || goalGain.MatchString(utterance)):
		return session.GoalMuscleBuild, nil
	case goalGain.MatchString(utterance):
		return session.GoalWeightGain, nil
	case goalEndurance.MatchString(utterance):
		return session.GoalEndurance, nil
	}
	return "", fmt.Errorf("could not tell whether you want to lose weight, gain weight, build muscle, or improve endurance")
}

func goalTarget(goalType session.GoalType, utterance string) (string, error) {
	if goalType == session.GoalEndurance {
		if m := goalEndurance.FindString(utterance); m != "" {
			return strings.ToLower(m), nil
		}
		return "", fmt.Errorf("endurance goal needs a target event, e.g. %q", "a 10k")
	}

	m := goalQuantity.FindStringSubmatch(utterance)
	if m == nil {
		return "", fmt.Errorf("goal quantity missing: include an amount like %q", "5kg")
	}
	unit := strings.ToLower(m[2])
	switch unit {
	case "kilos", "kilo", "kilograms", "kilogram":
		unit = "kg"
	case "pounds", "pound", "lbs":
		unit = "lb"
	}
	return m[1] + unit, nil
}
