package orchestrator

import (
	"github.com/fyrsmithlabs/wellnessd/internal/guardrail"
	"github.com/fyrsmithlabs/wellnessd/internal/tools"
)

// Capability identifies an agent configuration. Specialists are the same
// Router type running a different capability set, never a subtype.
type Capability string

const (
	CapabilityPrimary         Capability = "primary"
	CapabilityNutritionExpert Capability = "nutrition_expert"
	CapabilityInjurySupport   Capability = "injury_support"
	CapabilityEscalation      Capability = "escalation"
)

// familyTools maps dispatch trigger families to tool names. Whether a given
// capability set services a family is determined by which of these tools its
// registry holds.
var familyTools = map[guardrail.Family]string{
	guardrail.FamilyGoal:         tools.GoalAnalyzerName,
	guardrail.FamilyDietary:      tools.MealPlannerName,
	guardrail.FamilyWorkoutLevel: tools.WorkoutRecommenderName,
	guardrail.FamilyProgress:     tools.ProgressTrackerName,
	guardrail.FamilyCheckin:      tools.CheckinSchedulerName,
}

// handoffTargets maps handoff trigger families to specialist capabilities,
// in the fixed priority order enforced by the guardrail engine.
var handoffTargets = map[guardrail.Family]Capability{
	guardrail.FamilyEscalation:     CapabilityEscalation,
	guardrail.FamilyInjury:         CapabilityInjurySupport,
	guardrail.FamilyDietaryComplex: CapabilityNutritionExpert,
}

// agentConfig is one capability set: the tools it may dispatch and the line
// it greets with after receiving a handoff.
type agentConfig struct {
	registry *tools.Registry
	greeting string
}
