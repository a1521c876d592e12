package orchestrator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/wellnessd/internal/guardrail"
	"github.com/fyrsmithlabs/wellnessd/internal/hooks"
	"github.com/fyrsmithlabs/wellnessd/internal/llm"
	"github.com/fyrsmithlabs/wellnessd/internal/session"
	"github.com/fyrsmithlabs/wellnessd/internal/tools"
)

// Config wires an Orchestrator.
type Config struct {
	// Completer is the opaque text-completion backend used by planning
	// tools. Required.
	Completer llm.Completer

	// Guardrails defaults to guardrail.NewEngine().
	Guardrails *guardrail.Engine

	// Hooks defaults to a no-op sink. It is always wrapped in a MultiSink
	// so observer panics cannot break a turn.
	Hooks hooks.Sink

	// Clock defaults to time.Now.
	Clock tools.Clock

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Orchestrator holds the shared, immutable routing configuration. Routers
// created from it carry the per-session state.
type Orchestrator struct {
	guardrails *guardrail.Engine
	hooks      hooks.Sink
	clock      tools.Clock
	logger     *zap.Logger
	agents     map[Capability]agentConfig
}

// New creates an orchestrator with all four capability sets.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if cfg.Guardrails == nil {
		cfg.Guardrails = guardrail.NewEngine()
	}
	if cfg.Hooks == nil {
		cfg.Hooks = hooks.NopSink{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	logger := cfg.Logger

	goal := tools.NewGoalAnalyzer(logger)
	meals := tools.NewMealPlanner(cfg.Completer, tools.MealPlannerOptions{}, logger)
	advancedMeals := tools.NewMealPlanner(cfg.Completer, tools.MealPlannerOptions{Advanced: true}, logger)
	workouts := tools.NewWorkoutRecommender(cfg.Completer, tools.WorkoutRecommenderOptions{}, logger)
	adaptedWorkouts := tools.NewWorkoutRecommender(cfg.Completer, tools.WorkoutRecommenderOptions{InjuryAdapted: true}, logger)
	checkins := tools.NewCheckinScheduler(cfg.Clock, logger)
	progress := tools.NewProgressTracker(cfg.Clock, logger)

	agents := map[Capability]agentConfig{
		CapabilityPrimary: {
			registry: tools.NewRegistry(goal, meals, workouts, checkins, progress),
		},
		CapabilityNutritionExpert: {
			registry: tools.NewRegistry(advancedMeals, progress),
			greeting: "You're with the nutrition specialist now. Tell me about your dietary condition and I'll plan around it.",
		},
		CapabilityInjurySupport: {
			registry: tools.NewRegistry(adaptedWorkouts, progress),
			greeting: "You're with injury support now. I'll keep all recommendations low-impact. Tell me your experience level when you're ready.",
		},
		CapabilityEscalation: {
			registry: tools.NewRegistry(),
			greeting: "I've flagged this conversation for a human coach, who will follow up with you shortly.",
		},
	}

	return &Orchestrator{
		guardrails: cfg.Guardrails,
		hooks:      hooks.NewMultiSink(cfg.Hooks),
		clock:      cfg.Clock,
		logger:     logger,
		agents:     agents,
	}, nil
}

// NewRouter creates the routing state machine for one session. The router
// takes exclusive ownership of the context for the session's lifetime.
func (o *Orchestrator) NewRouter(sess *session.Context) *Router {
	return &Router{
		orch:   o,
		sess:   sess,
		state:  StateIdle,
		active: CapabilityPrimary,
		origin: CapabilityPrimary,
	}
}
