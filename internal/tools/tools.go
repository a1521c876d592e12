// Package tools implements the domain operations the orchestrator can
// dispatch: goal analysis, meal planning, workout recommendation, check-in
// scheduling, and progress tracking.
//
// Every tool follows the same contract: Invoke computes a structured result
// and commits its session mutation as the final step, after all suspension
// points. A cancelled invocation therefore either commits fully or not at
// all; partial field writes cannot occur.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/wellnessd/internal/session"
)

// Clock supplies the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// Result is a structured, shape-checkable tool outcome.
type Result interface {
	// Validate verifies the result conforms to its declared shape.
	Validate() error
	// Summary returns a short human-readable acknowledgement.
	Summary() string
}

// Tool is a single domain operation.
type Tool interface {
	Name() string
	// Invoke runs the tool against the utterance and session. The session
	// mutation is committed as the last step of a successful invocation.
	Invoke(ctx context.Context, utterance string, sess *session.Context) (Result, error)
}

// Registry holds tools by name.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a registry from the given tools.
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		if _, dup := r.tools[t.Name()]; dup {
			continue
		}
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %q not registered", name)
	}
	return t, nil
}

// Has reports whether the named tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
