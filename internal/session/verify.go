package session

import (
	"errors"
	"fmt"
)

// ErrInvariant marks an unrecoverable session invariant violation. A context
// failing Verify must not be processed further.
var ErrInvariant = errors.New("session invariant violated")

// Verify checks the structural invariants of the context. It returns an
// error wrapping ErrInvariant on the first violation found.
//
// Invariants checked:
//   - a non-empty meal plan requires non-empty diet preferences
//   - a non-nil goal has a valid goal type
//   - log timestamps are non-decreasing within each append-only log
func (c *Context) Verify() error {
	if len(c.MealPlan) > 0 && c.DietPreferences == "" {
		return fmt.Errorf("%w: meal plan present without diet preferences", ErrInvariant)
	}
	if c.Goal != nil && !c.Goal.Type.Valid() {
		return fmt.Errorf("%w: unknown goal type %q", ErrInvariant, c.Goal.Type)
	}
	for i := 1; i < len(c.HandoffLog); i++ {
		if c.HandoffLog[i].Timestamp.Before(c.HandoffLog[i-1].Timestamp) {
			return fmt.Errorf("%w: handoff log out of order at entry %d", ErrInvariant, i)
		}
	}
	for i := 1; i < len(c.ProgressLog); i++ {
		if c.ProgressLog[i].Timestamp.Before(c.ProgressLog[i-1].Timestamp) {
			return fmt.Errorf("%w: progress log out of order at entry %d", ErrInvariant, i)
		}
	}
	return nil
}
