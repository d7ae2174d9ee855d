// Package classify explains a transition between two jug states with one of
// the production rules of the catalog.
package classify

import (
	"fmt"

	"github.com/aretw0/waterjug/internal/search"
	"github.com/aretw0/waterjug/pkg/domain"
)

// Classify returns the rule that explains the transition prev → curr.
//
// It is a best-effort pattern match, not a verifier: the pair does not have to
// be adjacent and the first matching rule wins. The order below is part of
// the contract shared with presentation layers. Any prev of (0,0) yields
// RuleInitial regardless of curr, so callers must only pass pairs whose
// (0,0) is the true start of a path.
//
// Classify never returns R7..R10.
func Classify(prev, curr domain.JugState, caps domain.Capacities) domain.Rule {
	switch {
	case prev.IsInitial():
		return domain.RuleInitial
	case curr.Jug1 == caps.Jug1 && prev.Jug2 == curr.Jug2:
		return domain.RuleFillJug1
	case curr.Jug2 == caps.Jug2 && prev.Jug1 == curr.Jug1:
		return domain.RuleFillJug2
	case curr.Jug1 == 0 && prev.Jug2 == curr.Jug2:
		return domain.RuleEmptyJug1
	case curr.Jug2 == 0 && prev.Jug1 == curr.Jug1:
		return domain.RuleEmptyJug2
	case prev.Jug1 > 0 && curr.Jug2 > prev.Jug2:
		return domain.RulePourJug1ToJug2
	case prev.Jug2 > 0 && curr.Jug1 > prev.Jug1:
		return domain.RulePourJug2ToJug1
	default:
		return domain.RuleUnclassified
	}
}

// GoalRule is the post-check run on the newly reached state: R9 when jug1
// holds the target, otherwise R10 when jug2 does.
func GoalRule(curr domain.JugState, target int) (domain.Rule, bool) {
	switch {
	case curr.Jug1 == target:
		return domain.RuleGoalJug1, true
	case curr.Jug2 == target:
		return domain.RuleGoalJug2, true
	default:
		return domain.RuleNone, false
	}
}

// Verify is the strict counterpart of Classify. It fails with
// domain.ErrNotAdjacent when no single physical move turns prev into curr,
// and otherwise returns the same rule Classify would.
func Verify(prev, curr domain.JugState, caps domain.Capacities) (domain.Rule, error) {
	if !caps.Contains(prev) || !caps.Contains(curr) {
		return domain.RuleNone, fmt.Errorf("%w: %s → %s outside capacities %d/%d", domain.ErrNotAdjacent, prev, curr, caps.Jug1, caps.Jug2)
	}
	if len(search.Explain(prev, curr, caps)) == 0 {
		return domain.RuleNone, fmt.Errorf("%w: no move turns %s into %s", domain.ErrNotAdjacent, prev, curr)
	}
	return Classify(prev, curr, caps), nil
}
