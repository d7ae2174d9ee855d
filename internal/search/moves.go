package search

import "github.com/aretw0/waterjug/pkg/domain"

// Move is one of the six physical jug operations.
type Move int

const (
	FillJug1 Move = iota
	FillJug2
	EmptyJug1
	EmptyJug2
	PourIntoJug1 // jug2 → jug1 until jug2 empties or jug1 fills
	PourIntoJug2 // jug1 → jug2 until jug1 empties or jug2 fills
)

// Moves lists the physical operations in successor generation order.
// The order fixes BFS tie-breaking and therefore which shortest path is found.
var Moves = [...]Move{FillJug1, FillJug2, EmptyJug1, EmptyJug2, PourIntoJug1, PourIntoJug2}

var moveNames = [...]string{
	FillJug1:     "fill jug1",
	FillJug2:     "fill jug2",
	EmptyJug1:    "empty jug1",
	EmptyJug2:    "empty jug2",
	PourIntoJug1: "pour jug2 into jug1",
	PourIntoJug2: "pour jug1 into jug2",
}

var moveRules = [...]domain.Rule{
	FillJug1:     domain.RuleFillJug1,
	FillJug2:     domain.RuleFillJug2,
	EmptyJug1:    domain.RuleEmptyJug1,
	EmptyJug2:    domain.RuleEmptyJug2,
	PourIntoJug1: domain.RulePourJug2ToJug1,
	PourIntoJug2: domain.RulePourJug1ToJug2,
}

func (m Move) String() string {
	return moveNames[m]
}

// Rule returns the catalog rule naming this physical move.
func (m Move) Rule() domain.Rule {
	return moveRules[m]
}

// Apply returns the state produced by m from s.
func (m Move) Apply(s domain.JugState, caps domain.Capacities) domain.JugState {
	a, b := s.Jug1, s.Jug2
	switch m {
	case FillJug1:
		return domain.JugState{Jug1: caps.Jug1, Jug2: b}
	case FillJug2:
		return domain.JugState{Jug1: a, Jug2: caps.Jug2}
	case EmptyJug1:
		return domain.JugState{Jug1: 0, Jug2: b}
	case EmptyJug2:
		return domain.JugState{Jug1: a, Jug2: 0}
	case PourIntoJug1:
		return domain.JugState{Jug1: min(caps.Jug1, a+b), Jug2: max(0, a+b-caps.Jug1)}
	case PourIntoJug2:
		return domain.JugState{Jug1: max(0, a+b-caps.Jug2), Jug2: min(caps.Jug2, a+b)}
	}
	return s
}

// Successors returns the six successor states of s in generation order.
// Successors equal to s (no-op moves) are included.
func Successors(s domain.JugState, caps domain.Capacities) [len(Moves)]domain.JugState {
	var next [len(Moves)]domain.JugState
	for i, m := range Moves {
		next[i] = m.Apply(s, caps)
	}
	return next
}

// Explain returns every physical move that turns from into to.
// An adjacent pair yields at least one move.
func Explain(from, to domain.JugState, caps domain.Capacities) []Move {
	var found []Move
	for _, m := range Moves {
		if m.Apply(from, caps) == to {
			found = append(found, m)
		}
	}
	return found
}
