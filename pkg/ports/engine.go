package ports

import (
	"context"

	"github.com/aretw0/waterjug/pkg/domain"
)

// Solver is the slice of the engine used by the driving adapters (HTTP, MCP).
// *waterjug.Engine implements it.
type Solver interface {
	// Solve returns the shortest solution or one of the domain errors.
	Solve(ctx context.Context, p domain.Problem) (*domain.Solution, error)

	// Steps annotates every state of a solution with its rule.
	Steps(sol *domain.Solution) []domain.Step

	// Classify labels a single transition.
	Classify(prev, curr domain.JugState, caps domain.Capacities) domain.Rule

	// Rules returns the rule catalog.
	Rules() []domain.Rule

	// Explore returns the reachable state space of caps.
	// Returns a domain validation error for invalid capacities.
	Explore(ctx context.Context, caps domain.Capacities) (domain.StateSpace, error)
}

// PuzzleCatalog lists named puzzles.
type PuzzleCatalog interface {
	// List returns every puzzle, sorted by ID.
	List(ctx context.Context) ([]domain.Puzzle, error)

	// Get returns a single puzzle.
	// Returns domain.ErrPuzzleNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (*domain.Puzzle, error)
}
