// Package testutils holds helpers shared by tests.
package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo initializes a Loam repository in a fresh temp dir and returns
// its absolute path. It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WritePuzzles writes one markdown catalog document per puzzle into dir.
func WritePuzzles(t *testing.T, dir string, puzzles ...domain.Puzzle) {
	t.Helper()

	for _, p := range puzzles {
		content := fmt.Sprintf("---\nname: %s\ncap1: %d\ncap2: %d\ntarget: %d\n---\n%s\n",
			p.Name, p.Problem.Jug1, p.Problem.Jug2, p.Problem.Target, p.Description)
		path := filepath.Join(dir, p.ID+".md")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write puzzle %s", p.ID)
	}
}

// Problem is a short constructor for table tests.
func Problem(cap1, cap2, target int) domain.Problem {
	return domain.Problem{Capacities: domain.Capacities{Jug1: cap1, Jug2: cap2}, Target: target}
}
