package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/waterjug/pkg/adapters/loam"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/spf13/cobra"
)

// addProblemFlags registers the flags shared by solve, play and graph.
func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().Int("cap1", 0, "Capacity of jug 1")
	cmd.Flags().Int("cap2", 0, "Capacity of jug 2")
	cmd.Flags().Int("target", 0, "Amount to measure")
	cmd.Flags().String("puzzle", "", "Catalog puzzle ID (see 'waterjug catalog ls')")
}

// problemFromFlags reads --puzzle or the --cap1/--cap2/--target triple.
func problemFromFlags(ctx context.Context, cmd *cobra.Command, s *settings) (domain.Problem, error) {
	if id, _ := cmd.Flags().GetString("puzzle"); id != "" {
		catalog, err := openCatalog(s)
		if err != nil {
			return domain.Problem{}, err
		}
		puzzle, err := catalog.Get(ctx, id)
		if err != nil {
			return domain.Problem{}, fmt.Errorf("puzzle %q: %w", id, err)
		}
		return puzzle.Problem, nil
	}

	for _, name := range []string{"cap1", "cap2", "target"} {
		if !cmd.Flags().Changed(name) {
			return domain.Problem{}, errors.New("either --puzzle or --cap1, --cap2 and --target are required")
		}
	}
	cap1, _ := cmd.Flags().GetInt("cap1")
	cap2, _ := cmd.Flags().GetInt("cap2")
	target, _ := cmd.Flags().GetInt("target")
	return domain.Problem{Capacities: domain.Capacities{Jug1: cap1, Jug2: cap2}, Target: target}, nil
}

func catalogDir(s *settings) string {
	if filepath.IsAbs(s.Config.Catalog.Dir) {
		return s.Config.Catalog.Dir
	}
	return filepath.Join(s.Dir, s.Config.Catalog.Dir)
}

func openCatalog(s *settings) (*loam.Catalog, error) {
	dir := catalogDir(s)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("puzzle catalog %s: %w", dir, err)
	}
	return loam.Open(dir)
}
