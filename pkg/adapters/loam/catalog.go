// Package loam reads the puzzle catalog from a directory of Markdown, YAML or
// JSON documents through the Loam library.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/waterjug/pkg/domain"
)

// PuzzleMetadata is the frontmatter of a catalog document.
type PuzzleMetadata struct {
	ID          string `json:"id" mapstructure:"id"`
	Name        string `json:"name" mapstructure:"name"`
	Cap1        int    `json:"cap1" mapstructure:"cap1"`
	Cap2        int    `json:"cap2" mapstructure:"cap2"`
	Target      int    `json:"target" mapstructure:"target"`
	Description string `json:"description" mapstructure:"description"`
}

// Catalog adapts a Loam repository to ports.PuzzleCatalog.
type Catalog struct {
	Repo *loam.TypedRepository[PuzzleMetadata]
}

// New creates a catalog over an existing typed repository.
func New(repo *loam.TypedRepository[PuzzleMetadata]) *Catalog {
	return &Catalog{Repo: repo}
}

// Open initializes a read-only Loam repository at dir.
func Open(dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode yields json.Number for every numeric field, which
	// mapstructure turns into ints regardless of the file format.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[PuzzleMetadata](repo)), nil
}

// List returns every puzzle in the catalog, sorted by ID.
func (c *Catalog) List(ctx context.Context) ([]domain.Puzzle, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	puzzles := make([]domain.Puzzle, 0, len(docs))
	for _, doc := range docs {
		p := toPuzzle(doc.ID, doc.Data, doc.Content)
		if existing, ok := seen[p.ID]; ok {
			return nil, fmt.Errorf("collision detected: puzzle '%s' is defined in both '%s' and '%s'", p.ID, existing, doc.ID)
		}
		seen[p.ID] = doc.ID
		puzzles = append(puzzles, p)
	}

	sort.Slice(puzzles, func(i, j int) bool { return puzzles[i].ID < puzzles[j].ID })
	return puzzles, nil
}

// Get returns the puzzle with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (*domain.Puzzle, error) {
	id = trimExtension(id)
	if doc, err := c.Repo.Get(ctx, id); err == nil {
		p := toPuzzle(doc.ID, doc.Data, doc.Content)
		if p.ID == id {
			return &p, nil
		}
	}

	// The frontmatter id may differ from the file name.
	puzzles, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range puzzles {
		if puzzles[i].ID == id {
			return &puzzles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrPuzzleNotFound, id)
}

func toPuzzle(docID string, meta PuzzleMetadata, body string) domain.Puzzle {
	id := meta.ID
	if id == "" {
		id = docID
	}
	id = trimExtension(id)

	name := meta.Name
	if name == "" {
		name = id
	}
	desc := meta.Description
	if desc == "" {
		desc = strings.TrimSpace(body)
	}

	return domain.Puzzle{
		ID:   id,
		Name: name,
		Problem: domain.Problem{
			Capacities: domain.Capacities{Jug1: meta.Cap1, Jug2: meta.Cap2},
			Target:     meta.Target,
		},
		Description: desc,
	}
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
