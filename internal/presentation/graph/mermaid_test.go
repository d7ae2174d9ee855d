package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/waterjug/internal/presentation/graph"
	"github.com/aretw0/waterjug/internal/search"
	"github.com/aretw0/waterjug/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	caps := domain.Capacities{Jug1: 2, Jug2: 1}
	g := search.Explore(caps)

	tests := []struct {
		name     string
		target   int
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name:   "Shapes",
			target: 2,
			contains: []string{
				"graph LR",
				`s0_0(("(0, 0)"))`,
				`s2_0{{"(2, 0)"}}`,
				`s1_1["(1, 1)"]`,
			},
			excludes: []string{"classDef"},
		},
		{
			name:   "Rule Labels",
			target: 2,
			contains: []string{
				"s0_0 -->|R1| s2_0",
				"s0_0 -->|R2| s0_1",
				"s2_0 -->|R5| s1_1",
			},
		},
		{
			name:   "Overlay",
			target: 2,
			overlay: &graph.Overlay{
				Path:    domain.Path{{}, {Jug1: 2}},
				Current: &domain.JugState{Jug1: 2},
			},
			contains: []string{
				"s0_0 ==>|R1| s2_0",
				"classDef visited",
				"class s0_0 visited;",
				"class s2_0 visited;",
				"class s2_0 current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(g, tt.target, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestForSolution(t *testing.T) {
	caps := domain.Capacities{Jug1: 4, Jug2: 3}
	sol := &domain.Solution{
		Problem: domain.Problem{Capacities: caps, Target: 2},
		Path:    search.FindShortestPath(caps, 2),
	}

	got := graph.ForSolution(search.Explore(caps), sol)
	for _, want := range []string{
		"s0_0 ==>|R2| s0_3",
		"s0_3 ==>|R6| s3_0",
		"s3_3 ==>|R6| s4_2",
		"class s4_2 current;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ForSolution() = \n%v\nWant substring: %v", got, want)
		}
	}
}
