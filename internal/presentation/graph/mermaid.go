// Package graph renders the explored state space as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/waterjug/pkg/domain"
)

// Overlay contains the solution data to highlight on the graph.
type Overlay struct {
	Path    domain.Path      // Styled as visited; its edges are drawn thick
	Current *domain.JugState // Styled as current (e.g. the playback cursor)
}

// GenerateMermaid produces a Mermaid flowchart of the state space.
// Shapes:
// - Start (0,0): ((Circle))
// - Goal (holds target): {{Hexagon}}
// - Default: [Rectangle]
// Edges are labelled with the rule of the move that produces them.
func GenerateMermaid(g domain.StateSpace, target int, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range g.States {
		opener, closer := "[", "]"
		switch {
		case s.IsInitial():
			opener, closer = "((", "))"
		case s.Holds(target):
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(s), opener, s, closer)
	}

	onPath := make(map[[2]domain.JugState]bool)
	if overlay != nil {
		for i := 1; i < len(overlay.Path); i++ {
			onPath[[2]domain.JugState{overlay.Path[i-1], overlay.Path[i]}] = true
		}
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if onPath[[2]domain.JugState{e.From, e.To}] {
			arrow = "==>"
		}
		fmt.Fprintf(&sb, "    %s %s|%s| %s\n", nodeID(e.From), arrow, e.Rule, nodeID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[domain.JugState]bool)
		for _, s := range overlay.Path {
			if !visited[s] {
				visited[s] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(s))
			}
		}
		if overlay.Current != nil {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(*overlay.Current))
		}
	}

	return sb.String()
}

// ForSolution renders space with the solution path highlighted and its last
// state marked current.
func ForSolution(space domain.StateSpace, sol *domain.Solution) string {
	overlay := &Overlay{Path: sol.Path}
	if last, ok := sol.Path.Last(); ok {
		overlay.Current = &last
	}
	return GenerateMermaid(space, sol.Problem.Target, overlay)
}

func nodeID(s domain.JugState) string {
	return fmt.Sprintf("s%d_%d", s.Jug1, s.Jug2)
}
