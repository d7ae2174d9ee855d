package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/waterjug/internal/presentation/graph"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state space as a Mermaid diagram",
	Long: `Explores every state reachable from (0, 0) and prints a Mermaid flowchart
(graph LR). Edges carry the rule of the move that produces them; the shortest
solution, when one exists, is drawn with thick edges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, shutdown, err := newEngine(cmd, s)
		if err != nil {
			return err
		}
		defer shutdown(cmd.Context())

		p, err := problemFromFlags(cmd.Context(), cmd, s)
		if err != nil {
			return err
		}

		space, err := engine.Explore(cmd.Context(), p.Capacities)
		if err != nil {
			return err
		}

		sol, err := engine.Solve(cmd.Context(), p)
		switch {
		case err == nil:
			fmt.Fprint(cmd.OutOrStdout(), graph.ForSolution(space, sol))
		case errors.Is(err, domain.ErrTargetUnreachable):
			s.Logger.Warn("target unreachable, printing the bare state space", "problem", p.String())
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(space, p.Target, nil))
		default:
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	addProblemFlags(graphCmd)
}
