package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/spf13/cobra"
)

type solveOutput struct {
	Problem domain.Problem `json:"problem"`
	Path    domain.Path    `json:"path"`
	Moves   int            `json:"moves"`
	Goal    domain.Rule    `json:"goal"`
	Steps   []domain.Step  `json:"steps"`
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find the shortest solution and explain every step",
	Example: `  waterjug solve --cap1 4 --cap2 3 --target 2
  waterjug solve --puzzle die-hard --json`,
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

		sol, err := engine.Solve(cmd.Context(), p)
		if err != nil {
			return err
		}
		steps := engine.Steps(sol)

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(solveOutput{
				Problem: sol.Problem,
				Path:    sol.Path,
				Moves:   sol.Moves(),
				Goal:    sol.Goal,
				Steps:   steps,
			})
		}

		fmt.Fprintf(out, "Solution for %s: %d moves (goal %s)\n\n", p, sol.Moves(), sol.Goal.Display())
		for _, step := range steps {
			fmt.Fprintln(out, step.Explanation)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	addProblemFlags(solveCmd)
	solveCmd.Flags().Bool("json", false, "Print the solution as JSON")
}
