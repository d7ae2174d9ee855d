package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <prev-jug1> <prev-jug2> <jug1> <jug2>",
	Short: "Name the production rule behind one transition",
	Example: `  waterjug classify 0 3 3 0 --cap1 4 --cap2 3
  waterjug classify 3 3 4 2 --cap1 4 --cap2 3 --target 2 --strict`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var n [4]int
		for i, a := range args {
			v, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("argument %d (%q) is not an integer", i+1, a)
			}
			n[i] = v
		}
		cap1, _ := cmd.Flags().GetInt("cap1")
		cap2, _ := cmd.Flags().GetInt("cap2")
		if cap1 < 1 || cap2 < 1 {
			return fmt.Errorf("%w: --cap1 and --cap2 must be at least 1", domain.ErrInvalidCapacity)
		}

		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		engine, shutdown, err := newEngine(cmd, s)
		if err != nil {
			return err
		}
		defer shutdown(cmd.Context())

		prev := domain.JugState{Jug1: n[0], Jug2: n[1]}
		curr := domain.JugState{Jug1: n[2], Jug2: n[3]}
		caps := domain.Capacities{Jug1: cap1, Jug2: cap2}

		var rule domain.Rule
		if strict, _ := cmd.Flags().GetBool("strict"); strict {
			rule, err = engine.Verify(prev, curr, caps)
			if err != nil {
				return err
			}
		} else {
			rule = engine.Classify(prev, curr, caps)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s → %s: %s\n", prev, curr, rule.Display())
		if cmd.Flags().Changed("target") {
			target, _ := cmd.Flags().GetInt("target")
			if goal, ok := engine.GoalRule(curr, target); ok {
				fmt.Fprintf(out, "🎯 Target Achieved! (%s)\n", goal.Display())
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Int("cap1", 0, "Capacity of jug 1")
	classifyCmd.Flags().Int("cap2", 0, "Capacity of jug 2")
	classifyCmd.Flags().Int("target", 0, "Report goal arrival for this target")
	classifyCmd.Flags().Bool("strict", false, "Reject transitions no single move explains")
}
