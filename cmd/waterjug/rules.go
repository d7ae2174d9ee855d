package main

import (
	"fmt"
	"os"

	"github.com/aretw0/waterjug/internal/presentation/tui"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the production rules",
	RunE: func(cmd *cobra.Command, args []string) error {
		highlighted := domain.RuleNone
		if h, _ := cmd.Flags().GetString("highlight"); h != "" {
			r, err := domain.ParseRule(h)
			if err != nil {
				return err
			}
			highlighted = r
		}

		render := tui.AutoRenderer(os.Stdout)
		if plain, _ := cmd.Flags().GetBool("plain"); plain {
			render = tui.Plain
		}
		out, err := render(tui.RulesMarkdown(highlighted))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().String("highlight", "", "Rule to highlight, e.g. R5")
	rulesCmd.Flags().Bool("plain", false, "Print raw markdown")
}
