package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the named puzzles",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the puzzles of the catalog directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		catalog, err := openCatalog(s)
		if err != nil {
			return err
		}
		puzzles, err := catalog.List(cmd.Context())
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tJUG1\tJUG2\tTARGET")
		for _, p := range puzzles {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", p.ID, p.Name, p.Problem.Jug1, p.Problem.Jug2, p.Problem.Target)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd)
}
