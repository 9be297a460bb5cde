package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var groupedFlavors bool

var flavorsCmd = &cobra.Command{
	Use:   "flavors",
	Short: "Inspect flavors",
}

var flavorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List flavors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client()
		if groupedFlavors {
			groups, err := c.GroupedFlavors(cmd.Context())
			if err != nil {
				return err
			}

			return output(groups, func(w io.Writer) {
				for _, g := range groups {
					fmt.Fprintf(w, "%s\t(%d)\n", g.Brand, len(g.Flavors))
					for _, f := range g.Flavors {
						fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", f.ID, f.Name, f.Supplement, f.ML)
					}
				}
			})
		}

		flavors, err := c.ListFlavors(cmd.Context())
		if err != nil {
			return err
		}

		return output(flavors, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tBRAND\tNAME\tSUPPLEMENT\tML")
			for _, f := range flavors {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Brand, f.Name, f.Supplement, f.ML)
			}
		})
	},
}

func init() {
	flavorsListCmd.Flags().BoolVar(&groupedFlavors, "grouped", false, "group flavors by brand")
	flavorsCmd.AddCommand(flavorsListCmd)
	rootCmd.AddCommand(flavorsCmd)
}
