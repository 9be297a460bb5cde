package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List and edit brands",
}

var brandsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List brands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		brands, err := client().ListBrands(cmd.Context())
		if err != nil {
			return err
		}

		return output(brands, func(w io.Writer) {
			fmt.Fprintln(w, "ID\tNAME\tIMAGE")
			for _, b := range brands {
				fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Name, b.Image)
			}
		})
	},
}

var brandsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a brand",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := client().CreateBrand(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return output(b, func(w io.Writer) { fmt.Fprintf(w, "created %s\t%s\n", b.ID, b.Name) })
	},
}

var brandsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a brand and the flavors that reference it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := client().RenameBrand(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		return output(b, func(w io.Writer) { fmt.Fprintf(w, "renamed %s\t%s\n", b.ID, b.Name) })
	},
}

var brandsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a brand and all of its flavors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printBatch(client().DeleteBrand(cmd.Context(), args[0]))
	},
}

func init() {
	brandsCmd.AddCommand(brandsListCmd, brandsCreateCmd, brandsRenameCmd, brandsDeleteCmd)
	rootCmd.AddCommand(brandsCmd)
}
