package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vendingops/vmconsole/pkg/console"
)

var (
	priceSize   string
	priceValue  float64
	priceWeight float64
)

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Show and edit flavor pricing",
}

var pricingShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the pricing grid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := client().Pricing(cmd.Context())
		if err != nil {
			return err
		}

		return output(rows, func(w io.Writer) {
			fmt.Fprintln(w, "FLAVOR ID\tBRAND\tFLAVOR\tSUPPLEMENT\tSIZE\tPRICE\tWEIGHT")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
					r.FlavorID, r.Brand, r.Flavor, r.Supplement, r.ServingSize, r.Price, r.Weight)
			}
		})
	},
}

var pricingSetCmd = &cobra.Command{
	Use:   "set <flavor-id>",
	Short: "Set the price or weight of one flavor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		edit := console.PricingEdit{FlavorID: args[0], ServingSize: priceSize}
		if cmd.Flags().Changed("price") {
			edit.Price = &priceValue
		}
		if cmd.Flags().Changed("weight") {
			edit.Weight = &priceWeight
		}
		if edit.Price == nil && edit.Weight == nil {
			return errors.New("nothing to set, use --price or --weight")
		}

		return printBatch(client().SavePricing(cmd.Context(), []console.PricingEdit{edit}))
	},
}

func init() {
	pricingSetCmd.Flags().StringVar(&priceSize, "size", "", "serving size, defaults to the server's")
	pricingSetCmd.Flags().Float64Var(&priceValue, "price", 0, "price")
	pricingSetCmd.Flags().Float64Var(&priceWeight, "weight", 0, "weight")
	pricingCmd.AddCommand(pricingShowCmd, pricingSetCmd)
	rootCmd.AddCommand(pricingCmd)
}
