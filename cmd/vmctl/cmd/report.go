package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var dashboardPeriod string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show sales and stock reports",
}

var reportTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Summarize payment transactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := client().TransactionSummary(cmd.Context())
		if err != nil {
			return err
		}

		return output(s, func(w io.Writer) {
			fmt.Fprintf(w, "total\t%d\n", s.Total)
			fmt.Fprintf(w, "success\t%d\t%.2f%%\n", s.Success, s.SuccessPercent)
			fmt.Fprintf(w, "failed\t%d\t%.2f%%\n", s.Failed, s.FailedPercent)
			fmt.Fprintf(w, "revenue\t%.2f\n", s.Revenue)
			fmt.Fprintln(w)
			fmt.Fprintln(w, "PAYMENT\tSTATUS\tAMOUNT\tTIME")
			for _, p := range s.Transactions {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", p.PaymentID, p.Status, p.Amount, p.Timestamp)
			}
		})
	},
}

var reportDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show revenue, stock and top products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := client().Dashboard(cmd.Context(), dashboardPeriod)
		if err != nil {
			return err
		}

		return output(d, func(w io.Writer) {
			fmt.Fprintf(w, "period\t%s\n\n", d.Period)
			fmt.Fprintln(w, "BRAND\tREVENUE")
			for _, p := range d.Revenue {
				fmt.Fprintf(w, "%s\t%.2f\n", p.Brand, p.Amount)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "TOP PRODUCT\tBRAND\tSUPPLEMENT\tLEFT")
			for _, t := range d.Top {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", t.Flavor, t.Brand, t.Supplement, t.Count)
			}
		})
	},
}

func init() {
	reportDashboardCmd.Flags().StringVar(&dashboardPeriod, "period", "daily", "daily, weekly, monthly or yearly")
	reportCmd.AddCommand(reportTransactionsCmd, reportDashboardCmd)
	rootCmd.AddCommand(reportCmd)
}
