package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/vendingops/vmconsole/pkg/vmclient"
)

var (
	serverURL  string
	apiKey     string
	jsonOutput bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vmctl",
	Short: "Command line access to the vending machine admin console",
	Long: `vmctl talks to a running vmconsoled over its HTTP API. The API key
defaults to $VMC_API_KEY.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "http://localhost:1352", "console server url")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("VMC_API_KEY"), "api key")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print json instead of a table")
}

func client() *vmclient.Client {
	if apiKey == "" {
		log.Warnf("No api key given, requests will be rejected")
	}

	return vmclient.New(serverURL, apiKey)
}

// output prints v as JSON when --json is set, otherwise calls table.
func output(v any, table func(w io.Writer)) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	table(w)
	return w.Flush()
}

func printBatch(report vmclient.BatchReport, err error) error {
	if report.Op != "" {
		_ = output(report, func(w io.Writer) {
			fmt.Fprintf(w, "%s: %s\n", report.Op, report.Status)
			for _, o := range report.Outcomes {
				status := "ok"
				if o.Error != "" {
					status = o.Error
				}
				fmt.Fprintf(w, "  %s\t%s\n", o.ID, status)
			}
		})
	}

	return err
}
