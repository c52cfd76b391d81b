package commands

import (
	"fmt"

	"themestore/pkg/exporter"
	"themestore/pkg/ingester"
	"themestore/pkg/themefiles"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [theme-dir]",
	Short: "Show how a theme directory would be split into read batches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := ingester.NewIngester(nil).ScanDir(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		batches := themefiles.PlanBatches(configs)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📦 %d files -> %d batches\n\n", len(configs), len(batches))
		return exporter.PrintPlan(out, batches)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
