package commands

import (
	"fmt"
	"time"

	"themestore/pkg/exporter"
	"themestore/pkg/manifest"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [manifest] [out-dir]",
	Short: "Restore the files listed in a manifest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Files == nil {
			return fmt.Errorf("store not initialized")
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		start := time.Now()

		m, err := manifest.Load(args[0])
		if err != nil {
			return err
		}
		if m.IsEmpty() {
			return fmt.Errorf("manifest %s is empty", args[0])
		}

		files, err := Files.GetFiles(ctx, m.Configs())
		if err != nil {
			return fmt.Errorf("get failed: %w", err)
		}

		res, err := exporter.WriteFiles(args[1], files)
		if err != nil {
			return err
		}
		for _, p := range res.Missing {
			fmt.Fprintf(out, "⚠️  missing: %s\n", p)
		}
		fmt.Fprintf(out, "✅ Restored %d files into %s in %s\n", res.Written, args[1], time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
