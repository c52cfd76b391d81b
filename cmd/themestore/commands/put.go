package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"themestore/pkg/exporter"
	"themestore/pkg/ignore"
	"themestore/pkg/ingester"
	"themestore/pkg/manifest"
	"themestore/pkg/themefiles"

	"github.com/spf13/cobra"
)

var putManifest string

var putCmd = &cobra.Command{
	Use:   "put [theme-dir]",
	Short: "Upload a theme directory and write its manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Files == nil {
			return fmt.Errorf("store not initialized")
		}
		ctx := cmd.Context()
		root := args[0]
		out := cmd.OutOrStdout()
		start := time.Now()

		// 1. 扫描并计算 hash
		configs, err := ingester.NewIngester(nil).ScanDir(ctx, root)
		if err != nil {
			return err
		}
		if len(configs) == 0 {
			fmt.Fprintln(out, "⚠️  No files found.")
			return nil
		}

		// 2. 写入
		res, err := Files.PutFiles(ctx, configs)
		if err != nil {
			return fmt.Errorf("put failed: %w", err)
		}
		if err := exporter.PrintPutResult(out, res); err != nil {
			return err
		}

		// 3. 清单只记录实际在存储里的文件 (被拒绝的不记录)
		rejected := make(map[string]bool, len(res.Warnings))
		for _, w := range res.Warnings {
			if w.Action != themefiles.ActionStored {
				rejected[w.FilePath] = true
			}
		}

		path := putManifest
		if path == "" {
			path = filepath.Join(root, ignore.ManifestFile)
		}
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		for _, c := range configs {
			if rejected[c.FilePath] {
				m.Remove(c.FilePath)
				continue
			}
			m.Add(c)
		}
		if err := m.Save(); err != nil {
			return fmt.Errorf("failed to save manifest: %w", err)
		}

		fmt.Fprintf(out, "✅ Put %d files in %s, manifest: %s\n", len(configs), time.Since(start), path)
		return nil
	},
}

func init() {
	putCmd.Flags().StringVarP(&putManifest, "manifest", "m", "", "manifest output path (default <theme-dir>/"+ignore.ManifestFile+")")
	rootCmd.AddCommand(putCmd)
}
