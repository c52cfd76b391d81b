package exporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"themestore/pkg/themefiles"
)

// PrintPlan 打印批次规划 (plan 命令)
func PrintPlan(w io.Writer, batches []themefiles.ConfigBatch) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "BATCH\tKEYS\tEST. SIZE\tLARGEST\n")
	for i, b := range batches {
		largest := ""
		if len(b.Configs) > 0 {
			largest = b.Configs[0].FilePath
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", i, len(b.Keys), fmtSize(b.EstimatedSize), largest)
	}
	return tw.Flush()
}

// PrintPutResult 打印写入汇总和体积警告
func PrintPutResult(w io.Writer, res *themefiles.PutFilesResult) error {
	fmt.Fprintf(w, "Written:          %d\n", res.Written)
	fmt.Fprintf(w, "Skipped:          %d\n", res.Skipped)
	fmt.Fprintf(w, "Already stored:   %d\n", res.SkippedExisting)

	if len(res.Warnings) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n⚠️  %d size warning(s):\n", len(res.Warnings))
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "ACTION\tREASON\tSIZE\tHASH\tPATH\n")
	for _, wr := range res.Warnings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", wr.Action, wr.Reason, fmtSize(wr.Size), shortHash(wr.Hash.String()), wr.FilePath)
	}
	return tw.Flush()
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

func fmtSize(s int64) string {
	if s < 1024 {
		return fmt.Sprintf("%dB", s)
	} else if s < 1024*1024 {
		return fmt.Sprintf("%.1fKB", float64(s)/1024)
	}
	return fmt.Sprintf("%.2fMB", float64(s)/1024/1024)
}
