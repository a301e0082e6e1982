package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bgraham/shelf/internal/organizer"
)

// printSummary renders the end-of-run file table followed by counts,
// run ID and the collected per-file failures.
func printSummary(w io.Writer, result *organizer.Result, dryRun bool) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Original", "Final", "Bucket", "Size", "Status"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	for _, f := range result.Files {
		tw.AppendRow(table.Row{
			f.OriginalName,
			f.FinalName,
			f.Bucket,
			humanize.Bytes(uint64(f.Size)),
			fileStatus(f, dryRun),
		})
	}
	fmt.Fprintln(w, tw.Render())

	fmt.Fprintf(w, "\nProcessed %d file(s), %d failure(s) in %s (run %s)\n",
		len(result.Files), len(result.Failures),
		result.Duration.Round(time.Millisecond), result.RunID)

	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "\n%s\n", color.New(color.FgRed).Sprint("Failures:"))
		for _, failure := range result.Failures {
			fmt.Fprintf(w, "  - %s %q: %v\n", failure.Stage, failure.Name, failure.Err)
		}
	}
}

func fileStatus(f organizer.ProcessedFile, dryRun bool) string {
	switch {
	case dryRun:
		return "planned"
	case f.Copied:
		return "copied"
	default:
		return "failed"
	}
}
