package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/idelchi/storagestat/internal/storage"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// sizeText renders an entry's size in megabytes and gigabytes.
func sizeText(e storage.Entry) string {
	return fmt.Sprintf("%.2f MB (%.2f GB)", e.MB(), e.GB())
}

// share returns size as a percentage of total.
func share(size, total int64) float64 {
	if total <= 0 {
		return 0
	}

	return 100.0 * float64(size) / float64(total)
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *storage.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report *storage.Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintf(w, "Storage analysis of '%s':\t\t\n", report.Base)

	if len(report.Entries) == 0 {
		fmt.Fprintln(w, "  no large items found\t\t")
	}

	for _, e := range report.Entries {
		fmt.Fprintf(w, "  %s\t%s\t[%s]\n", e.Label, sizeText(e), e.Candidate)
	}

	fmt.Fprintln(w, "\nSummary:\t\t")
	fmt.Fprintf(w, "Total items:\t%d\n", report.Count())
	fmt.Fprintf(w, "Total size:\t%.2f MB (%.2f GB), %s bytes\n",
		report.TotalMB(), report.TotalGB(), humanize.Comma(report.TotalBytes))

	if report.Skipped > 0 {
		fmt.Fprintf(w, "Unreadable entries:\t%d (counted as 0 bytes)\n", report.Skipped)
	}

	if len(report.Top) > 0 {
		fmt.Fprintf(w, "\nTop %d largest items:\t\t\n", report.TopN)

		for i, e := range report.Top {
			fmt.Fprintf(w, "  %d) %s\t%s\t(%.1f%%)\n",
				i+1, e.Label, sizeText(e), share(e.Size, report.TotalBytes))
		}
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}

// PrintMarkdown outputs the report as a Markdown document.
func PrintMarkdown(report *storage.Report, writer io.Writer) error {
	md := markdown.NewMarkdown(writer)

	md.H1("Storage report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Base directory", "`" + report.Base + "`"},
			{"Items", strconv.Itoa(report.Count())},
			{"Total size", fmt.Sprintf("%.2f MB (%.2f GB)", report.TotalMB(), report.TotalGB())},
			{"Unreadable entries", strconv.FormatInt(report.Skipped, 10)},
		},
	})
	md.PlainText("")

	if report.Skipped > 0 {
		md.Warningf("%d unreadable entries were counted as 0 bytes; sizes may be undercounted.", report.Skipped)
		md.PlainText("")
	}

	md.H2("Items")
	md.PlainText("")

	if len(report.Entries) == 0 {
		md.PlainText("No large items found.")
		md.PlainText("")

		return md.Build()
	}

	rows := make([][]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		rows = append(rows, []string{
			"`" + e.Label + "`",
			e.Candidate,
			fmt.Sprintf("%.2f", e.MB()),
			fmt.Sprintf("%.2f", e.GB()),
			strconv.FormatInt(e.Files, 10),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Item", "Candidate", "MB", "GB", "Files"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2(fmt.Sprintf("Top %d largest items", report.TopN))
	md.PlainText("")

	top := make([][]string, 0, len(report.Top))
	for i, e := range report.Top {
		top = append(top, []string{
			strconv.Itoa(i + 1),
			"`" + e.Label + "`",
			sizeText(e),
			fmt.Sprintf("%.1f%%", share(e.Size, report.TotalBytes)),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Item", "Size", "Share"},
		Rows:   top,
	})
	md.PlainText("")

	if report.TotalBytes > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Largest items"),
			piechart.WithShowData(true),
		)

		for _, e := range report.Top {
			chart.LabelAndIntValue(e.Label, uint64(e.Size)) //nolint:gosec // Sizes are never negative
		}

		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	return md.Build()
}
