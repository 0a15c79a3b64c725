package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/storagestat/internal/config"
	"github.com/idelchi/storagestat/internal/storage"
)

func logic(options Options, stdout io.Writer) error {
	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		return err
	}

	candidates, err := cfg.StorageCandidates()
	if err != nil {
		return err
	}

	topN := options.TopN
	if topN == 0 {
		topN = cfg.Top
	}

	enableProgress := options.Output == "table" &&
		!options.Debug &&
		isatty.IsTerminal(os.Stderr.Fd())

	// Simple progress callback that prints directly to stderr
	var progressHook func(items, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")

		progressHook = func(items, bytes int64) {
			msg := fmt.Sprintf("Measuring… %d items, %s",
				items, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(os.Stderr, "\r\033[2K%s\r", msg)
		}
	}

	report, err := storage.Run(storage.Options{
		Path:       options.Path,
		Candidates: candidates,
		TopN:       topN,
		Dedupe:     options.Dedupe || cfg.Dedupe,
		Debug:      options.Debug,
	}, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	return write(report, options.Output, stdout)
}

// write renders report in the requested format.
func write(report *storage.Report, output string, writer io.Writer) error {
	switch strings.ToLower(output) {
	case "json":
		return PrintJSON(report, writer)
	case "table":
		return PrintTable(report, writer)
	case "markdown":
		return PrintMarkdown(report, writer)
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}
