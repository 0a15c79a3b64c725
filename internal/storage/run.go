package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTopN is the number of largest items reported when unset.
const DefaultTopN = 10

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to stderr, away from the report
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Options configures a storage run.
type Options struct {
	// Path is the base directory candidates are resolved against.
	Path string
	// Candidates to look for (nil = DefaultCandidates).
	Candidates []Candidate
	// TopN is the number of largest items to rank.
	TopN int
	// Dedupe reports a path only for the first candidate that finds it.
	// Off by default: a large video is listed both as a video and as a large file.
	Dedupe bool
	// Debug indicates whether debug output is enabled.
	Debug bool
}

// Run resolves every candidate under opt.Path, sizes what it finds and
// returns the collected report.
//
// Candidates are processed in order and every candidate reports what it finds,
// so a path matched by two candidates is listed and counted twice unless
// opt.Dedupe is set. Unreadable files and directories never fail the
// run; they are counted as skipped and contribute zero bytes.
//
// progressHook, if non-nil, is called after each reported item with the
// running item count and byte total.
func Run(opt Options, progressHook func(items, bytes int64)) (*Report, error) {
	log := logger{enabled: opt.Debug}

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	if statInfo, err := os.Stat(opt.Path); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Path)
	}

	if opt.Candidates == nil {
		opt.Candidates = DefaultCandidates()
	}

	for _, c := range opt.Candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}

	if opt.TopN <= 0 {
		opt.TopN = DefaultTopN
	}

	calc := Calculator{Debug: opt.Debug}
	collector := newCollector(opt.TopN, opt.Dedupe)

	start := time.Now()

	for _, c := range opt.Candidates {
		log.printf("[debug]: candidate %q (%s)\n", c.Name, c.Kind)

		for _, loc := range c.locate(opt.Path, log) {
			if opt.Dedupe && collector.seenPath(loc.rel) {
				log.printf("[debug]:   - %s already reported, skipping\n", loc.rel)

				continue
			}

			m := calc.Measure(filepath.Join(opt.Path, loc.rel))

			if c.MinSize > 0 && m.Bytes <= c.MinSize {
				log.printf("[debug]:   - %s: %d bytes, not above %d\n", loc.rel, m.Bytes, c.MinSize)

				continue
			}

			collector.add(Entry{
				Label:     loc.label,
				Path:      loc.rel,
				Candidate: c.Name,
				Size:      m.Bytes,
				Files:     m.Files,
				Skipped:   m.Skipped,
			})

			if progressHook != nil {
				progressHook(int64(len(collector.entries)), collector.totalBytes)
			}
		}
	}

	report := collector.finalize(opt.Path)

	report.Elapsed = time.Since(start)

	return report, nil
}
