package storage

import (
	"path/filepath"
	"sort"
	"time"
)

// Entry is a single reported item and its size.
type Entry struct {
	// Label is the display name of the item.
	Label string `json:"label"`
	// Path is the item's path relative to the base directory, slash separated.
	Path string `json:"path"`
	// Candidate is the name of the candidate that found the item.
	Candidate string `json:"candidate"`
	// Size is the size in bytes.
	Size int64 `json:"size"`
	// Files is the number of files that contributed to Size.
	Files int64 `json:"files"`
	// Skipped is the number of unreadable entries below the item.
	Skipped int64 `json:"skipped"`
}

// MB returns the size in mebibytes.
func (e Entry) MB() float64 {
	return float64(e.Size) / MiB
}

// GB returns the size in gibibytes.
func (e Entry) GB() float64 {
	return e.MB() / 1024
}

// Report holds the items found during a run.
type Report struct {
	// Base is the directory the candidates were resolved against.
	Base string `json:"base"`
	// Entries lists items in discovery order.
	Entries []Entry `json:"entries"`
	// Top contains the N largest items, largest first.
	Top []Entry `json:"top"`
	// TotalBytes is the cumulative size of all entries.
	TotalBytes int64 `json:"total_bytes"`
	// Skipped is the number of unreadable entries across all items.
	Skipped int64 `json:"skipped"`
	// Elapsed is the total time taken for the run.
	Elapsed time.Duration `json:"elapsed"`
	// TopN is the number of top results tracked.
	TopN int `json:"top_n"`
}

// Count returns the number of reported items.
func (r *Report) Count() int {
	return len(r.Entries)
}

// TotalMB returns the total size in mebibytes.
func (r *Report) TotalMB() float64 {
	return float64(r.TotalBytes) / MiB
}

// TotalGB returns the total size in gibibytes.
func (r *Report) TotalGB() float64 {
	return r.TotalMB() / 1024
}

// Largest returns a copy of the entries sorted by size, largest first,
// trimmed to at most n items. Equal sizes keep discovery order.
func Largest(entries []Entry, n int) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size > sorted[j].Size
	})

	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// collector accumulates entries during a run.
type collector struct {
	topN       int
	dedupe     bool
	entries    []Entry
	seen       map[string]struct{}
	totalBytes int64
	skipped    int64
}

// newCollector creates a collector tracking the topN largest entries.
// With dedupe set, a path is recorded at most once.
func newCollector(topN int, dedupe bool) *collector {
	return &collector{
		topN:    topN,
		dedupe:  dedupe,
		entries: make([]Entry, 0),
		seen:    make(map[string]struct{}),
	}
}

// seenPath reports whether rel was already recorded.
func (c *collector) seenPath(rel string) bool {
	_, ok := c.seen[filepath.Clean(rel)]

	return ok
}

// add records an entry. When deduplicating, a path already recorded by an
// earlier candidate is ignored and add returns false.
func (c *collector) add(e Entry) bool {
	key := filepath.Clean(e.Path)
	if _, ok := c.seen[key]; ok && c.dedupe {
		return false
	}

	c.seen[key] = struct{}{}

	e.Path = filepath.ToSlash(key)

	c.entries = append(c.entries, e)
	c.totalBytes += e.Size
	c.skipped += e.Skipped

	return true
}

// finalize produces the Report from the collected entries.
func (c *collector) finalize(base string) *Report {
	return &Report{
		Base:       filepath.ToSlash(base),
		Entries:    c.entries,
		Top:        Largest(c.entries, c.topN),
		TotalBytes: c.totalBytes,
		Skipped:    c.skipped,
		TopN:       c.topN,
	}
}
