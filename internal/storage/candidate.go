package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// MiB is one mebibyte, the unit the size thresholds are expressed in.
const MiB = 1024 * 1024

// Kind selects how a candidate locates paths under the base directory.
type Kind string

const (
	// KindDir is a single path relative to the base directory.
	KindDir Kind = "dir"
	// KindGlob matches file names directly inside the base directory.
	KindGlob Kind = "glob"
	// KindLarge picks files directly inside the base directory above MinSize.
	KindLarge Kind = "large"
)

// Kinds lists the supported candidate kinds.
//
//nolint:gochecknoglobals // Config constant
var Kinds = []Kind{KindDir, KindGlob, KindLarge}

// VideoPatterns match the video files reported by default.
//
//nolint:gochecknoglobals // Config constant
var VideoPatterns = []string{"*.mp4", "*.mov", "*.avi", "*.mkv", "*.webm"}

// Candidate describes one well-known space consumer to look for.
type Candidate struct {
	// Name groups the entries found by this candidate (e.g. "videos").
	Name string `json:"name"`
	// Kind selects the lookup strategy.
	Kind Kind `json:"kind"`
	// Path is the relative path inspected by KindDir.
	Path string `json:"path,omitempty"`
	// Label overrides the displayed label of a KindDir entry.
	Label string `json:"label,omitempty"`
	// Patterns are the file name patterns used by KindGlob.
	Patterns []string `json:"patterns,omitempty"`
	// MinSize is the size in bytes an entry must exceed to be reported (0 = any size).
	// KindLarge requires it.
	MinSize int64 `json:"min_size"`
}

// DefaultCandidates returns the built-in candidate set.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Name: "dependencies", Kind: KindDir, Path: "functions/node_modules"},
		{Name: "videos", Kind: KindGlob, Patterns: slices.Clone(VideoPatterns)},
		{Name: "uploads", Kind: KindDir, Path: "uploads", Label: "uploads/", MinSize: 1 * MiB},
		{Name: "large files", Kind: KindLarge, MinSize: 10 * MiB},
	}
}

// Validate reports the first problem with the candidate definition.
func (c Candidate) Validate() error {
	if c.Name == "" {
		return errors.New("candidate name cannot be empty")
	}

	if c.MinSize < 0 {
		return fmt.Errorf("candidate %q: min size cannot be negative", c.Name)
	}

	switch c.Kind {
	case KindDir:
		if c.Path == "" {
			return fmt.Errorf("candidate %q: path is required for kind %q", c.Name, c.Kind)
		}

		if filepath.IsAbs(c.Path) {
			return fmt.Errorf("candidate %q: path %q must be relative", c.Name, c.Path)
		}
	case KindGlob:
		if len(c.Patterns) == 0 {
			return fmt.Errorf("candidate %q: at least one pattern is required for kind %q", c.Name, c.Kind)
		}

		for _, p := range c.Patterns {
			if _, err := filepath.Match(p, ""); err != nil {
				return fmt.Errorf("candidate %q: pattern %q: %w", c.Name, p, err)
			}
		}
	case KindLarge:
		if c.MinSize == 0 {
			return fmt.Errorf("candidate %q: min size is required for kind %q", c.Name, c.Kind)
		}
	default:
		return fmt.Errorf("candidate %q: unknown kind %q: must be one of %v", c.Name, c.Kind, Kinds)
	}

	return nil
}

// located is a path found by a candidate, before it is sized.
type located struct {
	label string
	rel   string
}

// locate returns the paths under base this candidate refers to.
// Entries that cannot be read are left out.
func (c Candidate) locate(base string, log logger) []located {
	switch c.Kind {
	case KindDir:
		if _, err := os.Stat(filepath.Join(base, c.Path)); err != nil {
			log.printf("[debug]: %s: %s not present: %v\n", c.Name, c.Path, err)

			return nil
		}

		label := c.Label
		if label == "" {
			label = filepath.ToSlash(c.Path)
		}

		return []located{{label: label, rel: filepath.Clean(c.Path)}}
	case KindGlob, KindLarge:
		files := topLevelFiles(base, log)

		if c.Kind == KindLarge {
			found := make([]located, 0, len(files))
			for _, name := range files {
				found = append(found, located{label: name, rel: name})
			}

			return found
		}

		var found []located

		for _, pattern := range c.Patterns {
			for _, name := range files {
				if ok, _ := filepath.Match(pattern, name); ok {
					found = append(found, located{label: name, rel: name})
				}
			}
		}

		return found
	default:
		return nil
	}
}

// topLevelFiles lists the names of regular files directly inside dir,
// following symbolic links, in name order.
func topLevelFiles(dir string, log logger) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.printf("[debug]: cannot list %s: %v\n", dir, err)

		return nil
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil {
			log.printf("[debug]: cannot stat %s: %v\n", e.Name(), err)

			continue
		}

		if info.Mode().IsRegular() {
			names = append(names, e.Name())
		}
	}

	return names
}
