// Package config loads the optional storagestat configuration file.
//
// The file restates the candidate set and the number of ranked items.
// When no file exists the built-in candidates are used unchanged.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/storagestat/internal/storage"
)

// AppName is the directory name used below the XDG config home.
const AppName = "storagestat"

// FileName is the name of the configuration file.
const FileName = "config.yaml"

// Candidate is the file representation of storage.Candidate.
type Candidate struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"`
	Path     string   `yaml:"path,omitempty"`
	Label    string   `yaml:"label,omitempty"`
	Patterns []string `yaml:"patterns,omitempty"`
	// MinSize is a human readable size such as "1MiB" or "500KB".
	MinSize string `yaml:"min_size,omitempty"`
}

// Config is the content of the configuration file.
type Config struct {
	Top int `yaml:"top,omitempty"`
	// Dedupe reports a path only for the first candidate that finds it.
	Dedupe     bool        `yaml:"dedupe,omitempty"`
	Candidates []Candidate `yaml:"candidates,omitempty"`
}

// Default returns the configuration equivalent to the built-in behavior.
func Default() *Config {
	return &Config{
		Top:        storage.DefaultTopN,
		Candidates: FromCandidates(storage.DefaultCandidates()),
	}
}

// DefaultPath returns where the configuration file is expected when no path is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, FileName)
}

// Load reads the configuration at path.
//
// An empty path looks for the file in the XDG config directories and falls
// back to Default when none exists. An explicit path must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(filepath.Join(AppName, FileName))
		if err != nil {
			return Default(), nil //nolint:nilerr // No config file means defaults
		}

		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %q not found", path)
		}

		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration and every candidate in it.
func (c *Config) Validate() error {
	if c.Top < 0 {
		return errors.New("top cannot be negative")
	}

	_, err := c.StorageCandidates()

	return err
}

// StorageCandidates converts the configured candidates.
// An empty list yields storage.DefaultCandidates.
func (c *Config) StorageCandidates() ([]storage.Candidate, error) {
	if len(c.Candidates) == 0 {
		return storage.DefaultCandidates(), nil
	}

	out := make([]storage.Candidate, 0, len(c.Candidates))

	for _, fc := range c.Candidates {
		var minSize int64

		if fc.MinSize != "" {
			size, err := humanize.ParseBytes(fc.MinSize)
			if err != nil {
				return nil, fmt.Errorf("candidate %q: invalid min_size: %w", fc.Name, err)
			}

			minSize = int64(size) //nolint:gosec // Size conversion from humanize is safe
		}

		sc := storage.Candidate{
			Name:     fc.Name,
			Kind:     storage.Kind(fc.Kind),
			Path:     fc.Path,
			Label:    fc.Label,
			Patterns: fc.Patterns,
			MinSize:  minSize,
		}

		if err := sc.Validate(); err != nil {
			return nil, err
		}

		out = append(out, sc)
	}

	return out, nil
}

// FromCandidates converts storage candidates to their file representation.
func FromCandidates(candidates []storage.Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))

	for _, sc := range candidates {
		fc := Candidate{
			Name:     sc.Name,
			Kind:     string(sc.Kind),
			Path:     sc.Path,
			Label:    sc.Label,
			Patterns: sc.Patterns,
		}

		if sc.MinSize > 0 {
			fc.MinSize = formatSize(sc.MinSize)
		}

		out = append(out, fc)
	}

	return out
}

// binaryUnits are the suffixes formatSize may use, largest first.
//
//nolint:gochecknoglobals // Config constant
var binaryUnits = []struct {
	suffix string
	size   int64
}{
	{"TiB", humanize.TiByte},
	{"GiB", humanize.GiByte},
	{"MiB", humanize.MiByte},
	{"KiB", humanize.KiByte},
}

// formatSize renders size so that humanize.ParseBytes returns it unchanged:
// the largest binary unit dividing it exactly, else a plain byte count.
func formatSize(size int64) string {
	for _, u := range binaryUnits {
		if size%u.size == 0 {
			return strconv.FormatInt(size/u.size, 10) + " " + u.suffix
		}
	}

	return strconv.FormatInt(size, 10)
}

// Resolved returns a copy with unset values replaced by their defaults.
func (c *Config) Resolved() *Config {
	out := *c

	if out.Top == 0 {
		out.Top = storage.DefaultTopN
	}

	if len(out.Candidates) == 0 {
		out.Candidates = FromCandidates(storage.DefaultCandidates())
	}

	return &out
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	return data, nil
}
