package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
)

// Measurement is the best-effort result of sizing a path.
type Measurement struct {
	// Bytes is the summed size of all readable files.
	Bytes int64 `json:"bytes"`
	// Files is the number of files that contributed to Bytes.
	Files int64 `json:"files"`
	// Skipped counts entries whose metadata could not be read and
	// directories that could not be listed.
	Skipped int64 `json:"skipped"`
}

// Calculator computes recursive sizes of files and directories.
// The zero value is ready to use and retains nothing between calls.
type Calculator struct {
	// Debug enables diagnostics for skipped entries.
	Debug bool

	// stat resolves metadata for a walked entry. Nil means entryInfo.
	stat func(path string, d fs.DirEntry) (fs.FileInfo, error)
}

// Size returns the total size in bytes of path.
// A missing path has size 0. Entries that cannot be read contribute 0.
func (c Calculator) Size(path string) int64 {
	return c.Measure(path).Bytes
}

// Measure sizes path and reports how many files contributed and how many
// entries had to be skipped.
//
// The path itself is resolved if it is a symbolic link. Below it, symlinked
// directories are not followed; a symlink to a file counts as the target's size.
// Hardlinked files are counted once per directory entry.
func (c Calculator) Measure(path string) Measurement {
	log := logger{enabled: c.Debug}

	var m Measurement

	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.printf("[debug]: cannot stat %s: %v\n", path, err)

			m.Skipped++
		}

		return m
	}

	if !info.IsDir() {
		if info.Mode().IsRegular() {
			m.Bytes = info.Size()
			m.Files = 1
		}

		return m
	}

	root, err := filepath.EvalSymlinks(path)
	if err != nil {
		root = path
	}

	stat := c.stat
	if stat == nil {
		stat = entryInfo
	}

	// A single worker keeps callbacks sequential.
	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: 1,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.printf("[debug]: skipping %s: %v\n", p, err)

			m.Skipped++

			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		fileInfo, err := stat(p, d)
		if err != nil {
			log.printf("[debug]: skipping %s: %v\n", p, err)

			m.Skipped++

			return nil //nolint:nilerr // Unreadable entries count as zero
		}

		// Symlinks to directories and special files carry no file data.
		if !fileInfo.Mode().IsRegular() {
			return nil
		}

		m.Bytes += fileInfo.Size()
		m.Files++

		return nil
	})
	if walkErr != nil {
		log.printf("[debug]: walk of %s stopped early: %v\n", root, walkErr)

		m.Skipped++
	}

	return m
}

// entryInfo returns metadata for d, following it if it is a symbolic link.
func entryInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		return os.Stat(path)
	}

	return d.Info()
}
