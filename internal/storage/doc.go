// Package storage measures disk usage of well-known space consumers.
//
// A Calculator sums file sizes below a path on a best-effort basis,
// treating unreadable files and directories as empty. Run applies it to a
// fixed set of candidates (a dependency folder, video files, an uploads
// folder, large top-level files) under a base directory and collects the
// results into a Report ranked by size.
package storage
