// Package main is the entry point for storagestat.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/storagestat/internal/cli"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
