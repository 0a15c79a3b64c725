package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/storagestat/internal/config"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Options holds the parsed command-line flags.
type Options struct {
	// Path is the base directory to analyze.
	Path string
	// ConfigPath is an explicit configuration file.
	ConfigPath string
	// TopN is the number of largest items to display (0 = config or default).
	TopN int
	// Output represents output format (table, json or markdown).
	Output string
	// Dedupe reports a path only for the first candidate that finds it.
	Dedupe bool
	// Debug indicates whether debug output is enabled.
	Debug bool
}

// AllowedOutputs lists the supported output formats.
//
//nolint:gochecknoglobals // Config constant
var AllowedOutputs = []string{"table", "json", "markdown"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var options Options

	root := &cobra.Command{
		Use:   "storagestat [flags] [path]",
		Short: "Report the largest well-known space consumers in a directory",
		Long: heredoc.Doc(`
			storagestat measures well-known space consumers below a directory
			and prints a ranked summary.

			By default it looks for:
			  - functions/node_modules
			  - video files (*.mp4, *.mov, *.avi, *.mkv, *.webm) in the directory itself
			  - uploads/ when larger than 1 MiB
			  - files in the directory itself larger than 10 MiB

			Files and directories that cannot be read are counted as empty.
			A video larger than 10 MiB is listed twice, once as a video and once
			as a large file, unless --dedupe is given.

			The candidate set can be restated in a YAML file, passed with --config
			or placed at the XDG config location (see 'storagestat config --path').
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(AllowedOutputs, options.Output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", options.Output, AllowedOutputs)
			}

			if options.TopN < 0 {
				return errors.New("top cannot be negative")
			}

			options.Path = "."
			if len(args) > 0 {
				options.Path = args[0]
			}

			return logic(options, cmd.OutOrStdout())
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.Flags()
	flags.SortFlags = false
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: table, json or markdown")
	flags.IntVarP(&options.TopN, "top", "t", 0, "Number of largest items to display (default from config, else 10)")
	flags.StringVarP(&options.ConfigPath, "config", "c", "", "Configuration file (default: XDG config location if present)")
	flags.BoolVar(&options.Dedupe, "dedupe", false, "Report each path once, for the first candidate that finds it")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")

	root.AddCommand(configCommand())

	return root
}

// configCommand prints the effective configuration.
func configCommand() *cobra.Command {
	var (
		configPath string
		defaults   bool
		showPath   bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: heredoc.Doc(`
			Print the configuration storagestat would use.

			The output is a valid configuration file and can be saved to the
			location shown by --path to customize the candidates.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			if showPath {
				_, err := fmt.Fprintln(out, config.DefaultPath())

				return err
			}

			cfg := config.Default()

			if !defaults {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}

				cfg = loaded
			}

			data, err := cfg.Resolved().Marshal()
			if err != nil {
				return err
			}

			_, err = out.Write(data)

			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: XDG config location if present)")
	cmd.Flags().BoolVar(&defaults, "default", false, "Print the built-in configuration")
	cmd.Flags().BoolVar(&showPath, "path", false, "Print the default configuration file location")

	return cmd
}
