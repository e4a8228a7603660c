package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/radekjisa/volby-export/internal/config"
	"github.com/radekjisa/volby-export/internal/export"
	"github.com/radekjisa/volby-export/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagTimeout   time.Duration
	flagUserAgent string
	flagCharset   string
	flagConfig    string
	flagPreview   bool
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volby-export <url> <output>",
		Short: "Export Czech election results from volby.cz into CSV",
		Long: `Export Czech parliamentary election results from volby.cz into CSV.

Takes a published district results page, extracts one row per municipality
with the summary counts and the per-party votes, and writes them to a UTF-8
CSV file. District overview pages are exported by visiting every listed
municipality in order.`,
		Args:          cobra.ExactArgs(2),
		Version:       Version(),
		RunE:          runExport,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().DurationVar(&flagTimeout, "timeout", config.DefaultTimeout, "HTTP timeout per request")
	cmd.Flags().StringVar(&flagUserAgent, "user-agent", config.DefaultUserAgent, "User-Agent header sent with every request")
	cmd.Flags().StringVar(&flagCharset, "charset", "", "force the page charset by IANA name (e.g. windows-1250)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "path to a selector file (YAML)")
	cmd.Flags().BoolVar(&flagPreview, "preview", false, "print the first rows to stdout after writing the CSV")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	return cmd
}

// runExport is the main command logic
func runExport(cmd *cobra.Command, args []string) error {
	setupLogger(flagVerbose)

	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	s, err := scraper.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Fetching results from %s\n", cfg.SourceURL)
	table, err := s.Scrape(cfg.SourceURL)
	if err != nil {
		return err
	}

	written, err := export.WriteFile(cfg.OutputPath, table)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d municipalities and %d parties to %s\n", len(table.Rows), len(table.Parties), written)

	if cfg.Preview {
		writePreview(os.Stdout, table, config.DefaultPreviewRows)
	}
	return nil
}

// buildConfig assembles the run configuration: defaults first, then the
// selector file if one is found, then any flags the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.New()

	path := config.FindFile(flagConfig)
	if path == "" && flagConfig != "" {
		return nil, fmt.Errorf("selector file %s: %w", flagConfig, config.ErrConfigNotFound)
	}
	if path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("selector file %s: %w", path, err)
		}
		file.Apply(cfg)
		slog.Debug("applied selector file", "path", path)
	}

	cfg.SourceURL = args[0]
	cfg.OutputPath = args[1]
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout
	}
	if cmd.Flags().Changed("user-agent") {
		cfg.UserAgent = flagUserAgent
	}
	if cmd.Flags().Changed("charset") {
		cfg.Charset = flagCharset
	}
	cfg.Preview = flagPreview
	cfg.Verbose = flagVerbose

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger routes structured logs to stderr, keeping stdout for the
// progress output and the preview table.
func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
