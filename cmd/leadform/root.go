package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/config"
	"github.com/goliatone/go-leadform/internal/logging"
)

// Set through -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

// app carries the configuration resolved before any subcommand runs.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	var (
		logLevel    string
		variant     string
		variantFile string
		locale      string
		dbPath      string
	)

	root := &cobra.Command{
		Use:   "leadform",
		Short: "Solar insurance lead form",
		Long: `Lead capture for property insurance with solar installations.

Visitors enter the floor area and the solar installation value, see an
indicative yearly premium range and leave an email address for a detailed
quote. The form runs in the browser (serve) or in the terminal (estimate).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("variant") {
				cfg.Variant = variant
			}
			if flags.Changed("variant-file") {
				cfg.VariantFile = variantFile
			}
			if flags.Changed("locale") {
				cfg.Locale = locale
			}
			if flags.Changed("db") {
				cfg.DBPath = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); silent when empty")
	pf.StringVar(&variant, "variant", "three-step", "flow variant preset (three-step, two-step)")
	pf.StringVar(&variantFile, "variant-file", "", "YAML variant file, overrides --variant")
	pf.StringVar(&locale, "locale", "hr-HR", "message locale (hr-HR, en-US)")
	pf.StringVar(&dbPath, "db", "leadform.db", "SQLite database for collected leads")

	root.AddCommand(
		newServeCmd(a),
		newEstimateCmd(a),
		newLeadsCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "leadform %s (commit: %s)\n", version, commit)
		},
	}
}
