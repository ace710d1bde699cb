package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"index-analyzer/internal/config"
	"index-analyzer/internal/logging"
	"index-analyzer/internal/provider"
	"index-analyzer/internal/report"
	"index-analyzer/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-30"
)

// App holds the application dependencies shared by the commands.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Provider provider.CandleProvider
	Reporter *report.Generator
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Credentials.Kite.APIKey != "" && cfg.Credentials.Kite.AccessToken != "" {
		app.Provider = provider.NewKiteProvider(
			cfg.Credentials.Kite.APIKey,
			cfg.Credentials.Kite.AccessToken,
			"NSE",
		)
		logger.Debug().Msg("Kite candle provider initialized")
	}

	dbPath := config.DefaultConfigDir() + "/analyzer.db"
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open local store, caching and history disabled")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", dbPath).Msg("SQLite store initialized")
	}

	app.Reporter = report.NewGenerator(cfg.Report, cfg.Credentials.OpenAI.APIKey)

	rootCmd := &cobra.Command{
		Use:   "index-analyzer",
		Short: "Technical analysis for stock indices",
		Long: `index-analyzer computes technical indicators, candlestick patterns,
support/resistance levels and a composite sentiment score for stock
indices and other symbols.

Use 'index-analyzer analyze <symbol>' for a full analysis, or
'index-analyzer ask <symbol> "<question>"' to query the results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/index-analyzer)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newPatternsCmd(app))
	rootCmd.AddCommand(newLevelsCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newAskCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
				return
			}
			output.Printf("index-analyzer v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
				return
			}
			output.Println(config.DefaultConfigDir())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Analysis")
	output.Printf("  Default Period:   %s\n", cfg.Analysis.DefaultPeriod)
	output.Printf("  Default Interval: %s\n", cfg.Analysis.DefaultInterval)
	output.Printf("  EMA Periods:      %v\n", cfg.Analysis.EMAPeriods)
	output.Printf("  RSI Period:       %d\n", cfg.Analysis.RSIPeriod)
	output.Printf("  Workers:          %d\n", cfg.Analysis.Workers)
	output.Println()

	output.Bold("Levels")
	output.Printf("  Window:     %d\n", cfg.Levels.Window)
	output.Printf("  Max Levels: %d\n", cfg.Levels.MaxLevels)
	output.Println()

	output.Bold("Report")
	output.Printf("  Base URL: %s\n", cfg.Report.BaseURL)
	output.Printf("  Model:    %s\n", cfg.Report.Model)
	output.Printf("  Language: %s\n", cfg.Report.Language)
	output.Println()

	output.Bold("Watch")
	output.Printf("  Schedule: %s\n", cfg.Watch.Schedule)
	output.Println()

	output.Bold("Presets")
	for name, ticker := range cfg.Presets {
		output.Printf("  %-10s %s\n", name, ticker)
	}
}
