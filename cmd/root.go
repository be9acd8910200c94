package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resultex/internal/config"
	"resultex/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "resultex",
	Short: "Extract performance and attendance data from academic report PDFs",
	Long: `Resultex parses institutional result report PDFs and renders the
extracted metrics into XLSX analysis workbooks.

Born-digital reports are read from their native text layer; scanned or
image-only documents fall back to text recognition through the configured
OCR provider. Run one of the analysis subcommands, or --help to list them.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("resultex - academic report extraction")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Override log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Override log format (console, json)")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		if level == "" && format == "" {
			return
		}

		logCfg := logger.DefaultConfig()
		if cfg, err := config.Load(); err == nil {
			logCfg = cfg.GetLoggerConfig()
		}
		if level != "" {
			logCfg.Level = level
		}
		if format != "" {
			logCfg.Format = format
		}
		if err := logger.Setup(logCfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not apply log overrides: %v\n", err)
		}
	}
}
