// Command finqa builds the document index and answers financial questions
// from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fin-analyst-be/internal/config"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	allowBoth bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "finqa",
	Short: "Hybrid SQL + document question answering over company financials",
	Long: `finqa answers questions about a fixed set of companies by querying the
financial_overview table, searching the filings index, or both.

Configuration is read from the environment (and .env), the same as the API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&allowBoth, "allow-both", false, "accept BOTH routes from the router (overrides ROUTER_ALLOW_BOTH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print the trace after every answer")

	rootCmd.AddCommand(buildIndexCmd, askCmd, routesCmd, watchTracesCmd)
}

// loadConfig reads the environment and applies global flags
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	if cmd.Flags().Changed("allow-both") {
		cfg.Ai.RouterAllowBoth = allowBoth
	}
	return cfg
}

// cliLogger writes to the log file only so answers stay readable
func cliLogger(cfg *config.Config) logger.ILogger {
	return logger.NewIsolatedLogger(cfg.App.LogFilePath)
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Connection == "" {
		return nil, nil
	}
	return database.NewGormDBFromDSN(cfg.Database.Connection, false)
}

func fail(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
