package main

import (
	"fmt"
	"strings"

	"fin-analyst-be/internal/bootstrap"
	"fin-analyst-be/pkg/ai/router"
	"fin-analyst-be/pkg/conversation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// routesCmd shows how the router classifies questions without answering them
var routesCmd = &cobra.Command{
	Use:   "routes question [question...]",
	Short: "Show the route chosen for each question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)
	log := cliLogger(cfg)
	defer log.Sync()

	provider, err := bootstrap.NewLLMProvider(ctx, cfg)
	if err != nil {
		return err
	}
	rt := router.NewRouter(provider, log, cfg.Ai.RouterAllowBoth)
	memory := conversation.NewMemory()
	fmt.Printf("tracked tickers: %s\n", strings.Join(memory.Tickers(), ", "))

	for _, q := range args {
		decision, err := rt.Route(ctx, q)
		if err != nil {
			color.Red("%-4s %s: %v", "ERR", q, err)
			continue
		}
		label := string(decision.Route)
		if decision.Overridden {
			label += "*"
		}
		color.Green("%-5s %s", label, q)
		if ticker, ok := memory.ExtractTicker(q); ok {
			fmt.Printf("      ticker: %s\n", ticker)
		}
		fmt.Printf("      %s\n", decision.Reason)
	}
	return nil
}
