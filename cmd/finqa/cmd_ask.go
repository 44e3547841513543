package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"fin-analyst-be/internal/bootstrap"
	"fin-analyst-be/internal/config"
	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/rag/executor"
	"fin-analyst-be/pkg/store"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	retrieveOnly bool
	retrieveK    int
	globalK      int
)

// askCmd answers one question, or starts an interactive session without args
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question, or start an interactive session",
	Long: `Answer a question through the full pipeline. Without a question an
interactive session starts; follow-up questions reuse the last company named.

With --retrieve-only the company-aware retrieval runs on its own and the
chunks it selects are printed instead of an answer.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&retrieveOnly, "retrieve-only", false, "print company-filtered chunks instead of answering")
	askCmd.Flags().IntVar(&retrieveK, "k", 0, "chunks to return (default RETRIEVAL_K)")
	askCmd.Flags().IntVar(&globalK, "global-k", 0, "global pool size for company inference (default RETRIEVAL_GLOBAL_K)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)
	log := cliLogger(cfg)
	defer log.Sync()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	engine, err := bootstrap.NewEngine(ctx, cfg, db, nil, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	if n, err := engine.Index.Count(ctx); err == nil && n == 0 {
		color.Yellow("The document index is empty; run `finqa build-index` first")
	}

	answer := func(session *store.Session, q string) {
		if retrieveOnly {
			printRetrieval(ctx, engine, cfg, q)
			return
		}
		printAnswer(ctx, engine, session, q)
	}

	session := store.NewSession(uuid.NewString(), "")
	if len(args) > 0 {
		answer(session, strings.Join(args, " "))
		return nil
	}

	color.Cyan("finqa interactive session. Empty line or Ctrl-D to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		color.New(color.FgHiBlack).Print("> ")
		if !scanner.Scan() {
			break
		}
		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			break
		}
		answer(session, q)
	}
	return scanner.Err()
}

func printAnswer(ctx context.Context, engine *bootstrap.Engine, session *store.Session, q string) {
	res, err := engine.Orchestrator.Answer(ctx, q, session)
	if err != nil {
		color.Red("Failed: %v", err)
		if res != nil && verbose {
			printTrace(res.Trace)
		}
		return
	}

	color.New(color.FgHiBlack).Printf("[%s via %s] %s\n", res.Trace.Route, res.Trace.Source, res.Trace.RouteReason)
	fmt.Println(res.Final)
	if verbose {
		printTrace(res.Trace)
	}
	fmt.Println()
}

func printTrace(tr *executor.Trace) {
	raw, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return
	}
	color.New(color.FgHiBlack).Println(string(raw))
}

func printRetrieval(ctx context.Context, engine *bootstrap.Engine, cfg *config.Config, q string) {
	k := retrieveK
	if k <= 0 {
		k = cfg.Retrieval.K
	}
	gk := globalK
	if gk <= 0 {
		gk = cfg.Retrieval.GlobalK
	}

	chunks, info, err := engine.Retriever.RetrieveSemanticCompany(ctx, q, k, gk)
	if err != nil {
		color.Red("Failed: %v", err)
		return
	}

	color.Cyan("mode=%s target=%s", info.Mode, info.TargetTicker)
	for i, ch := range chunks {
		color.Yellow("[%d] %s %s p.%s (score %.3f)", i+1, ch.TickerLabel(), ch.SourceLabel(), ch.PageLabel(), ch.Score)
		fmt.Println("   " + logger.Truncate(strings.Join(strings.Fields(ch.Content), " "), 240))
	}
}
