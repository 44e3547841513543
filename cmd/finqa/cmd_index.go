package main

import (
	"fmt"
	"os"
	"sort"

	"fin-analyst-be/internal/bootstrap"
	"fin-analyst-be/pkg/ingest"
	"fin-analyst-be/pkg/sqlengine"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	docsDir    string
	resetIndex bool
)

// buildIndexCmd chunks and embeds every filing in the docs directory
var buildIndexCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Build the filings vector index from a directory of PDFs",
	Long: `Build the vector index from a directory of filings named by ticker
(MSFT.pdf, TSLA.pdf, ...). Each page is split into 900-character chunks with
150 characters of overlap and tagged with ticker, company name, source and page.`,
	RunE: runBuildIndex,
}

func init() {
	buildIndexCmd.Flags().StringVar(&docsDir, "docs", "", "directory of filings (default DOCS_DIR)")
	buildIndexCmd.Flags().BoolVar(&resetIndex, "reset", false, "delete the persisted chromem index before building")
}

func runBuildIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)
	log := cliLogger(cfg)
	defer log.Sync()

	if docsDir == "" {
		docsDir = cfg.Index.DocsDir
	}
	if resetIndex && cfg.Index.Backend == "chromem" && cfg.Index.Path != "" {
		if err := os.RemoveAll(cfg.Index.Path); err != nil {
			return fail("reset index: %w", err)
		}
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	index, err := bootstrap.NewIndex(ctx, cfg, db)
	if err != nil {
		return err
	}

	var names map[string]string
	if companies, err := sqlengine.ReadCompanies(cfg.Data.TablePath); err == nil {
		names = sqlengine.TickerNames(companies)
	} else {
		color.Yellow("Company names unavailable (%v); tickers are used instead", err)
	}

	builder := ingest.NewBuilder(index, names, ingest.ConfigWithConcurrency(cfg.Index.Concurrency), log)
	color.Cyan("Indexing %s ...", docsDir)
	report, err := builder.BuildFromDir(ctx, docsDir)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(report.ByFile))
	for f := range report.ByFile {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		fmt.Printf("  %-16s %5d chunks\n", f, report.ByFile[f])
	}
	color.Green("Indexed %d files, %d chunks", len(report.Files), report.Chunks)
	return nil
}
