// Package ingest builds the document index from a directory of company
// filings, one file per ticker (MSFT.pdf, TSLA.pdf, ...).
package ingest

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/store"
	"fin-analyst-be/pkg/utils"
	"fin-analyst-be/pkg/vectorindex"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	ChunkSize    int
	ChunkOverlap int
	// SourcePrefix is prepended to file names to form chunk sources ("docs/MSFT.pdf")
	SourcePrefix string
	Concurrency  int
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:    utils.DefaultChunkSize,
		ChunkOverlap: utils.DefaultChunkOverlap,
		SourcePrefix: "docs",
		Concurrency:  4,
	}
}

// ConfigWithConcurrency is DefaultConfig with a different parse concurrency
func ConfigWithConcurrency(n int) Config {
	cfg := DefaultConfig()
	if n > 0 {
		cfg.Concurrency = n
	}
	return cfg
}

// Report summarizes a build
type Report struct {
	Files  []string       `json:"files"`
	Chunks int            `json:"chunks"`
	ByFile map[string]int `json:"by_file"`
}

// sourceReplacer is implemented by indexes that can drop a document's old
// chunks before it is indexed again
type sourceReplacer interface {
	DeleteBySource(ctx context.Context, source string) error
}

type Builder struct {
	index  vectorindex.Index
	names  map[string]string
	cfg    Config
	logger logger.ILogger
}

// NewBuilder creates a builder. names maps ticker to company name and may be nil.
func NewBuilder(index vectorindex.Index, names map[string]string, cfg Config, log logger.ILogger) *Builder {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = def.ChunkOverlap
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	return &Builder{index: index, names: names, cfg: cfg, logger: log}
}

// TickerFromPath derives the ticker from the file stem
func TickerFromPath(p string) string {
	base := filepath.Base(p)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Source is the chunk source recorded for a file ("docs/MSFT.pdf")
func (b *Builder) Source(filePath string) string {
	return path.Join(b.cfg.SourcePrefix, filepath.Base(filePath))
}

// replace drops previously indexed chunks of filePath when the index supports it
func (b *Builder) replace(ctx context.Context, filePath string) error {
	r, ok := b.index.(sourceReplacer)
	if !ok {
		return nil
	}
	if err := r.DeleteBySource(ctx, b.Source(filePath)); err != nil {
		return fmt.Errorf("delete old chunks of %s: %w", filePath, err)
	}
	return nil
}

// Chunks loads and splits one file without indexing it
func (b *Builder) Chunks(filePath string) ([]store.Chunk, error) {
	pages, err := LoadFile(filePath)
	if err != nil {
		return nil, err
	}

	ticker := TickerFromPath(filePath)
	company := ticker
	if name, ok := b.names[ticker]; ok && name != "" {
		company = name
	}
	source := b.Source(filePath)

	var chunks []store.Chunk
	for _, p := range pages {
		for _, text := range utils.SplitText(p.Text, b.cfg.ChunkSize, b.cfg.ChunkOverlap) {
			chunks = append(chunks, store.Chunk{
				Content:     text,
				Source:      source,
				Page:        p.Number,
				Ticker:      ticker,
				CompanyName: company,
			})
		}
	}
	return chunks, nil
}

// IngestFile indexes a single file and returns the number of chunks added
func (b *Builder) IngestFile(ctx context.Context, filePath string) (int, error) {
	chunks, err := b.Chunks(filePath)
	if err != nil {
		return 0, err
	}
	if err := b.replace(ctx, filePath); err != nil {
		return 0, err
	}
	if err := b.index.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index %s: %w", filePath, err)
	}
	b.logger.Info("INGEST", "File indexed", map[string]interface{}{
		"file":   filePath,
		"chunks": len(chunks),
	})
	return len(chunks), nil
}

// BuildFromDir indexes every supported file in dir. Files are parsed
// concurrently; the first failure aborts the build before anything is added.
func (b *Builder) BuildFromDir(ctx context.Context, dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && Supported(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var (
		mu     sync.Mutex
		byFile = make(map[string][]store.Chunk, len(files))
	)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Concurrency)
	for _, f := range files {
		g.Go(func() error {
			chunks, err := b.Chunks(f)
			if err != nil {
				return fmt.Errorf("load %s: %w", f, err)
			}
			mu.Lock()
			byFile[f] = chunks
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{ByFile: make(map[string]int, len(files))}
	for _, f := range files {
		chunks := byFile[f]
		if err := b.replace(ctx, f); err != nil {
			return report, err
		}
		if err := b.index.Add(ctx, chunks); err != nil {
			return report, fmt.Errorf("index %s: %w", f, err)
		}
		report.Files = append(report.Files, filepath.Base(f))
		report.ByFile[filepath.Base(f)] = len(chunks)
		report.Chunks += len(chunks)
	}

	b.logger.Info("INGEST", "Index built", map[string]interface{}{
		"dir":    dir,
		"files":  len(report.Files),
		"chunks": report.Chunks,
	})
	return report, nil
}
