package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/embedding"
	"fin-analyst-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestBuildFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "msft.txt", strings.Repeat("Azure cloud revenue grew strongly this year. ", 40))
	writeFile(t, dir, "TSLA.md", "Tesla deliveries rose while margins fell.")
	writeFile(t, dir, "notes.csv", "ignored")

	idx, err := vectorindex.NewChromemIndex("", "ingest", embedding.NewHashEmbedder(64), false)
	require.NoError(t, err)

	b := NewBuilder(idx, map[string]string{"MSFT": "Microsoft Corporation"}, DefaultConfig(), logger.NewNopLogger())
	report, err := b.BuildFromDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"TSLA.md", "msft.txt"}, report.Files)
	assert.Equal(t, 1, report.ByFile["TSLA.md"])
	assert.Greater(t, report.ByFile["msft.txt"], 1)

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report.Chunks, n)

	hits, err := idx.Search(context.Background(), "Azure cloud revenue", 1, map[string]string{vectorindex.KeyTicker: "MSFT"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "docs/msft.txt", hits[0].Source)
	assert.Equal(t, "Microsoft Corporation", hits[0].CompanyName)
	assert.Nil(t, hits[0].Page)
}

func TestChunksUseTickerAsCompanyFallback(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "nvda.txt", "GPU demand")

	b := NewBuilder(nil, nil, DefaultConfig(), logger.NewNopLogger())
	chunks, err := b.Chunks(filepath.Join(dir, "nvda.txt"))
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, "NVDA", chunks[0].Ticker)
	assert.Equal(t, "NVDA", chunks[0].CompanyName)
}

func TestLoadFileRejectsUnsupported(t *testing.T) {
	_, err := LoadFile("report.docx")
	assert.Error(t, err)
	assert.False(t, Supported("x.csv"))
	assert.True(t, Supported("x.PDF"))
}

func TestTickerFromPath(t *testing.T) {
	assert.Equal(t, "MSFT", TickerFromPath("/data/docs/msft.pdf"))
	assert.Equal(t, "GOOGL", TickerFromPath("GOOGL.txt"))
}

type replacingIndex struct {
	vectorindex.Index
	deleted []string
}

func (r *replacingIndex) DeleteBySource(ctx context.Context, source string) error {
	r.deleted = append(r.deleted, source)
	return nil
}

func TestIngestFileReplacesOldChunks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "aapl.txt", "iPhone revenue")

	inner, err := vectorindex.NewChromemIndex("", "replace", embedding.NewHashEmbedder(32), false)
	require.NoError(t, err)
	idx := &replacingIndex{Index: inner}

	b := NewBuilder(idx, nil, DefaultConfig(), logger.NewNopLogger())
	n, err := b.IngestFile(context.Background(), filepath.Join(dir, "aapl.txt"))
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"docs/aapl.txt"}, idx.deleted)
}

func TestConfigWithConcurrencyKeepsChunkingDefaults(t *testing.T) {
	cfg := ConfigWithConcurrency(8)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 900, cfg.ChunkSize)
	assert.Equal(t, 150, cfg.ChunkOverlap)
	assert.Equal(t, "docs", cfg.SourcePrefix)

	assert.Equal(t, DefaultConfig(), ConfigWithConcurrency(0))
}
