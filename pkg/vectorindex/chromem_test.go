package vectorindex

import (
	"context"
	"testing"

	"fin-analyst-be/pkg/embedding"
	"fin-analyst-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIndex(t *testing.T, path string) *ChromemIndex {
	t.Helper()
	idx, err := NewChromemIndex(path, "test", embedding.NewHashEmbedder(256), false)
	require.NoError(t, err)

	err = idx.Add(context.Background(), []store.Chunk{
		{Content: "Azure cloud revenue grew with AI services demand", Source: "docs/MSFT.pdf", Page: store.PageOf(3), Ticker: "MSFT", CompanyName: "Microsoft Corporation"},
		{Content: "Copilot AI initiatives across productivity products", Source: "docs/MSFT.pdf", Page: store.PageOf(5), Ticker: "MSFT", CompanyName: "Microsoft Corporation"},
		{Content: "Reality Labs AI initiatives and metaverse spending", Source: "docs/META.pdf", Page: store.PageOf(2), Ticker: "META"},
		{Content: "Vehicle deliveries and battery supply chain risks", Source: "docs/TSLA.pdf", Page: store.PageOf(1), Ticker: "TSLA"},
	})
	require.NoError(t, err)
	return idx
}

func TestChromemSearch(t *testing.T) {
	idx := seedIndex(t, "")

	got, err := idx.Search(context.Background(), "Azure cloud revenue", 2, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "docs/MSFT.pdf", got[0].Source)
	require.NotNil(t, got[0].Page)
	assert.Equal(t, 3, *got[0].Page)
	assert.Equal(t, "Microsoft Corporation", got[0].CompanyName)
}

func TestChromemSearchClampsK(t *testing.T) {
	idx := seedIndex(t, "")

	got, err := idx.Search(context.Background(), "AI initiatives", 50, nil)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestChromemSearchWithFilter(t *testing.T) {
	idx := seedIndex(t, "")

	got, err := idx.Search(context.Background(), "AI initiatives", 4, map[string]string{KeyTicker: "META"})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, c := range got {
		assert.Equal(t, "META", c.Ticker)
	}
}

func TestChromemEmptyIndex(t *testing.T) {
	idx, err := NewChromemIndex("", "empty", embedding.NewHashEmbedder(16), false)
	require.NoError(t, err)

	got, err := idx.Search(context.Background(), "anything", 4, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestChromemPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	seedIndex(t, dir)

	reopened, err := NewChromemIndex(dir, "test", embedding.NewHashEmbedder(256), false)
	require.NoError(t, err)

	n, err := reopened.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestChromemDeleteBySource(t *testing.T) {
	idx := seedIndex(t, "")
	ctx := context.Background()

	require.NoError(t, idx.DeleteBySource(ctx, "docs/MSFT.pdf"))

	n, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := idx.Search(ctx, "Azure cloud revenue", 4, nil)
	require.NoError(t, err)
	for _, c := range got {
		assert.NotEqual(t, "MSFT", c.Ticker)
	}

	// unknown sources are a no-op
	require.NoError(t, idx.DeleteBySource(ctx, "docs/NOPE.pdf"))
}

func TestMetadataRoundTrip(t *testing.T) {
	c := store.Chunk{Content: "x", Source: "docs/A.pdf", Page: store.PageOf(0), Ticker: "AAPL"}
	back := FromMetadata(c.Content, Metadata(c), 0)
	assert.Equal(t, c, back)

	noPage := FromMetadata("y", map[string]string{KeySource: "docs/B.pdf"}, 0.5)
	assert.Nil(t, noPage.Page)
	assert.Equal(t, float32(0.5), noPage.Score)
}
