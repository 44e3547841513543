package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedup(t *testing.T) {
	long := strings.Repeat("a", 120)

	tests := []struct {
		name   string
		chunks []Chunk
		want   int
	}{
		{
			name:   "empty",
			chunks: nil,
			want:   0,
		},
		{
			name: "exact duplicate dropped",
			chunks: []Chunk{
				{Content: "revenue grew", Source: "docs/MSFT.pdf", Page: PageOf(1)},
				{Content: "revenue grew", Source: "docs/MSFT.pdf", Page: PageOf(1)},
			},
			want: 1,
		},
		{
			name: "same prefix beyond 120 chars is a duplicate",
			chunks: []Chunk{
				{Content: long + "first tail", Source: "docs/MSFT.pdf", Page: PageOf(2)},
				{Content: long + "second tail", Source: "docs/MSFT.pdf", Page: PageOf(2)},
			},
			want: 1,
		},
		{
			name: "different page kept",
			chunks: []Chunk{
				{Content: "risk factors", Source: "docs/AAPL.pdf", Page: PageOf(1)},
				{Content: "risk factors", Source: "docs/AAPL.pdf", Page: PageOf(2)},
			},
			want: 2,
		},
		{
			name: "unknown page differs from page zero",
			chunks: []Chunk{
				{Content: "risk factors", Source: "docs/AAPL.pdf"},
				{Content: "risk factors", Source: "docs/AAPL.pdf", Page: PageOf(0)},
			},
			want: 2,
		},
		{
			name: "different source kept",
			chunks: []Chunk{
				{Content: "risk factors", Source: "docs/AAPL.pdf", Page: PageOf(1)},
				{Content: "risk factors", Source: "docs/META.pdf", Page: PageOf(1)},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedup(tt.chunks)
			assert.Len(t, got, tt.want)

			seen := map[DedupKey]bool{}
			for _, c := range got {
				assert.False(t, seen[c.Key()], "duplicate key in output")
				seen[c.Key()] = true
			}
		})
	}
}

func TestDedupPreservesFirstSeenOrder(t *testing.T) {
	chunks := []Chunk{
		{Content: "b", Source: "s", Page: PageOf(1), Ticker: "MSFT"},
		{Content: "a", Source: "s", Page: PageOf(1), Ticker: "AAPL"},
		{Content: "b", Source: "s", Page: PageOf(1), Ticker: "TSLA"},
	}

	got := Dedup(chunks)

	assert.Equal(t, []string{"MSFT", "AAPL"}, []string{got[0].Ticker, got[1].Ticker})
}

func TestChunkLabels(t *testing.T) {
	c := Chunk{Content: "x"}
	assert.Equal(t, Unknown, c.SourceLabel())
	assert.Equal(t, Unknown, c.PageLabel())
	assert.Equal(t, Unknown, c.TickerLabel())

	c = Chunk{Content: "x", Source: "docs/NVDA.pdf", Page: PageOf(7), Ticker: "NVDA"}
	assert.Equal(t, "docs/NVDA.pdf", c.SourceLabel())
	assert.Equal(t, "7", c.PageLabel())
	assert.Equal(t, "NVDA", c.TickerLabel())
}
