// Package vectorindex defines the similarity-search contract over document
// chunks and an embedded, persistent implementation on chromem-go.
package vectorindex

import (
	"context"
	"errors"
	"strconv"

	"fin-analyst-be/pkg/store"
)

// Metadata keys stored alongside each chunk
const (
	KeySource      = "source"
	KeyPage        = "page"
	KeyTicker      = "ticker"
	KeyCompanyName = "company_name"
)

// ErrFilter marks a failure to apply a metadata filter. Callers fall back
// to client-side filtering.
var ErrFilter = errors.New("metadata filter failed")

// Index is a similarity-search store of chunks
type Index interface {
	// Search returns up to k chunks most similar to query. A non-empty filter
	// restricts results to chunks whose metadata equals every entry.
	Search(ctx context.Context, query string, k int, filter map[string]string) ([]store.Chunk, error)
	Add(ctx context.Context, chunks []store.Chunk) error
	Count(ctx context.Context) (int, error)
}

// Metadata flattens a chunk's attributes to string metadata
func Metadata(c store.Chunk) map[string]string {
	m := map[string]string{}
	if c.Source != "" {
		m[KeySource] = c.Source
	}
	if c.Page != nil {
		m[KeyPage] = strconv.Itoa(*c.Page)
	}
	if c.Ticker != "" {
		m[KeyTicker] = c.Ticker
	}
	if c.CompanyName != "" {
		m[KeyCompanyName] = c.CompanyName
	}
	return m
}

// FromMetadata rebuilds a chunk from content and metadata
func FromMetadata(content string, m map[string]string, score float32) store.Chunk {
	c := store.Chunk{
		Content:     content,
		Source:      m[KeySource],
		Ticker:      m[KeyTicker],
		CompanyName: m[KeyCompanyName],
		Score:       score,
	}
	if p, err := strconv.Atoi(m[KeyPage]); err == nil {
		c.Page = store.PageOf(p)
	}
	return c
}
