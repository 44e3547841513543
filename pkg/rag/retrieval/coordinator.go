// Package retrieval fetches deduplicated document chunks for a question,
// optionally narrowed to one source file or one company.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/conversation"
	"fin-analyst-be/pkg/store"
	"fin-analyst-be/pkg/vectorindex"
)

var ErrRetrieval = errors.New("retrieval failed")

type Mode string

const (
	ModeGlobal           Mode = "global"
	ModeFiltered         Mode = "filtered"
	ModeFilteredFallback Mode = "filtered_fallback"
)

// CompanyInfo describes how RetrieveSemanticCompany narrowed its results
type CompanyInfo struct {
	Mode         Mode   `json:"mode"`
	TargetTicker string `json:"target_ticker,omitempty"`
}

type Coordinator struct {
	index  vectorindex.Index
	logger logger.ILogger
}

func NewCoordinator(index vectorindex.Index, log logger.ILogger) *Coordinator {
	return &Coordinator{index: index, logger: log}
}

// Retrieve returns up to k unique chunks for query. With sourceEquals set the
// index filter is tried first; if it fails a wider unfiltered pool is
// filtered here instead.
func (c *Coordinator) Retrieve(ctx context.Context, query string, k int, sourceEquals string) ([]store.Chunk, error) {
	if sourceEquals == "" {
		chunks, err := c.index.Search(ctx, query, k, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
		}
		return store.Dedup(chunks), nil
	}

	chunks, err := c.index.Search(ctx, query, k, map[string]string{vectorindex.KeySource: sourceEquals})
	if err == nil {
		return store.Dedup(chunks), nil
	}

	c.logger.Warn("RETRIEVAL", "Source filter failed, filtering client side", map[string]interface{}{
		"source": sourceEquals,
		"error":  err.Error(),
	})

	pool, err := c.index.Search(ctx, query, max(k*5, 20), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	matched := make([]store.Chunk, 0, len(pool))
	for _, ch := range pool {
		if ch.Source == sourceEquals {
			matched = append(matched, ch)
		}
	}
	return truncate(store.Dedup(matched), k), nil
}

// RetrieveSemanticCompany retrieves globally, infers which company the
// question is about, then retrieves again restricted to that company.
func (c *Coordinator) RetrieveSemanticCompany(ctx context.Context, query string, k, globalK int) ([]store.Chunk, *CompanyInfo, error) {
	global, err := c.index.Search(ctx, query, globalK, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	global = store.Dedup(global)

	target := TargetTicker(query, global)
	if target == "" {
		return truncate(global, k), &CompanyInfo{Mode: ModeGlobal}, nil
	}

	filtered, err := c.index.Search(ctx, query, max(k*2, 8), map[string]string{vectorindex.KeyTicker: target})
	if err == nil {
		c.logger.Info("RETRIEVAL", "Company-filtered retrieval", map[string]interface{}{
			"ticker": target,
			"chunks": len(filtered),
		})
		return truncate(store.Dedup(filtered), k), &CompanyInfo{Mode: ModeFiltered, TargetTicker: target}, nil
	}

	c.logger.Warn("RETRIEVAL", "Ticker filter failed, filtering global pool", map[string]interface{}{
		"ticker": target,
		"error":  err.Error(),
	})
	matched := make([]store.Chunk, 0, len(global))
	for _, ch := range global {
		if ch.Ticker == target {
			matched = append(matched, ch)
		}
	}
	return truncate(matched, k), &CompanyInfo{Mode: ModeFilteredFallback, TargetTicker: target}, nil
}

// TargetTicker picks the company a question is about. A ticker observed in
// the chunks and named in the question wins, taking the alphabetically first
// when several are named. Otherwise the most frequent ticker among the chunks
// wins, ties going to the one seen first. Returns "" when no chunk has a ticker.
func TargetTicker(query string, chunks []store.Chunk) string {
	counts := make(map[string]int)
	var order []string
	for _, ch := range chunks {
		if ch.Ticker == "" {
			continue
		}
		if counts[ch.Ticker] == 0 {
			order = append(order, ch.Ticker)
		}
		counts[ch.Ticker]++
	}
	if len(order) == 0 {
		return ""
	}

	known := make([]string, len(order))
	copy(known, order)
	sort.Strings(known)
	for _, t := range known {
		if conversation.ContainsWord(query, t) {
			return t
		}
	}

	best := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

func truncate(chunks []store.Chunk, k int) []store.Chunk {
	if k >= 0 && len(chunks) > k {
		return chunks[:k]
	}
	return chunks
}
