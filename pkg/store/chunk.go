package store

import "strconv"

const (
	// Unknown is rendered for missing chunk metadata
	Unknown = "unknown"

	// dedupPrefixLen is how much of the content takes part in the uniqueness key
	dedupPrefixLen = 120
)

// Chunk is a bounded span of source-document text with its provenance
type Chunk struct {
	Content     string  `json:"content"`
	Source      string  `json:"source,omitempty"`
	Page        *int    `json:"page,omitempty"`
	Ticker      string  `json:"ticker,omitempty"`
	CompanyName string  `json:"company_name,omitempty"`
	Score       float32 `json:"score,omitempty"`
}

// PageOf returns a pointer usable as Chunk.Page
func PageOf(page int) *int {
	return &page
}

// SourceLabel returns the source or "unknown"
func (c Chunk) SourceLabel() string {
	if c.Source == "" {
		return Unknown
	}
	return c.Source
}

// PageLabel returns the page number or "unknown"
func (c Chunk) PageLabel() string {
	if c.Page == nil {
		return Unknown
	}
	return strconv.Itoa(*c.Page)
}

// TickerLabel returns the ticker or "unknown"
func (c Chunk) TickerLabel() string {
	if c.Ticker == "" {
		return Unknown
	}
	return c.Ticker
}

// DedupKey identifies a chunk for deduplication: (source, page, first 120 characters)
type DedupKey struct {
	Source  string
	HasPage bool
	Page    int
	Prefix  string
}

// Key builds the deduplication key of the chunk
func (c Chunk) Key() DedupKey {
	key := DedupKey{Source: c.Source}
	if c.Page != nil {
		key.HasPage = true
		key.Page = *c.Page
	}

	runes := []rune(c.Content)
	if len(runes) > dedupPrefixLen {
		runes = runes[:dedupPrefixLen]
	}
	key.Prefix = string(runes)
	return key
}

// Dedup drops chunks whose key was already seen, preserving first-seen order
func Dedup(chunks []Chunk) []Chunk {
	seen := make(map[DedupKey]bool, len(chunks))
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
