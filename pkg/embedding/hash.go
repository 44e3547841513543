package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// HashEmbedder is an offline embedder: each lower-cased word is hashed into
// a bucket, so texts sharing vocabulary land close together. Used by tests
// and by the CLI when no embedding backend is configured.
type HashEmbedder struct {
	dimensions int
}

func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &HashEmbedder{dimensions: dims}
}

func (m *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, m.dimensions)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New64a()
		h.Write([]byte(w))
		sum := h.Sum64()
		bucket := int(sum % uint64(m.dimensions))
		// the top bit picks the sign so unrelated words partly cancel
		if sum>>63 == 1 {
			vec[bucket] -= 1
		} else {
			vec[bucket] += 1
		}
	}

	// chromem rejects zero vectors; give empty text a fixed direction
	if len(words) == 0 {
		vec[0] = 1
	}
	return Normalize(vec), nil
}

func (m *HashEmbedder) Dimensions() int {
	return m.dimensions
}
