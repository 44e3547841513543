package embedding

import (
	"context"
	"math"
)

// Embedder turns text into a dense vector. Its Embed signature matches
// chromem.EmbeddingFunc so any Embedder can back a chromem collection.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Normalize scales vec to unit length. Cosine distance in pgvector and the
// dot-product shortcut in chromem both assume unit vectors.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
