package contract

import (
	"context"

	"fin-analyst-be/internal/repository/specification"
	"fin-analyst-be/pkg/vectorindex"
)

// DocumentChunkRepository is the Postgres-backed vector index
type DocumentChunkRepository interface {
	vectorindex.Index
	DeleteBySource(ctx context.Context, source string) error
	CountBy(ctx context.Context, specs ...specification.Specification) (int64, error)
}
