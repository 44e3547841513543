package contract

import (
	"context"

	"fin-analyst-be/internal/model"
	"fin-analyst-be/internal/repository/specification"
)

type QueryTraceRepository interface {
	Create(ctx context.Context, trace *model.QueryTrace) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*model.QueryTrace, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.QueryTrace, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
