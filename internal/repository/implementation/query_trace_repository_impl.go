package implementation

import (
	"context"
	"errors"

	"fin-analyst-be/internal/model"
	"fin-analyst-be/internal/repository/contract"
	"fin-analyst-be/internal/repository/specification"

	"gorm.io/gorm"
)

type QueryTraceRepositoryImpl struct {
	db *gorm.DB
}

func NewQueryTraceRepository(db *gorm.DB) contract.QueryTraceRepository {
	return &QueryTraceRepositoryImpl{db: db}
}

func (r *QueryTraceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QueryTraceRepositoryImpl) Create(ctx context.Context, trace *model.QueryTrace) error {
	return r.db.WithContext(ctx).Create(trace).Error
}

func (r *QueryTraceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*model.QueryTrace, error) {
	var m model.QueryTrace
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *QueryTraceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.QueryTrace, error) {
	var models []*model.QueryTrace
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (r *QueryTraceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.QueryTrace{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
