package implementation

import (
	"context"
	"fmt"

	"fin-analyst-be/internal/model"
	"fin-analyst-be/internal/repository/contract"
	"fin-analyst-be/internal/repository/specification"
	"fin-analyst-be/pkg/embedding"
	"fin-analyst-be/pkg/store"
	"fin-analyst-be/pkg/vectorindex"

	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Only these metadata keys map to columns; anything else cannot be filtered server side
var filterColumns = map[string]string{
	vectorindex.KeySource:      "source",
	vectorindex.KeyTicker:      "ticker",
	vectorindex.KeyCompanyName: "company_name",
}

type DocumentChunkRepositoryImpl struct {
	db          *gorm.DB
	embedder    embedding.Embedder
	concurrency int
}

func NewDocumentChunkRepository(db *gorm.DB, embedder embedding.Embedder, concurrency int) contract.DocumentChunkRepository {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &DocumentChunkRepositoryImpl{
		db:          db,
		embedder:    embedder,
		concurrency: concurrency,
	}
}

func (r *DocumentChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentChunkRepositoryImpl) Add(ctx context.Context, chunks []store.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	rows := make([]*model.DocumentChunk, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, c := range chunks {
		g.Go(func() error {
			vec, err := r.embedder.Embed(gctx, c.Content)
			if err != nil {
				return fmt.Errorf("embed chunk %d of %s: %w", i, c.Source, err)
			}
			rows[i] = &model.DocumentChunk{
				Content:        c.Content,
				Source:         c.Source,
				Page:           c.Page,
				Ticker:         c.Ticker,
				CompanyName:    c.CompanyName,
				EmbeddingValue: pgvector.NewVector(vec),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

func (r *DocumentChunkRepositoryImpl) Search(ctx context.Context, query string, k int, filter map[string]string) ([]store.Chunk, error) {
	if k <= 0 {
		return nil, nil
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVector := pgvector.NewVector(vec)

	type result struct {
		model.DocumentChunk
		Similarity float64
	}

	db := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector)

	for key, value := range filter {
		column, ok := filterColumns[key]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported filter key %q", vectorindex.ErrFilter, key)
		}
		db = db.Where(column+" = ?", value)
	}

	var results []result
	if err := db.Order(gorm.Expr("embedding_value <=> ?", queryVector)).Limit(k).Scan(&results).Error; err != nil {
		if len(filter) > 0 {
			return nil, fmt.Errorf("%w: %v", vectorindex.ErrFilter, err)
		}
		return nil, err
	}

	chunks := make([]store.Chunk, len(results))
	for i, res := range results {
		chunks[i] = store.Chunk{
			Content:     res.Content,
			Source:      res.Source,
			Page:        res.Page,
			Ticker:      res.Ticker,
			CompanyName: res.CompanyName,
			Score:       float32(res.Similarity),
		}
	}
	return chunks, nil
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context) (int, error) {
	n, err := r.CountBy(ctx)
	return int(n), err
}

func (r *DocumentChunkRepositoryImpl) CountBy(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}

func (r *DocumentChunkRepositoryImpl) DeleteBySource(ctx context.Context, source string) error {
	query := r.applySpecifications(r.db.WithContext(ctx), specification.BySource{Source: source})
	return query.Delete(&model.DocumentChunk{}).Error
}
