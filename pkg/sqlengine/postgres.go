package sqlengine

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEngine serves financial_overview from a shared Postgres database
type GormEngine struct {
	db *gorm.DB
}

var _ Engine = &GormEngine{}

func NewGormEngine(db *gorm.DB) *GormEngine {
	return &GormEngine{db: db}
}

// Migrate creates the table if needed
func (e *GormEngine) Migrate(ctx context.Context) error {
	return e.db.WithContext(ctx).AutoMigrate(&Company{})
}

// Load upserts rows by ticker
func (e *GormEngine) Load(ctx context.Context, companies []Company) error {
	if len(companies) == 0 {
		return nil
	}
	return e.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(companies, 100).Error
}

func (e *GormEngine) Query(ctx context.Context, query string) (*Table, error) {
	rows, err := e.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, &ExecutionError{SQL: query, Err: err}
	}
	table, err := scanRows(rows)
	if err != nil {
		return nil, &ExecutionError{SQL: query, Err: err}
	}
	return table, nil
}

func (e *GormEngine) Dialect() string {
	return "PostgreSQL"
}

func (e *GormEngine) Companies(ctx context.Context) ([]Company, error) {
	var out []Company
	if err := e.db.WithContext(ctx).Order("ticker").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return out, nil
}

func (e *GormEngine) TickerForCompany(ctx context.Context, name string) (string, bool, error) {
	var c Company
	res := e.db.WithContext(ctx).
		Where("company_name ILIKE ?", "%"+strings.TrimSpace(name)+"%").
		Order("ticker").
		Limit(1).
		Find(&c)
	if res.Error != nil {
		return "", false, res.Error
	}
	if res.RowsAffected == 0 {
		return "", false, nil
	}
	return c.Ticker, true, nil
}
