package sqlengine

import "context"

// Directory is the company lookup side of an engine
type Directory interface {
	Companies(ctx context.Context) ([]Company, error)
	TickerForCompany(ctx context.Context, name string) (string, bool, error)
}

var (
	_ Directory = &SQLiteEngine{}
	_ Directory = &GormEngine{}
)
