package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const createTable = `CREATE TABLE IF NOT EXISTS financial_overview (
	company_name TEXT,
	ticker TEXT,
	sector TEXT,
	market_cap_billions REAL,
	pe_ratio REAL,
	revenue_2023_billions REAL,
	net_income_2023_billions REAL
)`

// SQLiteEngine holds financial_overview in an embedded SQLite database.
// The default DSN ":memory:" keeps it process-local like an analytics scratch db.
type SQLiteEngine struct {
	db *sql.DB
}

var _ Engine = &SQLiteEngine{}

func NewSQLiteEngine(dsn string) (*SQLiteEngine, error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create %s: %w", TableName, err)
	}
	return &SQLiteEngine{db: db}, nil
}

// NewSQLiteEngineFromFile opens an in-memory engine populated from a CSV or XLSX file
func NewSQLiteEngineFromFile(ctx context.Context, path string) (*SQLiteEngine, error) {
	companies, err := ReadCompanies(path)
	if err != nil {
		return nil, err
	}
	e, err := NewSQLiteEngine("")
	if err != nil {
		return nil, err
	}
	if err := e.Load(ctx, companies); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Load replaces the table contents
func (e *SQLiteEngine) Load(ctx context.Context, companies []Company) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+TableName); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO financial_overview
		(company_name, ticker, sector, market_cap_billions, pe_ratio, revenue_2023_billions, net_income_2023_billions)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range companies {
		if _, err := stmt.ExecContext(ctx, c.CompanyName, c.Ticker, c.Sector,
			c.MarketCapBillions, c.PERatio, c.Revenue2023Billions, c.NetIncome2023Billions); err != nil {
			return fmt.Errorf("insert %s: %w", c.Ticker, err)
		}
	}
	return tx.Commit()
}

func (e *SQLiteEngine) Query(ctx context.Context, query string) (*Table, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &ExecutionError{SQL: query, Err: err}
	}
	table, err := scanRows(rows)
	if err != nil {
		return nil, &ExecutionError{SQL: query, Err: err}
	}
	return table, nil
}

func (e *SQLiteEngine) Dialect() string {
	return "SQLite"
}

// Companies returns all rows ordered by ticker
func (e *SQLiteEngine) Companies(ctx context.Context) ([]Company, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT company_name, ticker, sector, market_cap_billions, pe_ratio,
		revenue_2023_billions, net_income_2023_billions FROM financial_overview ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.CompanyName, &c.Ticker, &c.Sector, &c.MarketCapBillions,
			&c.PERatio, &c.Revenue2023Billions, &c.NetIncome2023Billions); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TickerForCompany resolves a company name (case-insensitive, partial) to its ticker
func (e *SQLiteEngine) TickerForCompany(ctx context.Context, name string) (string, bool, error) {
	var ticker string
	err := e.db.QueryRowContext(ctx,
		`SELECT ticker FROM financial_overview WHERE lower(company_name) LIKE '%' || lower(?) || '%' ORDER BY ticker LIMIT 1`,
		strings.TrimSpace(name),
	).Scan(&ticker)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ticker, true, nil
}

func (e *SQLiteEngine) Close() error {
	return e.db.Close()
}
