// Package sqlengine executes validated SELECT statements against the
// financial_overview table and returns tabular results.
package sqlengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TableName is the only table questions are answered from
const TableName = "financial_overview"

// Schema is the table description handed to the SQL generator
const Schema = `
Table: financial_overview
Columns:
- company_name (string)
- ticker (string)
- sector (string)
- market_cap_billions (number)
- pe_ratio (number)
- revenue_2023_billions (number)
- net_income_2023_billions (number)
`

var ErrExecution = errors.New("sql execution failed")

// ExecutionError carries the engine's own message, which the repair prompt needs verbatim
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// Engine runs read queries. Implementations must be safe for concurrent use.
type Engine interface {
	Query(ctx context.Context, query string) (*Table, error)
	// Dialect names the SQL flavour for the generation prompt
	Dialect() string
}

func scanRows(rows *sql.Rows) (*Table, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	table := &Table{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		table.Rows = append(table.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
