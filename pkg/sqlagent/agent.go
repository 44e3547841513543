// Package sqlagent asks the model for a single SELECT statement over the
// financial table and rejects anything that is not one.
package sqlagent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fin-analyst-be/internal/pkg/logger"
	"fin-analyst-be/pkg/llm"
	"fin-analyst-be/pkg/llm/structured"
	"fin-analyst-be/pkg/sqlengine"
)

var ErrSQLGeneration = errors.New("sql generation failed")

// forbidden is matched as a plain substring. A column or literal that happens
// to contain one of these words is rejected too.
var forbidden = []string{"insert", "update", "delete", "drop", "alter", "create", "attach", "copy"}

var schema = structured.MustSchema(sqlSchema)

// Candidate is a generated statement
type Candidate struct {
	SQL       string
	Validated bool
}

type Generator struct {
	llm     llm.LLMProvider
	logger  logger.ILogger
	dialect string
	schema  string
	table   string
}

func NewGenerator(provider llm.LLMProvider, dialect string, log logger.ILogger) *Generator {
	return &Generator{
		llm:     provider,
		logger:  log,
		dialect: dialect,
		schema:  sqlengine.Schema,
		table:   sqlengine.TableName,
	}
}

// IsSafeSQL accepts a statement only if it starts with SELECT, contains no
// forbidden keyword anywhere and names the financial table.
func IsSafeSQL(query string) bool {
	s := strings.ToLower(strings.TrimSpace(query))

	if !strings.HasPrefix(s, "select") {
		return false
	}
	for _, k := range forbidden {
		if strings.Contains(s, k) {
			return false
		}
	}
	return strings.Contains(s, strings.ToLower(sqlengine.TableName))
}

// Generate produces a validated SELECT for question
func (g *Generator) Generate(ctx context.Context, question string) (*Candidate, error) {
	prompt := fmt.Sprintf(generatePrompt, g.dialect, g.schema, g.table, question)
	return g.ask(ctx, prompt, "generate")
}

// Repair asks for a corrected statement after badSQL failed with errMsg
func (g *Generator) Repair(ctx context.Context, question, badSQL, errMsg string) (*Candidate, error) {
	prompt := fmt.Sprintf(repairPrompt, g.dialect, g.schema, g.table, question, badSQL, errMsg)
	return g.ask(ctx, prompt, "repair")
}

func (g *Generator) ask(ctx context.Context, prompt, stage string) (*Candidate, error) {
	raw, err := g.llm.Chat(ctx, []llm.Message{llm.User(prompt)}, llm.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("sql %s: %w", stage, err)
	}

	var out struct {
		SQL string `json:"sql"`
	}
	if err := structured.Decode(raw, schema, &out); err != nil {
		return nil, fmt.Errorf("%w: model did not return sql in %s: %v (raw output: %s)",
			ErrSQLGeneration, stage, err, logger.Truncate(raw, 200))
	}

	query := strings.TrimSpace(out.SQL)
	if query == "" {
		return nil, fmt.Errorf("%w: empty sql in %s (raw output: %s)", ErrSQLGeneration, stage, logger.Truncate(raw, 200))
	}
	if !IsSafeSQL(query) {
		g.logger.Warn("SQL_AGENT", "Rejected unsafe SQL", map[string]interface{}{
			"stage": stage,
			"sql":   query,
		})
		return nil, fmt.Errorf("%w: unsafe or invalid SQL after %s: %s", ErrSQLGeneration, stage, query)
	}

	g.logger.Info("SQL_AGENT", "SQL candidate accepted", map[string]interface{}{
		"stage": stage,
		"sql":   query,
	})
	return &Candidate{SQL: query, Validated: true}, nil
}
