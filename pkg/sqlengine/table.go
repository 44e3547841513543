package sqlengine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Table is a materialized query result
type Table struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell formats a single value for display
func Cell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func isNumeric(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int64, int32, int:
		return true
	}
	return false
}

// numericColumns marks columns whose non-null values are all numbers
func (t *Table) numericColumns() []bool {
	numeric := make([]bool, len(t.Columns))
	for c := range t.Columns {
		seen := false
		numeric[c] = true
		for _, row := range t.Rows {
			if row[c] == nil {
				continue
			}
			seen = true
			if !isNumeric(row[c]) {
				numeric[c] = false
				break
			}
		}
		if !seen {
			numeric[c] = false
		}
	}
	return numeric
}

func (t *Table) cells() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = Cell(v)
		}
	}
	return out
}

func (t *Table) widths(cells [][]string, min int) []int {
	w := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		w[i] = max(runewidth.StringWidth(c), min)
	}
	for _, row := range cells {
		for i, c := range row {
			w[i] = max(w[i], runewidth.StringWidth(c))
		}
	}
	return w
}

func pad(s string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

// Markdown renders a pipe table, numeric columns right aligned
func (t *Table) Markdown() string {
	cells := t.cells()
	numeric := t.numericColumns()
	widths := t.widths(cells, 3)

	var b strings.Builder
	b.WriteString("|")
	for i, c := range t.Columns {
		b.WriteString(" " + pad(c, widths[i], numeric[i]) + " |")
	}
	b.WriteString("\n|")
	for i := range t.Columns {
		if numeric[i] {
			b.WriteString(strings.Repeat("-", widths[i]+1) + ":|")
		} else {
			b.WriteString(":" + strings.Repeat("-", widths[i]+1) + "|")
		}
	}
	for _, row := range cells {
		b.WriteString("\n|")
		for i, c := range row {
			b.WriteString(" " + pad(c, widths[i], numeric[i]) + " |")
		}
	}
	return b.String()
}

// String renders space-aligned plain text without an index column
func (t *Table) String() string {
	cells := t.cells()
	widths := t.widths(cells, 0)

	lines := make([]string, 0, len(cells)+1)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = pad(c, widths[i], true)
	}
	lines = append(lines, strings.Join(header, " "))
	for _, row := range cells {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = pad(c, widths[i], true)
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
