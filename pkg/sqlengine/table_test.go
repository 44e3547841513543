package sqlengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableMarkdown(t *testing.T) {
	table := &Table{
		Columns: []string{"company_name", "market_cap_billions"},
		Rows: [][]interface{}{
			{"Tesla Inc.", 800.5},
			{"Apple Inc.", float64(2900)},
		},
	}

	want := "| company_name | market_cap_billions |\n" +
		"|:-------------|--------------------:|\n" +
		"| Tesla Inc.   |               800.5 |\n" +
		"| Apple Inc.   |                2900 |"
	assert.Equal(t, want, table.Markdown())
}

func TestTableString(t *testing.T) {
	table := &Table{
		Columns: []string{"ticker", "pe"},
		Rows: [][]interface{}{
			{"TSLA", 70.1},
			{"AAPL", nil},
		},
	}

	want := "ticker   pe\n" +
		"  TSLA 70.1\n" +
		"  AAPL     "
	assert.Equal(t, want, table.String())
}

func TestEmptyTableMarkdown(t *testing.T) {
	table := &Table{Columns: []string{"ticker"}}
	assert.Equal(t, "| ticker |\n|:-------|", table.Markdown())
}
