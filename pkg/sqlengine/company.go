package sqlengine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Company is one row of financial_overview
type Company struct {
	CompanyName           string   `gorm:"column:company_name;type:text" json:"company_name"`
	Ticker                string   `gorm:"column:ticker;type:text;primaryKey" json:"ticker"`
	Sector                string   `gorm:"column:sector;type:text" json:"sector"`
	MarketCapBillions     *float64 `gorm:"column:market_cap_billions" json:"market_cap_billions"`
	PERatio               *float64 `gorm:"column:pe_ratio" json:"pe_ratio"`
	Revenue2023Billions   *float64 `gorm:"column:revenue_2023_billions" json:"revenue_2023_billions"`
	NetIncome2023Billions *float64 `gorm:"column:net_income_2023_billions" json:"net_income_2023_billions"`
}

func (Company) TableName() string {
	return TableName
}

var columnOrder = []string{
	"company_name", "ticker", "sector", "market_cap_billions",
	"pe_ratio", "revenue_2023_billions", "net_income_2023_billions",
}

// ReadCompanies loads rows from a .csv or .xlsx file with a header row
func ReadCompanies(path string) ([]Company, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported table file: %s", path)
	}
	if err != nil {
		return nil, err
	}
	return parseCompanies(records)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening Excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func parseCompanies(records [][]string) ([]Company, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("table file is empty")
	}

	index := make(map[string]int)
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range columnOrder {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	get := func(rec []string, col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	num := func(rec []string, col string, line int) (*float64, error) {
		s := get(rec, col)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d column %s: %w", line, col, err)
		}
		return &v, nil
	}

	companies := make([]Company, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		c := Company{
			CompanyName: get(rec, "company_name"),
			Ticker:      strings.ToUpper(get(rec, "ticker")),
			Sector:      get(rec, "sector"),
		}
		if c.Ticker == "" && c.CompanyName == "" {
			continue
		}

		var err error
		if c.MarketCapBillions, err = num(rec, "market_cap_billions", line); err != nil {
			return nil, err
		}
		if c.PERatio, err = num(rec, "pe_ratio", line); err != nil {
			return nil, err
		}
		if c.Revenue2023Billions, err = num(rec, "revenue_2023_billions", line); err != nil {
			return nil, err
		}
		if c.NetIncome2023Billions, err = num(rec, "net_income_2023_billions", line); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// TickerNames maps ticker to company name
func TickerNames(companies []Company) map[string]string {
	out := make(map[string]string, len(companies))
	for _, c := range companies {
		out[c.Ticker] = c.CompanyName
	}
	return out
}
