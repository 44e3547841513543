package dto

import (
	"fin-analyst-be/pkg/rag/retrieval"
	"fin-analyst-be/pkg/store"
)

type CompanyRetrievalRequest struct {
	Query   string `json:"query" validate:"required,max=2000"`
	K       int    `json:"k" validate:"omitempty,min=1,max=50"`
	GlobalK int    `json:"global_k" validate:"omitempty,min=1,max=200"`
}

type CompanyRetrievalResponse struct {
	Mode         retrieval.Mode `json:"mode"`
	TargetTicker string         `json:"target_ticker,omitempty"`
	Chunks       []store.Chunk  `json:"chunks"`
}

type CompanyResponse struct {
	Ticker              string   `json:"ticker"`
	CompanyName         string   `json:"company_name"`
	Sector              string   `json:"sector"`
	MarketCapBillions   *float64 `json:"market_cap_billions"`
	PeRatio             *float64 `json:"pe_ratio"`
	Revenue2023Billions *float64 `json:"revenue_2023_billions"`
	NetIncome2023Billions *float64 `json:"net_income_2023_billions"`
}

type TickerLookupResponse struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}
