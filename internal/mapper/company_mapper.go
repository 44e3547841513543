package mapper

import (
	"fin-analyst-be/internal/dto"
	"fin-analyst-be/pkg/sqlengine"
)

func CompanyToResponse(c sqlengine.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		Ticker:                c.Ticker,
		CompanyName:           c.CompanyName,
		Sector:                c.Sector,
		MarketCapBillions:     c.MarketCapBillions,
		PeRatio:               c.PERatio,
		Revenue2023Billions:   c.Revenue2023Billions,
		NetIncome2023Billions: c.NetIncome2023Billions,
	}
}
