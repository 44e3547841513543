package specification

import "gorm.io/gorm"

type ByTicker struct {
	Ticker string
}

func (s ByTicker) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("ticker = ?", s.Ticker)
}

type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}
