package specification

import (
	"time"

	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByRoute struct {
	Route string
}

func (s ByRoute) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("route = ?", s.Route)
}

// FailedOnly keeps traces of requests that ended in an error
type FailedOnly struct{}

func (s FailedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("error <> ''")
}

type StartedAfter struct {
	Time time.Time
}

func (s StartedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("started_at >= ?", s.Time)
}
