package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QueryTrace is the persisted audit record of one answered (or failed) question
type QueryTrace struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SessionId        string         `gorm:"type:varchar(64);index"`
	Question         string         `gorm:"type:text;not null"`
	ResolvedQuestion string         `gorm:"type:text"`
	Route            string         `gorm:"type:varchar(8);index"`
	Source           string         `gorm:"type:varchar(8)"`
	Sql              string         `gorm:"type:text"`
	RepairedFrom     string         `gorm:"type:text"`
	Citations        datatypes.JSON `gorm:"type:jsonb"`
	RouteReason      string         `gorm:"type:text"`
	RouteOverridden  bool           `gorm:"default:false"`
	Stage            string         `gorm:"type:varchar(32)"`
	Error            string         `gorm:"type:text"`
	DurationMs       int64
	StartedAt        time.Time `gorm:"index"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (QueryTrace) TableName() string {
	return "query_traces"
}
