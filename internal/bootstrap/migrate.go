package bootstrap

import (
	"fin-analyst-be/internal/model"
	"fin-analyst-be/pkg/sqlengine"

	"gorm.io/gorm"
)

// Models lists every table owned by the service
func Models() []interface{} {
	return []interface{}{
		&sqlengine.Company{},
		&model.DocumentChunk{},
		&model.QueryTrace{},
	}
}

// Migrate enables the extensions the schema relies on and migrates all models
func Migrate(db *gorm.DB) error {
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return db.AutoMigrate(Models()...)
}
