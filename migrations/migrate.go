package migrations

import (
	"embed"
	"fmt"

	"pipeline/src/database"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed *.sql
var embedMigrations embed.FS

// Up brings the schema to the latest version. Postgres uses the versioned
// SQL files; the other drivers are created from the gorm models.
func Up(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return database.AutoMigrate(db)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB from GORM DB: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
