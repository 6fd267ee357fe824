package database

import (
	"context"
	"fmt"
	"time"

	"pipeline/src/config"
	"pipeline/src/models"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDB opens the configured database and verifies connectivity.
func SetupDB(cfg *config.Config) (*gorm.DB, error) {
	sqlCfg := cfg.Databases.SQL
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var dialector gorm.Dialector
	switch sqlCfg.Driver {
	case "", "postgres":
		d, err := postgresDialector(sqlCfg)
		if err != nil {
			return nil, err
		}
		dialector = d
	case "sqlite":
		dialector = sqlite.Open(sqlCfg.DSN())
	case "mysql":
		dialector = mysql.Open(sqlCfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", sqlCfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if sqlCfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(sqlCfg.MaxConns)
	}
	if sqlCfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(sqlCfg.MinConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v\nPlease check your database configuration and ensure it's running", err)
	}
	return db, nil
}

// postgresDialector builds the gorm dialector on top of a pgx connection
// pool so numeric columns are decoded straight into decimal.Decimal.
func postgresDialector(sqlCfg config.SQLConfig) (gorm.Dialector, error) {
	connConfig, err := pgx.ParseConfig(sqlCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	sqlDB := stdlib.OpenDB(*connConfig, stdlib.OptionAfterConnect(func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}))
	return postgres.New(postgres.Config{Conn: sqlDB}), nil
}

// AutoMigrate creates the schema from the gorm models. Used for the sqlite
// and mysql drivers; postgres goes through the goose migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Security{}, &models.Valuation{})
}
