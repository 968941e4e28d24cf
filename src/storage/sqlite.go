package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"stock-screener/src/logger"
	"stock-screener/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type SQLiteRepository struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
	table  *sqlQuoteTable
}

// -----------------------------------------------------------------------------

func NewSQLiteRepository(cfg *models.MConfig, log *logger.Logger) *SQLiteRepository {
	return &SQLiteRepository{
		Config: cfg,
		Logger: log,
	}
}

// -----------------------------------------------------------------------------

func (d *SQLiteRepository) Initialize(ctx context.Context) error {
	dsn := d.Config.Storage.DBPath
	if dir := filepath.Dir(dsn); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	// one writer; avoids SQLITE_BUSY between the refresher and restore
	db.SetMaxOpenConns(1)

	d.DB = db

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	d.table = &sqlQuoteTable{
		db: db,
		dialect: sqlDialect{
			table:       "quotes",
			placeholder: func(int) string { return "?" },
			realType:    "REAL",
			boolType:    "INTEGER",
		},
	}
	if err := d.table.createTable(ctx); err != nil {
		return err
	}

	d.Logger.Info("SQLite repository ready at %s", dsn)
	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLiteRepository) ReplaceAll(ctx context.Context, quotes []models.MQuote) error {
	return d.table.replaceAll(ctx, quotes)
}

// -----------------------------------------------------------------------------

func (d *SQLiteRepository) LoadAll(ctx context.Context) ([]models.MQuote, error) {
	return d.table.loadAll(ctx)
}

// -----------------------------------------------------------------------------

func (d *SQLiteRepository) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
