package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stock-screener/src/helpers"
	"stock-screener/src/logger"
	"stock-screener/src/models"

	"github.com/lib/pq"
)

// -----------------------------------------------------------------------------

type PostgresRepository struct {
	Config *models.MConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
	table  *sqlQuoteTable
}

// -----------------------------------------------------------------------------

// NewPostgresRepository uses storage.db_name as the schema, or the executable
// name when unset.
func NewPostgresRepository(cfg *models.MConfig, log *logger.Logger) (*PostgresRepository, error) {
	schema := cfg.Storage.DBName
	if schema == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable name: %w", err)
		}
		schema = strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	}

	return &PostgresRepository{
		Config: cfg,
		Schema: schema,
		Logger: log,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRepository) Initialize(ctx context.Context) error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return err
	}

	_, err = helpers.RetryWithBackoff(ctx, d.Logger, "postgres ping", 3, time.Second, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return err
	}

	d.DB = db

	if _, err := d.DB.ExecContext(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, pq.QuoteIdentifier(d.Schema))); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", d.Schema, err)
	}

	d.table = &sqlQuoteTable{
		db: db,
		dialect: sqlDialect{
			table:       pq.QuoteIdentifier(d.Schema) + `."quotes"`,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
			realType:    "DOUBLE PRECISION",
			boolType:    "BOOLEAN",
		},
	}
	if err := d.table.createTable(ctx); err != nil {
		return err
	}

	d.Logger.Info("PostgresRepository initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRepository) ReplaceAll(ctx context.Context, quotes []models.MQuote) error {
	return d.table.replaceAll(ctx, quotes)
}

// -----------------------------------------------------------------------------

func (d *PostgresRepository) LoadAll(ctx context.Context) ([]models.MQuote, error) {
	return d.table.loadAll(ctx)
}

// -----------------------------------------------------------------------------

func (d *PostgresRepository) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
