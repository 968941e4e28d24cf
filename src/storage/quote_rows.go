package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stock-screener/src/models"
)

// quoteColumns is the column order shared by the SQL backends. position keeps
// the insertion order so tie-breaking survives a restart.
var quoteColumns = []string{
	"position", "ticker", "name", "sector",
	"current_price", "previous_close", "price_change", "price_change_percent",
	"market_cap", "volume", "avg_volume",
	"day_high", "day_low", "fifty_two_week_high", "fifty_two_week_low",
	"pe_ratio", "dividend_yield", "beta", "eps",
	"rsi", "is_positive", "market_state", "last_updated",
}

// -----------------------------------------------------------------------------

// sqlDialect captures what differs between the database/sql backends.
type sqlDialect struct {
	table       string
	placeholder func(n int) string // 1-based
	realType    string
	boolType    string
}

func (d sqlDialect) createTableSQL() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position INTEGER NOT NULL,
			ticker TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			sector TEXT NOT NULL,
			current_price %[2]s NOT NULL,
			previous_close %[2]s NOT NULL,
			price_change %[2]s NOT NULL,
			price_change_percent %[2]s NOT NULL,
			market_cap TEXT NOT NULL,
			volume TEXT NOT NULL,
			avg_volume TEXT NOT NULL,
			day_high %[2]s NOT NULL,
			day_low %[2]s NOT NULL,
			fifty_two_week_high %[2]s NOT NULL,
			fifty_two_week_low %[2]s NOT NULL,
			pe_ratio %[2]s,
			dividend_yield %[2]s,
			beta %[2]s,
			eps %[2]s,
			rsi %[2]s NOT NULL,
			is_positive %[3]s NOT NULL,
			market_state TEXT NOT NULL,
			last_updated BIGINT NOT NULL
		);
	`, d.table, d.realType, d.boolType)
}

func (d sqlDialect) insertSQL() string {
	ph := make([]string, len(quoteColumns))
	for i := range ph {
		ph[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.table, strings.Join(quoteColumns, ", "), strings.Join(ph, ", "))
}

func (d sqlDialect) selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY position", strings.Join(quoteColumns, ", "), d.table)
}

// -----------------------------------------------------------------------------

func quoteValues(position int, q models.MQuote) []any {
	return []any{
		position, q.Ticker, q.Name, q.Sector,
		q.CurrentPrice, q.PreviousClose, q.PriceChange, q.PriceChangePercent,
		q.MarketCapDisplay, q.VolumeDisplay, q.AvgVolumeDisplay,
		q.DayHigh, q.DayLow, q.FiftyTwoWeekHigh, q.FiftyTwoWeekLow,
		q.PERatio, q.DividendYield, q.Beta, q.EPS,
		q.RSI, q.IsPositive, string(q.MarketState), q.LastUpdated.UnixNano(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (models.MQuote, error) {
	var (
		q           models.MQuote
		position    int
		marketState string
		updatedNs   int64
	)
	err := row.Scan(
		&position, &q.Ticker, &q.Name, &q.Sector,
		&q.CurrentPrice, &q.PreviousClose, &q.PriceChange, &q.PriceChangePercent,
		&q.MarketCapDisplay, &q.VolumeDisplay, &q.AvgVolumeDisplay,
		&q.DayHigh, &q.DayLow, &q.FiftyTwoWeekHigh, &q.FiftyTwoWeekLow,
		&q.PERatio, &q.DividendYield, &q.Beta, &q.EPS,
		&q.RSI, &q.IsPositive, &marketState, &updatedNs,
	)
	if err != nil {
		return models.MQuote{}, err
	}
	q.MarketState = models.MMarketState(marketState)
	q.LastUpdated = time.Unix(0, updatedNs)
	return q, nil
}

// -----------------------------------------------------------------------------

// sqlQuoteTable implements the repository operations on a *sql.DB.
type sqlQuoteTable struct {
	db      *sql.DB
	dialect sqlDialect
}

func (t *sqlQuoteTable) createTable(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, t.dialect.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create %s: %w", t.dialect.table, err)
	}
	return nil
}

// replaceAll deletes every row and inserts quotes in one transaction.
func (t *sqlQuoteTable) replaceAll(ctx context.Context, quotes []models.MQuote) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+t.dialect.table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t.dialect.table, err)
	}

	stmt, err := tx.PrepareContext(ctx, t.dialect.insertSQL())
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, q := range quotes {
		if _, err := stmt.ExecContext(ctx, quoteValues(i, q)...); err != nil {
			return fmt.Errorf("failed to insert %s: %w", q.Ticker, err)
		}
	}

	return tx.Commit()
}

func (t *sqlQuoteTable) loadAll(ctx context.Context) ([]models.MQuote, error) {
	rows, err := t.db.QueryContext(ctx, t.dialect.selectSQL())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.MQuote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
