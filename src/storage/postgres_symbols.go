package storage

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// tableRefPattern matches a "schema.table.column" ticker list reference.
var tableRefPattern = regexp.MustCompile(`^(\w+)\.(\w+)\.(\w+)$`)

// IsTableRef reports whether a configured ticker entry points at a table column.
func IsTableRef(entry string) bool {
	return tableRefPattern.MatchString(entry)
}

// -----------------------------------------------------------------------------

// ExpandTickers replaces every "schema.table.column" entry with the distinct
// values of that column, keeping the order of the configured list. Plain
// tickers pass through and duplicates keep their first position.
func (d *PostgresRepository) ExpandTickers(ctx context.Context, entries []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(t string) {
		t = strings.TrimSpace(t)
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	for _, entry := range entries {
		m := tableRefPattern.FindStringSubmatch(entry)
		if m == nil {
			add(entry)
			continue
		}
		loaded, err := d.tickersFromTable(ctx, m[1], m[2], m[3])
		if err != nil {
			return nil, fmt.Errorf("failed to load tickers from %s: %w", entry, err)
		}
		d.Logger.Info("Loaded %d tickers from %s", len(loaded), entry)
		for _, t := range loaded {
			add(t)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresRepository) tickersFromTable(ctx context.Context, schema, table, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s.%s WHERE %s IS NOT NULL ORDER BY 1`,
		pq.QuoteIdentifier(column), pq.QuoteIdentifier(schema), pq.QuoteIdentifier(table), pq.QuoteIdentifier(column))

	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}
