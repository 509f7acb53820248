package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// Query runs a parameterised statement and returns its rows as maps. The result
// is never nil: statements that produce no rows yield an empty slice.
func Query(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) ([]Row, error) {
	_, rows, err := QueryWithColumns(ctx, q, query, args...)
	return rows, err
}

// QueryWithColumns behaves like Query and also reports the column order of the statement.
func QueryWithColumns(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) ([]string, []Row, error) {
	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}

	result := make([]Row, 0)
	for rows.Next() {
		raw := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(raw); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(Row, len(raw))
		for key, value := range raw {
			// lib/pq hands back text-like columns as []byte
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			row[key] = value
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return columns, result, nil
}
