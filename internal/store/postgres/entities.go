package postgres

import (
	"context"
	"fmt"

	"github.com/groblegark/fieldgrid/internal/store"
)

// queryEntities executes a pre-built entity query pair: the count statement
// first, then the data statement, scanning each row with q.Scan.
func queryEntities(ctx context.Context, db executor, q store.EntityQuery) ([]any, int64, error) {
	var total int64
	if err := db.QueryRowContext(ctx, q.CountSQL, q.CountArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entities: %w", err)
	}

	rows, err := db.QueryContext(ctx, q.DataSQL, q.DataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		v, err := q.Scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan entity: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan entities: %w", err)
	}
	return out, total, nil
}
