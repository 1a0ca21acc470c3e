package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/groblegark/fieldgrid/internal/model"
)

// valueColumns is the column list used for SELECT statements on field_values,
// joined to fields for the key.
const valueColumns = `fv.id, fv.field_id, f.key, fv.record_id, fv.namespace, fv.value,
	fv.created_at, fv.updated_at, fv.created_by, fv.last_updated_by`

func queryUpsertValue(ctx context.Context, db executor, v *model.Value) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO field_values (field_id, record_id, namespace, value, created_by, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (field_id, record_id, namespace)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW(), last_updated_by = EXCLUDED.last_updated_by
		RETURNING id, created_at, updated_at`,
		v.FieldID,
		v.RecordID,
		string(v.Namespace),
		v.Value,
		v.CreatedBy,
		v.LastUpdatedBy,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func queryListDistinctRecordIDs(ctx context.Context, db executor, templateID int64, ns model.Namespace) ([]int64, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT fv.record_id
		FROM field_values fv
		JOIN fields f ON fv.field_id = f.id
		WHERE f.template_id = $1 AND fv.namespace = $2
		ORDER BY fv.record_id DESC`,
		templateID, string(ns),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecordIDs(rows)
}

func queryListValuesForRecords(ctx context.Context, db executor, templateID int64, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	query := `
		SELECT ` + valueColumns + `
		FROM field_values fv
		JOIN fields f ON fv.field_id = f.id
		WHERE f.template_id = $1 AND fv.namespace = $2`
	args := []any{templateID, string(ns)}

	if recordIDs != nil {
		query += ` AND fv.record_id = ANY($3)`
		args = append(args, pq.Array(recordIDs))
	}
	query += ` ORDER BY fv.record_id, fv.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanValues(rows)
}

func queryListFieldValues(ctx context.Context, db executor, fieldKey string, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	query := `
		SELECT ` + valueColumns + `
		FROM field_values fv
		JOIN fields f ON fv.field_id = f.id
		WHERE f.key = $1 AND fv.namespace = $2`
	args := []any{fieldKey, string(ns)}

	if recordIDs != nil {
		query += ` AND fv.record_id = ANY($3)`
		args = append(args, pq.Array(recordIDs))
	}
	query += ` ORDER BY fv.record_id, fv.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanValues(rows)
}

// queryFilterRecordIDs narrows a candidate record-id set to the records whose
// value for the given field satisfies a string comparison. String comparisons
// are case-insensitive. Numeric comparisons are evaluated by the caller.
func queryFilterRecordIDs(ctx context.Context, db executor, fieldKey string, ns model.Namespace, recordIDs []int64, filter model.RecordFilter) ([]int64, error) {
	var pred string
	switch filter.Operator.Normalize() {
	case model.OpEquals:
		pred = `LOWER(fv.value) = LOWER($4)`
	case model.OpContains:
		pred = `fv.value ILIKE '%' || $4 || '%'`
	case model.OpStartsWith:
		pred = `fv.value ILIKE $4 || '%'`
	case model.OpEndsWith:
		pred = `fv.value ILIKE '%' || $4`
	default:
		return nil, fmt.Errorf("filter records: unsupported operator %q", filter.Operator)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT fv.record_id
		FROM field_values fv
		JOIN fields f ON fv.field_id = f.id
		WHERE f.key = $1 AND fv.namespace = $2 AND fv.record_id = ANY($3) AND `+pred+`
		ORDER BY fv.record_id DESC`,
		fieldKey, string(ns), pq.Array(recordIDs), filter.Value,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecordIDs(rows)
}

func queryDeleteValuesForRecord(ctx context.Context, db executor, menuID model.Menu, recordID int64) error {
	_, err := db.ExecContext(ctx, `
		DELETE FROM field_values fv
		USING fields f, templates t
		WHERE fv.field_id = f.id AND f.template_id = t.id
		  AND t.menu_id = $1 AND fv.record_id = $2`,
		int64(menuID), recordID,
	)
	return err
}

// menuTable maps a menu to the business table backing its records.
func menuTable(menuID model.Menu) (string, error) {
	switch menuID {
	case model.MenuLead:
		return "leads", nil
	case model.MenuContact:
		return "contacts", nil
	case model.MenuMerchant:
		return "merchants", nil
	}
	return "", fmt.Errorf("no business table for menu %d", menuID)
}

func queryCreateBusinessRecord(ctx context.Context, db executor, menuID model.Menu, actor string) (int64, error) {
	table, err := menuTable(menuID)
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.QueryRowContext(ctx,
		`INSERT INTO `+table+` (created_by, last_updated_by) VALUES ($1, $1) RETURNING id`,
		actor,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create %s record: %w", table, err)
	}
	return id, nil
}

func queryDeleteBusinessRecord(ctx context.Context, db executor, menuID model.Menu, recordID int64) error {
	table, err := menuTable(menuID)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, recordID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
