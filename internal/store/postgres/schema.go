package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/groblegark/fieldgrid/internal/model"
)

// templateColumns is the column list used for SELECT statements on the
// templates table.
const templateColumns = `id, menu_id, company_id, created_at, updated_at, created_by, last_updated_by`

// fieldColumns is the column list used for SELECT statements on the fields table.
const fieldColumns = `id, template_id, key, label, type, options, search_key,
	created_at, updated_at, created_by, last_updated_by`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateTemplate(ctx context.Context, db executor, t *model.Template) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO templates (menu_id, company_id, created_by, last_updated_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		int64(t.MenuID),
		t.CompanyID,
		t.CreatedBy,
		t.LastUpdatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func queryGetTemplate(ctx context.Context, db executor, menuID model.Menu, companyID int64) (*model.Template, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE menu_id = $1 AND company_id = $2`,
		int64(menuID), companyID,
	)
	return scanTemplate(row)
}

func queryListTemplates(ctx context.Context, db executor) ([]*model.Template, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY company_id, menu_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTemplates(rows)
}

func queryCreateField(ctx context.Context, db executor, f *model.Field) error {
	opts, err := optionsBytes(f.Options)
	if err != nil {
		return fmt.Errorf("encode field options: %w", err)
	}
	return db.QueryRowContext(ctx, `
		INSERT INTO fields (template_id, key, label, type, options, search_key, created_by, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		f.TemplateID,
		f.Key,
		f.Label,
		string(f.Type),
		opts,
		f.SearchKey,
		f.CreatedBy,
		f.LastUpdatedBy,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

func queryGetFieldByKey(ctx context.Context, db executor, key string) (*model.Field, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+fieldColumns+` FROM fields WHERE key = $1`, key)
	return scanField(row)
}

func queryListFields(ctx context.Context, db executor, templateID int64) ([]*model.Field, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+fieldColumns+` FROM fields WHERE template_id = $1 ORDER BY id`,
		templateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFields(rows)
}

func queryDeleteFieldByKey(ctx context.Context, db executor, key string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM fields WHERE key = $1`, key)
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

func queryGetSearchFieldKey(ctx context.Context, db executor, templateID int64) (string, error) {
	var key string
	err := db.QueryRowContext(ctx, `
		SELECT key FROM fields
		WHERE template_id = $1 AND search_key
		ORDER BY id
		LIMIT 1`,
		templateID,
	).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}
