package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/groblegark/fieldgrid/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanTemplate scans a single row into a model.Template.
// The row must contain columns in the order defined by templateColumns.
func scanTemplate(row scannable) (*model.Template, error) {
	var t model.Template
	var (
		createdBy     sql.NullString
		lastUpdatedBy sql.NullString
	)
	err := row.Scan(
		&t.ID,
		&t.MenuID,
		&t.CompanyID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&createdBy,
		&lastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	t.CreatedBy = createdBy.String
	t.LastUpdatedBy = lastUpdatedBy.String
	return &t, nil
}

// scanTemplates scans multiple rows into a slice of model.Template pointers.
func scanTemplates(rows *sql.Rows) ([]*model.Template, error) {
	var templates []*model.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// scanField scans a single row into a model.Field.
// The row must contain columns in the order defined by fieldColumns.
func scanField(row scannable) (*model.Field, error) {
	var f model.Field
	var (
		options       []byte
		createdBy     sql.NullString
		lastUpdatedBy sql.NullString
	)
	err := row.Scan(
		&f.ID,
		&f.TemplateID,
		&f.Key,
		&f.Label,
		&f.Type,
		&options,
		&f.SearchKey,
		&f.CreatedAt,
		&f.UpdatedAt,
		&createdBy,
		&lastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	f.CreatedBy = createdBy.String
	f.LastUpdatedBy = lastUpdatedBy.String
	if len(options) > 0 {
		if err := json.Unmarshal(options, &f.Options); err != nil {
			return nil, err
		}
	}
	return &f, nil
}

// scanFields scans multiple rows into a slice of model.Field pointers.
func scanFields(rows *sql.Rows) ([]*model.Field, error) {
	var fields []*model.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// scanValue scans a single row into a model.Value.
// The row must contain columns in the order defined by valueColumns.
func scanValue(row scannable) (*model.Value, error) {
	var v model.Value
	var (
		createdBy     sql.NullString
		lastUpdatedBy sql.NullString
	)
	err := row.Scan(
		&v.ID,
		&v.FieldID,
		&v.FieldKey,
		&v.RecordID,
		&v.Namespace,
		&v.Value,
		&v.CreatedAt,
		&v.UpdatedAt,
		&createdBy,
		&lastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	v.CreatedBy = createdBy.String
	v.LastUpdatedBy = lastUpdatedBy.String
	return &v, nil
}

// scanValues scans multiple rows into a slice of model.Value pointers.
func scanValues(rows *sql.Rows) ([]*model.Value, error) {
	var values []*model.Value
	for rows.Next() {
		v, err := scanValue(rows)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// scanRecordIDs scans single-column record-id rows.
func scanRecordIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// optionsBytes converts field options to a []byte suitable for JSONB columns.
func optionsBytes(options []map[string]string) ([]byte, error) {
	if len(options) == 0 {
		return nil, nil
	}
	return json.Marshal(options)
}
