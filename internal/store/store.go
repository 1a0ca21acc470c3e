package store

import (
	"context"

	"github.com/groblegark/fieldgrid/internal/model"
)

// RowScanner is the subset of *sql.Rows the entity scan functions need.
type RowScanner interface {
	Scan(dest ...any) error
}

// EntityQuery carries a pre-built SQL pair for the generic entity engine:
// one statement for the page of rows and one for the total count, plus the
// scan function that turns a row into the entity value.
type EntityQuery struct {
	DataSQL   string
	DataArgs  []any
	CountSQL  string
	CountArgs []any
	Scan      func(RowScanner) (any, error)
}

// Store defines the persistence interface for the dynamic-schema backend.
type Store interface {
	// Templates
	CreateTemplate(ctx context.Context, t *model.Template) error
	GetTemplate(ctx context.Context, menuID model.Menu, companyID int64) (*model.Template, error)
	ListTemplates(ctx context.Context) ([]*model.Template, error)

	// Fields
	CreateField(ctx context.Context, f *model.Field) error
	GetFieldByKey(ctx context.Context, key string) (*model.Field, error)
	ListFields(ctx context.Context, templateID int64) ([]*model.Field, error)
	DeleteFieldByKey(ctx context.Context, key string) error
	GetSearchFieldKey(ctx context.Context, templateID int64) (string, error) // "" when unset

	// Values
	UpsertValue(ctx context.Context, v *model.Value) error
	ListDistinctRecordIDs(ctx context.Context, templateID int64, ns model.Namespace) ([]int64, error)
	ListValuesForRecords(ctx context.Context, templateID int64, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) // nil recordIDs = all
	ListFieldValues(ctx context.Context, fieldKey string, ns model.Namespace, recordIDs []int64) ([]*model.Value, error)
	FilterRecordIDs(ctx context.Context, fieldKey string, ns model.Namespace, recordIDs []int64, filter model.RecordFilter) ([]int64, error)
	DeleteValuesForRecord(ctx context.Context, menuID model.Menu, recordID int64) error

	// Business records backing the dynamic grids
	CreateBusinessRecord(ctx context.Context, menuID model.Menu, actor string) (int64, error)
	DeleteBusinessRecord(ctx context.Context, menuID model.Menu, recordID int64) error

	// Generic entity queries
	QueryEntities(ctx context.Context, q EntityQuery) ([]any, int64, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
