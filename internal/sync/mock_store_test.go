package sync

import (
	"context"
	"database/sql"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// mockStore is an in-memory store.Store for export and scheduler tests.
type mockStore struct {
	templates []*model.Template
	// fields[templateID]
	fields map[int64][]*model.Field
	// values[templateID][namespace]
	values map[int64]map[model.Namespace][]*model.Value
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		fields: make(map[int64][]*model.Field),
		values: make(map[int64]map[model.Namespace][]*model.Value),
	}
}

func (m *mockStore) addValue(templateID int64, ns model.Namespace, v *model.Value) {
	if m.values[templateID] == nil {
		m.values[templateID] = make(map[model.Namespace][]*model.Value)
	}
	m.values[templateID][ns] = append(m.values[templateID][ns], v)
}

func (m *mockStore) ListTemplates(context.Context) ([]*model.Template, error) {
	return m.templates, nil
}

func (m *mockStore) ListFields(_ context.Context, templateID int64) ([]*model.Field, error) {
	return m.fields[templateID], nil
}

func (m *mockStore) ListValuesForRecords(_ context.Context, templateID int64, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	if recordIDs != nil {
		panic("export should request all records")
	}
	return m.values[templateID][ns], nil
}

// Unused by the exporter.

func (m *mockStore) CreateTemplate(context.Context, *model.Template) error { return nil }
func (m *mockStore) GetTemplate(context.Context, model.Menu, int64) (*model.Template, error) {
	return nil, sql.ErrNoRows
}
func (m *mockStore) CreateField(context.Context, *model.Field) error { return nil }
func (m *mockStore) GetFieldByKey(context.Context, string) (*model.Field, error) {
	return nil, sql.ErrNoRows
}
func (m *mockStore) DeleteFieldByKey(context.Context, string) error           { return nil }
func (m *mockStore) GetSearchFieldKey(context.Context, int64) (string, error) { return "", nil }
func (m *mockStore) UpsertValue(context.Context, *model.Value) error          { return nil }
func (m *mockStore) ListDistinctRecordIDs(context.Context, int64, model.Namespace) ([]int64, error) {
	return nil, nil
}
func (m *mockStore) ListFieldValues(context.Context, string, model.Namespace, []int64) ([]*model.Value, error) {
	return nil, nil
}
func (m *mockStore) FilterRecordIDs(context.Context, string, model.Namespace, []int64, model.RecordFilter) ([]int64, error) {
	return nil, nil
}
func (m *mockStore) DeleteValuesForRecord(context.Context, model.Menu, int64) error { return nil }
func (m *mockStore) CreateBusinessRecord(context.Context, model.Menu, string) (int64, error) {
	return 0, nil
}
func (m *mockStore) DeleteBusinessRecord(context.Context, model.Menu, int64) error { return nil }
func (m *mockStore) QueryEntities(context.Context, store.EntityQuery) ([]any, int64, error) {
	return nil, 0, nil
}
func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}
func (m *mockStore) Close() error { return nil }
