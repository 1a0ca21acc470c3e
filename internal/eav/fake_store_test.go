package eav

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// fakeStore is an in-memory store.Store for planner tests. It records the
// candidate sets each filter round-trip receives so tests can assert the
// sequential narrowing order.
type fakeStore struct {
	template *model.Template
	// values[fieldKey][recordID] in the default namespace
	values map[string]map[int64]string

	filterCalls [][]int64
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		template: &model.Template{ID: 1, MenuID: model.MenuLead, CompanyID: 7},
		values:   make(map[string]map[int64]string),
	}
}

func (s *fakeStore) set(fieldKey string, recordID int64, value string) {
	if s.values[fieldKey] == nil {
		s.values[fieldKey] = make(map[int64]string)
	}
	s.values[fieldKey][recordID] = value
}

func (s *fakeStore) GetTemplate(_ context.Context, menuID model.Menu, companyID int64) (*model.Template, error) {
	if s.template == nil || s.template.MenuID != menuID || s.template.CompanyID != companyID {
		return nil, sql.ErrNoRows
	}
	return s.template, nil
}

func (s *fakeStore) ListDistinctRecordIDs(_ context.Context, templateID int64, _ model.Namespace) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64
	for _, recs := range s.values {
		for id := range recs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids, nil
}

func (s *fakeStore) FilterRecordIDs(_ context.Context, fieldKey string, _ model.Namespace, recordIDs []int64, filter model.RecordFilter) ([]int64, error) {
	s.filterCalls = append(s.filterCalls, append([]int64(nil), recordIDs...))

	var out []int64
	for _, id := range recordIDs {
		v, ok := s.values[fieldKey][id]
		if !ok {
			continue
		}
		lv, lf := strings.ToLower(v), strings.ToLower(filter.Value)
		var match bool
		switch filter.Operator.Normalize() {
		case model.OpEquals:
			match = lv == lf
		case model.OpContains:
			match = strings.Contains(lv, lf)
		case model.OpStartsWith:
			match = strings.HasPrefix(lv, lf)
		case model.OpEndsWith:
			match = strings.HasSuffix(lv, lf)
		default:
			return nil, fmt.Errorf("unsupported operator %q", filter.Operator)
		}
		if match {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *fakeStore) ListFieldValues(_ context.Context, fieldKey string, _ model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	var out []*model.Value
	for _, id := range recordIDs {
		if v, ok := s.values[fieldKey][id]; ok {
			out = append(out, &model.Value{FieldKey: fieldKey, RecordID: id, Value: v})
		}
	}
	return out, nil
}

func (s *fakeStore) ListValuesForRecords(_ context.Context, templateID int64, _ model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	var out []*model.Value
	for key, recs := range s.values {
		for _, id := range recordIDs {
			if v, ok := recs[id]; ok {
				out = append(out, &model.Value{FieldKey: key, RecordID: id, Value: v})
			}
		}
	}
	return out, nil
}

// Unused by the planner.

func (s *fakeStore) CreateTemplate(context.Context, *model.Template) error { return nil }
func (s *fakeStore) ListTemplates(context.Context) ([]*model.Template, error) {
	return []*model.Template{s.template}, nil
}
func (s *fakeStore) CreateField(context.Context, *model.Field) error { return nil }
func (s *fakeStore) GetFieldByKey(context.Context, string) (*model.Field, error) {
	return nil, sql.ErrNoRows
}
func (s *fakeStore) ListFields(context.Context, int64) ([]*model.Field, error) { return nil, nil }
func (s *fakeStore) DeleteFieldByKey(context.Context, string) error            { return nil }
func (s *fakeStore) GetSearchFieldKey(context.Context, int64) (string, error)  { return "", nil }
func (s *fakeStore) UpsertValue(context.Context, *model.Value) error           { return nil }
func (s *fakeStore) DeleteValuesForRecord(context.Context, model.Menu, int64) error {
	return nil
}
func (s *fakeStore) CreateBusinessRecord(context.Context, model.Menu, string) (int64, error) {
	return 0, nil
}
func (s *fakeStore) DeleteBusinessRecord(context.Context, model.Menu, int64) error { return nil }
func (s *fakeStore) QueryEntities(context.Context, store.EntityQuery) ([]any, int64, error) {
	return nil, 0, nil
}
func (s *fakeStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}
func (s *fakeStore) Close() error { return nil }
