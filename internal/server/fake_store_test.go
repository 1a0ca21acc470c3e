package server

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	"github.com/lib/pq"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// fakeStore is an in-memory store.Store for service and handler tests.
type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	templates []*model.Template
	fields    []*model.Field
	values    []*model.Value
	records   map[model.Menu]map[int64]bool

	// createFieldCollisions makes the next N CreateField calls fail with a
	// unique violation, to exercise the key regeneration loop.
	createFieldCollisions int
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[model.Menu]map[int64]bool)}
}

func uniqueViolationErr() error {
	return &pq.Error{Code: uniqueViolation}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateTemplate(_ context.Context, t *model.Template) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.templates {
		if existing.MenuID == t.MenuID && existing.CompanyID == t.CompanyID {
			return uniqueViolationErr()
		}
	}
	t.ID = f.id()
	f.templates = append(f.templates, t)
	return nil
}

func (f *fakeStore) GetTemplate(_ context.Context, menuID model.Menu, companyID int64) (*model.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.templates {
		if t.MenuID == menuID && t.CompanyID == companyID {
			return t, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) ListTemplates(context.Context) ([]*model.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.templates, nil
}

func (f *fakeStore) CreateField(_ context.Context, fld *model.Field) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createFieldCollisions > 0 {
		f.createFieldCollisions--
		return uniqueViolationErr()
	}
	for _, existing := range f.fields {
		if existing.Key == fld.Key {
			return uniqueViolationErr()
		}
	}
	fld.ID = f.id()
	f.fields = append(f.fields, fld)
	return nil
}

func (f *fakeStore) GetFieldByKey(_ context.Context, key string) (*model.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fld := range f.fields {
		if fld.Key == key {
			return fld, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) ListFields(_ context.Context, templateID int64) ([]*model.Field, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Field
	for _, fld := range f.fields {
		if fld.TemplateID == templateID {
			out = append(out, fld)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteFieldByKey(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, fld := range f.fields {
		if fld.Key == key {
			f.fields = append(f.fields[:i], f.fields[i+1:]...)
			var kept []*model.Value
			for _, v := range f.values {
				if v.FieldID != fld.ID {
					kept = append(kept, v)
				}
			}
			f.values = kept
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStore) GetSearchFieldKey(_ context.Context, templateID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fld := range f.fields {
		if fld.TemplateID == templateID && fld.SearchKey {
			return fld.Key, nil
		}
	}
	return "", nil
}

func (f *fakeStore) UpsertValue(_ context.Context, v *model.Value) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fld := range f.fields {
		if fld.ID == v.FieldID {
			v.FieldKey = fld.Key
		}
	}
	for _, existing := range f.values {
		if existing.FieldID == v.FieldID && existing.RecordID == v.RecordID && existing.Namespace == v.Namespace {
			existing.Value = v.Value
			existing.LastUpdatedBy = v.LastUpdatedBy
			v.ID = existing.ID
			return nil
		}
	}
	v.ID = f.id()
	f.values = append(f.values, v)
	return nil
}

func (f *fakeStore) templateFieldIDs(templateID int64) map[int64]bool {
	ids := make(map[int64]bool)
	for _, fld := range f.fields {
		if fld.TemplateID == templateID {
			ids[fld.ID] = true
		}
	}
	return ids
}

func (f *fakeStore) ListDistinctRecordIDs(_ context.Context, templateID int64, ns model.Namespace) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fieldIDs := f.templateFieldIDs(templateID)
	seen := make(map[int64]bool)
	var ids []int64
	for _, v := range f.values {
		if fieldIDs[v.FieldID] && v.Namespace == ns && !seen[v.RecordID] {
			seen[v.RecordID] = true
			ids = append(ids, v.RecordID)
		}
	}
	// Descending by record id.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] > ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	return ids, nil
}

func (f *fakeStore) ListValuesForRecords(_ context.Context, templateID int64, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fieldIDs := f.templateFieldIDs(templateID)
	want := make(map[int64]bool)
	for _, id := range recordIDs {
		want[id] = true
	}
	var out []*model.Value
	for _, v := range f.values {
		if !fieldIDs[v.FieldID] || v.Namespace != ns {
			continue
		}
		if recordIDs != nil && !want[v.RecordID] {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) ListFieldValues(_ context.Context, fieldKey string, ns model.Namespace, recordIDs []int64) ([]*model.Value, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]bool)
	for _, id := range recordIDs {
		want[id] = true
	}
	var out []*model.Value
	for _, v := range f.values {
		if v.FieldKey != fieldKey || v.Namespace != ns {
			continue
		}
		if recordIDs != nil && !want[v.RecordID] {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) FilterRecordIDs(_ context.Context, fieldKey string, ns model.Namespace, recordIDs []int64, filter model.RecordFilter) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]bool)
	for _, id := range recordIDs {
		want[id] = true
	}
	operand := strings.ToLower(filter.Value)
	var out []int64
	for _, v := range f.values {
		if v.FieldKey != fieldKey || v.Namespace != ns || !want[v.RecordID] {
			continue
		}
		val := strings.ToLower(v.Value)
		match := false
		switch filter.Operator.Normalize() {
		case model.OpEquals:
			match = val == operand
		case model.OpContains:
			match = strings.Contains(val, operand)
		case model.OpStartsWith:
			match = strings.HasPrefix(val, operand)
		case model.OpEndsWith:
			match = strings.HasSuffix(val, operand)
		}
		if match {
			out = append(out, v.RecordID)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteValuesForRecord(_ context.Context, menuID model.Menu, recordID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fieldIDs := make(map[int64]bool)
	for _, t := range f.templates {
		if t.MenuID != menuID {
			continue
		}
		for id := range f.templateFieldIDs(t.ID) {
			fieldIDs[id] = true
		}
	}
	var kept []*model.Value
	for _, v := range f.values {
		if fieldIDs[v.FieldID] && v.RecordID == recordID {
			continue
		}
		kept = append(kept, v)
	}
	f.values = kept
	return nil
}

func (f *fakeStore) CreateBusinessRecord(_ context.Context, menuID model.Menu, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records[menuID] == nil {
		f.records[menuID] = make(map[int64]bool)
	}
	id := f.id()
	f.records[menuID][id] = true
	return id, nil
}

func (f *fakeStore) DeleteBusinessRecord(_ context.Context, menuID model.Menu, recordID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.records[menuID][recordID] {
		return sql.ErrNoRows
	}
	delete(f.records[menuID], recordID)
	return nil
}

func (f *fakeStore) QueryEntities(context.Context, store.EntityQuery) ([]any, int64, error) {
	return nil, 0, nil
}

func (f *fakeStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(f)
}

func (f *fakeStore) Close() error { return nil }

// memPublisher records every published event.
type memPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
}

type publishedEvent struct {
	topic string
	event any
}

func (p *memPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *memPublisher) Close() error { return nil }

func (p *memPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.topic)
	}
	return out
}
