package generic

import (
	"context"
	"errors"
	"testing"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// stubEntityStore implements store.Store for engine tests, recording the
// EntityQuery it receives and returning canned rows.
type stubEntityStore struct {
	store.Store

	got   store.EntityQuery
	data  []any
	total int64
	err   error
}

func (s *stubEntityStore) QueryEntities(_ context.Context, q store.EntityQuery) ([]any, int64, error) {
	s.got = q
	return s.data, s.total, s.err
}

var alice = model.Identity{ID: 1, Username: "alice", Role: model.RoleUser}

func TestEngineQuery_UnknownEntity(t *testing.T) {
	e := NewEngine(&stubEntityStore{}, nil, testLogger)
	_, err := e.Query(context.Background(), alice, model.GenericQuery{EntityName: "invoice"})
	var nf model.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestEngineQuery_ScopesToCaller(t *testing.T) {
	s := &stubEntityStore{data: []any{&model.Lead{ID: 1}}, total: 1}
	e := NewEngine(s, nil, testLogger)

	_, err := e.Query(context.Background(), alice, model.GenericQuery{EntityName: "lead"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.got.CountArgs) == 0 || s.got.CountArgs[0] != "alice" {
		t.Fatalf("owner must be the first bound arg, got %v", s.got.CountArgs)
	}
}

func TestEngineQuery_PageMetadata(t *testing.T) {
	s := &stubEntityStore{data: []any{&model.Lead{ID: 5}, &model.Lead{ID: 4}}, total: 7}
	e := NewEngine(s, nil, testLogger)

	page, err := e.Query(context.Background(), alice, model.GenericQuery{
		EntityName: "lead", Page: 1, Size: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalRecords != 7 || page.TotalPages != 4 {
		t.Fatalf("got total=%d pages=%d", page.TotalRecords, page.TotalPages)
	}
	if page.First || page.Last {
		t.Fatalf("middle page: first=%v last=%v", page.First, page.Last)
	}
	if !page.HasNext || !page.HasPrevious {
		t.Fatalf("middle page: has_next=%v has_previous=%v", page.HasNext, page.HasPrevious)
	}
}

func TestEngineQuery_FirstAndLastPage(t *testing.T) {
	s := &stubEntityStore{data: []any{&model.Lead{ID: 1}}, total: 1}
	e := NewEngine(s, nil, testLogger)

	page, err := e.Query(context.Background(), alice, model.GenericQuery{EntityName: "lead"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !page.First || !page.Last || page.HasNext || page.HasPrevious {
		t.Fatalf("single page: %+v", page)
	}
}

func TestEngineQuery_EmptyResult(t *testing.T) {
	s := &stubEntityStore{}
	e := NewEngine(s, nil, testLogger)

	page, err := e.Query(context.Background(), alice, model.GenericQuery{EntityName: "contact"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Data == nil || len(page.Data) != 0 {
		t.Fatalf("expected empty non-nil data, got %v", page.Data)
	}
	if page.TotalRecords != 0 || page.TotalPages != 0 {
		t.Fatalf("got total=%d pages=%d", page.TotalRecords, page.TotalPages)
	}
	if !page.First || !page.Last {
		t.Fatalf("empty result: first=%v last=%v", page.First, page.Last)
	}
}
