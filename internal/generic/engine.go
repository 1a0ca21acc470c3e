package generic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// Engine executes generic entity queries against the registry, scoped to the
// calling user's own rows.
type Engine struct {
	store    store.Store
	registry *Registry
	logger   *slog.Logger
}

// NewEngine creates an Engine over the given store and registry.
func NewEngine(s store.Store, r *Registry, logger *slog.Logger) *Engine {
	if r == nil {
		r = DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, registry: r, logger: logger}
}

// Query runs one entity query on behalf of caller. Results only ever include
// rows the caller created.
func (e *Engine) Query(ctx context.Context, caller model.Identity, q model.GenericQuery) (*model.GenericPage, error) {
	d, ok := e.registry.Lookup(q.EntityName)
	if !ok {
		return nil, model.NotFoundf("unknown entity %q", q.EntityName)
	}

	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := q.Page
	if page < 0 {
		page = 0
	}

	eq := buildQuery(d, q, caller.Username, e.logger)
	data, total, err := e.store.QueryEntities(ctx, eq)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", d.Name, err)
	}
	if data == nil {
		data = []any{}
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &model.GenericPage{
		Data:         data,
		TotalRecords: total,
		CurrentPage:  page,
		PageSize:     size,
		TotalPages:   totalPages,
		First:        page == 0,
		Last:         page >= totalPages-1,
		HasNext:      page < totalPages-1,
		HasPrevious:  page > 0,
	}, nil
}
