package eav

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// DefaultPageSize is used when a query does not name a page size.
const DefaultPageSize = 10

// Planner executes dynamic grid queries: it narrows the record-id set one
// filter at a time, sorts, paginates, and only then fetches the values for
// the final page.
type Planner struct {
	store  store.Store
	logger *slog.Logger
}

// NewPlanner creates a Planner on top of the given store.
func NewPlanner(s store.Store, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{store: s, logger: logger}
}

// Query runs one grid query on behalf of caller. Filters are applied
// sequentially, each as its own store round-trip, so every step narrows the
// candidate set the next step operates on. Only the final page's values are
// fetched.
func (p *Planner) Query(ctx context.Context, caller model.Identity, q model.RecordQuery) (*model.RecordPage, error) {
	if !q.MenuID.IsValid() {
		return nil, model.Validationf("unknown menu %d", q.MenuID)
	}
	if !caller.IsSuperuser() && !caller.MemberOf(q.CompanyID) {
		return nil, model.Unauthorizedf("user %s is not a member of company %d", caller.Username, q.CompanyID)
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}

	tpl, err := p.store.GetTemplate(ctx, q.MenuID, q.CompanyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NotFoundf("no template for menu %d in company %d", q.MenuID, q.CompanyID)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	candidates, err := p.store.ListDistinctRecordIDs(ctx, tpl.ID, model.NamespaceDefault)
	if err != nil {
		return nil, fmt.Errorf("list record ids: %w", err)
	}

	for _, f := range q.Filters {
		if len(candidates) == 0 {
			break
		}
		candidates, err = p.applyFilter(ctx, candidates, f)
		if err != nil {
			return nil, err
		}
	}

	if q.SortBy != "" && len(candidates) > 0 {
		if err := p.sortCandidates(ctx, candidates, q.SortBy, q.SortDirection); err != nil {
			return nil, err
		}
	}

	total := len(candidates)
	totalPages := (total + q.Size - 1) / q.Size
	from := q.Page * q.Size
	if from > total {
		from = total
	}
	to := from + q.Size
	if to > total {
		to = total
	}
	pageIDs := candidates[from:to]

	var records []*model.Record
	if len(pageIDs) > 0 {
		values, err := p.store.ListValuesForRecords(ctx, tpl.ID, model.NamespaceDefault, pageIDs)
		if err != nil {
			return nil, fmt.Errorf("list values: %w", err)
		}
		records = Project(pageIDs, values)
	} else {
		records = []*model.Record{}
	}

	return &model.RecordPage{
		Records:      records,
		TotalRecords: total,
		Page:         q.Page,
		Size:         q.Size,
		TotalPages:   totalPages,
	}, nil
}

// applyFilter narrows candidates with one filter condition. String operators
// are pushed to the store; numeric operators fetch the field's values and
// compare in memory. An unrecognized operator matches everything.
func (p *Planner) applyFilter(ctx context.Context, candidates []int64, f model.RecordFilter) ([]int64, error) {
	op := f.Operator.Normalize()
	switch {
	case op.IsString():
		matched, err := p.store.FilterRecordIDs(ctx, f.FieldKey, model.NamespaceDefault, candidates, f)
		if err != nil {
			return nil, fmt.Errorf("filter %s %s: %w", f.FieldKey, op, err)
		}
		return intersect(candidates, matched), nil

	case op.IsNumeric():
		return p.applyNumericFilter(ctx, candidates, f, op)

	default:
		p.logger.Warn("ignoring filter with unknown operator",
			"field_key", f.FieldKey, "operator", string(f.Operator))
		return candidates, nil
	}
}

func (p *Planner) applyNumericFilter(ctx context.Context, candidates []int64, f model.RecordFilter, op model.FilterOperator) ([]int64, error) {
	operand, err := strconv.ParseFloat(strings.TrimSpace(f.Value), 64)
	if err != nil {
		// A non-numeric operand cannot match any stored value.
		return nil, nil
	}

	values, err := p.store.ListFieldValues(ctx, f.FieldKey, model.NamespaceDefault, candidates)
	if err != nil {
		return nil, fmt.Errorf("filter %s %s: %w", f.FieldKey, op, err)
	}

	matched := make(map[int64]bool, len(values))
	for _, v := range values {
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Value), 64)
		if err != nil {
			continue
		}
		switch op {
		case model.OpGreaterThan:
			if n > operand {
				matched[v.RecordID] = true
			}
		case model.OpLessThan:
			if n < operand {
				matched[v.RecordID] = true
			}
		}
	}

	var out []int64
	for _, id := range candidates {
		if matched[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// sortCandidates orders candidates in place by the named field's value,
// case-insensitively. Records without a value sort as the empty string.
// The sort is stable, so equal keys keep their recency order.
func (p *Planner) sortCandidates(ctx context.Context, candidates []int64, sortBy string, dir model.SortDirection) error {
	values, err := p.store.ListFieldValues(ctx, sortBy, model.NamespaceDefault, candidates)
	if err != nil {
		return fmt.Errorf("sort by %s: %w", sortBy, err)
	}

	keys := make(map[int64]string, len(values))
	for _, v := range values {
		keys[v.RecordID] = strings.ToLower(v.Value)
	}

	desc := dir.IsDescending()
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := keys[candidates[i]], keys[candidates[j]]
		if desc {
			return a > b
		}
		return a < b
	})
	return nil
}

// intersect keeps the ids in order that also appear in matched.
func intersect(order []int64, matched []int64) []int64 {
	set := make(map[int64]bool, len(matched))
	for _, id := range matched {
		set[id] = true
	}
	var out []int64
	for _, id := range order {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}
