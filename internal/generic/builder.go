package generic

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// DefaultPageSize is used when a query does not name a page size.
const DefaultPageSize = 10

// buildQuery turns a generic filter request into a data/count SQL pair. The
// ownership predicate on created_by is always the first condition and cannot
// be removed by the caller. Filters naming an unknown column, carrying an
// operand the column type cannot coerce, or using an unknown operator are
// dropped; the remaining filters still apply.
func buildQuery(d *Descriptor, q model.GenericQuery, owner string, logger *slog.Logger) store.EntityQuery {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	whereClauses = append(whereClauses, "created_by = "+nextArg())
	args = append(args, owner)

	for _, f := range q.Filters {
		col, ok := d.Column(f.Field)
		if !ok {
			logger.Warn("dropping filter on unknown column",
				"entity", d.Name, "field", f.Field)
			continue
		}
		clause, clauseArgs, ok := buildPredicate(col, f, nextArg)
		if !ok {
			logger.Warn("dropping filter",
				"entity", d.Name, "field", f.Field, "operator", string(f.Operator))
			continue
		}
		whereClauses = append(whereClauses, clause)
		args = append(args, clauseArgs...)
	}

	whereSQL := " WHERE " + strings.Join(whereClauses, " AND ")

	countSQL := "SELECT COUNT(*) FROM " + d.Table + whereSQL
	countArgs := append([]any(nil), args...)

	dataSQL := "SELECT " + d.SelectList() + " FROM " + d.Table + whereSQL +
		" ORDER BY " + sortClause(d, q.SortBy, q.SortDirection)

	size := q.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	page := q.Page
	if page < 0 {
		page = 0
	}
	dataSQL += " LIMIT " + nextArg()
	args = append(args, size)
	dataSQL += " OFFSET " + nextArg()
	args = append(args, page*size)

	return store.EntityQuery{
		DataSQL:   dataSQL,
		DataArgs:  args,
		CountSQL:  countSQL,
		CountArgs: countArgs,
		Scan:      d.Scan,
	}
}

// buildPredicate renders one filter into a SQL fragment. The third return is
// false when the filter must be dropped. nextArg is only called after the
// operand coerces, so a dropped filter never consumes a placeholder.
func buildPredicate(col Column, f model.GenericFilter, nextArg func() string) (string, []any, bool) {
	switch f.Operator.Normalize() {
	case model.GenOpIsNull:
		return col.SQL + " IS NULL", nil, true
	case model.GenOpIsNotNull:
		return col.SQL + " IS NOT NULL", nil, true

	case model.GenOpEquals, model.GenOpNotEquals,
		model.GenOpGreaterThan, model.GenOpGreaterThanOrEqual,
		model.GenOpLessThan, model.GenOpLessThanOrEqual:
		v, err := coerce(col.Type, f.Value)
		if err != nil {
			return "", nil, false
		}
		op := comparisonSQL[f.Operator.Normalize()]
		return col.SQL + " " + op + " " + nextArg(), []any{v}, true

	case model.GenOpContains:
		if col.Type != TypeString {
			return "", nil, false
		}
		return col.SQL + " ILIKE '%' || " + nextArg() + " || '%'", []any{f.Value}, true
	case model.GenOpStartsWith:
		if col.Type != TypeString {
			return "", nil, false
		}
		return col.SQL + " ILIKE " + nextArg() + " || '%'", []any{f.Value}, true
	case model.GenOpEndsWith:
		if col.Type != TypeString {
			return "", nil, false
		}
		return col.SQL + " ILIKE '%' || " + nextArg(), []any{f.Value}, true

	case model.GenOpIn:
		parts := strings.Split(f.Value, ",")
		vals := make([]any, 0, len(parts))
		for _, part := range parts {
			v, err := coerce(col.Type, strings.TrimSpace(part))
			if err != nil {
				return "", nil, false
			}
			vals = append(vals, v)
		}
		placeholders := make([]string, len(vals))
		for i := range vals {
			placeholders[i] = nextArg()
		}
		return col.SQL + " IN (" + strings.Join(placeholders, ", ") + ")", vals, true
	}

	return "", nil, false
}

var comparisonSQL = map[model.GenericOperator]string{
	model.GenOpEquals:             "=",
	model.GenOpNotEquals:          "<>",
	model.GenOpGreaterThan:        ">",
	model.GenOpGreaterThanOrEqual: ">=",
	model.GenOpLessThan:           "<",
	model.GenOpLessThanOrEqual:    "<=",
}

// coerce converts a filter operand into the column's native type.
func coerce(t ColumnType, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch t {
	case TypeString:
		return raw, nil
	case TypeInt:
		return strconv.ParseInt(raw, 10, 64)
	case TypeFloat:
		return strconv.ParseFloat(raw, 64)
	case TypeBool:
		return strconv.ParseBool(raw)
	case TypeTimestamp:
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts, nil
		}
		return time.Parse("2006-01-02", raw)
	}
	return nil, fmt.Errorf("unknown column type %d", t)
}

// sortClause renders the ORDER BY expression. Unknown sort columns fall back
// to id DESC, the recency order.
func sortClause(d *Descriptor, sortBy string, dir model.SortDirection) string {
	col, ok := d.Column(sortBy)
	if !ok {
		return "id DESC"
	}
	if dir.IsDescending() {
		return col.SQL + " DESC"
	}
	return col.SQL + " ASC"
}
