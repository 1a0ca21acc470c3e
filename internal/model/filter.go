package model

import "strings"

// FilterOperator names a comparison in the dynamic-record filter pipeline.
// Operator strings are matched case-insensitively.
type FilterOperator string

const (
	OpEquals      FilterOperator = "EQUALS"
	OpContains    FilterOperator = "CONTAINS"
	OpStartsWith  FilterOperator = "STARTS_WITH"
	OpEndsWith    FilterOperator = "ENDS_WITH"
	OpGreaterThan FilterOperator = "GREATER_THAN"
	OpLessThan    FilterOperator = "LESS_THAN"
)

// Normalize upper-cases the operator so lookups are case-insensitive.
func (op FilterOperator) Normalize() FilterOperator {
	return FilterOperator(strings.ToUpper(string(op)))
}

// IsNumeric reports whether the operator compares values as numbers.
func (op FilterOperator) IsNumeric() bool {
	switch op.Normalize() {
	case OpGreaterThan, OpLessThan:
		return true
	}
	return false
}

// IsString reports whether the operator is one of the case-insensitive
// string comparisons the store can evaluate directly.
func (op FilterOperator) IsString() bool {
	switch op.Normalize() {
	case OpEquals, OpContains, OpStartsWith, OpEndsWith:
		return true
	}
	return false
}

// RecordFilter is one filter condition on a dynamic field, addressed by key.
type RecordFilter struct {
	FieldKey string         `json:"field_key"`
	Operator FilterOperator `json:"operator"`
	Value    string         `json:"value"`
}

// SortDirection orders a sorted result ascending or descending.
// Matched case-insensitively; anything other than DESC sorts ascending.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// IsDescending reports whether the direction sorts descending.
func (d SortDirection) IsDescending() bool {
	return strings.EqualFold(string(d), string(SortDesc))
}

// RecordQuery is a dynamic-record grid request: which template, which page,
// and how to filter and sort it, all expressed in terms of field keys.
type RecordQuery struct {
	MenuID        Menu           `json:"menu_id"`
	CompanyID     int64          `json:"company_id"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	Filters       []RecordFilter `json:"filters,omitempty"`
	SortBy        string         `json:"sort_by,omitempty"`
	SortDirection SortDirection  `json:"sort_direction,omitempty"`
}

// GenericOperator names a comparison in the generic entity query engine.
type GenericOperator string

const (
	GenOpEquals             GenericOperator = "EQUALS"
	GenOpNotEquals          GenericOperator = "NOT_EQUALS"
	GenOpContains           GenericOperator = "CONTAINS"
	GenOpStartsWith         GenericOperator = "STARTS_WITH"
	GenOpEndsWith           GenericOperator = "ENDS_WITH"
	GenOpGreaterThan        GenericOperator = "GREATER_THAN"
	GenOpGreaterThanOrEqual GenericOperator = "GREATER_THAN_OR_EQUAL"
	GenOpLessThan           GenericOperator = "LESS_THAN"
	GenOpLessThanOrEqual    GenericOperator = "LESS_THAN_OR_EQUAL"
	GenOpIn                 GenericOperator = "IN"
	GenOpIsNull             GenericOperator = "IS_NULL"
	GenOpIsNotNull          GenericOperator = "IS_NOT_NULL"
)

// Normalize upper-cases the operator so lookups are case-insensitive.
func (op GenericOperator) Normalize() GenericOperator {
	return GenericOperator(strings.ToUpper(string(op)))
}

// GenericFilter is one filter condition on a native entity column.
type GenericFilter struct {
	Field    string          `json:"field"`
	Operator GenericOperator `json:"operator"`
	Value    string          `json:"value"`
}

// GenericQuery addresses a statically-typed entity by name and asks for a
// filtered, sorted page of it. The engine always conjoins an ownership
// predicate; callers cannot opt out of it.
type GenericQuery struct {
	EntityName    string          `json:"entity_name"`
	Filters       []GenericFilter `json:"filters,omitempty"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	SortBy        string          `json:"sort_by,omitempty"`
	SortDirection SortDirection   `json:"sort_direction,omitempty"`
}
