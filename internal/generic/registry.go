// Package generic implements the statically-typed entity query engine: a
// registry of entity descriptors and a SQL builder that turns filter lists
// into parameterized queries, always scoped to the calling user's own rows.
package generic

import (
	"database/sql"
	"strings"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// ColumnType drives per-column value coercion when binding filter operands.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeTimestamp
)

// Column maps an API-visible field name onto a table column.
type Column struct {
	Name string // name used in filter and sort requests
	SQL  string // column expression in the table
	Type ColumnType
}

// Descriptor describes one queryable entity: its table, its filterable
// columns, and how to scan a row into the entity value. Descriptors are
// registered statically; no reflection is involved.
type Descriptor struct {
	Name    string
	Table   string
	Columns []Column
	Scan    func(store.RowScanner) (any, error)
}

// Column resolves an API field name case-insensitively. The second return is
// false for names the descriptor does not expose.
func (d *Descriptor) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Column{}, false
}

// SelectList returns the comma-separated column list for the data query.
func (d *Descriptor) SelectList() string {
	parts := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		parts[i] = c.SQL
	}
	return strings.Join(parts, ", ")
}

// Registry holds the queryable entity descriptors keyed by lower-cased name.
type Registry struct {
	descriptors map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Register adds a descriptor. Later registrations replace earlier ones with
// the same name.
func (r *Registry) Register(d *Descriptor) {
	r.descriptors[strings.ToLower(d.Name)] = d
}

// Lookup resolves an entity name case-insensitively.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.descriptors[strings.ToLower(name)]
	return d, ok
}

// DefaultRegistry returns a registry with the built-in business entities.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(leadDescriptor())
	r.Register(contactDescriptor())
	r.Register(merchantDescriptor())
	return r
}

func auditColumns() []Column {
	return []Column{
		{Name: "created_at", SQL: "created_at", Type: TypeTimestamp},
		{Name: "updated_at", SQL: "updated_at", Type: TypeTimestamp},
		{Name: "created_by", SQL: "created_by", Type: TypeString},
		{Name: "last_updated_by", SQL: "last_updated_by", Type: TypeString},
	}
}

func leadDescriptor() *Descriptor {
	return &Descriptor{
		Name:  "lead",
		Table: "leads",
		Columns: append([]Column{
			{Name: "id", SQL: "id", Type: TypeInt},
			{Name: "is_signed", SQL: "is_signed", Type: TypeBool},
			{Name: "is_active", SQL: "is_active", Type: TypeBool},
		}, auditColumns()...),
		Scan: func(row store.RowScanner) (any, error) {
			var l model.Lead
			var createdBy, lastUpdatedBy sql.NullString
			err := row.Scan(&l.ID, &l.IsSigned, &l.IsActive,
				&l.CreatedAt, &l.UpdatedAt, &createdBy, &lastUpdatedBy)
			if err != nil {
				return nil, err
			}
			l.CreatedBy = createdBy.String
			l.LastUpdatedBy = lastUpdatedBy.String
			return &l, nil
		},
	}
}

func contactDescriptor() *Descriptor {
	return &Descriptor{
		Name:  "contact",
		Table: "contacts",
		Columns: append([]Column{
			{Name: "id", SQL: "id", Type: TypeInt},
		}, auditColumns()...),
		Scan: func(row store.RowScanner) (any, error) {
			var c model.Contact
			var createdBy, lastUpdatedBy sql.NullString
			err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &createdBy, &lastUpdatedBy)
			if err != nil {
				return nil, err
			}
			c.CreatedBy = createdBy.String
			c.LastUpdatedBy = lastUpdatedBy.String
			return &c, nil
		},
	}
}

func merchantDescriptor() *Descriptor {
	return &Descriptor{
		Name:  "merchant",
		Table: "merchants",
		Columns: append([]Column{
			{Name: "id", SQL: "id", Type: TypeInt},
			{Name: "name", SQL: "name", Type: TypeString},
		}, auditColumns()...),
		Scan: func(row store.RowScanner) (any, error) {
			var m model.Merchant
			var name, createdBy, lastUpdatedBy sql.NullString
			err := row.Scan(&m.ID, &name, &m.CreatedAt, &m.UpdatedAt, &createdBy, &lastUpdatedBy)
			if err != nil {
				return nil, err
			}
			m.Name = name.String
			m.CreatedBy = createdBy.String
			m.LastUpdatedBy = lastUpdatedBy.String
			return &m, nil
		},
	}
}
