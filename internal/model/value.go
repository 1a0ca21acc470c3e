package model

import "time"

// Namespace selects which of the two parallel value stores a value lives in:
// tenant-wide defaults set by administrators, or per-user overrides.
type Namespace string

const (
	NamespaceDefault Namespace = "default"
	NamespaceUser    Namespace = "user"
)

// String returns the string representation of the namespace.
func (n Namespace) String() string {
	return string(n)
}

// IsValid checks whether the namespace is a known value.
func (n Namespace) IsValid() bool {
	return n == NamespaceDefault || n == NamespaceUser
}

// Value binds one field to one record with a scalar string payload.
// At most one value exists per (field, record, namespace); writes are
// upsert-by-(field, record).
type Value struct {
	ID        int64     `json:"id"`
	FieldID   int64     `json:"field_id"`
	FieldKey  string    `json:"field_key,omitempty"` // populated on reads that join fields
	RecordID  int64     `json:"record_id"`
	Namespace Namespace `json:"namespace"`
	Value     string    `json:"value"`

	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}

// ValueEntry is one (field key, payload) pair in a value submission.
type ValueEntry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	IsDefault bool   `json:"is_default"`
}

// EntryNamespace returns the namespace the entry addresses.
func (e ValueEntry) EntryNamespace() Namespace {
	if e.IsDefault {
		return NamespaceDefault
	}
	return NamespaceUser
}
