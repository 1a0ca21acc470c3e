package events

import (
	"context"

	"github.com/groblegark/fieldgrid/internal/model"
)

// Event topic constants
const (
	TopicFieldCreated        = "fieldgrid.field.created"
	TopicFieldRemoved        = "fieldgrid.field.removed"
	TopicValueUpserted       = "fieldgrid.value.upserted"
	TopicRecordCreated       = "fieldgrid.record.created"
	TopicRecordDeleted       = "fieldgrid.record.deleted"
	TopicTemplateProvisioned = "fieldgrid.template.provisioned"
)

// Event types

type FieldCreated struct {
	Field *model.Field `json:"field"`
}

type FieldRemoved struct {
	FieldKey string `json:"field_key"`
	Actor    string `json:"actor,omitempty"`
}

type ValueUpserted struct {
	FieldKey  string          `json:"field_key"`
	RecordID  int64           `json:"record_id"`
	Namespace model.Namespace `json:"namespace"`
	Actor     string          `json:"actor,omitempty"`
}

type RecordCreated struct {
	MenuID   model.Menu `json:"menu_id"`
	RecordID int64      `json:"record_id"`
	Actor    string     `json:"actor,omitempty"`
}

type RecordDeleted struct {
	MenuID   model.Menu `json:"menu_id"`
	RecordID int64      `json:"record_id"`
	Actor    string     `json:"actor,omitempty"`
}

type TemplateProvisioned struct {
	CompanyID int64        `json:"company_id"`
	MenuIDs   []model.Menu `json:"menu_ids"`
	Actor     string       `json:"actor,omitempty"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
