package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	TemplateCount int       `json:"template_count"`
	FieldCount    int       `json:"field_count"`
	ValueCount    int       `json:"value_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every template, its field definitions, and all values in
// both namespaces as JSONL to w. Templates come in store order; fields and
// values are grouped under their template.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	var fields []*model.Field
	var values []*model.Value
	for _, t := range templates {
		tf, err := s.ListFields(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list fields for template %d: %w", t.ID, err)
		}
		fields = append(fields, tf...)

		for _, ns := range []model.Namespace{model.NamespaceDefault, model.NamespaceUser} {
			tv, err := s.ListValuesForRecords(ctx, t.ID, ns, nil)
			if err != nil {
				return fmt.Errorf("list %s values for template %d: %w", ns, t.ID, err)
			}
			values = append(values, tv...)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		TemplateCount: len(templates),
		FieldCount:    len(fields),
		ValueCount:    len(values),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, t := range templates {
		if err := enc.Encode(record{Type: "template", Data: t}); err != nil {
			return fmt.Errorf("encode template %d: %w", t.ID, err)
		}
	}
	for _, f := range fields {
		if err := enc.Encode(record{Type: "field", Data: f}); err != nil {
			return fmt.Errorf("encode field %s: %w", f.Key, err)
		}
	}
	for _, v := range values {
		if err := enc.Encode(record{Type: "value", Data: v}); err != nil {
			return fmt.Errorf("encode value %d: %w", v.ID, err)
		}
	}

	return nil
}
