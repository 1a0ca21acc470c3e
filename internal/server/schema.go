package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/groblegark/fieldgrid/internal/events"
	"github.com/groblegark/fieldgrid/internal/keygen"
	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// keyGenAttempts bounds the generate-retry loop on field key collisions.
const keyGenAttempts = 5

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// ProvisionTemplates creates one template per known menu for a company.
// Superuser only. All templates are created in a single transaction so a
// company is never left partially provisioned.
func (s *Server) ProvisionTemplates(ctx context.Context, caller model.Identity, companyID int64) ([]*model.Template, error) {
	if !caller.IsSuperuser() {
		return nil, model.Unauthorizedf("provisioning requires the superuser role")
	}

	templates := make([]*model.Template, 0, len(model.Menus()))
	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		for _, menu := range model.Menus() {
			t := &model.Template{
				MenuID:        menu,
				CompanyID:     companyID,
				CreatedBy:     caller.Username,
				LastUpdatedBy: caller.Username,
			}
			if err := tx.CreateTemplate(ctx, t); err != nil {
				if isUniqueViolation(err) {
					return model.Validationf("company %d is already provisioned for menu %d", companyID, menu)
				}
				return fmt.Errorf("create template for menu %d: %w", menu, err)
			}
			templates = append(templates, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicTemplateProvisioned, events.TemplateProvisioned{
		CompanyID: companyID,
		MenuIDs:   model.Menus(),
		Actor:     caller.Username,
	})

	return templates, nil
}

// AddFields attaches new field definitions to the template for
// (menu, companyID). Requires an administrative role, plus company membership
// unless the caller is a superuser. Keys are generated when absent; a key
// collision triggers a bounded regenerate-and-retry loop. Returns the saved
// fields in input order.
func (s *Server) AddFields(ctx context.Context, caller model.Identity, menu model.Menu, companyID int64, fields []*model.Field) ([]*model.Field, error) {
	if !menu.IsValid() {
		return nil, model.Validationf("unknown menu %d", menu)
	}
	if !caller.IsAdmin() {
		return nil, model.Unauthorizedf("adding fields requires an administrative role")
	}
	if !caller.IsSuperuser() && !caller.MemberOf(companyID) {
		return nil, model.Unauthorizedf("user %s is not a member of company %d", caller.Username, companyID)
	}
	if err := model.ValidateFields(fields); err != nil {
		return nil, err
	}

	tpl, err := s.store.GetTemplate(ctx, menu, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NotFoundf("no template for menu %d in company %d", menu, companyID)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	for _, f := range fields {
		f.TemplateID = tpl.ID
		f.CreatedBy = caller.Username
		f.LastUpdatedBy = caller.Username
		if err := s.createFieldWithRetry(ctx, f); err != nil {
			return nil, err
		}
		s.publish(ctx, events.TopicFieldCreated, events.FieldCreated{Field: f})
	}

	return fields, nil
}

// createFieldWithRetry persists a field, regenerating its key on a uniqueness
// collision. A caller-supplied key is never regenerated; a collision on one
// is the caller's error.
func (s *Server) createFieldWithRetry(ctx context.Context, f *model.Field) error {
	supplied := f.Key != ""

	for attempt := 0; attempt < keyGenAttempts; attempt++ {
		if !supplied {
			key, err := keygen.NewFieldKey()
			if err != nil {
				return fmt.Errorf("generate field key: %w", err)
			}
			f.Key = key
		}

		err := s.store.CreateField(ctx, f)
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return fmt.Errorf("create field %q: %w", f.Label, err)
		}
		if supplied {
			return model.Validationf("field key %q already exists", f.Key)
		}

		s.logger.Warn("field key collision, regenerating", "key", f.Key, "attempt", attempt+1)
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}

	return model.Systemf("field key generation failed after %d attempts", keyGenAttempts)
}

// RemoveFields deletes field definitions by key, cascading to their values.
// Superuser only. Idempotent per key; all deletions run in one transaction.
func (s *Server) RemoveFields(ctx context.Context, caller model.Identity, keys []string) error {
	if !caller.IsSuperuser() {
		return model.Unauthorizedf("removing fields requires the superuser role")
	}
	if len(keys) == 0 {
		return model.Validationf("at least one field key is required")
	}

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		for _, key := range keys {
			if err := tx.DeleteFieldByKey(ctx, key); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue
				}
				return fmt.Errorf("delete field %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		s.publish(ctx, events.TopicFieldRemoved, events.FieldRemoved{FieldKey: key, Actor: caller.Username})
	}

	return nil
}

// GetField resolves a field definition by its key.
func (s *Server) GetField(ctx context.Context, key string) (*model.Field, error) {
	f, err := s.store.GetFieldByKey(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NotFoundf("unknown field key %q", key)
		}
		return nil, fmt.Errorf("get field: %w", err)
	}
	return f, nil
}

// ListFields returns the grid column definitions for (menu, companyID).
func (s *Server) ListFields(ctx context.Context, caller model.Identity, menu model.Menu, companyID int64) ([]*model.Field, error) {
	if !menu.IsValid() {
		return nil, model.Validationf("unknown menu %d", menu)
	}
	if !caller.IsSuperuser() && !caller.MemberOf(companyID) {
		return nil, model.Unauthorizedf("user %s is not a member of company %d", caller.Username, companyID)
	}

	tpl, err := s.store.GetTemplate(ctx, menu, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NotFoundf("no template for menu %d in company %d", menu, companyID)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	fields, err := s.store.ListFields(ctx, tpl.ID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	return fields, nil
}

// GetSearchConfig returns the designated search-key field per menu for a
// company. Menus without a provisioned template or a flagged search field
// are left empty.
func (s *Server) GetSearchConfig(ctx context.Context, caller model.Identity, companyID int64) (*model.SearchConfig, error) {
	if !caller.IsSuperuser() && !caller.MemberOf(companyID) {
		return nil, model.Unauthorizedf("user %s is not a member of company %d", caller.Username, companyID)
	}

	cfg := &model.SearchConfig{}
	for _, menu := range model.Menus() {
		tpl, err := s.store.GetTemplate(ctx, menu, companyID)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get template for menu %d: %w", menu, err)
		}

		key, err := s.store.GetSearchFieldKey(ctx, tpl.ID)
		if err != nil {
			return nil, fmt.Errorf("get search key for menu %d: %w", menu, err)
		}

		switch menu {
		case model.MenuLead:
			cfg.LeadSearch = key
		case model.MenuContact:
			cfg.ContactSearch = key
		case model.MenuMerchant:
			cfg.MerchantSearch = key
		}
	}

	return cfg, nil
}
