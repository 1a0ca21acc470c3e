package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/groblegark/fieldgrid/internal/events"
	"github.com/groblegark/fieldgrid/internal/model"
	"github.com/groblegark/fieldgrid/internal/store"
)

// SubmitValues upserts a batch of field values for a record. When recordID is
// zero, a backing business row is created first and its id is used for every
// entry. Returns the record id and whether it was newly created.
func (s *Server) SubmitValues(ctx context.Context, caller model.Identity, menu model.Menu, recordID int64, entries []model.ValueEntry) (int64, bool, error) {
	if !menu.IsValid() {
		return 0, false, model.Validationf("unknown menu %d", menu)
	}
	if err := model.ValidateEntries(entries); err != nil {
		return 0, false, err
	}

	// Resolve every field key before writing anything so an unknown key
	// fails the whole submission.
	fields := make([]*model.Field, len(entries))
	for i, e := range entries {
		f, err := s.store.GetFieldByKey(ctx, e.Key)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, false, model.NotFoundf("unknown field key %q", e.Key)
			}
			return 0, false, fmt.Errorf("get field %q: %w", e.Key, err)
		}
		fields[i] = f
	}

	created := false
	if recordID <= 0 {
		id, err := s.store.CreateBusinessRecord(ctx, menu, caller.Username)
		if err != nil {
			return 0, false, fmt.Errorf("create record for menu %d: %w", menu, err)
		}
		recordID = id
		created = true
	}

	for i, e := range entries {
		v := &model.Value{
			FieldID:       fields[i].ID,
			RecordID:      recordID,
			Namespace:     e.EntryNamespace(),
			Value:         e.Value,
			CreatedBy:     caller.Username,
			LastUpdatedBy: caller.Username,
		}
		if err := s.store.UpsertValue(ctx, v); err != nil {
			return 0, false, fmt.Errorf("upsert value for field %q: %w", e.Key, err)
		}
		s.publish(ctx, events.TopicValueUpserted, events.ValueUpserted{
			FieldKey:  e.Key,
			RecordID:  recordID,
			Namespace: v.Namespace,
			Actor:     caller.Username,
		})
	}

	if created {
		s.publish(ctx, events.TopicRecordCreated, events.RecordCreated{
			MenuID:   menu,
			RecordID: recordID,
			Actor:    caller.Username,
		})
	}

	return recordID, created, nil
}

// DeleteRecord removes a business record and every value bound to it, in both
// namespaces, inside one transaction.
func (s *Server) DeleteRecord(ctx context.Context, caller model.Identity, menu model.Menu, recordID int64) error {
	if !menu.IsValid() {
		return model.Validationf("unknown menu %d", menu)
	}

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if err := tx.DeleteValuesForRecord(ctx, menu, recordID); err != nil {
			return fmt.Errorf("delete values for record %d: %w", recordID, err)
		}
		if err := tx.DeleteBusinessRecord(ctx, menu, recordID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.NotFoundf("no record %d for menu %d", recordID, menu)
			}
			return fmt.Errorf("delete record %d: %w", recordID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.TopicRecordDeleted, events.RecordDeleted{
		MenuID:   menu,
		RecordID: recordID,
		Actor:    caller.Username,
	})

	return nil
}
