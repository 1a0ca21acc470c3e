// Package eav reconstructs row-shaped records from the field/value store and
// plans dynamic grid queries over them.
package eav

import "github.com/groblegark/fieldgrid/internal/model"

// Project pivots a flat value list into one record per id, in the order of
// recordIDs. Every record carries a non-nil field map; a record with no
// values projects to an empty map. When duplicate values address the same
// (record, field) pair, the last one wins.
func Project(recordIDs []int64, values []*model.Value) []*model.Record {
	byRecord := make(map[int64]map[string]string, len(recordIDs))
	for _, id := range recordIDs {
		byRecord[id] = make(map[string]string)
	}
	for _, v := range values {
		fields, ok := byRecord[v.RecordID]
		if !ok {
			continue
		}
		fields[v.FieldKey] = v.Value
	}

	records := make([]*model.Record, 0, len(recordIDs))
	for _, id := range recordIDs {
		records = append(records, &model.Record{RecordID: id, Fields: byRecord[id]})
	}
	return records
}
