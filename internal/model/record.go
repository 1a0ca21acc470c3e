package model

// Record is one reconstructed grid row: a record id plus the field values
// projected onto it, keyed by field key. Records with no values yet carry an
// empty (non-nil) map.
type Record struct {
	RecordID int64             `json:"record_id"`
	Fields   map[string]string `json:"fields"`
}

// RecordPage is one page of projected records plus pagination metadata.
type RecordPage struct {
	Records      []*Record `json:"records"`
	TotalRecords int       `json:"total_records"`
	Page         int       `json:"page"`
	Size         int       `json:"size"`
	TotalPages   int       `json:"total_pages"`
}

// GenericPage is the page envelope returned by the generic entity query
// engine.
type GenericPage struct {
	Data         []any `json:"data"`
	TotalRecords int64 `json:"total_records"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	TotalPages   int   `json:"total_pages"`
	First        bool  `json:"first"`
	Last         bool  `json:"last"`
	HasNext      bool  `json:"has_next"`
	HasPrevious  bool  `json:"has_previous"`
}
