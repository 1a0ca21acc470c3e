package model

import "time"

// Lead is the backing business row for menu 4 records. The dynamic-schema
// layer only ever touches its id; the native columns exist for the generic
// query engine and for the e-signature workflow outside this service.
type Lead struct {
	ID            int64     `json:"id"`
	IsSigned      bool      `json:"is_signed"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}

// Contact is the backing business row for menu 5 records.
type Contact struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}

// Merchant is the backing business row for menu 6 records.
type Merchant struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}
