package model

import "time"

// Menu identifies an entity type that a template is scoped to.
// The ids match the seeded menu table.
type Menu int64

const (
	MenuLead     Menu = 4
	MenuContact  Menu = 5
	MenuMerchant Menu = 6
)

// IsValid checks whether the menu is a known value.
func (m Menu) IsValid() bool {
	switch m {
	case MenuLead, MenuContact, MenuMerchant:
		return true
	}
	return false
}

// Menus lists every known menu, in provisioning order.
func Menus() []Menu {
	return []Menu{MenuLead, MenuContact, MenuMerchant}
}

// FieldType identifies the widget/value type of a field definition.
type FieldType string

const (
	FieldTypeText           FieldType = "TEXT"
	FieldTypeNumber         FieldType = "NUMBER"
	FieldTypeEmail          FieldType = "EMAIL"
	FieldTypePhoneNumber    FieldType = "PHONE_NUMBER"
	FieldTypeDropdown       FieldType = "DROPDOWN"
	FieldTypeMultiselection FieldType = "MULTISELECTION"
	FieldTypeCheckbox       FieldType = "CHECKBOX"
	FieldTypeRadiobutton    FieldType = "RADIOBUTTON"
	FieldTypeTextBox        FieldType = "TEXT_BOX"
)

// String returns the string representation of the field type.
func (t FieldType) String() string {
	return string(t)
}

// FieldTypes lists every known field type.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText, FieldTypeNumber, FieldTypeEmail, FieldTypePhoneNumber,
		FieldTypeDropdown, FieldTypeMultiselection, FieldTypeCheckbox,
		FieldTypeRadiobutton, FieldTypeTextBox,
	}
}

// IsValid checks whether the field type is a known value.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeEmail, FieldTypePhoneNumber,
		FieldTypeDropdown, FieldTypeMultiselection, FieldTypeCheckbox,
		FieldTypeRadiobutton, FieldTypeTextBox:
		return true
	}
	return false
}

// IsChoice reports whether the field type selects from a fixed option set
// and therefore requires a non-empty Options list.
func (t FieldType) IsChoice() bool {
	switch t {
	case FieldTypeDropdown, FieldTypeMultiselection, FieldTypeCheckbox, FieldTypeRadiobutton:
		return true
	}
	return false
}

// Template binds a menu to a company and owns that pair's field definitions.
// At most one template exists per (menu, company).
type Template struct {
	ID            int64     `json:"id"`
	MenuID        Menu      `json:"menu_id"`
	CompanyID     int64     `json:"company_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}

// Field is a named, typed column definition belonging to a template.
// Key is opaque, generated, and globally unique; once values reference it,
// it never changes.
type Field struct {
	ID         int64               `json:"id"`
	TemplateID int64               `json:"template_id"`
	Key        string              `json:"key"`
	Label      string              `json:"label"`
	Type       FieldType           `json:"type"`
	Options    []map[string]string `json:"options,omitempty"`
	SearchKey  bool                `json:"search_key,omitempty"`

	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	CreatedBy     string    `json:"created_by,omitempty"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}

// SearchConfig maps each menu to the key of its designated search field,
// used for cross-entity lookups.
type SearchConfig struct {
	LeadSearch     string `json:"lead_search,omitempty"`
	ContactSearch  string `json:"contact_search,omitempty"`
	MerchantSearch string `json:"merchant_search,omitempty"`
}
