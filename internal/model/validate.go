package model

// ValidateField checks a field definition before it is persisted.
// The key may be empty; one is generated at save time.
func ValidateField(f *Field) error {
	if f == nil {
		return Validationf("field is required")
	}
	if f.Label == "" {
		return Validationf("field label is required")
	}
	if !f.Type.IsValid() {
		return Validationf("unknown field type %q", f.Type)
	}
	if f.Type.IsChoice() && len(f.Options) == 0 {
		return Validationf("field %q of type %s requires options", f.Label, f.Type)
	}
	if !f.Type.IsChoice() && len(f.Options) > 0 {
		return Validationf("field %q of type %s does not take options", f.Label, f.Type)
	}
	return nil
}

// ValidateFields validates a batch of field definitions, failing on the
// first invalid one.
func ValidateFields(fields []*Field) error {
	if len(fields) == 0 {
		return Validationf("at least one field is required")
	}
	for _, f := range fields {
		if err := ValidateField(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEntries checks a value submission batch.
func ValidateEntries(entries []ValueEntry) error {
	if len(entries) == 0 {
		return Validationf("at least one value is required")
	}
	for _, e := range entries {
		if e.Key == "" {
			return Validationf("value entry key is required")
		}
	}
	return nil
}
