package domain

import "fmt"

type CustomFieldType string

const (
	CustomFieldText     CustomFieldType = "text"
	CustomFieldDropdown CustomFieldType = "dropdown"
	CustomFieldLabels   CustomFieldType = "labels"
)

func (t CustomFieldType) Valid() bool {
	switch t {
	case CustomFieldText, CustomFieldDropdown, CustomFieldLabels:
		return true
	}
	return false
}

type CustomField struct {
	ID          string
	WorkspaceID string
	Name        string
	Type        CustomFieldType
	Options     []CustomFieldOption
}

type CustomFieldOption struct {
	ID        string
	Value     string
	Color     string
	SortOrder int
}

// HasOption reports whether optionID belongs to the field.
func (f CustomField) HasOption(optionID string) bool {
	for _, o := range f.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// CustomFieldValue is the value stored for one (task, field) pair. Exactly
// one of Value, OptionID or OptionIDs is meaningful, chosen by Type.
type CustomFieldValue struct {
	ID        string
	TaskID    string
	FieldID   string
	Type      CustomFieldType
	Value     *string
	OptionID  *string
	OptionIDs []string
}

// HasOption reports whether the value currently selects optionID.
func (v CustomFieldValue) HasOption(optionID string) bool {
	switch v.Type {
	case CustomFieldDropdown:
		return v.OptionID != nil && *v.OptionID == optionID
	case CustomFieldLabels:
		for _, id := range v.OptionIDs {
			if id == optionID {
				return true
			}
		}
	}
	return false
}

// CustomFieldInput is the client payload for one field. OptionIDsSet tells
// an explicit empty label set apart from an absent one.
type CustomFieldInput struct {
	FieldID      string
	Value        *string
	OptionID     *string
	OptionIDs    []string
	OptionIDsSet bool
}

// Encode validates in against the field definition and returns the single
// representation that matches the field type.
func (f CustomField) Encode(taskID string, in CustomFieldInput) (CustomFieldValue, error) {
	if !f.Type.Valid() {
		return CustomFieldValue{}, fmt.Errorf("%w: unsupported field type %q", ErrInvalidCustomFieldValue, f.Type)
	}

	value := CustomFieldValue{TaskID: taskID, FieldID: f.ID, Type: f.Type}

	switch f.Type {
	case CustomFieldText:
		if in.OptionID != nil || in.OptionIDsSet {
			return CustomFieldValue{}, fmt.Errorf("%w: text field %s takes a value only", ErrInvalidCustomFieldValue, f.ID)
		}
		value.Value = in.Value
	case CustomFieldDropdown:
		if in.Value != nil || in.OptionIDsSet {
			return CustomFieldValue{}, fmt.Errorf("%w: dropdown field %s takes an optionId only", ErrInvalidCustomFieldValue, f.ID)
		}
		if in.OptionID != nil && !f.HasOption(*in.OptionID) {
			return CustomFieldValue{}, fmt.Errorf("%w: option %s does not belong to field %s", ErrInvalidCustomFieldValue, *in.OptionID, f.ID)
		}
		value.OptionID = in.OptionID
	case CustomFieldLabels:
		if in.Value != nil || in.OptionID != nil {
			return CustomFieldValue{}, fmt.Errorf("%w: labels field %s takes optionIds only", ErrInvalidCustomFieldValue, f.ID)
		}
		ids := make([]string, 0, len(in.OptionIDs))
		seen := make(map[string]struct{}, len(in.OptionIDs))
		for _, id := range in.OptionIDs {
			if !f.HasOption(id) {
				return CustomFieldValue{}, fmt.Errorf("%w: option %s does not belong to field %s", ErrInvalidCustomFieldValue, id, f.ID)
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		value.OptionIDs = ids
	}

	return value, nil
}
