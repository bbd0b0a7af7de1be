package domain

type AutomationActionType string

const AutomationReplaceAssignees AutomationActionType = "replace_assignees"

type AutomationAction struct {
	Type    AutomationActionType `yaml:"type"`
	UserIDs []string             `yaml:"user_ids"`
}

// AutomationRule fires when FieldID transitions to OptionID.
type AutomationRule struct {
	Name     string           `yaml:"name"`
	FieldID  string           `yaml:"field_id"`
	OptionID string           `yaml:"option_id"`
	Action   AutomationAction `yaml:"action"`
}

// Triggered reports whether the change from before to after enters the
// rule's option. before may be nil when no value was stored.
func (r AutomationRule) Triggered(before *CustomFieldValue, after CustomFieldValue) bool {
	if after.FieldID != r.FieldID || !after.HasOption(r.OptionID) {
		return false
	}
	return before == nil || !before.HasOption(r.OptionID)
}
