package service

import (
	"context"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

// fieldChange is a validated custom field write waiting to be applied.
type fieldChange struct {
	value domain.CustomFieldValue
}

// CustomFieldStore validates and upserts per-(task, field) values. It only
// runs inside a transaction owned by its caller.
type CustomFieldStore struct{}

func NewCustomFieldStore() *CustomFieldStore {
	return &CustomFieldStore{}
}

// Prepare resolves the field in the task's workspace and encodes input into
// the single representation its type allows. Nothing is written.
func (s *CustomFieldStore) Prepare(ctx context.Context, repos ports.Repositories, task domain.Task, input domain.CustomFieldInput) (fieldChange, error) {
	field, err := repos.CustomFields().GetField(ctx, task.WorkspaceID, input.FieldID)
	if err != nil {
		return fieldChange{}, err
	}

	value, err := field.Encode(task.ID, input)
	if err != nil {
		return fieldChange{}, err
	}

	return fieldChange{value: value}, nil
}

// Apply upserts the change keyed by (task, field) and returns the value that
// was stored before, nil when there was none, alongside the new one.
func (s *CustomFieldStore) Apply(ctx context.Context, repos ports.Repositories, change fieldChange) (*domain.CustomFieldValue, domain.CustomFieldValue, error) {
	before, err := repos.CustomFields().GetValue(ctx, change.value.TaskID, change.value.FieldID)
	if err != nil {
		return nil, domain.CustomFieldValue{}, err
	}

	after, err := repos.CustomFields().UpsertValue(ctx, change.value)
	if err != nil {
		return nil, domain.CustomFieldValue{}, err
	}

	return before, after, nil
}
