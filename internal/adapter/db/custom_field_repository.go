package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const getFieldQuery = `
SELECT id, workspace_id, name, type
FROM custom_fields
WHERE id = ? AND workspace_id = ?
`

const listFieldOptionsQuery = `
SELECT id, value, color, sort_order
FROM custom_field_options
WHERE field_id = ?
ORDER BY sort_order, id
`

const selectValueColumns = `
SELECT
  v.id,
  v.task_id,
  v.field_id,
  f.type,
  v.value,
  v.option_id,
  v.option_ids
FROM task_custom_field_values v
JOIN custom_fields f ON f.id = v.field_id
`

const getValueQuery = selectValueColumns + `WHERE v.task_id = ? AND v.field_id = ?`

const listValuesQuery = selectValueColumns + `WHERE v.task_id = ? ORDER BY v.field_id`

const updateValueQuery = `
UPDATE task_custom_field_values
SET value = ?, option_id = ?, option_ids = ?, updated_at = ?
WHERE id = ?
`

const insertValueQuery = `
INSERT INTO task_custom_field_values (id, task_id, field_id, value, option_id, option_ids, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CustomFieldRepository struct {
	db sqlx.ExtContext
}

type customFieldRow struct {
	ID          string `db:"id"`
	WorkspaceID string `db:"workspace_id"`
	Name        string `db:"name"`
	Type        string `db:"type"`
}

type customFieldOptionRow struct {
	ID        string `db:"id"`
	Value     string `db:"value"`
	Color     string `db:"color"`
	SortOrder int    `db:"sort_order"`
}

type customFieldValueRow struct {
	ID        string         `db:"id"`
	TaskID    string         `db:"task_id"`
	FieldID   string         `db:"field_id"`
	Type      string         `db:"type"`
	Value     sql.NullString `db:"value"`
	OptionID  sql.NullString `db:"option_id"`
	OptionIDs sql.NullString `db:"option_ids"`
}

var _ ports.CustomFieldRepository = (*CustomFieldRepository)(nil)

func NewCustomFieldRepository(db sqlx.ExtContext) *CustomFieldRepository {
	return &CustomFieldRepository{db: db}
}

func (r *CustomFieldRepository) GetField(ctx context.Context, workspaceID, fieldID string) (domain.CustomField, error) {
	var row customFieldRow
	if err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(getFieldQuery), fieldID, workspaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CustomField{}, domain.ErrFieldNotFound
		}
		return domain.CustomField{}, err
	}

	var optionRows []customFieldOptionRow
	if err := sqlx.SelectContext(ctx, r.db, &optionRows, r.db.Rebind(listFieldOptionsQuery), fieldID); err != nil {
		return domain.CustomField{}, err
	}

	field := domain.CustomField{
		ID:          row.ID,
		WorkspaceID: row.WorkspaceID,
		Name:        row.Name,
		Type:        domain.CustomFieldType(row.Type),
		Options:     make([]domain.CustomFieldOption, 0, len(optionRows)),
	}
	for _, option := range optionRows {
		field.Options = append(field.Options, domain.CustomFieldOption{
			ID:        option.ID,
			Value:     option.Value,
			Color:     option.Color,
			SortOrder: option.SortOrder,
		})
	}

	return field, nil
}

// GetValue returns nil when the task has no value for the field yet.
func (r *CustomFieldRepository) GetValue(ctx context.Context, taskID, fieldID string) (*domain.CustomFieldValue, error) {
	var row customFieldValueRow
	if err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(getValueQuery), taskID, fieldID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	value, err := mapValueRowToDomain(row)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// UpsertValue writes the value keyed by (task, field): an existing row is
// overwritten in place, every representation column included.
func (r *CustomFieldRepository) UpsertValue(ctx context.Context, value domain.CustomFieldValue) (domain.CustomFieldValue, error) {
	optionIDs, err := encodeOptionIDs(value)
	if err != nil {
		return domain.CustomFieldValue{}, err
	}

	var optionID sql.NullString
	var text sql.NullString
	switch value.Type {
	case domain.CustomFieldText:
		text = nullString(value.Value)
	case domain.CustomFieldDropdown:
		optionID = nullString(value.OptionID)
	}

	var existingID string
	err = sqlx.GetContext(
		ctx,
		r.db,
		&existingID,
		r.db.Rebind(`SELECT id FROM task_custom_field_values WHERE task_id = ? AND field_id = ?`),
		value.TaskID,
		value.FieldID,
	)
	now := time.Now().UTC()

	switch {
	case err == nil:
		if _, err := r.db.ExecContext(ctx, r.db.Rebind(updateValueQuery), text, optionID, optionIDs, now, existingID); err != nil {
			return domain.CustomFieldValue{}, err
		}
		value.ID = existingID
	case errors.Is(err, sql.ErrNoRows):
		if value.ID == "" {
			value.ID = uuid.NewString()
		}
		if _, err := r.db.ExecContext(
			ctx,
			r.db.Rebind(insertValueQuery),
			value.ID,
			value.TaskID,
			value.FieldID,
			text,
			optionID,
			optionIDs,
			now,
		); err != nil {
			return domain.CustomFieldValue{}, err
		}
	default:
		return domain.CustomFieldValue{}, err
	}

	stored, err := r.GetValue(ctx, value.TaskID, value.FieldID)
	if err != nil {
		return domain.CustomFieldValue{}, err
	}
	if stored == nil {
		return domain.CustomFieldValue{}, fmt.Errorf("custom field value %s/%s vanished after upsert", value.TaskID, value.FieldID)
	}
	return *stored, nil
}

func (r *CustomFieldRepository) ListValues(ctx context.Context, taskID string) ([]domain.CustomFieldValue, error) {
	var rows []customFieldValueRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(listValuesQuery), taskID); err != nil {
		return nil, err
	}

	values := make([]domain.CustomFieldValue, 0, len(rows))
	for _, row := range rows {
		value, err := mapValueRowToDomain(row)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func encodeOptionIDs(value domain.CustomFieldValue) (sql.NullString, error) {
	if value.Type != domain.CustomFieldLabels {
		return sql.NullString{}, nil
	}

	ids := value.OptionIDs
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// mapValueRowToDomain reconstructs only the representation matching the
// field type, whatever stale columns the row may hold.
func mapValueRowToDomain(row customFieldValueRow) (domain.CustomFieldValue, error) {
	value := domain.CustomFieldValue{
		ID:      row.ID,
		TaskID:  row.TaskID,
		FieldID: row.FieldID,
		Type:    domain.CustomFieldType(row.Type),
	}

	switch value.Type {
	case domain.CustomFieldText:
		if row.Value.Valid {
			text := row.Value.String
			value.Value = &text
		}
	case domain.CustomFieldDropdown:
		if row.OptionID.Valid {
			optionID := row.OptionID.String
			value.OptionID = &optionID
		}
	case domain.CustomFieldLabels:
		value.OptionIDs = []string{}
		if row.OptionIDs.Valid && row.OptionIDs.String != "" {
			if err := json.Unmarshal([]byte(row.OptionIDs.String), &value.OptionIDs); err != nil {
				return domain.CustomFieldValue{}, fmt.Errorf("decode option_ids for %s/%s: %w", row.TaskID, row.FieldID, err)
			}
		}
	}

	return value, nil
}
