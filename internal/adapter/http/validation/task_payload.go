package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/core/domain"
)

var (
	ErrInvalidTaskPayload = errors.New("invalid task payload")
	ErrInvalidTaskID      = errors.New("invalid task id")
)

const dateLayout = "2006-01-02"

// ValidateTaskID rejects empty or whitespace-only path ids.
func ValidateTaskID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidTaskID
	}
	return id, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw dto.RawObject) (domain.UpdateTaskInput, error) {
	var input domain.UpdateTaskInput

	if hasJSONField(raw, "title") {
		if req.Title == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Title = &value
	}

	if hasJSONField(raw, "description") {
		if !isJSONNull(raw["description"]) && req.Description == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Description = req.Description
		input.DescriptionSet = true
	}

	dueDate, dueDateSet, err := parseNullableDate(raw, "dueDate", req.DueDate)
	if err != nil {
		return domain.UpdateTaskInput{}, err
	}
	input.DueDate, input.DueDateSet = dueDate, dueDateSet

	startDate, startDateSet, err := parseNullableDate(raw, "startDate", req.StartDate)
	if err != nil {
		return domain.UpdateTaskInput{}, err
	}
	input.StartDate, input.StartDateSet = startDate, startDateSet

	if hasJSONField(raw, "assigneeIds") {
		if isJSONNull(raw["assigneeIds"]) {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		ids := make([]string, 0, len(req.AssigneeIDs))
		for _, id := range req.AssigneeIDs {
			id = strings.TrimSpace(id)
			if id == "" {
				return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
			}
			ids = append(ids, id)
		}
		input.AssigneeIDs = ids
		input.AssigneesSet = true
	}

	if hasJSONField(raw, "customFields") {
		fields, err := buildCustomFieldInputs(req.CustomFields, raw["customFields"])
		if err != nil {
			return domain.UpdateTaskInput{}, err
		}
		input.CustomFields = fields
	}

	return input, nil
}

// BuildCustomFieldInput validates the body of a single-field upsert. The
// field id comes from the path and wins over any id in the body.
func BuildCustomFieldInput(fieldID string, req dto.CustomFieldRequest, raw dto.RawObject) (domain.CustomFieldInput, error) {
	fieldID = strings.TrimSpace(fieldID)
	if fieldID == "" {
		return domain.CustomFieldInput{}, ErrInvalidTaskPayload
	}
	req.FieldID = fieldID
	return toCustomFieldInput(req, raw)
}

func buildCustomFieldInputs(reqs []dto.CustomFieldRequest, rawList json.RawMessage) ([]domain.CustomFieldInput, error) {
	if isJSONNull(rawList) {
		return nil, ErrInvalidTaskPayload
	}

	var raws []dto.RawObject
	if err := json.Unmarshal(rawList, &raws); err != nil || len(raws) != len(reqs) {
		return nil, ErrInvalidTaskPayload
	}

	inputs := make([]domain.CustomFieldInput, 0, len(reqs))
	for i, req := range reqs {
		if raws[i] == nil {
			return nil, ErrInvalidTaskPayload
		}
		req.FieldID = strings.TrimSpace(req.FieldID)
		if req.FieldID == "" {
			return nil, ErrInvalidTaskPayload
		}
		in, err := toCustomFieldInput(req, raws[i])
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func toCustomFieldInput(req dto.CustomFieldRequest, raw dto.RawObject) (domain.CustomFieldInput, error) {
	in := domain.CustomFieldInput{
		FieldID:  req.FieldID,
		Value:    req.Value,
		OptionID: req.OptionID,
	}

	if hasJSONField(raw, "optionIds") && !isJSONNull(raw["optionIds"]) {
		ids := make([]string, 0, len(req.OptionIDs))
		for _, id := range req.OptionIDs {
			if strings.TrimSpace(id) == "" {
				return domain.CustomFieldInput{}, ErrInvalidTaskPayload
			}
			ids = append(ids, id)
		}
		in.OptionIDs = ids
		in.OptionIDsSet = true
	}

	return in, nil
}

func parseNullableDate(raw dto.RawObject, field string, value *string) (*time.Time, bool, error) {
	if !hasJSONField(raw, field) {
		return nil, false, nil
	}
	if isJSONNull(raw[field]) {
		return nil, true, nil
	}
	if value == nil {
		return nil, false, ErrInvalidTaskPayload
	}

	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, *value)
		if err != nil {
			return nil, false, ErrInvalidTaskPayload
		}
		parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	}
	return &parsed, true, nil
}

func hasJSONField(raw dto.RawObject, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
