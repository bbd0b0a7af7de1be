package mapper

import (
	"time"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/core/domain"
)

const dateLayout = "2006-01-02"

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:           task.ID,
		ListID:       task.ListID,
		Title:        task.Title,
		CreatedAt:    task.CreatedAt.UTC().Format(time.RFC3339),
		Assignees:    make([]dto.AssigneeItem, 0, len(task.Assignees)),
		CustomFields: make(map[string]dto.CustomFieldValueItem, len(task.CustomFields)),
		Blocking:     ToTaskRefItems(task.Blocking),
		WaitingFor:   ToTaskRefItems(task.WaitingFor),
	}

	if task.ParentID != nil {
		value := *task.ParentID
		item.ParentID = &value
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(dateLayout)
		item.DueDate = &value
	}

	if task.StartDate != nil {
		value := task.StartDate.Format(dateLayout)
		item.StartDate = &value
	}

	for _, assignee := range task.Assignees {
		item.Assignees = append(item.Assignees, dto.AssigneeItem{ID: assignee.ID, Name: assignee.Name})
	}

	for fieldID, value := range task.CustomFields {
		item.CustomFields[fieldID] = ToCustomFieldValueItem(value)
	}

	return item
}

func ToCustomFieldValueItem(value domain.CustomFieldValue) dto.CustomFieldValueItem {
	item := dto.CustomFieldValueItem{
		ID:      value.ID,
		FieldID: value.FieldID,
		Type:    string(value.Type),
	}

	switch value.Type {
	case domain.CustomFieldText:
		item.Value = value.Value
	case domain.CustomFieldDropdown:
		item.OptionID = value.OptionID
	case domain.CustomFieldLabels:
		ids := append([]string{}, value.OptionIDs...)
		item.OptionIDs = &ids
	}

	return item
}

func ToTaskRefItems(refs []domain.TaskRef) []dto.TaskRefItem {
	items := make([]dto.TaskRefItem, 0, len(refs))
	for _, ref := range refs {
		items = append(items, dto.TaskRefItem{ID: ref.ID, Title: ref.Title})
	}
	return items
}

func ToDependenciesResponse(deps domain.TaskDependencies) dto.DependenciesResponse {
	return dto.DependenciesResponse{
		Blocking:   ToTaskRefItems(deps.Blocking),
		WaitingFor: ToTaskRefItems(deps.WaitingFor),
	}
}
