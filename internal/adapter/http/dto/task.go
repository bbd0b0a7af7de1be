package dto

import "encoding/json"

type TaskItem struct {
	ID           string                          `json:"id"`
	ListID       string                          `json:"listId"`
	ParentID     *string                         `json:"parentId"`
	Title        string                          `json:"title"`
	Description  *string                         `json:"description"`
	DueDate      *string                         `json:"dueDate"`
	StartDate    *string                         `json:"startDate"`
	CreatedAt    string                          `json:"createdAt"`
	Assignees    []AssigneeItem                  `json:"assignees"`
	CustomFields map[string]CustomFieldValueItem `json:"customFields"`
	Blocking     []TaskRefItem                   `json:"blocking"`
	WaitingFor   []TaskRefItem                   `json:"waitingFor"`
}

type AssigneeItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TaskRefItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CustomFieldValueItem carries exactly one of value, optionId or optionIds.
type CustomFieldValueItem struct {
	ID        string    `json:"id"`
	FieldID   string    `json:"fieldId"`
	Type      string    `json:"type"`
	Value     *string   `json:"value,omitempty"`
	OptionID  *string   `json:"optionId,omitempty"`
	OptionIDs *[]string `json:"optionIds,omitempty"`
}

// UpdateTaskRequest is decoded alongside the raw key map so that absent and
// null keys can be told apart.
type UpdateTaskRequest struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	DueDate      *string              `json:"dueDate"`
	StartDate    *string              `json:"startDate"`
	AssigneeIDs  []string             `json:"assigneeIds"`
	CustomFields []CustomFieldRequest `json:"customFields"`
}

type CustomFieldRequest struct {
	FieldID   string   `json:"fieldId"`
	Value     *string  `json:"value"`
	OptionID  *string  `json:"optionId"`
	OptionIDs []string `json:"optionIds"`
}

// RawObject keeps the top-level keys of a JSON object undecoded.
type RawObject map[string]json.RawMessage
