package domain

import "time"

type Task struct {
	ID           string
	ListID       string
	WorkspaceID  string
	ParentID     *string
	Title        string
	Description  *string
	DueDate      *time.Time
	StartDate    *time.Time
	CreatedAt    time.Time
	Assignees    []Assignee
	CustomFields map[string]CustomFieldValue
	Blocking     []TaskRef
	WaitingFor   []TaskRef
}

type Assignee struct {
	ID   string
	Name string
}

// TaskRef is the id/title summary used for dependency listings.
type TaskRef struct {
	ID    string
	Title string
}

// AssigneeIDs returns the ids of the task's assignees in order.
func (t Task) AssigneeIDs() []string {
	ids := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		ids = append(ids, a.ID)
	}
	return ids
}

// UpdateTaskInput is a partial update. Nil pointers and unset flags leave
// the stored value untouched; a *Set flag with a nil value clears it.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	DueDate        *time.Time
	DueDateSet     bool
	StartDate      *time.Time
	StartDateSet   bool
	AssigneeIDs    []string
	AssigneesSet   bool
	CustomFields   []CustomFieldInput
}

// HasScalarChanges reports whether any column of the tasks row is touched.
func (in UpdateTaskInput) HasScalarChanges() bool {
	return in.Title != nil || in.DescriptionSet || in.DueDateSet || in.StartDateSet
}

// IsEmpty reports whether the input carries no change at all.
func (in UpdateTaskInput) IsEmpty() bool {
	return !in.HasScalarChanges() && !in.AssigneesSet && len(in.CustomFields) == 0
}

// ApplyScalars returns a copy of t with the scalar part of in applied.
func (in UpdateTaskInput) ApplyScalars(t Task) Task {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.DescriptionSet {
		t.Description = in.Description
	}
	if in.DueDateSet {
		t.DueDate = in.DueDate
	}
	if in.StartDateSet {
		t.StartDate = in.StartDate
	}
	return t
}
