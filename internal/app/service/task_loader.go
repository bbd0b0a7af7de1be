package service

import (
	"context"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

// loadTask materializes a task: scalars, assignees, custom field values
// keyed by field id and both dependency summaries.
func loadTask(ctx context.Context, repos ports.Repositories, taskID string) (domain.Task, error) {
	task, err := repos.Tasks().GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	if task.Assignees, err = repos.Assignees().ListAssignees(ctx, taskID); err != nil {
		return domain.Task{}, err
	}

	values, err := repos.CustomFields().ListValues(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	task.CustomFields = make(map[string]domain.CustomFieldValue, len(values))
	for _, value := range values {
		task.CustomFields[value.FieldID] = value
	}

	if task.Blocking, err = repos.Dependencies().Blocking(ctx, taskID); err != nil {
		return domain.Task{}, err
	}
	if task.WaitingFor, err = repos.Dependencies().WaitingFor(ctx, taskID); err != nil {
		return domain.Task{}, err
	}

	return task, nil
}

// knownUsers keeps the events whose recipient still exists.
func knownUsers(ctx context.Context, users ports.UserRepository, events []domain.NotificationEvent) ([]domain.NotificationEvent, error) {
	if len(events) == 0 {
		return events, nil
	}

	ids := make([]string, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.RecipientUserID)
	}
	existing, err := users.ExistingUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	kept := make([]domain.NotificationEvent, 0, len(events))
	for _, event := range events {
		if _, ok := known[event.RecipientUserID]; ok {
			kept = append(kept, event)
		}
	}
	return kept, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
