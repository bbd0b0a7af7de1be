package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskboard/internal/app/detector"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

// TaskService is the mutation transaction manager: every task write runs in
// one transaction, side effects are fired only after commit.
type TaskService struct {
	store         ports.Transactor
	fields        *CustomFieldStore
	automation    *Automation
	notifications ports.NotificationService
	publisher     ports.PostCommitPublisher
}

func NewTaskService(
	store ports.Transactor,
	automation *Automation,
	notifications ports.NotificationService,
	publisher ports.PostCommitPublisher,
) *TaskService {
	if automation == nil {
		automation = NewAutomation(nil)
	}
	return &TaskService{
		store:         store,
		fields:        NewCustomFieldStore(),
		automation:    automation,
		notifications: notifications,
		publisher:     publisher,
	}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	return loadTask(ctx, s.store, taskID)
}

func (s *TaskService) UpdateTask(ctx context.Context, actor domain.Actor, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	if !actor.CanMutate() {
		return domain.Task{}, domain.ErrPermissionDenied
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return domain.Task{}, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}

	var before, after domain.Task
	err := s.store.WithinTx(ctx, func(repos ports.Repositories) error {
		if err := repos.Tasks().LockTask(ctx, taskID); err != nil {
			return err
		}

		current, err := loadTask(ctx, repos, taskID)
		if err != nil {
			return err
		}
		before = current
		if input.IsEmpty() {
			after = current
			return nil
		}

		// Every check runs before the first write.
		assigneeIDs, err := s.resolveAssignees(ctx, repos, input)
		if err != nil {
			return err
		}
		changes := make([]fieldChange, 0, len(input.CustomFields))
		for _, fieldInput := range input.CustomFields {
			change, err := s.fields.Prepare(ctx, repos, current, fieldInput)
			if err != nil {
				return err
			}
			changes = append(changes, change)
		}

		if input.HasScalarChanges() {
			if err := repos.Tasks().UpdateTask(ctx, input.ApplyScalars(current)); err != nil {
				return fmt.Errorf("update task row: %w", err)
			}
		}

		if input.AssigneesSet {
			if err := repos.Assignees().ReplaceAssignees(ctx, taskID, assigneeIDs); err != nil {
				return fmt.Errorf("replace assignees: %w", err)
			}
		}

		for _, change := range changes {
			previous, stored, err := s.fields.Apply(ctx, repos, change)
			if err != nil {
				return fmt.Errorf("upsert custom field %s: %w", change.value.FieldID, err)
			}
			if _, err := s.automation.Apply(ctx, repos, previous, stored); err != nil {
				return fmt.Errorf("apply automation: %w", err)
			}
		}

		after, err = loadTask(ctx, repos, taskID)
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}

	if !input.IsEmpty() {
		s.afterCommit(ctx, actor, before, after)
	}

	return after, nil
}

// UpsertCustomFieldValue writes one value through the same transaction as
// UpdateTask so automation rules apply.
func (s *TaskService) UpsertCustomFieldValue(ctx context.Context, actor domain.Actor, taskID string, input domain.CustomFieldInput) (domain.CustomFieldValue, error) {
	task, err := s.UpdateTask(ctx, actor, taskID, domain.UpdateTaskInput{
		CustomFields: []domain.CustomFieldInput{input},
	})
	if err != nil {
		return domain.CustomFieldValue{}, err
	}

	value, ok := task.CustomFields[input.FieldID]
	if !ok {
		return domain.CustomFieldValue{}, fmt.Errorf("custom field %s missing after upsert", input.FieldID)
	}
	return value, nil
}

func (s *TaskService) resolveAssignees(ctx context.Context, repos ports.Repositories, input domain.UpdateTaskInput) ([]string, error) {
	if !input.AssigneesSet {
		return nil, nil
	}

	ids := uniqueIDs(input.AssigneeIDs)
	existing, err := repos.Users().ExistingUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(ids) {
		known := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			known[id] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("%w: %s", domain.ErrUnknownUser, id)
			}
		}
	}
	return ids, nil
}

// afterCommit persists notifications and queues push and broadcast. Nothing
// here can fail the committed mutation.
func (s *TaskService) afterCommit(ctx context.Context, actor domain.Actor, before, after domain.Task) {
	ctx = context.WithoutCancel(ctx)

	events, err := knownUsers(ctx, s.store.Users(), detector.ForTaskChange(actor.UserID, before, after))
	if err != nil {
		zap.L().Error("failed to resolve notification recipients", zap.String("task_id", after.ID), zap.Error(err))
		events = nil
	}

	for _, event := range events {
		if _, err := s.notifications.Create(ctx, actor.UserID, event); err != nil {
			zap.L().Error("failed to persist notification",
				zap.String("task_id", after.ID),
				zap.String("recipient_id", event.RecipientUserID),
				zap.String("action", string(event.ActionType)),
				zap.Error(err),
			)
		}
	}

	published := s.publisher.Publish(domain.PostCommitEvent{
		Pushes: s.notifications.PushMessages(actor, domain.TaskRef{ID: after.ID, Title: after.Title}, events),
		Broadcast: &domain.BroadcastEvent{
			Event:     domain.EventTaskUpdated,
			TaskID:    after.ID,
			UpdatedBy: actor.UserID,
		},
	})
	if !published {
		zap.L().Warn("post-commit queue full, dropping task update side effects", zap.String("task_id", after.ID))
	}
}
