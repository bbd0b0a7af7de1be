package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/app/detector"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

type CommentService struct {
	store         ports.Transactor
	notifications ports.NotificationService
	publisher     ports.PostCommitPublisher
	now           func() time.Time
}

func NewCommentService(store ports.Transactor, notifications ports.NotificationService, publisher ports.PostCommitPublisher) *CommentService {
	return &CommentService{
		store:         store,
		notifications: notifications,
		publisher:     publisher,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.CommentService = (*CommentService)(nil)

func (s *CommentService) CreateComment(ctx context.Context, actor domain.Actor, taskID, content string) (domain.Comment, error) {
	if !actor.CanMutate() {
		return domain.Comment{}, domain.ErrPermissionDenied
	}
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, fmt.Errorf("%w: comment content is required", domain.ErrInvalidInput)
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    actor.UserID,
		Content:   content,
		CreatedAt: s.now(),
	}

	var task domain.Task
	err := s.store.WithinTx(ctx, func(repos ports.Repositories) error {
		var err error
		if task, err = repos.Tasks().GetTask(ctx, taskID); err != nil {
			return err
		}
		if err := repos.Comments().InsertComment(ctx, comment); err != nil {
			return err
		}
		// Read back so the author name matches what ListComments reports.
		comment, err = repos.Comments().GetComment(ctx, comment.ID)
		return err
	})
	if err != nil {
		return domain.Comment{}, err
	}

	s.afterCommit(ctx, actor, task, comment)
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	if _, err := s.store.Tasks().GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.store.Comments().ListComments(ctx, taskID)
}

func (s *CommentService) afterCommit(ctx context.Context, actor domain.Actor, task domain.Task, comment domain.Comment) {
	ctx = context.WithoutCancel(ctx)

	events, err := knownUsers(ctx, s.store.Users(), detector.ForComment(actor.UserID, task.ID, comment.Content))
	if err != nil {
		zap.L().Error("failed to resolve mentioned users", zap.String("comment_id", comment.ID), zap.Error(err))
		events = nil
	}

	for _, event := range events {
		if _, err := s.notifications.Create(ctx, actor.UserID, event); err != nil {
			zap.L().Error("failed to persist mention notification",
				zap.String("comment_id", comment.ID),
				zap.String("recipient_id", event.RecipientUserID),
				zap.Error(err),
			)
		}
	}

	published := s.publisher.Publish(domain.PostCommitEvent{
		Pushes: s.notifications.PushMessages(actor, domain.TaskRef{ID: task.ID, Title: task.Title}, events),
		Broadcast: &domain.BroadcastEvent{
			Event:     domain.EventCommentAdded,
			TaskID:    task.ID,
			UpdatedBy: actor.UserID,
		},
	})
	if !published {
		zap.L().Warn("post-commit queue full, dropping comment side effects", zap.String("task_id", task.ID))
	}
}
