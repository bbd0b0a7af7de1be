package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
	"taskboard/pkg/translator"
)

const taskURLPrefix = "/dashboard/tasks/"

// Message ids of the push texts in pkg/translator/translation.
const (
	msgPushAssignedTitle  = "pushAssignedTitle"
	msgPushAssignedBody   = "pushAssignedBody"
	msgPushMentionedTitle = "pushMentionedTitle"
	msgPushMentionedBody  = "pushMentionedBody"
)

// NotificationService persists the in-app feed and delivers web push.
type NotificationService struct {
	repos    ports.Repositories
	sender   ports.PushSender
	language string
	now      func() time.Time
}

func NewNotificationService(repos ports.Repositories, sender ports.PushSender, language string) *NotificationService {
	if language == "" {
		language = translator.LanguageEn
	}
	return &NotificationService{
		repos:    repos,
		sender:   sender,
		language: language,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.NotificationService = (*NotificationService)(nil)

func (s *NotificationService) Create(ctx context.Context, actorID string, event domain.NotificationEvent) (domain.Notification, error) {
	notification := domain.Notification{
		ID:              uuid.NewString(),
		RecipientUserID: event.RecipientUserID,
		ActorUserID:     actorID,
		ActionType:      event.ActionType,
		EntityID:        event.EntityID,
		CreatedAt:       s.now(),
	}

	if err := s.repos.Notifications().InsertNotification(ctx, notification); err != nil {
		return domain.Notification{}, fmt.Errorf("%w: insert notification: %v", domain.ErrUnavailable, err)
	}
	return notification, nil
}

func (s *NotificationService) Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > domain.DefaultNotificationLimit {
		limit = domain.DefaultNotificationLimit
	}
	return s.repos.Notifications().RecentNotifications(ctx, userID, limit)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.repos.Notifications().MarkAllRead(ctx, userID)
	return err
}

func (s *NotificationService) SaveSubscription(ctx context.Context, subscription domain.PushSubscription) error {
	if subscription.UserID == "" ||
		strings.TrimSpace(subscription.Endpoint) == "" ||
		subscription.P256dh == "" ||
		subscription.Auth == "" {
		return fmt.Errorf("%w: endpoint, p256dh and auth are required", domain.ErrInvalidInput)
	}
	return s.repos.PushSubscriptions().UpsertSubscription(ctx, subscription)
}

// DispatchPush delivers one payload per subscription of the job's user.
// Expired endpoints are deleted; any other failure is logged. It only
// returns an error when the subscriptions cannot be loaded.
func (s *NotificationService) DispatchPush(ctx context.Context, job domain.PushJob) error {
	subscriptions, err := s.repos.PushSubscriptions().SubscriptionsForUser(ctx, job.UserID)
	if err != nil {
		return err
	}
	if len(subscriptions) == 0 || s.sender == nil {
		return nil
	}

	for _, subscription := range subscriptions {
		err := s.sender.Send(ctx, subscription, job.Message)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrSubscriptionGone):
			if delErr := s.repos.PushSubscriptions().DeleteSubscription(ctx, subscription.Endpoint); delErr != nil {
				zap.L().Error("failed to delete expired push subscription",
					zap.String("user_id", job.UserID),
					zap.String("endpoint", subscription.Endpoint),
					zap.Error(delErr),
				)
				continue
			}
			zap.L().Info("deleted expired push subscription", zap.String("user_id", job.UserID), zap.String("endpoint", subscription.Endpoint))
		default:
			zap.L().Warn("push delivery failed",
				zap.String("user_id", job.UserID),
				zap.String("endpoint", subscription.Endpoint),
				zap.Error(err),
			)
		}
	}
	return nil
}

// PushMessages builds the localized payload for each event.
func (s *NotificationService) PushMessages(actor domain.Actor, task domain.TaskRef, events []domain.NotificationEvent) []domain.PushJob {
	if len(events) == 0 {
		return nil
	}

	actorName := actor.Name
	if actorName == "" {
		actorName = actor.UserID
	}
	data := map[string]any{"Actor": actorName, "Task": task.Title}

	jobs := make([]domain.PushJob, 0, len(events))
	for _, event := range events {
		titleKey, bodyKey := msgPushAssignedTitle, msgPushAssignedBody
		if event.ActionType == domain.ActionMentioned {
			titleKey, bodyKey = msgPushMentionedTitle, msgPushMentionedBody
		}

		jobs = append(jobs, domain.PushJob{
			UserID: event.RecipientUserID,
			Message: domain.PushMessage{
				Title: translator.Translate(titleKey, s.language, nil),
				Body:  translator.Translate(bodyKey, s.language, data),
				URL:   taskURLPrefix + event.EntityID,
			},
		})
	}
	return jobs
}
