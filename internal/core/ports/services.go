package ports

import (
	"context"

	"taskboard/internal/core/domain"
)

type TaskService interface {
	GetTask(ctx context.Context, taskID string) (domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, taskID string, input domain.UpdateTaskInput) (domain.Task, error)
	UpsertCustomFieldValue(ctx context.Context, actor domain.Actor, taskID string, input domain.CustomFieldInput) (domain.CustomFieldValue, error)
}

type DependencyService interface {
	AddEdge(ctx context.Context, actor domain.Actor, edge domain.DependencyEdge) error
	RemoveEdge(ctx context.Context, actor domain.Actor, edge domain.DependencyEdge) error
	EdgesFor(ctx context.Context, taskID string) (domain.TaskDependencies, error)
}

type CommentService interface {
	CreateComment(ctx context.Context, actor domain.Actor, taskID, content string) (domain.Comment, error)
	ListComments(ctx context.Context, taskID string) ([]domain.Comment, error)
}

type NotificationService interface {
	Create(ctx context.Context, actorID string, event domain.NotificationEvent) (domain.Notification, error)
	Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	SaveSubscription(ctx context.Context, subscription domain.PushSubscription) error
	DispatchPush(ctx context.Context, job domain.PushJob) error
	PushMessages(actor domain.Actor, task domain.TaskRef, events []domain.NotificationEvent) []domain.PushJob
}

// PushSender delivers one payload to one subscription. A gone endpoint is
// reported as domain.ErrSubscriptionGone.
type PushSender interface {
	Send(ctx context.Context, subscription domain.PushSubscription, message domain.PushMessage) error
}

// Broadcaster hands an event to the real-time relay.
type Broadcaster interface {
	Broadcast(ctx context.Context, event domain.BroadcastEvent) error
}

// PostCommitPublisher queues side effects of a committed write. It never
// blocks the caller on delivery.
type PostCommitPublisher interface {
	Publish(event domain.PostCommitEvent) bool
}
