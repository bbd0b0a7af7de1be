package ports

import (
	"context"

	"taskboard/internal/core/domain"
)

type TaskRepository interface {
	// GetTask loads the tasks row only (no assignees, fields or edges).
	GetTask(ctx context.Context, taskID string) (domain.Task, error)
	// LockTask takes a row lock on the task for the rest of the transaction.
	LockTask(ctx context.Context, taskID string) error
	UpdateTask(ctx context.Context, task domain.Task) error
}

type AssigneeRepository interface {
	ListAssignees(ctx context.Context, taskID string) ([]domain.Assignee, error)
	ReplaceAssignees(ctx context.Context, taskID string, userIDs []string) error
}

type UserRepository interface {
	// ExistingUserIDs returns the subset of ids that reference a user.
	ExistingUserIDs(ctx context.Context, ids []string) ([]string, error)
}

type CustomFieldRepository interface {
	GetField(ctx context.Context, workspaceID, fieldID string) (domain.CustomField, error)
	GetValue(ctx context.Context, taskID, fieldID string) (*domain.CustomFieldValue, error)
	UpsertValue(ctx context.Context, value domain.CustomFieldValue) (domain.CustomFieldValue, error)
	ListValues(ctx context.Context, taskID string) ([]domain.CustomFieldValue, error)
}

type DependencyRepository interface {
	EdgeExists(ctx context.Context, edge domain.DependencyEdge) (bool, error)
	InsertEdge(ctx context.Context, edge domain.DependencyEdge) error
	// DeleteEdge returns the number of removed rows.
	DeleteEdge(ctx context.Context, edge domain.DependencyEdge) (int64, error)
	// BlockedTaskIDs lists the ids of tasks waiting on taskID.
	BlockedTaskIDs(ctx context.Context, taskID string) ([]string, error)
	// Blocking lists the tasks that taskID blocks.
	Blocking(ctx context.Context, taskID string) ([]domain.TaskRef, error)
	// WaitingFor lists the tasks that block taskID.
	WaitingFor(ctx context.Context, taskID string) ([]domain.TaskRef, error)
}

type CommentRepository interface {
	InsertComment(ctx context.Context, comment domain.Comment) error
	GetComment(ctx context.Context, commentID string) (domain.Comment, error)
	ListComments(ctx context.Context, taskID string) ([]domain.Comment, error)
}

type NotificationRepository interface {
	InsertNotification(ctx context.Context, notification domain.Notification) error
	RecentNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type PushSubscriptionRepository interface {
	UpsertSubscription(ctx context.Context, subscription domain.PushSubscription) error
	SubscriptionsForUser(ctx context.Context, userID string) ([]domain.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Repositories is the set of stores bound to one connection or transaction.
type Repositories interface {
	Tasks() TaskRepository
	Assignees() AssigneeRepository
	Users() UserRepository
	CustomFields() CustomFieldRepository
	Dependencies() DependencyRepository
	Comments() CommentRepository
	Notifications() NotificationRepository
	PushSubscriptions() PushSubscriptionRepository
}

// Transactor runs fn inside one database transaction. fn returning an error
// rolls back every statement issued through repos.
type Transactor interface {
	Repositories
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
