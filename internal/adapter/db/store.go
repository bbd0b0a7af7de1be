package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

// Store hands out repositories bound either to the pool or to a single
// transaction. Repositories only depend on sqlx.ExtContext so the same code
// runs in both modes.
type Store struct {
	db *sqlx.DB
	*repositories
}

type repositories struct {
	tasks             *TaskRepository
	assignees         *AssigneeRepository
	users             *UserRepository
	customFields      *CustomFieldRepository
	dependencies      *DependencyRepository
	comments          *CommentRepository
	notifications     *NotificationRepository
	pushSubscriptions *PushSubscriptionRepository
}

var (
	_ ports.Transactor   = (*Store)(nil)
	_ ports.Repositories = (*repositories)(nil)
)

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, repositories: newRepositories(db)}
}

func newRepositories(q sqlx.ExtContext) *repositories {
	return &repositories{
		tasks:             NewTaskRepository(q),
		assignees:         NewAssigneeRepository(q),
		users:             NewUserRepository(q),
		customFields:      NewCustomFieldRepository(q),
		dependencies:      NewDependencyRepository(q),
		comments:          NewCommentRepository(q),
		notifications:     NewNotificationRepository(q),
		pushSubscriptions: NewPushSubscriptionRepository(q),
	}
}

func (r *repositories) Tasks() ports.TaskRepository                 { return r.tasks }
func (r *repositories) Assignees() ports.AssigneeRepository         { return r.assignees }
func (r *repositories) Users() ports.UserRepository                 { return r.users }
func (r *repositories) CustomFields() ports.CustomFieldRepository   { return r.customFields }
func (r *repositories) Dependencies() ports.DependencyRepository    { return r.dependencies }
func (r *repositories) Comments() ports.CommentRepository           { return r.comments }
func (r *repositories) Notifications() ports.NotificationRepository { return r.notifications }
func (r *repositories) PushSubscriptions() ports.PushSubscriptionRepository {
	return r.pushSubscriptions
}

func (s *Store) WithinTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrUnavailable, err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zap.L().Warn("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// inClause expands a query holding one `IN (?)` for args and rebinds it
// for the connection's placeholder style.
func inClause(q sqlx.ExtContext, query string, args ...any) (string, []any, error) {
	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return q.Rebind(expanded), expandedArgs, nil
}
