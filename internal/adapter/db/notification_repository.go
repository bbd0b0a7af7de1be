package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const insertNotificationQuery = `
INSERT INTO notifications (id, user_id, actor_id, action_type, entity_id, is_read, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const recentNotificationsQuery = `
SELECT
  n.id,
  n.user_id,
  n.actor_id,
  n.action_type,
  n.entity_id,
  n.is_read,
  n.created_at,
  u.name AS actor_name,
  t.title AS entity_title
FROM notifications n
LEFT JOIN users u ON u.id = n.actor_id
LEFT JOIN tasks t ON t.id = n.entity_id
WHERE n.user_id = ?
ORDER BY n.created_at DESC, n.id DESC
LIMIT ?
`

type NotificationRepository struct {
	db sqlx.ExtContext
}

type notificationRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	ActorID     string         `db:"actor_id"`
	ActionType  string         `db:"action_type"`
	EntityID    string         `db:"entity_id"`
	IsRead      bool           `db:"is_read"`
	CreatedAt   time.Time      `db:"created_at"`
	ActorName   sql.NullString `db:"actor_name"`
	EntityTitle sql.NullString `db:"entity_title"`
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository(db sqlx.ExtContext) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) InsertNotification(ctx context.Context, notification domain.Notification) error {
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(insertNotificationQuery),
		notification.ID,
		notification.RecipientUserID,
		notification.ActorUserID,
		string(notification.ActionType),
		notification.EntityID,
		notification.IsRead,
		notification.CreatedAt,
	)
	return err
}

func (r *NotificationRepository) RecentNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	var rows []notificationRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(recentNotificationsQuery), userID, limit); err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		notification := domain.Notification{
			ID:              row.ID,
			RecipientUserID: row.UserID,
			ActorUserID:     row.ActorID,
			ActionType:      domain.ActionType(row.ActionType),
			EntityID:        row.EntityID,
			IsRead:          row.IsRead,
			CreatedAt:       row.CreatedAt,
		}
		if row.ActorName.Valid {
			value := row.ActorName.String
			notification.ActorName = &value
		}
		if row.EntityTitle.Valid {
			value := row.EntityTitle.String
			notification.EntityTitle = &value
		}
		notifications = append(notifications, notification)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?`),
		true,
		userID,
		false,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type PushSubscriptionRepository struct {
	db sqlx.ExtContext
}

type pushSubscriptionRow struct {
	ID       string `db:"id"`
	UserID   string `db:"user_id"`
	Endpoint string `db:"endpoint"`
	P256dh   string `db:"p256dh"`
	Auth     string `db:"auth"`
}

var _ ports.PushSubscriptionRepository = (*PushSubscriptionRepository)(nil)

func NewPushSubscriptionRepository(db sqlx.ExtContext) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// UpsertSubscription is keyed by endpoint: a known endpoint is rebound to
// the given user and keys.
func (r *PushSubscriptionRepository) UpsertSubscription(ctx context.Context, subscription domain.PushSubscription) error {
	now := time.Now().UTC()

	var existingID string
	err := sqlx.GetContext(
		ctx,
		r.db,
		&existingID,
		r.db.Rebind(`SELECT id FROM push_subscriptions WHERE endpoint = ?`),
		subscription.Endpoint,
	)
	switch {
	case err == nil:
		_, err = r.db.ExecContext(
			ctx,
			r.db.Rebind(`UPDATE push_subscriptions SET user_id = ?, p256dh = ?, auth = ?, updated_at = ? WHERE id = ?`),
			subscription.UserID,
			subscription.P256dh,
			subscription.Auth,
			now,
			existingID,
		)
		return err
	case errors.Is(err, sql.ErrNoRows):
		id := subscription.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = r.db.ExecContext(
			ctx,
			r.db.Rebind(`INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh, auth, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
			id,
			subscription.UserID,
			subscription.Endpoint,
			subscription.P256dh,
			subscription.Auth,
			now,
		)
		return err
	default:
		return err
	}
}

func (r *PushSubscriptionRepository) SubscriptionsForUser(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	var rows []pushSubscriptionRow
	err := sqlx.SelectContext(
		ctx,
		r.db,
		&rows,
		r.db.Rebind(`SELECT id, user_id, endpoint, p256dh, auth FROM push_subscriptions WHERE user_id = ? ORDER BY updated_at, id`),
		userID,
	)
	if err != nil {
		return nil, err
	}

	subscriptions := make([]domain.PushSubscription, 0, len(rows))
	for _, row := range rows {
		subscriptions = append(subscriptions, domain.PushSubscription{
			ID:       row.ID,
			UserID:   row.UserID,
			Endpoint: row.Endpoint,
			P256dh:   row.P256dh,
			Auth:     row.Auth,
		})
	}
	return subscriptions, nil
}

func (r *PushSubscriptionRepository) DeleteSubscription(ctx context.Context, endpoint string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM push_subscriptions WHERE endpoint = ?`), endpoint)
	return err
}
