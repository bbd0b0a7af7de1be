package domain

import "time"

type ActionType string

const (
	ActionAssignedTask ActionType = "ASSIGNED_TASK"
	ActionMentioned    ActionType = "MENTIONED"
)

// DefaultNotificationLimit caps how many rows a feed read returns.
const DefaultNotificationLimit = 20

type Notification struct {
	ID              string
	RecipientUserID string
	ActorUserID     string
	ActionType      ActionType
	EntityID        string
	IsRead          bool
	CreatedAt       time.Time
	ActorName       *string
	EntityTitle     *string
}

// NotificationEvent is a detector output: who should hear about what.
type NotificationEvent struct {
	RecipientUserID string
	ActionType      ActionType
	EntityID        string
}

type PushSubscription struct {
	ID       string
	UserID   string
	Endpoint string
	P256dh   string
	Auth     string
}

// PushMessage is the payload delivered to a subscriber's platform handler.
type PushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// PushJob is a push delivery queued for one recipient.
type PushJob struct {
	UserID  string
	Message PushMessage
}
