package dto

type NotificationItem struct {
	ID              string  `json:"id"`
	RecipientUserID string  `json:"recipientUserId"`
	ActorUserID     string  `json:"actorUserId"`
	ActorName       *string `json:"actorName"`
	ActionType      string  `json:"actionType"`
	EntityID        string  `json:"entityId"`
	EntityTitle     *string `json:"entityTitle"`
	IsRead          bool    `json:"isRead"`
	CreatedAt       string  `json:"createdAt"`
}

type PushSubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type PushSubscriptionBody struct {
	Endpoint string               `json:"endpoint"`
	Keys     PushSubscriptionKeys `json:"keys"`
}

// SavePushSubscriptionRequest accepts the browser's PushSubscription JSON
// either as the body itself or wrapped under "subscription".
type SavePushSubscriptionRequest struct {
	PushSubscriptionBody
	Subscription *PushSubscriptionBody `json:"subscription"`
}

type VapidPublicKeyResponse struct {
	PublicKey string `json:"publicKey"`
}
