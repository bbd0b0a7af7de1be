package validation

import (
	"errors"
	"strings"

	"taskboard/internal/adapter/http/dto"
	"taskboard/internal/core/domain"
)

var (
	ErrInvalidDependencyPayload   = errors.New("invalid dependency payload")
	ErrInvalidSubscriptionPayload = errors.New("invalid push subscription payload")
)

func BuildDependencyEdge(req dto.DependencyRequest) (domain.DependencyEdge, error) {
	edge := domain.DependencyEdge{
		BlockingTaskID: strings.TrimSpace(req.BlockingTaskID),
		WaitingTaskID:  strings.TrimSpace(req.WaitingTaskID),
	}
	if edge.BlockingTaskID == "" || edge.WaitingTaskID == "" {
		return domain.DependencyEdge{}, ErrInvalidDependencyPayload
	}
	return edge, nil
}

// BuildPushSubscription accepts the subscription either flat or nested under
// "subscription"; the nested form wins when both are present.
func BuildPushSubscription(userID string, req dto.SavePushSubscriptionRequest) (domain.PushSubscription, error) {
	body := req.PushSubscriptionBody
	if req.Subscription != nil {
		body = *req.Subscription
	}

	sub := domain.PushSubscription{
		UserID:   userID,
		Endpoint: strings.TrimSpace(body.Endpoint),
		P256dh:   strings.TrimSpace(body.Keys.P256dh),
		Auth:     strings.TrimSpace(body.Keys.Auth),
	}
	if sub.Endpoint == "" || sub.P256dh == "" || sub.Auth == "" {
		return domain.PushSubscription{}, ErrInvalidSubscriptionPayload
	}
	return sub, nil
}
