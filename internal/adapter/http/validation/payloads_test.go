package validation

import (
	"testing"

	"taskboard/internal/adapter/http/dto"

	"github.com/stretchr/testify/require"
)

func TestBuildDependencyEdge(t *testing.T) {
	edge, err := BuildDependencyEdge(dto.DependencyRequest{BlockingTaskID: " t-1", WaitingTaskID: "t-2 "})
	require.NoError(t, err)
	require.Equal(t, "t-1", edge.BlockingTaskID)
	require.Equal(t, "t-2", edge.WaitingTaskID)

	_, err = BuildDependencyEdge(dto.DependencyRequest{BlockingTaskID: "t-1"})
	require.ErrorIs(t, err, ErrInvalidDependencyPayload)
}

func TestBuildPushSubscription_NestedWins(t *testing.T) {
	req := dto.SavePushSubscriptionRequest{
		PushSubscriptionBody: dto.PushSubscriptionBody{Endpoint: "https://flat"},
		Subscription: &dto.PushSubscriptionBody{
			Endpoint: "https://nested",
			Keys:     dto.PushSubscriptionKeys{P256dh: "k", Auth: "a"},
		},
	}

	sub, err := BuildPushSubscription("u-alice", req)

	require.NoError(t, err)
	require.Equal(t, "https://nested", sub.Endpoint)
	require.Equal(t, "u-alice", sub.UserID)
}

func TestBuildPushSubscription_RequiresKeys(t *testing.T) {
	_, err := BuildPushSubscription("u-alice", dto.SavePushSubscriptionRequest{
		PushSubscriptionBody: dto.PushSubscriptionBody{Endpoint: "https://flat"},
	})
	require.ErrorIs(t, err, ErrInvalidSubscriptionPayload)
}
