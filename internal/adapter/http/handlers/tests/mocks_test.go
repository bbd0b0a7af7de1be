package tests

import (
	"context"

	"taskboard/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, actor domain.Actor, taskID string, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, actor, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpsertCustomFieldValue(ctx context.Context, actor domain.Actor, taskID string, input domain.CustomFieldInput) (domain.CustomFieldValue, error) {
	args := m.Called(ctx, actor, taskID, input)
	return args.Get(0).(domain.CustomFieldValue), args.Error(1)
}

type dependencyServiceMock struct {
	mock.Mock
}

func (m *dependencyServiceMock) AddEdge(ctx context.Context, actor domain.Actor, edge domain.DependencyEdge) error {
	return m.Called(ctx, actor, edge).Error(0)
}

func (m *dependencyServiceMock) RemoveEdge(ctx context.Context, actor domain.Actor, edge domain.DependencyEdge) error {
	return m.Called(ctx, actor, edge).Error(0)
}

func (m *dependencyServiceMock) EdgesFor(ctx context.Context, taskID string) (domain.TaskDependencies, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(domain.TaskDependencies), args.Error(1)
}

type commentServiceMock struct {
	mock.Mock
}

func (m *commentServiceMock) CreateComment(ctx context.Context, actor domain.Actor, taskID, content string) (domain.Comment, error) {
	args := m.Called(ctx, actor, taskID, content)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *commentServiceMock) ListComments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	args := m.Called(ctx, taskID)

	var comments []domain.Comment
	if value := args.Get(0); value != nil {
		comments = value.([]domain.Comment)
	}
	return comments, args.Error(1)
}

type notificationServiceMock struct {
	mock.Mock
}

func (m *notificationServiceMock) Create(ctx context.Context, actorID string, event domain.NotificationEvent) (domain.Notification, error) {
	args := m.Called(ctx, actorID, event)
	return args.Get(0).(domain.Notification), args.Error(1)
}

func (m *notificationServiceMock) Recent(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)

	var notifications []domain.Notification
	if value := args.Get(0); value != nil {
		notifications = value.([]domain.Notification)
	}
	return notifications, args.Error(1)
}

func (m *notificationServiceMock) MarkAllRead(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *notificationServiceMock) SaveSubscription(ctx context.Context, subscription domain.PushSubscription) error {
	return m.Called(ctx, subscription).Error(0)
}

func (m *notificationServiceMock) DispatchPush(ctx context.Context, job domain.PushJob) error {
	return m.Called(ctx, job).Error(0)
}

func (m *notificationServiceMock) PushMessages(actor domain.Actor, task domain.TaskRef, events []domain.NotificationEvent) []domain.PushJob {
	args := m.Called(actor, task, events)

	var jobs []domain.PushJob
	if value := args.Get(0); value != nil {
		jobs = value.([]domain.PushJob)
	}
	return jobs
}
