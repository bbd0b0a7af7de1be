package service_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskboard/internal/app/service"
	"taskboard/internal/core/domain"
)

func newCommentService(f *fixture) (*service.CommentService, *publisherMock) {
	publisher := new(publisherMock)
	notifications := service.NewNotificationService(f.store, nil, "es")
	return service.NewCommentService(f.store, notifications, publisher), publisher
}

func TestCreateComment_StructuredMentionNotifiesOnce(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newCommentService(f)

	var published domain.PostCommitEvent
	publisher.On("Publish", mock.Anything).Run(func(args mock.Arguments) {
		published = args.Get(0).(domain.PostCommitEvent)
	}).Return(true).Once()

	content := `<p>cc <span data-type="mention" data-id="u-carol">@Carol</span> ` +
		`<span data-type="mention" data-id="u-carol">@Carol</span> @Bob ` +
		`<span data-type="mention" data-id="ghost">@Ghost</span></p>`
	comment, err := svc.CreateComment(f.ctx, alice, "t-1", content)
	require.NoError(t, err)
	require.NotEmpty(t, comment.ID)
	require.Equal(t, "Alice", comment.UserName)

	carols := notificationsFor(t, f, "u-carol")
	require.Len(t, carols, 1)
	require.Equal(t, domain.ActionMentioned, carols[0].ActionType)
	require.Equal(t, "t-1", carols[0].EntityID)
	require.Empty(t, notificationsFor(t, f, "u-bob"))
	require.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM notifications`))

	require.Equal(t, domain.EventCommentAdded, published.Broadcast.Event)
	require.Len(t, published.Pushes, 1)
	require.Equal(t, "Nueva mención", published.Pushes[0].Message.Title)
	publisher.AssertExpectations(t)
}

func TestCreateComment_SelfMentionIsIgnored(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newCommentService(f)
	publisher.On("Publish", mock.Anything).Return(true)

	_, err := svc.CreateComment(f.ctx, alice, "t-1", `<span data-type="mention" data-id="u-alice">@Alice</span>`)
	require.NoError(t, err)
	require.Zero(t, f.count(t, `SELECT COUNT(*) FROM notifications`))
}

func TestCreateComment_Validation(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newCommentService(f)

	_, err := svc.CreateComment(f.ctx, alice, "t-1", "   ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateComment(f.ctx, viewer, "t-1", "hello")
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = svc.CreateComment(f.ctx, alice, "nope", "hello")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	require.Zero(t, f.count(t, `SELECT COUNT(*) FROM task_comments`))
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestCreateComment_AuthorNameComesFromUserRecord(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newCommentService(f)
	publisher.On("Publish", mock.Anything).Return(true)

	tokenOnly := domain.Actor{UserID: "u-alice", Role: domain.RoleMember}
	created, err := svc.CreateComment(f.ctx, tokenOnly, "t-1", "hello")
	require.NoError(t, err)
	require.Equal(t, "Alice", created.UserName)

	listed, err := svc.ListComments(f.ctx, "t-1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, listed[0].ID, created.ID)
	require.Equal(t, listed[0].UserName, created.UserName)
}

func TestListComments_OldestFirst(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newCommentService(f)
	publisher.On("Publish", mock.Anything).Return(true)

	_, err := svc.CreateComment(f.ctx, alice, "t-2", "first")
	require.NoError(t, err)
	_, err = svc.CreateComment(f.ctx, bob, "t-2", "second")
	require.NoError(t, err)

	comments, err := svc.ListComments(f.ctx, "t-2")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Content)
	require.Equal(t, "Bob", comments[1].UserName)
}
