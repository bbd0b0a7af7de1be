package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskboard/internal/app/service"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

func newDependencyService(f *fixture) (*service.DependencyService, *publisherMock) {
	publisher := new(publisherMock)
	return service.NewDependencyService(f.store, publisher), publisher
}

func edge(blocking, waiting string) domain.DependencyEdge {
	return domain.DependencyEdge{BlockingTaskID: blocking, WaitingTaskID: waiting}
}

func TestAddEdge_SelfDependencyAlwaysFails(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newDependencyService(f)

	require.ErrorIs(t, svc.AddEdge(f.ctx, alice, edge("t-1", "t-1")), domain.ErrSelfDependency)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestAddEdge_DuplicateConflicts(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newDependencyService(f)
	publisher.On("Publish", mock.Anything).Return(true)

	require.NoError(t, svc.AddEdge(f.ctx, alice, edge("t-1", "t-2")))
	require.ErrorIs(t, svc.AddEdge(f.ctx, alice, edge("t-1", "t-2")), domain.ErrDependencyExists)
	require.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM task_dependencies`))
}

func TestAddEdge_RejectsCycles(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newDependencyService(f)
	publisher.On("Publish", mock.Anything).Return(true)

	require.NoError(t, svc.AddEdge(f.ctx, alice, edge("t-1", "t-2")))
	require.NoError(t, svc.AddEdge(f.ctx, alice, edge("t-2", "t-3")))

	require.ErrorIs(t, svc.AddEdge(f.ctx, alice, edge("t-2", "t-1")), domain.ErrDependencyCycle)
	require.ErrorIs(t, svc.AddEdge(f.ctx, alice, edge("t-3", "t-1")), domain.ErrDependencyCycle)

	// A shortcut along the existing direction is fine.
	require.NoError(t, svc.AddEdge(f.ctx, alice, edge("t-1", "t-3")))
}

func TestAddEdge_MissingTaskAndViewer(t *testing.T) {
	f := newFixture(t)
	svc, _ := newDependencyService(f)

	require.ErrorIs(t, svc.AddEdge(f.ctx, alice, edge("t-1", "nope")), domain.ErrTaskNotFound)
	require.ErrorIs(t, svc.AddEdge(f.ctx, viewer, edge("t-1", "t-2")), domain.ErrPermissionDenied)
	require.ErrorIs(t, svc.AddEdge(f.ctx, alice, edge("", "t-2")), domain.ErrInvalidInput)
}

// lockRecorder wraps a Transactor and records the LockTask calls made inside
// each transaction.
type lockRecorder struct {
	ports.Transactor
	locked *[]string
}

func (r lockRecorder) WithinTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	return r.Transactor.WithinTx(ctx, func(repos ports.Repositories) error {
		return fn(lockingRepos{Repositories: repos, locked: r.locked})
	})
}

type lockingRepos struct {
	ports.Repositories
	locked *[]string
}

func (r lockingRepos) Tasks() ports.TaskRepository {
	return lockingTasks{TaskRepository: r.Repositories.Tasks(), locked: r.locked}
}

type lockingTasks struct {
	ports.TaskRepository
	locked *[]string
}

func (r lockingTasks) LockTask(ctx context.Context, taskID string) error {
	*r.locked = append(*r.locked, taskID)
	return r.TaskRepository.LockTask(ctx, taskID)
}

func TestAddEdge_LocksBothEndpointsInIDOrder(t *testing.T) {
	f := newFixture(t)
	var locked []string
	publisher := new(publisherMock)
	publisher.On("Publish", mock.Anything).Return(true)
	svc := service.NewDependencyService(lockRecorder{Transactor: f.store, locked: &locked}, publisher)

	require.NoError(t, svc.AddEdge(f.ctx, alice, edge("t-3", "t-1")))
	require.Equal(t, []string{"t-1", "t-3"}, locked)

	locked = nil
	require.ErrorIs(t, svc.AddEdge(f.ctx, alice, edge("t-1", "t-3")), domain.ErrDependencyCycle)
	require.Equal(t, []string{"t-1", "t-3"}, locked)
}

func TestRemoveEdge_ThenEdgesForNoLongerLists(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newDependencyService(f)

	var broadcasts []domain.BroadcastEvent
	publisher.On("Publish", mock.Anything).Run(func(args mock.Arguments) {
		broadcasts = append(broadcasts, *args.Get(0).(domain.PostCommitEvent).Broadcast)
	}).Return(true)

	require.NoError(t, svc.AddEdge(f.ctx, alice, edge("t-1", "t-2")))

	deps, err := svc.EdgesFor(f.ctx, "t-2")
	require.NoError(t, err)
	require.Equal(t, []domain.TaskRef{{ID: "t-1", Title: "Design schema"}}, deps.WaitingFor)

	deps, err = svc.EdgesFor(f.ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, []domain.TaskRef{{ID: "t-2", Title: "Write migrations"}}, deps.Blocking)

	require.NoError(t, svc.RemoveEdge(f.ctx, alice, edge("t-1", "t-2")))

	deps, err = svc.EdgesFor(f.ctx, "t-1")
	require.NoError(t, err)
	require.Empty(t, deps.Blocking)
	deps, err = svc.EdgesFor(f.ctx, "t-2")
	require.NoError(t, err)
	require.Empty(t, deps.WaitingFor)

	require.Len(t, broadcasts, 4)
	require.Equal(t, domain.EventTaskDependenciesUpdated, broadcasts[0].Event)
	require.Equal(t, "t-1", broadcasts[0].TaskID)
	require.Equal(t, "t-2", broadcasts[1].TaskID)
}

func TestRemoveEdge_AbsentIsNotFound(t *testing.T) {
	f := newFixture(t)
	svc, publisher := newDependencyService(f)

	require.ErrorIs(t, svc.RemoveEdge(f.ctx, alice, edge("t-1", "t-2")), domain.ErrDependencyNotFound)
	publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestEdgesFor_UnknownTask(t *testing.T) {
	f := newFixture(t)
	svc, _ := newDependencyService(f)

	_, err := svc.EdgesFor(f.ctx, "nope")
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}
