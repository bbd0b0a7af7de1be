package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

// DependencyService manages blocking/waiting edges. It runs its own
// transactions and never joins a task update.
type DependencyService struct {
	store     ports.Transactor
	publisher ports.PostCommitPublisher
}

func NewDependencyService(store ports.Transactor, publisher ports.PostCommitPublisher) *DependencyService {
	return &DependencyService{store: store, publisher: publisher}
}

var _ ports.DependencyService = (*DependencyService)(nil)

func (s *DependencyService) AddEdge(ctx context.Context, actor domain.Actor, edge domain.DependencyEdge) error {
	if err := validateEdge(actor, edge); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(repos ports.Repositories) error {
		if err := lockEndpoints(ctx, repos.Tasks(), edge); err != nil {
			return err
		}

		exists, err := repos.Dependencies().EdgeExists(ctx, edge)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDependencyExists
		}

		cyclic, err := reachable(ctx, repos.Dependencies(), edge.WaitingTaskID, edge.BlockingTaskID)
		if err != nil {
			return err
		}
		if cyclic {
			return domain.ErrDependencyCycle
		}

		return repos.Dependencies().InsertEdge(ctx, edge)
	})
	if err != nil {
		return err
	}

	s.broadcast(actor, edge)
	return nil
}

func (s *DependencyService) RemoveEdge(ctx context.Context, actor domain.Actor, edge domain.DependencyEdge) error {
	if err := validateEdge(actor, edge); err != nil {
		return err
	}

	err := s.store.WithinTx(ctx, func(repos ports.Repositories) error {
		removed, err := repos.Dependencies().DeleteEdge(ctx, edge)
		if err != nil {
			return err
		}
		if removed == 0 {
			return domain.ErrDependencyNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.broadcast(actor, edge)
	return nil
}

func (s *DependencyService) EdgesFor(ctx context.Context, taskID string) (domain.TaskDependencies, error) {
	if _, err := s.store.Tasks().GetTask(ctx, taskID); err != nil {
		return domain.TaskDependencies{}, err
	}

	blocking, err := s.store.Dependencies().Blocking(ctx, taskID)
	if err != nil {
		return domain.TaskDependencies{}, err
	}
	waitingFor, err := s.store.Dependencies().WaitingFor(ctx, taskID)
	if err != nil {
		return domain.TaskDependencies{}, err
	}

	return domain.TaskDependencies{Blocking: blocking, WaitingFor: waitingFor}, nil
}

// broadcast tells clients viewing either end of the edge to refetch.
func (s *DependencyService) broadcast(actor domain.Actor, edge domain.DependencyEdge) {
	for _, taskID := range []string{edge.BlockingTaskID, edge.WaitingTaskID} {
		published := s.publisher.Publish(domain.PostCommitEvent{
			Broadcast: &domain.BroadcastEvent{
				Event:     domain.EventTaskDependenciesUpdated,
				TaskID:    taskID,
				UpdatedBy: actor.UserID,
			},
		})
		if !published {
			zap.L().Warn("post-commit queue full, dropping dependency broadcast", zap.String("task_id", taskID))
		}
	}
}

func validateEdge(actor domain.Actor, edge domain.DependencyEdge) error {
	if !actor.CanMutate() {
		return domain.ErrPermissionDenied
	}
	if edge.BlockingTaskID == "" || edge.WaitingTaskID == "" {
		return fmt.Errorf("%w: blockingTaskId and waitingTaskId are required", domain.ErrInvalidInput)
	}
	if edge.BlockingTaskID == edge.WaitingTaskID {
		return domain.ErrSelfDependency
	}
	return nil
}

// lockEndpoints row-locks both tasks in id order so two transactions adding
// edges between the same pair serialize before the cycle check runs.
func lockEndpoints(ctx context.Context, tasks ports.TaskRepository, edge domain.DependencyEdge) error {
	ids := []string{edge.BlockingTaskID, edge.WaitingTaskID}
	sort.Strings(ids)
	for _, taskID := range ids {
		if err := tasks.LockTask(ctx, taskID); err != nil {
			return err
		}
	}
	return nil
}

// reachable runs a breadth-first search from start along "blocks" edges and
// reports whether target can be reached. Adding blocking -> waiting closes
// a cycle exactly when blocking is already reachable from waiting.
func reachable(ctx context.Context, deps ports.DependencyRepository, start, target string) (bool, error) {
	visited := map[string]struct{}{start: {}}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		next, err := deps.BlockedTaskIDs(ctx, current)
		if err != nil {
			return false, err
		}
		for _, id := range next {
			if id == target {
				return true, nil
			}
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			queue = append(queue, id)
		}
	}

	return false, nil
}
