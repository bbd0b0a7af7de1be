package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const blockingQuery = `
SELECT t.id, t.title
FROM task_dependencies d
JOIN tasks t ON t.id = d.waiting_task_id
WHERE d.blocking_task_id = ?
ORDER BY t.title, t.id
`

const waitingForQuery = `
SELECT t.id, t.title
FROM task_dependencies d
JOIN tasks t ON t.id = d.blocking_task_id
WHERE d.waiting_task_id = ?
ORDER BY t.title, t.id
`

type DependencyRepository struct {
	db sqlx.ExtContext
}

var _ ports.DependencyRepository = (*DependencyRepository)(nil)

func NewDependencyRepository(db sqlx.ExtContext) *DependencyRepository {
	return &DependencyRepository{db: db}
}

func (r *DependencyRepository) EdgeExists(ctx context.Context, edge domain.DependencyEdge) (bool, error) {
	var count int
	err := sqlx.GetContext(
		ctx,
		r.db,
		&count,
		r.db.Rebind(`SELECT COUNT(*) FROM task_dependencies WHERE blocking_task_id = ? AND waiting_task_id = ?`),
		edge.BlockingTaskID,
		edge.WaitingTaskID,
	)
	return count > 0, err
}

func (r *DependencyRepository) InsertEdge(ctx context.Context, edge domain.DependencyEdge) error {
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`INSERT INTO task_dependencies (blocking_task_id, waiting_task_id) VALUES (?, ?)`),
		edge.BlockingTaskID,
		edge.WaitingTaskID,
	)
	if isUniqueViolation(err) {
		return domain.ErrDependencyExists
	}
	return err
}

func (r *DependencyRepository) DeleteEdge(ctx context.Context, edge domain.DependencyEdge) (int64, error) {
	result, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`DELETE FROM task_dependencies WHERE blocking_task_id = ? AND waiting_task_id = ?`),
		edge.BlockingTaskID,
		edge.WaitingTaskID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *DependencyRepository) BlockedTaskIDs(ctx context.Context, taskID string) ([]string, error) {
	ids := []string{}
	err := sqlx.SelectContext(
		ctx,
		r.db,
		&ids,
		r.db.Rebind(`SELECT waiting_task_id FROM task_dependencies WHERE blocking_task_id = ?`),
		taskID,
	)
	return ids, err
}

func (r *DependencyRepository) Blocking(ctx context.Context, taskID string) ([]domain.TaskRef, error) {
	return r.refs(ctx, blockingQuery, taskID)
}

func (r *DependencyRepository) WaitingFor(ctx context.Context, taskID string) ([]domain.TaskRef, error) {
	return r.refs(ctx, waitingForQuery, taskID)
}

func (r *DependencyRepository) refs(ctx context.Context, query, taskID string) ([]domain.TaskRef, error) {
	var rows []taskRefRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), taskID); err != nil {
		return nil, err
	}
	return mapTaskRefRows(rows), nil
}
