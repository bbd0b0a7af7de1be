package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const getTaskQuery = `
SELECT
  t.id,
  t.list_id,
  l.workspace_id,
  t.parent_id,
  t.title,
  t.description,
  t.due_date,
  t.start_date,
  t.created_at
FROM tasks t
JOIN lists l ON l.id = t.list_id
WHERE t.id = ?
`

const lockTaskQuery = `SELECT id FROM tasks WHERE id = ? FOR UPDATE`

const updateTaskQuery = `
UPDATE tasks
SET title = ?, description = ?, due_date = ?, start_date = ?
WHERE id = ?
`

const listAssigneesQuery = `
SELECT u.id, u.name
FROM task_assignees ta
JOIN users u ON u.id = ta.user_id
WHERE ta.task_id = ?
ORDER BY u.name, u.id
`

type TaskRepository struct {
	db sqlx.ExtContext
}

type taskRow struct {
	ID          string         `db:"id"`
	ListID      string         `db:"list_id"`
	WorkspaceID string         `db:"workspace_id"`
	ParentID    sql.NullString `db:"parent_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	DueDate     sql.NullTime   `db:"due_date"`
	StartDate   sql.NullTime   `db:"start_date"`
	CreatedAt   time.Time      `db:"created_at"`
}

type taskRefRow struct {
	ID    string `db:"id"`
	Title string `db:"title"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db sqlx.ExtContext) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	var row taskRow
	if err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(getTaskQuery), taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, err
	}

	return mapTaskRowToDomainTask(row), nil
}

func (r *TaskRepository) LockTask(ctx context.Context, taskID string) error {
	query := lockTaskQuery
	if r.db.DriverName() == "sqlite" {
		// SQLite has no row locks; the single writer connection serialises the tx.
		query = strings.TrimSuffix(query, " FOR UPDATE")
	}

	var id string
	if err := sqlx.GetContext(ctx, r.db, &id, r.db.Rebind(query), taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(updateTaskQuery),
		task.Title,
		nullString(task.Description),
		nullTime(task.DueDate),
		nullTime(task.StartDate),
		task.ID,
	)
	return err
}

type AssigneeRepository struct {
	db sqlx.ExtContext
}

type assigneeRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

var _ ports.AssigneeRepository = (*AssigneeRepository)(nil)

func NewAssigneeRepository(db sqlx.ExtContext) *AssigneeRepository {
	return &AssigneeRepository{db: db}
}

func (r *AssigneeRepository) ListAssignees(ctx context.Context, taskID string) ([]domain.Assignee, error) {
	var rows []assigneeRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(listAssigneesQuery), taskID); err != nil {
		return nil, err
	}

	assignees := make([]domain.Assignee, 0, len(rows))
	for _, row := range rows {
		assignees = append(assignees, domain.Assignee{ID: row.ID, Name: row.Name})
	}
	return assignees, nil
}

// ReplaceAssignees deletes every link of the task then bulk-inserts userIDs.
func (r *AssigneeRepository) ReplaceAssignees(ctx context.Context, taskID string, userIDs []string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM task_assignees WHERE task_id = ?`), taskID); err != nil {
		return err
	}

	if len(userIDs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(userIDs))
	args := make([]any, 0, len(userIDs)*2)
	for _, userID := range userIDs {
		placeholders = append(placeholders, "(?, ?)")
		args = append(args, taskID, userID)
	}

	query := "INSERT INTO task_assignees (task_id, user_id) VALUES " + strings.Join(placeholders, ", ")
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	return err
}

type UserRepository struct {
	db sqlx.ExtContext
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db sqlx.ExtContext) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ExistingUserIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	query, args, err := inClause(r.db, `SELECT id FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	existing := []string{}
	if err := sqlx.SelectContext(ctx, r.db, &existing, query, args...); err != nil {
		return nil, err
	}
	return existing, nil
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	task := domain.Task{
		ID:          row.ID,
		ListID:      row.ListID,
		WorkspaceID: row.WorkspaceID,
		Title:       row.Title,
		CreatedAt:   row.CreatedAt,
	}

	if row.ParentID.Valid {
		value := row.ParentID.String
		task.ParentID = &value
	}

	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}

	if row.DueDate.Valid {
		value := row.DueDate.Time
		task.DueDate = &value
	}

	if row.StartDate.Valid {
		value := row.StartDate.Time
		task.StartDate = &value
	}

	return task
}

func mapTaskRefRows(rows []taskRefRow) []domain.TaskRef {
	refs := make([]domain.TaskRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, domain.TaskRef{ID: row.ID, Title: row.Title})
	}
	return refs
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
