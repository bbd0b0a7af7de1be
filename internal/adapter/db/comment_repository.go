package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/ports"
)

const commentSelect = `
SELECT
  c.id,
  c.task_id,
  c.user_id,
  COALESCE(u.name, '') AS user_name,
  c.content,
  c.created_at
FROM task_comments c
LEFT JOIN users u ON u.id = c.user_id
`

const listCommentsQuery = commentSelect + `WHERE c.task_id = ?
ORDER BY c.created_at, c.id
`

const getCommentQuery = commentSelect + `WHERE c.id = ?`

type CommentRepository struct {
	db sqlx.ExtContext
}

type commentRow struct {
	ID        string    `db:"id"`
	TaskID    string    `db:"task_id"`
	UserID    string    `db:"user_id"`
	UserName  string    `db:"user_name"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db sqlx.ExtContext) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) InsertComment(ctx context.Context, comment domain.Comment) error {
	_, err := r.db.ExecContext(
		ctx,
		r.db.Rebind(`INSERT INTO task_comments (id, task_id, user_id, content, created_at) VALUES (?, ?, ?, ?, ?)`),
		comment.ID,
		comment.TaskID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	)
	return err
}

// GetComment returns one comment with the author's current display name.
func (r *CommentRepository) GetComment(ctx context.Context, commentID string) (domain.Comment, error) {
	var row commentRow
	if err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(getCommentQuery), commentID); err != nil {
		return domain.Comment{}, err
	}
	return row.toDomain(), nil
}

func (r *CommentRepository) ListComments(ctx context.Context, taskID string) ([]domain.Comment, error) {
	var rows []commentRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(listCommentsQuery), taskID); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toDomain())
	}
	return comments, nil
}

func (row commentRow) toDomain() domain.Comment {
	return domain.Comment{
		ID:        row.ID,
		TaskID:    row.TaskID,
		UserID:    row.UserID,
		UserName:  row.UserName,
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
	}
}
