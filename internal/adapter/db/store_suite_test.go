package db_test

import (
	"context"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	dbadapter "taskboard/internal/adapter/db"
)

// StoreSuiteBase gives every test a freshly migrated SQLite file.
type StoreSuiteBase struct {
	suite.Suite

	DB    *sqlx.DB
	Store *dbadapter.Store
	ctx   context.Context
}

func (s *StoreSuiteBase) SetupTest() {
	s.ctx = context.Background()

	path := filepath.Join(s.T().TempDir(), "taskboard.db")
	db, err := sqlx.Connect("sqlite", path+"?_pragma=foreign_keys(1)")
	s.Require().NoError(err)
	db.SetMaxOpenConns(1)

	s.Require().NoError(dbadapter.Migrate(s.ctx, db))
	s.DB = db
	s.Store = dbadapter.NewStore(db)
	s.seed()
}

func (s *StoreSuiteBase) TearDownTest() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}
}

func (s *StoreSuiteBase) seed() {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	statements := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)`, []any{"u-alice", "Alice", "alice@example.com", "ADMIN"}},
		{`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)`, []any{"u-bob", "Bob", "bob@example.com", "MEMBER"}},
		{`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)`, []any{"u-carol", "Carol", "carol@example.com", "MEMBER"}},
		{`INSERT INTO workspaces (id, name) VALUES (?, ?)`, []any{"ws-1", "Product"}},
		{`INSERT INTO workspaces (id, name) VALUES (?, ?)`, []any{"ws-2", "Marketing"}},
		{`INSERT INTO lists (id, workspace_id, name) VALUES (?, ?, ?)`, []any{"l-1", "ws-1", "Backlog"}},
		{`INSERT INTO tasks (id, list_id, title, description, created_at) VALUES (?, ?, ?, ?, ?)`, []any{"t-1", "l-1", "Design schema", "first pass", createdAt}},
		{`INSERT INTO tasks (id, list_id, title, created_at) VALUES (?, ?, ?, ?)`, []any{"t-2", "l-1", "Write migrations", createdAt}},
		{`INSERT INTO tasks (id, list_id, parent_id, title, created_at) VALUES (?, ?, ?, ?, ?)`, []any{"t-3", "l-1", "t-1", "Review schema", createdAt}},
		{`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, []any{"f-status", "ws-1", "Status", "dropdown"}},
		{`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, []any{"f-tags", "ws-1", "Tags", "labels"}},
		{`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, []any{"f-notes", "ws-1", "Notes", "text"}},
		{`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, []any{"f-foreign", "ws-2", "Channel", "text"}},
		{`INSERT INTO custom_field_options (id, field_id, value, color, sort_order) VALUES (?, ?, ?, ?, ?)`, []any{"o-done", "f-status", "Done", "green", 2}},
		{`INSERT INTO custom_field_options (id, field_id, value, color, sort_order) VALUES (?, ?, ?, ?, ?)`, []any{"o-todo", "f-status", "To do", "grey", 1}},
		{`INSERT INTO custom_field_options (id, field_id, value, color, sort_order) VALUES (?, ?, ?, ?, ?)`, []any{"o-red", "f-tags", "Urgent", "red", 1}},
		{`INSERT INTO custom_field_options (id, field_id, value, color, sort_order) VALUES (?, ?, ?, ?, ?)`, []any{"o-blue", "f-tags", "Backend", "blue", 2}},
		{`INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)`, []any{"t-1", "u-alice"}},
	}

	for _, statement := range statements {
		_, err := s.DB.ExecContext(s.ctx, s.DB.Rebind(statement.query), statement.args...)
		s.Require().NoError(err, statement.query)
	}
}

func (s *StoreSuiteBase) count(query string, args ...any) int {
	var n int
	s.Require().NoError(s.DB.GetContext(s.ctx, &n, s.DB.Rebind(query), args...))
	return n
}
