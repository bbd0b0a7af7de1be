package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbadapter "taskboard/internal/adapter/db"
	"taskboard/internal/core/domain"
	"taskboard/pkg/translator"
)

func TestMain(m *testing.M) {
	translator.InitTranslator(translator.Config{
		TranslationFolder:  "../../../pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageEs},
	})
	os.Exit(m.Run())
}

var (
	alice  = domain.Actor{UserID: "u-alice", Name: "Alice", Role: domain.RoleAdmin}
	bob    = domain.Actor{UserID: "u-bob", Name: "Bob", Role: domain.RoleMember}
	viewer = domain.Actor{UserID: "u-dave", Name: "Dave", Role: domain.RoleViewer}
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(event domain.PostCommitEvent) bool {
	args := m.Called(event)
	return args.Bool(0)
}

type pushSenderMock struct {
	mock.Mock
}

func (m *pushSenderMock) Send(ctx context.Context, subscription domain.PushSubscription, message domain.PushMessage) error {
	args := m.Called(ctx, subscription, message)
	return args.Error(0)
}

type fixture struct {
	db    *sqlx.DB
	store *dbadapter.Store
	ctx   context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	db, err := sqlx.Connect("sqlite", filepath.Join(t.TempDir(), "taskboard.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbadapter.Migrate(ctx, db))

	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	exec := func(query string, args ...any) {
		_, err := db.ExecContext(ctx, db.Rebind(query), args...)
		require.NoError(t, err, query)
	}
	for _, user := range [][]string{
		{"u-alice", "Alice", "ADMIN"},
		{"u-bob", "Bob", "MEMBER"},
		{"u-carol", "Carol", "MEMBER"},
		{"u-dave", "Dave", "VIEWER"},
	} {
		exec(`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)`, user[0], user[1], user[0]+"@example.com", user[2])
	}
	exec(`INSERT INTO workspaces (id, name) VALUES (?, ?)`, "ws-1", "Product")
	exec(`INSERT INTO workspaces (id, name) VALUES (?, ?)`, "ws-2", "Marketing")
	exec(`INSERT INTO lists (id, workspace_id, name) VALUES (?, ?, ?)`, "l-1", "ws-1", "Backlog")
	exec(`INSERT INTO tasks (id, list_id, title, description, created_at) VALUES (?, ?, ?, ?, ?)`, "t-1", "l-1", "Design schema", "first pass", createdAt)
	exec(`INSERT INTO tasks (id, list_id, title, created_at) VALUES (?, ?, ?, ?)`, "t-2", "l-1", "Write migrations", createdAt)
	exec(`INSERT INTO tasks (id, list_id, title, created_at) VALUES (?, ?, ?, ?)`, "t-3", "l-1", "Ship release", createdAt)
	exec(`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, "f-status", "ws-1", "Status", "dropdown")
	exec(`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, "f-tags", "ws-1", "Tags", "labels")
	exec(`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, "f-notes", "ws-1", "Notes", "text")
	exec(`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, "f-foreign", "ws-2", "Channel", "text")
	exec(`INSERT INTO custom_field_options (id, field_id, value, sort_order) VALUES (?, ?, ?, ?)`, "o-todo", "f-status", "To do", 1)
	exec(`INSERT INTO custom_field_options (id, field_id, value, sort_order) VALUES (?, ?, ?, ?)`, "o-done", "f-status", "Done", 2)
	exec(`INSERT INTO custom_field_options (id, field_id, value, sort_order) VALUES (?, ?, ?, ?)`, "o-red", "f-tags", "Urgent", 1)
	exec(`INSERT INTO custom_field_options (id, field_id, value, sort_order) VALUES (?, ?, ?, ?)`, "o-blue", "f-tags", "Backend", 2)
	exec(`INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)`, "t-1", "u-alice")

	return &fixture{db: db, store: dbadapter.NewStore(db), ctx: ctx}
}

func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.GetContext(f.ctx, &n, f.db.Rebind(query), args...))
	return n
}

func ptr[T any](value T) *T {
	return &value
}
