package tests

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dbadapter "taskboard/internal/adapter/db"
	httpadapter "taskboard/internal/adapter/http"
	"taskboard/internal/adapter/http/handlers"
	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/adapter/relay"
	"taskboard/internal/app/postcommit"
	appservice "taskboard/internal/app/service"
	"taskboard/internal/core/domain"
	"taskboard/pkg/translator"
)

const jwtSecret = "integration-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// IntegrationSuiteBase serves the full router over a migrated SQLite file,
// with post-commit events flowing through a real relay hub.
type IntegrationSuiteBase struct {
	suite.Suite

	DB         *sqlx.DB
	router     *gin.Engine
	hub        *relay.Hub
	relay      *httptest.Server
	dispatcher *postcommit.Dispatcher
}

var doneMovesToCarol = domain.AutomationRule{
	Name:     "hand finished work to QA",
	FieldID:  "f-status",
	OptionID: "o-done",
	Action: domain.AutomationAction{
		Type:    domain.AutomationReplaceAssignees,
		UserIDs: []string{"u-carol"},
	},
}

func (s *IntegrationSuiteBase) SetupSuite() {
	translator.InitTranslator(translator.Config{
		TranslationFolder:  filepath.Join(projectRoot(s.T()), "pkg", "translator", "translation"),
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageEs},
	})
}

func (s *IntegrationSuiteBase) SetupTest() {
	ctx := context.Background()

	db, err := sqlx.Connect("sqlite", filepath.Join(s.T().TempDir(), "taskboard.db")+"?_pragma=foreign_keys(1)")
	s.Require().NoError(err)
	db.SetMaxOpenConns(1)
	s.Require().NoError(dbadapter.Migrate(ctx, db))
	s.DB = db
	s.seed()

	s.hub = relay.NewHub(16)
	s.relay = httptest.NewServer(relay.NewServer(relay.Config{}, s.hub).ControlRouter())

	store := dbadapter.NewStore(db)
	notifications := appservice.NewNotificationService(store, nil, translator.LanguageEn)
	s.dispatcher = postcommit.NewDispatcher(
		notifications,
		relay.NewNotifier(s.relay.URL+"/broadcast", s.relay.Client()),
		postcommit.WithWorkers(1),
	)

	router := gin.New()
	httpadapter.RegisterRoutes(router, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(db, handlers.WithQueueDepth(s.dispatcher.Pending)),
		Tasks:         handlers.NewTaskHandler(appservice.NewTaskService(store, appservice.NewAutomation([]domain.AutomationRule{doneMovesToCarol}), notifications, s.dispatcher)),
		Dependencies:  handlers.NewDependencyHandler(appservice.NewDependencyService(store, s.dispatcher)),
		Comments:      handlers.NewCommentHandler(appservice.NewCommentService(store, notifications, s.dispatcher)),
		Notifications: handlers.NewNotificationHandler(notifications, "BPublicKey"),
	}, jwtSecret)
	s.router = router
}

func (s *IntegrationSuiteBase) TearDownTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.dispatcher.Close(ctx))
	s.relay.Close()
	s.Require().NoError(s.DB.Close())
}

func (s *IntegrationSuiteBase) seed() {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	exec := func(query string, args ...any) {
		_, err := s.DB.Exec(s.DB.Rebind(query), args...)
		s.Require().NoError(err, query)
	}

	for _, user := range [][]string{
		{"u-alice", "Alice", "ADMIN"},
		{"u-bob", "Bob", "MEMBER"},
		{"u-carol", "Carol", "MEMBER"},
	} {
		exec(`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)`, user[0], user[1], user[0]+"@example.com", user[2])
	}
	exec(`INSERT INTO workspaces (id, name) VALUES (?, ?)`, "ws-1", "Product")
	exec(`INSERT INTO lists (id, workspace_id, name) VALUES (?, ?, ?)`, "l-1", "ws-1", "Backlog")
	exec(`INSERT INTO tasks (id, list_id, title, created_at) VALUES (?, ?, ?, ?)`, "t-1", "l-1", "Design schema", createdAt)
	exec(`INSERT INTO tasks (id, list_id, title, created_at) VALUES (?, ?, ?, ?)`, "t-2", "l-1", "Write migrations", createdAt)
	exec(`INSERT INTO tasks (id, list_id, title, created_at) VALUES (?, ?, ?, ?)`, "t-3", "l-1", "Ship release", createdAt)
	exec(`INSERT INTO custom_fields (id, workspace_id, name, type) VALUES (?, ?, ?, ?)`, "f-status", "ws-1", "Status", "dropdown")
	exec(`INSERT INTO custom_field_options (id, field_id, value, sort_order) VALUES (?, ?, ?, ?)`, "o-todo", "f-status", "To do", 1)
	exec(`INSERT INTO custom_field_options (id, field_id, value, sort_order) VALUES (?, ?, ?, ?)`, "o-done", "f-status", "Done", 2)
}

func (s *IntegrationSuiteBase) token(userID, name string, role domain.Role) string {
	claims := middleware.Claims{
		Name: name,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	s.Require().NoError(err)
	return signed
}

func (s *IntegrationSuiteBase) request(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// nextBroadcast waits for the relay to fan out one event to client.
func (s *IntegrationSuiteBase) nextBroadcast(client *relay.Client) []byte {
	select {
	case payload := <-client.Messages():
		return payload
	case <-time.After(5 * time.Second):
		s.FailNow("no broadcast reached the relay")
		return nil
	}
}

func projectRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "..", ".."))
}
