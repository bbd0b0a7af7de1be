package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"taskboard/internal/adapter/http/middleware"
)

const (
	StatusOk        = "ok"
	StatusDown      = "down"
	StatusDisabled  = "disabled"
	healthDBTimeout = 2 * time.Second
)

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Database     string `json:"database"`
	Driver       string `json:"driver"`
	Push         string `json:"push"`
	PendingQueue int    `json:"pending_post_commit_events"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	Status            HealthServices `json:"status"`
}

type HealthOption func(*HealthHandler)

// WithPushEnabled marks web push as configured in the report.
func WithPushEnabled(enabled bool) HealthOption {
	return func(h *HealthHandler) {
		h.pushEnabled = enabled
	}
}

// WithQueueDepth reports the post-commit backlog, typically Dispatcher.Pending.
func WithQueueDepth(depth func() int) HealthOption {
	return func(h *HealthHandler) {
		h.queueDepth = depth
	}
}

type HealthHandler struct {
	db          *sqlx.DB
	pushEnabled bool
	queueDepth  func() int
}

func NewHealthHandler(db *sqlx.DB, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{db: db}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// CheckHealth answers 500 when the database cannot be reached.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	statusCode := http.StatusOK
	message := StatusOk

	if !h.checkConnectionToDatabase(c.Request.Context()) {
		statusCode = http.StatusInternalServerError
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
	})
}

func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	services := HealthServices{
		Database: StatusDown,
		Push:     StatusDisabled,
	}
	if h.checkConnectionToDatabase(c.Request.Context()) {
		services.Database = StatusOk
	}
	if h.db != nil {
		services.Driver = h.db.DriverName()
	}
	if h.pushEnabled {
		services.Push = StatusOk
	}
	if h.queueDepth != nil {
		services.PendingQueue = h.queueDepth()
	}

	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        getAppVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		Status:            services,
	})
}

func (h *HealthHandler) checkConnectionToDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	// Avoid hanging health checks if the database stalls.
	timeoutCtx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()
	return h.db.PingContext(timeoutCtx) == nil
}

func getAppVersion() string {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		return "dev"
	}
	return version
}
