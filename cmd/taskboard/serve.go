package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbadapter "taskboard/internal/adapter/db"
	httpadapter "taskboard/internal/adapter/http"
	"taskboard/internal/adapter/http/handlers"
	httpmiddleware "taskboard/internal/adapter/http/middleware"
	"taskboard/internal/adapter/push"
	"taskboard/internal/adapter/relay"
	"taskboard/internal/app/postcommit"
	appservice "taskboard/internal/app/service"
	"taskboard/internal/config"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task board HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func runServe(parent context.Context, migrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := zap.L()
	cfg := config.LoadConfig()
	initTranslator(cfg)

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, every authenticated request will be rejected")
	}

	rules, err := config.LoadAutomationRules(cfg.AutomationRulesFile)
	if err != nil {
		return err
	}

	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.DbDriver, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	if migrate {
		if err := dbadapter.Migrate(ctx, db); err != nil {
			return err
		}
	}

	store := dbadapter.NewStore(db)

	sender := push.NewSender(push.Config{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subject:    cfg.VAPIDSubject,
		TTL:        cfg.PushTTL,
	}, nil)
	var pushSender *push.Sender
	if sender.Configured() {
		pushSender = sender
	} else {
		logger.Info("VAPID keys not set, web push disabled")
	}

	notifications := newNotificationService(store, pushSender, cfg.PushLanguage)
	dispatcher := postcommit.NewDispatcher(
		notifications,
		relay.NewNotifier(cfg.RelayControlURL, nil),
		postcommit.WithWorkers(cfg.DispatchWorkers),
		postcommit.WithQueueSize(cfg.DispatchQueueSize),
	)

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))

	vapidPublicKey := ""
	if pushSender != nil {
		vapidPublicKey = cfg.VAPIDPublicKey
	}

	healthHandler := handlers.NewHealthHandler(db,
		handlers.WithPushEnabled(pushSender != nil),
		handlers.WithQueueDepth(dispatcher.Pending),
	)

	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health:        healthHandler,
		Tasks:         handlers.NewTaskHandler(appservice.NewTaskService(store, appservice.NewAutomation(rules), notifications, dispatcher)),
		Dependencies:  handlers.NewDependencyHandler(appservice.NewDependencyService(store, dispatcher)),
		Comments:      handlers.NewCommentHandler(appservice.NewCommentService(store, notifications, dispatcher)),
		Notifications: handlers.NewNotificationHandler(notifications, vapidPublicKey),
	}, cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("driver", db.DriverName()),
			zap.Int("automation_rules", len(rules)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("post-commit dispatcher did not drain", zap.Error(err))
	}
	logger.Info("server stopped")

	return runErr
}

// newNotificationService keeps a nil *push.Sender from turning into a
// non-nil interface value.
func newNotificationService(store *dbadapter.Store, sender *push.Sender, language string) *appservice.NotificationService {
	if sender == nil {
		return appservice.NewNotificationService(store, nil, language)
	}
	return appservice.NewNotificationService(store, sender, language)
}
