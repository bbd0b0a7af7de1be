package http

import (
	"github.com/gin-gonic/gin"

	"taskboard/internal/adapter/http/handlers"
	"taskboard/internal/adapter/http/middleware"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Health        *handlers.HealthHandler
	Tasks         *handlers.TaskHandler
	Dependencies  *handlers.DependencyHandler
	Comments      *handlers.CommentHandler
	Notifications *handlers.NotificationHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret string) {
	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)
		api.GET("/push/vapid-public-key", h.Notifications.VapidPublicKey)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authed.GET("/tasks/:id", h.Tasks.GetTask)
		authed.PATCH("/tasks/:id", h.Tasks.UpdateTask)
		authed.PUT("/tasks/:id/custom-fields/:fieldId", h.Tasks.UpsertCustomField)
		authed.GET("/tasks/:id/dependencies", h.Dependencies.ListDependencies)
		authed.GET("/tasks/:id/comments", h.Comments.ListComments)
		authed.POST("/tasks/:id/comments", h.Comments.CreateComment)
		authed.POST("/dependencies", h.Dependencies.AddDependency)
		authed.DELETE("/dependencies", h.Dependencies.RemoveDependency)
		authed.GET("/notifications", h.Notifications.ListNotifications)
		authed.POST("/notifications/read", h.Notifications.MarkAllRead)
		authed.POST("/push/subscriptions", h.Notifications.SaveSubscription)
	}
}
