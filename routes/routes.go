package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"codechat/controllers"
)

// MaxUploadSize caps project archive uploads.
const MaxUploadSize = "100M"

func SetupRoutes(e *echo.Echo, health *controllers.HealthController, projects *controllers.ProjectController, chat *controllers.ChatController) {
	api := e.Group("/api")

	api.GET("/health", health.HealthCheck)

	api.POST("/project/upload", projects.Upload, middleware.BodyLimit(MaxUploadSize))
	api.GET("/project/:id", projects.Get)
	api.GET("/project/:id/file", projects.File)
	api.DELETE("/project/:id", projects.Delete)

	api.GET("/models", chat.Models)
	api.POST("/chat", chat.Chat)
	api.POST("/chat-legacy", chat.ChatLegacy)

	api.GET("/conversations/:id", chat.GetConversation)
	api.DELETE("/conversations/:id", chat.DeleteConversation)
}
