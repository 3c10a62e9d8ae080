package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studymaster-backend/internal/handlers"
	"github.com/yungbote/studymaster-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	ClassHandler    *handlers.ClassHandler
	EventHandler    *handlers.EventHandler
	ScheduleHandler *handlers.ScheduleHandler
	PracticeHandler *handlers.PracticeHandler
	SSEHandler      *handlers.SSEHandler
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	// Schedule pipeline
	protected.POST("/schedule/extract", cfg.ScheduleHandler.Extract)
	protected.POST("/schedule/synthesize", cfg.ScheduleHandler.Synthesize)
	protected.POST("/schedule/submit", cfg.ScheduleHandler.Submit)
	// Classes
	protected.GET("/classes", cfg.ClassHandler.GetClasses)
	protected.DELETE("/classes/:id", cfg.ClassHandler.DeleteClass)
	// Events
	protected.GET("/events", cfg.EventHandler.GetEvents)
	protected.GET("/events/:id", cfg.EventHandler.GetEvent)
	protected.PATCH("/events/:id/content", cfg.EventHandler.UpdateEventContent)
	protected.DELETE("/events/:id", cfg.EventHandler.DeleteEvent)
	// Practice
	protected.GET("/events/:id/problems", cfg.PracticeHandler.GetProblems)
	protected.GET("/events/:id/results", cfg.PracticeHandler.GetResults)
	protected.POST("/problems/:id/answer", cfg.PracticeHandler.SubmitAnswer)

	return router
}
