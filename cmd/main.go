package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/studymaster-backend/internal/db"
	"github.com/yungbote/studymaster-backend/internal/handlers"
	"github.com/yungbote/studymaster-backend/internal/logger"
	"github.com/yungbote/studymaster-backend/internal/middleware"
	"github.com/yungbote/studymaster-backend/internal/repos"
	"github.com/yungbote/studymaster-backend/internal/server"
	"github.com/yungbote/studymaster-backend/internal/services"
	"github.com/yungbote/studymaster-backend/internal/sse"
	"github.com/yungbote/studymaster-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	userClassRepo := repos.NewUserClassRepo(thePG, log)
	calendarEventRepo := repos.NewCalendarEventRepo(thePG, log)
	practiceProblemRepo := repos.NewPracticeProblemRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)

	// Services
	log.Info("Setting up Services from main...")
	aiClient, err := services.NewAIClient(log)
	if err != nil {
		log.Error("Could not init AIClient", "error", err)
		os.Exit(1)
	}
	visionRecognizer, err := services.NewVisionRecognizer(log)
	if err != nil {
		// OCR is only needed for image uploads; PDFs and pasted text still work.
		log.Warn("Could not init VisionRecognizer, image uploads disabled", "error", err)
		visionRecognizer = nil
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	textExtractService := services.NewTextExtractService(log, visionRecognizer)
	scheduleService := services.NewScheduleService(log, aiClient.ScheduleModel())
	eventService := services.NewCalendarEventService(thePG, log, calendarEventRepo)
	classService := services.NewUserClassService(thePG, log, userClassRepo, calendarEventRepo)
	submissionService := services.NewSubmissionService(thePG, log, eventService, classService, sseHub)
	practiceService := services.NewPracticeService(thePG, log, aiClient, eventService, calendarEventRepo, practiceProblemRepo, sseHub)
	gradingService := services.NewGradingService(thePG, log, aiClient, eventService, practiceProblemRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	classHandler := handlers.NewClassHandler(classService)
	eventHandler := handlers.NewEventHandler(eventService)
	scheduleHandler := handlers.NewScheduleHandler(textExtractService, scheduleService, submissionService, aiClient, sseHub)
	practiceHandler := handlers.NewPracticeHandler(practiceService, gradingService)
	sseHandler := handlers.NewSSEHandler(sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		ClassHandler:    classHandler,
		EventHandler:    eventHandler,
		ScheduleHandler: scheduleHandler,
		PracticeHandler: practiceHandler,
		SSEHandler:      sseHandler,
		AllowOrigins:    origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
