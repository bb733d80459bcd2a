package handlers

import (
	"time"

	"github.com/SAP-F-2025/quiz-session-service/internal/auth"
	"github.com/SAP-F-2025/quiz-session-service/internal/services"
	"github.com/SAP-F-2025/quiz-session-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler  *SessionHandler
	practiceHandler *PracticeHandler
	catalogHandler  *CatalogHandler
	authMiddleware  *auth.Middleware
	logger          utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *auth.Middleware,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler:  NewSessionHandler(serviceManager.Session(), serviceManager.Result(), serviceManager.Export(), logger),
		practiceHandler: NewPracticeHandler(serviceManager.Practice(), logger),
		catalogHandler:  NewCatalogHandler(serviceManager.Catalog(), serviceManager.Result(), logger),
		authMiddleware:  authMiddleware,
		logger:          logger,
	}
}

// NewRouter builds a gin engine with the shared middleware stack and all routes.
func (hm *HandlerManager) NewRouter(allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(hm.logger))
	router.Use(utils.LoggerMiddleware(hm.logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", utils.RequestIDHeader, auth.HeaderUserID, auth.HeaderUserName},
		ExposeHeaders:    []string{"Content-Disposition", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	if hm.authMiddleware != nil {
		v1.Use(hm.authMiddleware.Handler())
	}
	{
		// Public catalog
		v1.GET("/categories", hm.catalogHandler.ListCategories)
		v1.GET("/questions/:id/image", hm.catalogHandler.GetQuestionImage)
		v1.GET("/leaderboard", hm.catalogHandler.GetLeaderboard)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:id/questions/:index", hm.sessionHandler.GetQuestion)
			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/complete", hm.sessionHandler.CompleteSession)
			sessions.GET("/:id/time-remaining", hm.sessionHandler.GetTimeRemaining)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
			sessions.GET("/:id/result/export", hm.sessionHandler.ExportResult)
		}

		practice := v1.Group("/practice")
		{
			practice.GET("/question", hm.practiceHandler.GetQuestion)
			practice.POST("/check", hm.practiceHandler.CheckAnswer)
		}
	}
}
