package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rafabene/revistete-backend/docs" // registra a especificação OpenAPI
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/handlers/dto"
	"github.com/rafabene/revistete-backend/internal/handlers/middleware"
	"github.com/rafabene/revistete-backend/internal/infrastructure/metrics"
	"github.com/rafabene/revistete-backend/internal/infrastructure/telemetry"
	"github.com/rafabene/revistete-backend/internal/services"
)

// RouterConfig reúne as opções de montagem do router
type RouterConfig struct {
	Env            string
	BaseURL        string
	AllowedOrigins string
	UploadDir      string
	MaxFiles       int
	ServiceName    string
}

// Services são as dependências de domínio dos handlers
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Posts         *services.PostService
	Messages      *services.MessageService
	Notifications *services.NotificationService
	Geocoding     *services.GeocodingService
}

// NewRouter monta o gin.Engine com middlewares globais e as rotas /api
func NewRouter(cfg RouterConfig, svc Services, catalog middleware.Catalog, logger ports.Logger) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	production := cfg.Env == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	errs := NewErrorResponder(logger, !production)

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		router.Use(telemetry.Middleware(cfg.ServiceName))
	}
	router.Use(metrics.HTTPMetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.BaseURL(cfg.BaseURL))
	router.Use(middleware.NewI18nMiddleware(catalog).DetectLanguage())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})
	router.GET("/metrics", metrics.Handler())
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.UploadDir != "" {
		router.Static(services.UploadsPath, cfg.UploadDir)
	}

	authHandler := NewAuthHandler(svc.Auth, errs)
	userHandler := NewUserHandler(svc.Users, errs)
	postHandler := NewPostHandler(svc.Posts, errs, cfg.MaxFiles)
	messageHandler := NewMessageHandler(svc.Messages, errs)
	notificationHandler := NewNotificationHandler(svc.Notifications, errs)
	geocodingHandler := NewGeocodingHandler(svc.Geocoding, errs)

	requireAuth := middleware.RequireAuth(svc.Auth, errs.Respond)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.GET("/profile", requireAuth, authHandler.Me)
		}

		users := api.Group("/users")
		{
			users.PUT("/update", requireAuth, userHandler.UpdateProfile)
			users.GET("/:id", userHandler.GetPublicProfile)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.List)
			posts.GET("/user/:id", postHandler.ListByUser)
			posts.GET("/:id", postHandler.GetByID)
			posts.POST("", requireAuth, postHandler.Create)
			posts.PUT("/:id", requireAuth, postHandler.Update)
			posts.DELETE("/:id", requireAuth, postHandler.Delete)
		}

		messages := api.Group("/messages", requireAuth)
		{
			messages.POST("", messageHandler.Send)
			messages.GET("/conversations", messageHandler.ListConversations)
			messages.POST("/:conversationId", messageHandler.SendToConversation)
			messages.GET("/:conversationId", messageHandler.ListMessages)
		}

		notifications := api.Group("/notifications", requireAuth)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		api.GET("/geocode/reverse", geocodingHandler.Reverse)
	}

	return router, nil
}
