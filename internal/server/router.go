package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dosyammh/critic/internal/handlers"
	"github.com/dosyammh/critic/internal/middleware"
	"github.com/dosyammh/critic/internal/utils"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	UserHandler        *handlers.UserHandler
	SearchHandler      *handlers.SearchHandler
	ReviewHandler      *handlers.ReviewHandler
	SocialHandler      *handlers.SocialHandler
	TrendingHandler    *handlers.TrendingHandler
	AchievementHandler *handlers.AchievementHandler
	MediaDir           string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("critic-api"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.MediaDir != "" {
		router.Static("/media", cfg.MediaDir)
	}
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.GET("/trending", cfg.TrendingHandler.Trending)
		api.GET("/categories", cfg.SearchHandler.Categories)
		api.GET("/leaderboard", cfg.AchievementHandler.Leaderboard)
	}

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/refresh", cfg.AuthHandler.Refresh)
		protected.POST("/logout", cfg.AuthHandler.Logout)

		protected.GET("/search", cfg.SearchHandler.Search)

		protected.GET("/me", cfg.UserHandler.GetMe)
		protected.PATCH("/me", cfg.UserHandler.UpdateProfile)
		protected.POST("/me/avatar", cfg.UserHandler.UploadAvatar)
		protected.GET("/users/:id", cfg.UserHandler.GetProfile)
		protected.GET("/users/:id/reviews", cfg.ReviewHandler.ListForUser)
		protected.GET("/users/:id/followers", cfg.SocialHandler.ListFollowers)
		protected.GET("/users/:id/following", cfg.SocialHandler.ListFollowing)
		protected.POST("/users/:id/follow", cfg.SocialHandler.Follow)
		protected.DELETE("/users/:id/follow", cfg.SocialHandler.Unfollow)

		protected.GET("/feed", cfg.ReviewHandler.Feed)
		protected.POST("/reviews", cfg.ReviewHandler.Create)
		protected.GET("/reviews/:id", cfg.ReviewHandler.Get)
		protected.PATCH("/reviews/:id", cfg.ReviewHandler.Update)
		protected.DELETE("/reviews/:id", cfg.ReviewHandler.Delete)
		protected.POST("/reviews/:id/like", cfg.ReviewHandler.ToggleLike)
		protected.GET("/reviews/:id/comments", cfg.ReviewHandler.ListComments)
		protected.POST("/reviews/:id/comments", cfg.ReviewHandler.AddComment)
		protected.GET("/content/:id/reviews", cfg.ReviewHandler.ListForContentItem)

		protected.GET("/achievements", cfg.AchievementHandler.ListMine)
		protected.POST("/checkin", cfg.AchievementHandler.CheckIn)
		protected.GET("/leaderboard/me", cfg.AchievementHandler.MyRank)
	}

	return router
}

func allowedOrigins() []string {
	raw := utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", nil)
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
