package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dosyammh/critic/internal/clients/cache"
	"github.com/dosyammh/critic/internal/db"
	"github.com/dosyammh/critic/internal/handlers"
	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/middleware"
	"github.com/dosyammh/critic/internal/observability"
	"github.com/dosyammh/critic/internal/providers"
	"github.com/dosyammh/critic/internal/providers/googlebooks"
	"github.com/dosyammh/critic/internal/providers/spotify"
	"github.com/dosyammh/critic/internal/providers/tmdb"
	"github.com/dosyammh/critic/internal/providers/wikipedia"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/server"
	"github.com/dosyammh/critic/internal/services"
	"github.com/dosyammh/critic/internal/utils"
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
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
	mediaBaseURL := utils.GetEnv("MEDIA_BASE_URL", "/media", log)
	port := utils.GetEnv("PORT", "8080", log)

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "critic-api",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(ctx); err != nil {
			log.Warn("OTel shutdown failed", "error", err)
		}
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.SeedDefaults(); err != nil {
		log.Error("Postgres seeding failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()
	txRunner := services.NewTxRunner(thePG)

	// Redis
	cacheClient, err := cache.New(log)
	if err != nil {
		log.Warn("Redis init failed, trending cache disabled", "error", err)
		cacheClient = nil
	}
	if cacheClient != nil {
		defer cacheClient.Close()
	}

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	categoryRepo := repos.NewCategoryRepo(thePG, log)
	contentItemRepo := repos.NewContentItemRepo(thePG, log)
	reviewRepo := repos.NewReviewRepo(thePG, log)
	reviewLikeRepo := repos.NewReviewLikeRepo(thePG, log)
	commentRepo := repos.NewCommentRepo(thePG, log)
	followRepo := repos.NewFollowRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)
	userAchievementRepo := repos.NewUserAchievementRepo(thePG, log)

	// Content providers
	log.Info("Setting up content providers from main...")
	tmdbClient := tmdb.NewClient(log, utils.GetEnv("TMDB_API_KEY", "", log))
	spotifyClient := spotify.NewClient(log,
		utils.GetEnv("SPOTIFY_CLIENT_ID", "", log),
		utils.GetEnv("SPOTIFY_CLIENT_SECRET", "", log))
	contentProviders := []providers.Provider{
		wikipedia.NewClient(log),
		googlebooks.NewClient(log),
		tmdbClient.Movies(),
		tmdbClient.TVShows(),
		spotifyClient,
	}

	// Services
	log.Info("Setting up Services from main...")
	avatarService, err := services.NewAvatarService(log, userRepo, mediaDir, mediaBaseURL)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	gamificationService := services.NewGamificationService(txRunner, log, userRepo, achievementRepo, userAchievementRepo)
	authService := services.NewAuthService(
		txRunner, log, userRepo, userTokenRepo, avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	searchService := services.NewSearchService(log, rand.New(rand.NewSource(time.Now().UnixNano())), contentProviders...)
	reviewService := services.NewReviewService(
		txRunner, log, reviewRepo, reviewLikeRepo, commentRepo,
		contentItemRepo, categoryRepo, userRepo, followRepo, gamificationService,
	)
	socialService := services.NewSocialService(txRunner, log, followRepo, userRepo, gamificationService)
	trendingService := services.NewTrendingService(log, reviewRepo, contentItemRepo, cacheClient)
	userService := services.NewUserService(log, userRepo, reviewRepo, socialService, avatarService, gamificationService)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	searchHandler := handlers.NewSearchHandler(searchService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	socialHandler := handlers.NewSocialHandler(socialService)
	trendingHandler := handlers.NewTrendingHandler(trendingService)
	achievementHandler := handlers.NewAchievementHandler(gamificationService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		AuthMiddleware:     authMiddleware,
		UserHandler:        userHandler,
		SearchHandler:      searchHandler,
		ReviewHandler:      reviewHandler,
		SocialHandler:      socialHandler,
		TrendingHandler:    trendingHandler,
		AchievementHandler: achievementHandler,
		MediaDir:           mediaDir,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
