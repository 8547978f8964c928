package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "typist/internal/app"
	"typist/internal/bootstrap"
	"typist/internal/cache"
	"typist/internal/repository"
	"typist/internal/transport/http/handler"
	"typist/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.AccessLog(app.Log, app.Metrics), cors.New(corsConfig(app.Config.CORS.AllowedOrigins)))

	userRepo := repository.NewUserRepository(app.DB)
	excerptRepo := repository.NewExcerptRepository(app.DB)
	scoreRepo := repository.NewScoreRepository(app.DB)
	sessions := cache.NewSessionStore(app.Redis, app.Config.SessionTTL())
	leaderboard := cache.NewLeaderboard(app.Redis)

	// A nil *ScorePublisher must not reach the service as a non-nil interface.
	var publisher appsvc.ScorePublisher
	if app.ScorePublisher != nil {
		publisher = app.ScorePublisher
	}

	authService := appsvc.NewAuthService(userRepo, sessions, app.Config.Auth.SecretKey, app.Log)
	excerptService := appsvc.NewExcerptService(excerptRepo, leaderboard, app.Log)
	scoreService := appsvc.NewScoreService(scoreRepo, publisher, leaderboard, app.Metrics, app.Log)
	userAdminService := appsvc.NewUserAdminService(authService, userRepo, app.Log)

	authHandler := handler.NewAuthHandler(authService, app.Config.Auth.CookieName, app.Config.Auth.CookieSecure)
	excerptHandler := handler.NewExcerptHandler(excerptService)
	scoreHandler := handler.NewScoreHandler(scoreService)
	healthHandler := handler.NewHealthHandler(app)
	adminHandler := handler.NewAdminHandler(
		excerptService,
		handler.NewUserAdminResource(userAdminService),
		handler.NewExcerptAdminResource(excerptService),
		handler.NewScoreAdminResource(scoreService),
	)

	router.GET("/", handler.Home)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Metrics.Registry, promhttp.HandlerOpts{})))

	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.GET("/me", middleware.LoadUser(authService, app.Config.Auth.CookieName, app.Log), middleware.RequireUser(), authHandler.Me)

	router.POST("/score", scoreHandler.Create)
	router.GET("/excerpts", excerptHandler.List)
	router.GET("/excerpts/:id", excerptHandler.Get)
	router.GET("/excerpts/:id/leaderboard", excerptHandler.Leaderboard)

	adminGroup := router.Group("/admin")
	adminGroup.Use(middleware.LoadUser(authService, app.Config.Auth.CookieName, app.Log), middleware.RequireAdmin())
	adminHandler.Register(adminGroup)

	return router
}

// corsConfig allows every origin unless a list is configured. Credentials
// are only allowed for explicit origins.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
