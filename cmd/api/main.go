package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thenextevent/site-api/internal/cache"
	"github.com/thenextevent/site-api/internal/config"
	"github.com/thenextevent/site-api/internal/database"
	"github.com/thenextevent/site-api/internal/handler"
	"github.com/thenextevent/site-api/internal/middleware"
	"github.com/thenextevent/site-api/internal/notify"
	"github.com/thenextevent/site-api/internal/repository"
	"github.com/thenextevent/site-api/internal/service"
	"github.com/thenextevent/site-api/pkg/cloudinary"
	"github.com/thenextevent/site-api/pkg/mailer"
)

// main is the application entrypoint for the website admin API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting site api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	seoCache := cache.NewSeoCache(redisClient)

	// 4. Initialize external clients
	cloudinaryClient := cloudinary.NewClient(
		cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	smtpSender := mailer.NewSMTPSender()

	// 5. Initialize repositories
	userRepo := repository.NewAdminUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	formRepo := repository.NewFormRepository(db)
	seoRepo := repository.NewSeoRepository(db)
	emailRepo := repository.NewEmailRepository(db)

	// 6. Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	contentSvc := service.NewContentService(contentRepo)
	emailSvc := service.NewEmailService(emailRepo, formRepo, smtpSender)
	seoSvc := service.NewSeoService(seoRepo, seoCache, cfg.BaseURL)
	mediaSvc := service.NewMediaService(cloudinaryClient)

	// 6a. Notification dispatcher feeds form events to the email service.
	dispatcher := notify.NewEmailDispatcher(emailSvc, cfg.Notify.QueueSize)
	formSvc := service.NewFormService(formRepo, dispatcher)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(db),
		Auth:    handler.NewAuthHandler(authSvc),
		Content: handler.NewContentHandler(contentSvc),
		Form:    handler.NewFormHandler(formSvc),
		Seo:     handler.NewSeoHandler(seoSvc),
		Email:   handler.NewEmailHandler(emailSvc),
		Media:   handler.NewMediaHandler(mediaSvc),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWTSecret)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start the notification dispatcher
	go dispatcher.Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop the dispatcher
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Content *handler.ContentHandler
	Form    *handler.FormHandler
	Seo     *handler.SeoHandler
	Email   *handler.EmailHandler
	Media   *handler.MediaHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	api := router.Group("/api")

	api.GET("/health", handlers.Health.GetHealth)
	api.POST("/auth/login", handlers.Auth.Login)

	// Public website endpoints
	api.POST("/forms/submit", handlers.Form.Submit)
	api.GET("/content/by-key/:key", handlers.Content.GetByKey)
	api.GET("/content/by-language/:lang", handlers.Content.GetByLanguage)
	api.GET("/content/section/:sectionKey", handlers.Content.GetBySection)
	api.GET("/seo/by-url", handlers.Seo.GetByURL)
	api.GET("/seo/sitemap.xml", handlers.Seo.Sitemap)
	api.GET("/seo/robots.txt", handlers.Seo.Robots)

	// Admin endpoints
	admin := api.Group("")
	admin.Use(jwtMiddleware.Handle())
	{
		// Account
		admin.POST("/auth/register", handlers.Auth.Register)
		admin.GET("/auth/me", handlers.Auth.Me)
		admin.POST("/auth/logout", handlers.Auth.Logout)
		admin.POST("/auth/change-password", handlers.Auth.ChangePassword)
		admin.GET("/auth/users", handlers.Auth.ListUsers)
		admin.GET("/auth/users/:id", handlers.Auth.GetUser)
		admin.PUT("/auth/users/:id", handlers.Auth.UpdateUser)
		admin.DELETE("/auth/users/:id", handlers.Auth.DeactivateUser)

		// Website content
		admin.GET("/content", handlers.Content.List)
		admin.GET("/content/:id", handlers.Content.GetByID)
		admin.POST("/content", handlers.Content.Create)
		admin.PUT("/content/:id", handlers.Content.Update)
		admin.PATCH("/content/:id/sort-order", handlers.Content.SetSortOrder)
		admin.PATCH("/content/:id/toggle-active", handlers.Content.ToggleActive)
		admin.PATCH("/content/bulk-update", handlers.Content.BulkUpdate)
		admin.DELETE("/content/:id", handlers.Content.Delete)

		// Contact form inbox
		admin.GET("/forms", handlers.Form.List)
		admin.GET("/forms/statistics", handlers.Form.Stats)
		admin.GET("/forms/daily-counts", handlers.Form.DailyCounts)
		admin.GET("/forms/export/csv", handlers.Form.Export)
		admin.GET("/forms/:id", handlers.Form.GetByID)
		admin.PATCH("/forms/:id", handlers.Form.Update)
		admin.PATCH("/forms/bulk-update", handlers.Form.BulkUpdate)
		admin.POST("/forms/bulk-delete", handlers.Form.BulkDelete)
		admin.DELETE("/forms/:id", handlers.Form.Delete)

		// SEO metadata
		admin.GET("/seo", handlers.Seo.List)
		admin.GET("/seo/analytics", handlers.Seo.Analytics)
		admin.GET("/seo/recommendations", handlers.Seo.Recommendations)
		admin.POST("/seo/validate", handlers.Seo.Validate)
		admin.PATCH("/seo/bulk-update", handlers.Seo.BulkUpdate)
		admin.GET("/seo/:id", handlers.Seo.GetByID)
		admin.GET("/seo/:id/validate", handlers.Seo.ValidateByID)
		admin.POST("/seo", handlers.Seo.Create)
		admin.PUT("/seo/:id", handlers.Seo.Update)
		admin.DELETE("/seo/:id", handlers.Seo.Delete)

		// Email configuration and delivery
		admin.GET("/email/configuration", handlers.Email.GetConfiguration)
		admin.PUT("/email/configuration", handlers.Email.SaveConfiguration)
		admin.POST("/email/test", handlers.Email.SendTest)
		admin.POST("/email/send", handlers.Email.Send)
		admin.POST("/email/notify-form-submission", handlers.Email.NotifyFormSubmission)
		admin.GET("/email/history", handlers.Email.GetLog)
		admin.GET("/email/statistics", handlers.Email.LogStats)

		// Hosted images
		admin.GET("/media/all", handlers.Media.List)
		admin.GET("/media/signature", handlers.Media.SignUpload)
		admin.DELETE("/media/*publicId", handlers.Media.Delete)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
