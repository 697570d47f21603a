package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"efggames/internal/config"
	"efggames/internal/database"
	"efggames/internal/handlers"
	"efggames/internal/repository"
	"efggames/internal/security"
	"efggames/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	gameRepo := repository.NewGameRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	limitRepo := repository.NewRateLimitRepository(db)

	// Initialize services
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.SessionDuration)
	authService := service.NewAuthService(userRepo, tokens, cfg.SessionDuration)
	gameService := service.NewGameService(db, gameRepo, ratingRepo, commentRepo, limitRepo, cfg.PlayRateLimit, cfg.PlayRateWindow)
	ratingService := service.NewRatingService(db, gameRepo, ratingRepo)
	statsService := service.NewStatsService(db, studentRepo, sessionRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.PartnershipEmail, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize handlers
	authLimiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, authLimiter)
	authHandler := handlers.NewAuthHandler(authService, cfg.OAuthRedirectBaseURL, cfg.GoogleClientID, cfg.GoogleClientSecret)
	gameHandler := handlers.NewGameHandler(gameService, ratingService)
	studentHandler := handlers.NewStudentHandler(statsService)
	contactHandler := handlers.NewContactHandler(emailService)

	// Setup routes
	mux := http.NewServeMux()

	// Game catalog routes
	mux.HandleFunc("GET /games", gameHandler.ListAll)
	mux.HandleFunc("GET /games/{grade}", gameHandler.ListGrade)
	mux.HandleFunc("GET /games/{grade}/{id}", middleware.OptionalAuth(gameHandler.GetGame))
	mux.HandleFunc("POST /games/{grade}/{id}/incrementPlay", middleware.OptionalAuth(gameHandler.IncrementPlay))
	mux.HandleFunc("POST /games/{grade}/{id}/like", middleware.RequireAuth(gameHandler.Rate))
	mux.HandleFunc("GET /games/{grade}/{id}/rating", middleware.RequireAuth(gameHandler.GetRating))
	mux.HandleFunc("GET /games/{grade}/{id}/comment", gameHandler.ListComments)
	mux.HandleFunc("POST /games/{grade}/{id}/comment", middleware.RequireAuth(gameHandler.AddComment))
	mux.HandleFunc("POST /games/init-db", middleware.RequireAdmin(gameHandler.InitCatalog))

	// Student routes
	mux.HandleFunc("POST /students/create", middleware.RequireAuth(studentHandler.Create))
	mux.HandleFunc("GET /students", middleware.RequireAuth(studentHandler.List))
	mux.HandleFunc("GET /students/stats", middleware.RequireAuth(studentHandler.Stats))
	mux.HandleFunc("POST /students/track-game", middleware.RequireAuth(studentHandler.TrackGame))
	mux.HandleFunc("GET /students/{id}/sessions", middleware.RequireAuth(studentHandler.Sessions))

	// Auth routes
	mux.HandleFunc("POST /auth/signup", middleware.RateLimit(authHandler.Signup))
	mux.HandleFunc("POST /auth/signin", middleware.RateLimit(authHandler.Signin))
	mux.HandleFunc("POST /auth/signout", authHandler.Signout)
	mux.HandleFunc("POST /auth/update-password", middleware.RequireAuth(authHandler.UpdatePassword))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Profile routes
	mux.HandleFunc("GET /user/profile", middleware.RequireAuth(authHandler.GetProfile))
	mux.HandleFunc("PUT /user/profile", middleware.RequireAuth(authHandler.UpdateProfile))

	// Contact routes
	mux.HandleFunc("POST /contact/partnership", middleware.RateLimit(contactHandler.Partnership))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup
	go cleanupLoop(authService, gameService)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

// cleanupLoop periodically removes expired auth sessions and stale
// rate-limit windows
func cleanupLoop(authService *service.AuthService, gameService *service.GameService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}

		if err := gameService.CleanupRateLimits(); err != nil {
			log.Printf("Error cleaning up rate limits: %v", err)
		}
	}
}
