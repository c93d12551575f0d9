package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mathadventure/internal/audio"
	"mathadventure/internal/config"
	"mathadventure/internal/database"
	"mathadventure/internal/handlers"
	"mathadventure/internal/quiz"
	"mathadventure/internal/repository"
	"mathadventure/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Initialize(cfg)
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
	playerRepo := repository.NewPlayerRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Initialize services
	progressService := service.NewProgressService(progressRepo)
	reportService := service.NewReportService(progressService)
	feedbackService := service.NewFeedbackService(cfg.GeminiAPIKey, cfg.GeminiTextModel)
	ttsService := audio.NewTTSService(cfg.AudioDir, cfg.GeminiAPIKey, cfg.GeminiTTSModel)

	generator := quiz.NewGenerator(nil)
	registry := quiz.NewRegistry()
	timing := quiz.DefaultTiming()

	// Initialize handlers
	middleware := handlers.NewMiddleware(playerRepo)
	quizHandler := handlers.NewQuizHandler(generator, registry, reportService, feedbackService, timing)
	versusHandler := handlers.NewVersusHandler(generator, registry, timing)
	progressHandler := handlers.NewProgressHandler(progressService, feedbackService)
	speechHandler := handlers.NewSpeechHandler(ttsService)

	// Setup routes
	mux := http.NewServeMux()

	// Generated speech files
	mux.Handle("GET /audio/", http.StripPrefix("/audio/", http.FileServer(http.Dir(cfg.AudioDir))))

	// Single-player quiz
	mux.HandleFunc("POST /api/quiz", middleware.EnsurePlayer(quizHandler.Start))
	mux.HandleFunc("GET /api/quiz/{id}", middleware.EnsurePlayer(quizHandler.Get))
	mux.HandleFunc("POST /api/quiz/{id}/answer", middleware.EnsurePlayer(quizHandler.Answer))
	mux.HandleFunc("POST /api/quiz/{id}/quit", middleware.EnsurePlayer(quizHandler.Quit))
	mux.HandleFunc("POST /api/quiz/{id}/sticker", middleware.EnsurePlayer(quizHandler.ClaimSticker))
	mux.HandleFunc("GET /api/quiz/{id}/feedback", middleware.EnsurePlayer(quizHandler.Feedback))

	// Two-player race
	mux.HandleFunc("POST /api/versus", middleware.EnsurePlayer(versusHandler.Start))
	mux.HandleFunc("GET /api/versus/{id}", middleware.EnsurePlayer(versusHandler.Get))
	mux.HandleFunc("POST /api/versus/{id}/answer", middleware.EnsurePlayer(versusHandler.Answer))
	mux.HandleFunc("POST /api/versus/{id}/quit", middleware.EnsurePlayer(versusHandler.Quit))

	// Progress and stickers
	mux.HandleFunc("GET /api/progress", middleware.EnsurePlayer(progressHandler.Get))
	mux.HandleFunc("DELETE /api/progress", middleware.EnsurePlayer(progressHandler.Clear))
	mux.HandleFunc("GET /api/progress/suggestions", middleware.EnsurePlayer(progressHandler.Suggestions))
	mux.HandleFunc("GET /api/stickers", middleware.EnsurePlayer(progressHandler.Stickers))

	// Speech
	mux.HandleFunc("POST /api/speech", middleware.EnsurePlayer(speechHandler.Generate))

	// Wrap with logging middleware
	handler := middleware.LogRequests(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background sweep of abandoned quiz sessions
	go sweepIdleSessions(registry, cfg.SessionMaxIdle)

	// Graceful shutdown
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// sweepIdleSessions periodically removes quizzes nobody is playing.
// Reaped engines are abandoned, so no partial results are written.
func sweepIdleSessions(registry *quiz.Registry, maxIdle time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if reaped := registry.SweepExpired(maxIdle); reaped > 0 {
			log.Printf("Reaped %d idle quiz sessions", reaped)
		}
	}
}
