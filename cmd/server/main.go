package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/saasbase/projecthub/internal/handler"
	"github.com/saasbase/projecthub/internal/infrastructure/logger"
	"github.com/saasbase/projecthub/internal/infrastructure/redis"
	"github.com/saasbase/projecthub/internal/observability/tracing"
	"github.com/saasbase/projecthub/internal/repository"
	"github.com/saasbase/projecthub/internal/security/audit"
	"github.com/saasbase/projecthub/internal/security/auth"
	"github.com/saasbase/projecthub/internal/service"
	"github.com/saasbase/projecthub/internal/worker"
	"github.com/saasbase/projecthub/pkg/config"
	"github.com/saasbase/projecthub/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting projecthub server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op without an exporter endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, "projecthub", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to PostgreSQL
	db, err := database.Open(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	// 5. Optional redis-backed entity cache
	var redisClient *redis.Client
	var entityCache *redis.Cache
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		entityCache = redis.NewCache(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second, log)
	}

	// 6. Repositories
	userRepo := repository.NewPostgresUserRepository(db, log)
	projectRepo := repository.NewPostgresProjectRepository(db, log)
	taskRepo := repository.NewPostgresTaskRepository(db, log)
	teamRepo := repository.NewPostgresTeamMemberRepository(db, log)

	// 7. Services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "projecthub", time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	authService := service.NewAuthService(userRepo, tokenManager, log)
	userService := service.NewUserService(userRepo, entityCache, log)
	projectService := service.NewProjectService(projectRepo, entityCache, log)
	taskService := service.NewTaskService(taskRepo, entityCache, log)
	teamService := service.NewTeamService(teamRepo, log)

	// 8. Handlers and router
	auditLogger := audit.NewLogger(log)
	router := handler.NewRouter(handler.Handlers{
		Auth:    handler.NewAuthHandler(authService, auditLogger, log),
		User:    handler.NewUserHandler(userService, log),
		Project: handler.NewProjectHandler(projectService, auditLogger, log),
		Task:    handler.NewTaskHandler(taskService, auditLogger, log),
		Team:    handler.NewTeamHandler(teamService, auditLogger, log),
		Health:  handler.NewHealthHandler(db, redisClient, log),
	}, tokenManager, log)

	rootHandler := withRequestID(otelhttp.NewHandler(router, "projecthub"), log)

	// 9. Stats worker
	statsWorker := worker.NewStatsWorker(db, log, time.Duration(cfg.StatsIntervalMinutes)*time.Minute)
	go statsWorker.Start(ctx)

	// 10. HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Bool("cache", entityCache != nil),
		slog.Bool("token_expiry", cfg.TokenTTLMinutes > 0),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel() // stop stats worker
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers
// and logs request completion.
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
