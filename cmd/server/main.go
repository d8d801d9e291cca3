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

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yourorg/harbormaster/internal/featureflags"
	"github.com/yourorg/harbormaster/internal/handler"
	"github.com/yourorg/harbormaster/internal/infrastructure/logger"
	"github.com/yourorg/harbormaster/internal/infrastructure/redis"
	"github.com/yourorg/harbormaster/internal/observability/metrics"
	"github.com/yourorg/harbormaster/internal/observability/tracing"
	"github.com/yourorg/harbormaster/internal/repository"
	"github.com/yourorg/harbormaster/internal/security"
	"github.com/yourorg/harbormaster/internal/security/audit"
	"github.com/yourorg/harbormaster/internal/security/auth"
	"github.com/yourorg/harbormaster/internal/security/middleware"
	"github.com/yourorg/harbormaster/internal/security/ratelimit"
	"github.com/yourorg/harbormaster/internal/service"
	"github.com/yourorg/harbormaster/internal/worker"
	"github.com/yourorg/harbormaster/pkg/cache"
	"github.com/yourorg/harbormaster/pkg/config"
	"github.com/yourorg/harbormaster/pkg/database"
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
	log.Info("starting harbormaster server", slog.String("environment", cfg.Environment))

	// 3. Initialize tracing (no-op unless an OTLP endpoint is configured)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, "harbormaster", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Initialize Redis client
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 5. Initialize database connection pool
	pool, err := database.NewConnectionPool(ctx, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 6. Initialize repositories
	berthRepo := repository.NewPostgresBerthRepository(pool.GetDB(), log)
	reservationRepo := repository.NewPostgresReservationRepository(pool.GetDB(), log)
	userRepo := repository.NewPostgresUserRepository(pool.GetDB(), log)

	// 7. Initialize services
	statusCache := cache.New()
	deriver := service.NewAvailabilityDeriver(
		reservationRepo,
		statusCache,
		time.Duration(cfg.StatusCacheTTLSeconds)*time.Second,
		log,
	)
	berthService := service.NewBerthService(berthRepo, deriver, log)
	reservationService := service.NewReservationService(reservationRepo, berthRepo, deriver, log)
	userService := service.NewUserService(userRepo, log)

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.TokenTTLHours)*time.Hour)
	if err != nil {
		log.Error("failed to initialize token manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	authService := service.NewAuthService(userRepo, tokenManager, log)

	// 8. Initialize handlers
	validate := validator.New()
	berthHandler := handler.NewBerthHandler(berthService, log, validate)
	reservationHandler := handler.NewReservationHandler(reservationService, log, validate)
	userHandler := handler.NewUserHandler(userService, log, validate)
	authHandler := handler.NewAuthHandler(authService, log)

	// 8a. Initialize security components
	policy := security.NewRoutePolicy()
	rateLimiter := ratelimit.NewLimiter(100, time.Minute)
	auditLogger := audit.NewLogger(log)

	// 9. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /catways", berthHandler.List)
	mux.HandleFunc("GET /catways/{number}", berthHandler.Get)
	mux.HandleFunc("POST /catways", berthHandler.Create)
	mux.HandleFunc("PUT /catways/{number}", berthHandler.UpdateState)
	mux.HandleFunc("DELETE /catways/{number}", berthHandler.Delete)
	mux.HandleFunc("GET /catways/{number}/reservations", reservationHandler.ListForBerth)
	mux.HandleFunc("GET /catways/{number}/reservations/{id}", reservationHandler.Get)
	mux.HandleFunc("POST /catways/{number}/reservations", reservationHandler.Create)
	mux.HandleFunc("PUT /catways/{number}/reservations/{id}", reservationHandler.Update)
	mux.HandleFunc("DELETE /catways/{number}/reservations/{id}", reservationHandler.Delete)
	mux.HandleFunc("GET /reservations", reservationHandler.ListAll)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /users", userHandler.List)
	mux.HandleFunc("GET /users/{email}", userHandler.Get)
	mux.HandleFunc("POST /users", userHandler.Create)
	mux.HandleFunc("PUT /users/{email}", userHandler.Update)
	mux.HandleFunc("DELETE /users/{email}", userHandler.Delete)
	mux.Handle("/metrics", promhttp.Handler())

	statusInterval := time.Duration(cfg.StatusRefreshSeconds) * time.Second
	if featureflags.Enabled("availability_stream") {
		wsHandler := handler.NewAvailabilityStreamHandler(redisClient, log, cfg.CORSAllowedOrigins, statusInterval)
		mux.Handle("GET /ws/availability", wsHandler)
		log.Info("availability websocket stream enabled")
	}

	// Health and readiness endpoints (no auth required)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Health(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database not ready"))
			return
		}
		if err := redisClient.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("redis not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	// CORS middleware honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-Access-Token")
		w.Header().Set("Access-Control-Expose-Headers", "Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain middleware: request ID -> metrics -> JWT -> rate limit -> audit -> content type -> CORS
	loginWindow := time.Duration(cfg.LoginRateWindowSeconds) * time.Second
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.JWTMiddleware(tokenManager, policy, log)(
				middleware.RateLimitMiddleware(rateLimiter, policy, cfg.LoginRateLimit, loginWindow, log)(
					middleware.AuditMiddleware(auditLogger, policy)(
						middleware.ValidateJSONContentType(log)(handlerWithCORS),
					),
				),
			),
		),
		log,
	)

	// 10. Start the availability status worker
	statusWorker := worker.NewStatusWorker(berthRepo, deriver, redisClient, log, statusInterval)
	go statusWorker.Start(ctx)

	// 11. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, "harbormaster"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("token_ttl_hours", cfg.TokenTTLHours),
	)

	// Handle graceful shutdown
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

	cancel() // Stop status worker
	rateLimiter.Stop()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
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

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
