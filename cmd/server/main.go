package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/pollwise/api/internal/adapters/cache"
	"github.com/pollwise/api/internal/adapters/handler/http"
	"github.com/pollwise/api/internal/adapters/identity"
	"github.com/pollwise/api/internal/adapters/oauth/google"
	"github.com/pollwise/api/internal/adapters/repository/postgres"
	"github.com/pollwise/api/internal/core/ports"
	"github.com/pollwise/api/internal/core/services"
	"github.com/pollwise/api/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment as-is")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		logger.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("pinging database", "error", err)
		os.Exit(1)
	}

	var invalidator ports.CacheInvalidator = cache.Noop{}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		invalidator = cache.NewRedisInvalidator(client, logger)
	}

	identityProvider := identity.NewProvider(os.Getenv("DEV_MODE") == "true")

	pollRepo := postgres.NewPollRepository(db)
	resultRepo := postgres.NewPollResultRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	pollService := services.NewPollService(pollRepo, resultRepo, identityProvider, invalidator, logger)
	voteService := services.NewVoteService(pollRepo, voteRepo, identityProvider, invalidator, logger)
	authService := services.NewAuthService(userRepo, authRepo, google.NewVerifier(), jwtSecret, os.Getenv("GOOGLE_CLIENT_ID"))
	userService := services.NewUserService(userRepo)

	m := metrics.New(prometheus.DefaultRegisterer)

	redirectURL := os.Getenv("AUTH_REDIRECT_URL")
	if redirectURL == "" {
		redirectURL = "/dashboard"
	}

	handler := http.NewHandler(
		http.NewPollHandler(pollService, m),
		http.NewVoteHandler(voteService, m),
		http.NewAuthHandler(authService, redirectURL, os.Getenv("COOKIE_DOMAIN"), stdhttp.SameSiteLaxMode),
		http.NewUserHandler(userService),
		jwtSecret,
	)

	addr := os.Getenv("SERVER_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	server := &stdhttp.Server{Addr: addr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
		os.Exit(1)
	}
}

func dbConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
