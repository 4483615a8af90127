package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"library/internal/logger"
	"library/internal/response"
	"library/internal/server"
	"library/internal/storage/library"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "memory"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel  = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	logFormat = strings.ToLower(getEnvOrDefault("LOG_FORMAT", logger.FormatText))
	dbConnStr = os.Getenv("DATABASE_URL")
	bindAddr  = getEnvOrDefault("BIND_ADDR", ":8080")
	storage   = strings.ToLower(getEnvOrDefault("STORAGE", storagePostgres))
	debugMode = getBoolEnv("DEBUG_MODE")
	seedData  = getBoolEnv("SEED_DATA")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	lvl, lvlErr := logger.ParseLevel(logLevel)

	err := logger.SetupSLog(lvl, logFormat, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)
	if err != nil {
		slog.Error("Invalid LOG_FORMAT: " + err.Error())
		os.Exit(1)
	}

	if lvlErr != nil {
		slog.Error("Invalid LOG_LEVEL: " + lvlErr.Error())
		os.Exit(1)
	}

	store, err := openStore(context.Background())
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	if seedData {
		if err = library.Seed(context.Background(), store); err != nil {
			slog.Error("Failed to seed sample data: " + err.Error())
			os.Exit(1)
		}
		slog.Info("Seeded sample authors and books")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Mount("/api", server.Handler(
		store,
		&response.Responder{DebugMode: debugMode},
		slog.Default(),
	))

	slog.Info("Listening on "+bindAddr, slog.String("storage", storage))
	slog.Error("aborting: " + http.ListenAndServe(bindAddr, r).Error())
	os.Exit(1)
}

func openStore(ctx context.Context) (library.Store, error) {
	switch storage {
	case storageMemory:
		return library.NewMemoryStore(), nil
	case storagePostgres:
	default:
		return nil, fmt.Errorf("STORAGE must be %s or %s, got %q", storagePostgres, storageMemory, storage)
	}

	cfg, err := pgxpool.ParseConfig(dbConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}

	cfg.ConnConfig.Tracer = logger.NewPGXTracer(slog.Default())

	pg, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err = library.EnsureSchema(ctx, pg); err != nil {
		return nil, err
	}

	return library.NewPGXStore(pg, slog.Default()), nil
}
