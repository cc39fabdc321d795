package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/lakefield/todoapi/api"
	"github.com/lakefield/todoapi/auth"
	"github.com/lakefield/todoapi/datastore"
	rh "github.com/lakefield/todoapi/route-handlers"
)

const (
	defaultEnv         = "development"
	defaultPort        = "8080"
	defaultDatabaseURL = "user=postgres password=password dbname=todoapp host=localhost port=5432 sslmode=disable"
	defaultJWTSecret   = "dev-secret-change-me"
	dbPingTimeout      = 5 * time.Second
	shutdownTimeout    = 15 * time.Second
	dbMaxOpenConns     = 25
	dbMaxIdleConns     = 25
	dbConnMaxLifetime  = 5 * time.Minute
)

type config struct {
	env         string
	port        string
	databaseURL string
	jwtSecret   string
}

func main() {
	cfg := loadConfig()

	db, err := setupDatabase(cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()

	userRepo := datastore.NewUserRepository(db)
	todoRepo := datastore.NewTodoRepository(db)

	credStore := auth.NewCredentialStore(userRepo)
	tokenService := auth.NewTokenService(userRepo, []byte(cfg.jwtSecret))

	todoHandler := rh.NewTodoHandler(todoRepo)
	userHandler := rh.NewUserHandler(credStore, tokenService)

	router := api.SetupRoutes(todoHandler, userHandler, tokenService)

	startServer(cfg.port, router)
}

// loadConfig reads the environment, optionally seeded from a per-profile
// .env file in development and test.
func loadConfig() config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = defaultEnv
	}
	if env == "development" || env == "test" {
		// Missing file is fine; real env vars always win.
		_ = godotenv.Load(".env." + env)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		if env == "production" {
			log.Fatal("JWT_SECRET must be set in production")
		}
		jwtSecret = defaultJWTSecret
		log.Println("WARNING: JWT_SECRET not set, using insecure development default.")
	}

	return config{
		env:         env,
		port:        port,
		databaseURL: dbURL,
		jwtSecret:   jwtSecret,
	}
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = datastore.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Println("Database connection successful")
	return db, nil
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
