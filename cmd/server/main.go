package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/tendant/simple-lessons/pkg/simplelessons/api"
	"github.com/tendant/simple-lessons/pkg/simplelessons/config"
	"github.com/tendant/simple-lessons/pkg/simplelessons/session"
)

// EnvConfig is the process environment for the lessons server
type EnvConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL string `env:"DATABASE_URL" env-default:"memory"`
	JWTSecret   string `env:"JWT_SECRET" env-default:""`
}

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	cfg, err := config.Load(
		config.WithPort(env.Port),
		config.WithEnvironment(env.Environment),
		config.WithDatabase(env.DatabaseURL),
		config.WithJWTSecret(env.JWTSecret),
	)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	sessions := session.NewJWT()
	if err := sessions.Init(ctx); err != nil {
		log.Fatalf("Failed to init session provider: %v", err)
	}

	svc, err := cfg.BuildService(ctx, sessions)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	var tokenAuth *jwtauth.JWTAuth
	if cfg.JWTSecret != "" {
		tokenAuth = jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
	} else {
		log.Println("JWT_SECRET not set; owner-scoped routes will reject every request")
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.NewRouter(svc, tokenAuth),
	}

	go func() {
		log.Printf("Simple Lessons Server starting on port %s (env: %s, db: %s)", cfg.Port, cfg.Environment, cfg.DatabaseType)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
