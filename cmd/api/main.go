package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/loan-risk/internal/classifier"
	"github.com/Dan9191/loan-risk/internal/config"
	"github.com/Dan9191/loan-risk/internal/handler"
	"github.com/Dan9191/loan-risk/internal/integrity"
	"github.com/Dan9191/loan-risk/internal/middleware"
	"github.com/Dan9191/loan-risk/internal/schema"
	"github.com/Dan9191/loan-risk/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load artifacts; the process cannot serve predictions without them
	features, err := schema.Load(cfg.FeaturesPath)
	if err != nil {
		logger.Fatalf("Failed to load feature schema: %v", err)
	}
	model, err := classifier.Load(cfg.ModelPath, features, cfg.PositiveClass)
	if err != nil {
		logger.Fatalf("Failed to load model: %v", err)
	}
	logger.WithFields(logrus.Fields{
		"model":         cfg.ModelPath,
		"model_kind":    model.Kind(),
		"features":      cfg.FeaturesPath,
		"feature_count": features.Len(),
	}).Info("Artifacts loaded")

	checker, err := integrity.NewChecker(logger, cfg.ModelPath, cfg.FeaturesPath)
	if err != nil {
		logger.Fatalf("Failed to fingerprint artifacts: %v", err)
	}
	if err := checker.Start(cfg.ArtifactCheckSchedule); err != nil {
		logger.Fatalf("Failed to schedule artifact checks: %v", err)
	}
	defer checker.Stop()

	// Initialize layers
	svc := service.NewService(features, model, cfg.RiskThreshold, logger)
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	h.Register(r, middleware.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}
