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

	"carbonCare/app/echo-server/router"
	"carbonCare/business/assessment"
	"carbonCare/business/attribution"
	"carbonCare/business/prediction"
	"carbonCare/business/recommendation"
	"carbonCare/internal/middleware"
	"carbonCare/internal/model"
	psqlRepo "carbonCare/internal/repository/postgres"
	"carbonCare/internal/rest"
	"carbonCare/pkg/config"
	"carbonCare/pkg/database"
	"carbonCare/pkg/logger"
	"carbonCare/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Carbon Footprint API", "version", cfg.App.Version)

	metrics.Init()

	// Load model once; a failure leaves the service up in unavailable mode
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 30*time.Second)
	models, err := model.Load(loadCtx, cfg.Model)
	loadCancel()
	if err != nil {
		logger.Error("Model not loaded, predictions disabled", "backend", cfg.Model.Backend, err)
	}
	if models.Loaded && models.Explainer == nil {
		logger.Warn("Explainer unavailable, serving predictions without insights")
	}

	synthesizer, err := recommendation.NewSynthesizer(recommendation.DefaultRules())
	if err != nil {
		logger.Fatal("Invalid recommendation rules", err)
	}

	// Init service
	predictionService := prediction.NewPredictionService(models, attribution.NewAggregator(3), synthesizer)

	// Init handler
	predictionHandler := rest.NewPredictionHandler(predictionService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(middleware.HTTPMetrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	e.Use(echomiddleware.BodyLimit("1M"))

	// Setup routes
	router.SetupPredictionRoutes(e, predictionHandler)
	router.SetupMetricsRoute(e)

	if cfg.History.Enabled {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error("Failed to close database", err)
			}
		}()

		logger.Info("Database connected successfully")

		assessmentRepo := psqlRepo.NewAssessmentRepository(db)
		assessmentService := assessment.NewAssessmentService(assessmentRepo, predictionService)
		assessmentHandler := rest.NewAssessmentHandler(assessmentService)

		api := e.Group("/api/v1")
		router.SetupAssessmentRoutes(api, assessmentHandler, middleware.AuthMiddleware(cfg.JWT.SecretKey))
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
