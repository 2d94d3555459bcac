package router

import (
	"carbonCare/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupPredictionRoutes(e *echo.Echo, handler *rest.PredictionHandler) {
	e.POST("/predict", handler.Predict)
	e.POST("/insights", handler.Insights)
	e.GET("/health", handler.Health)
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

func SetupAssessmentRoutes(api *echo.Group, handler *rest.AssessmentHandler, authRequired echo.MiddlewareFunc) {
	assessments := api.Group("/assessments", authRequired)

	assessments.POST("", handler.Create)
	assessments.GET("", handler.List)
	assessments.GET("/latest", handler.Latest)
}
