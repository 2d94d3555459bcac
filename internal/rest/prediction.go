package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"carbonCare/business/prediction"
	"carbonCare/domain"
	"carbonCare/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PredictionService interface {
		Predict(ctx context.Context, raw domain.RawPayload) (domain.PredictionResult, error)
		Health() domain.HealthStatus
	}

	PredictionHandler struct {
		service  PredictionService
		validate *validator.Validate
		timeout  time.Duration
	}

	InsightsRequest struct {
		CarbonData domain.RawPayload `json:"carbonData" validate:"required"`
	}

	InsightsResponse struct {
		CarbonEmission float64         `json:"carbonEmission"`
		Insights       domain.Insights `json:"insights"`
	}
)

func NewPredictionHandler(service PredictionService) *PredictionHandler {
	return &PredictionHandler{
		service:  service,
		validate: validator.New(),
		timeout:  10 * time.Second,
	}
}

// POST /predict with a flat object of raw answers
func (h *PredictionHandler) Predict(c echo.Context) error {
	var raw domain.RawPayload
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: bindMessage(err)})
	}
	if raw == nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Request body must be a JSON object"})
	}

	res, err := h.predict(c, raw)
	if err != nil {
		return writePredictError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

// POST /insights with {"carbonData": {...}}
func (h *PredictionHandler) Insights(c echo.Context) error {
	var req InsightsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: bindMessage(err)})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "carbonData is required"})
	}

	res, err := h.predict(c, req.CarbonData)
	if err != nil {
		return writePredictError(c, err)
	}

	return c.JSON(http.StatusOK, InsightsResponse{
		CarbonEmission: res.Prediction,
		Insights:       res.Insights,
	})
}

// GET /health
func (h *PredictionHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Health())
}

func (h *PredictionHandler) predict(c echo.Context, raw domain.RawPayload) (domain.PredictionResult, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	logger.Debug("prediction_request",
		"trace_id", prediction.TraceIDFromContext(ctx),
		"endpoint", c.Path(),
		"fields", len(raw),
	)

	return h.service.Predict(ctx, raw)
}

func writePredictError(c echo.Context, err error) error {
	if errors.Is(err, prediction.ErrModelUnavailable) {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: prediction.ErrModelUnavailable.Error()})
	}

	logger.Error("Prediction failed",
		"trace_id", prediction.TraceIDFromContext(c.Request().Context()),
		"endpoint", c.Path(),
		err,
	)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
}
