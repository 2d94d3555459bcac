package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"carbonCare/business/assessment"
	"carbonCare/domain"
	"carbonCare/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	AssessmentService interface {
		Record(ctx context.Context, userID string, raw domain.RawPayload) (domain.Assessment, error)
		List(ctx context.Context, userID string, limit int) ([]domain.Assessment, error)
		Latest(ctx context.Context, userID string) (domain.AssessmentComparison, error)
	}

	AssessmentHandler struct {
		service  AssessmentService
		validate *validator.Validate
		timeout  time.Duration
	}

	ListAssessmentsQuery struct {
		Limit int `query:"limit" validate:"gte=0"`
	}
)

func NewAssessmentHandler(service AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		service:  service,
		validate: validator.New(),
		timeout:  10 * time.Second,
	}
}

// POST /api/v1/assessments
func (h *AssessmentHandler) Create(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var raw domain.RawPayload
	if err := c.Bind(&raw); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: bindMessage(err)})
	}
	if len(raw) == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "Request body must be a non-empty JSON object"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	a, err := h.service.Record(ctx, userID, raw)
	if err != nil {
		return writePredictError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(a))
}

// GET /api/v1/assessments?limit=20
func (h *AssessmentHandler) List(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var q ListAssessmentsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: bindMessage(err)})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	list, err := h.service.List(ctx, userID, q.Limit)
	if err != nil {
		logger.Error("Failed to list assessments", "user_id", userID, err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(list))
}

// GET /api/v1/assessments/latest
func (h *AssessmentHandler) Latest(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cmp, err := h.service.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, assessment.ErrAssessmentNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get latest assessment", "user_id", userID, err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cmp))
}
