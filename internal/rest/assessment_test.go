package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carbonCare/business/assessment"
	"carbonCare/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssessmentService struct {
	recorded  domain.RawPayload
	limit     int
	latest    domain.AssessmentComparison
	latestErr error
}

func (f *fakeAssessmentService) Record(_ context.Context, userID string, raw domain.RawPayload) (domain.Assessment, error) {
	f.recorded = raw
	return domain.Assessment{ID: "a-1", UserID: userID, Prediction: 1500, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

func (f *fakeAssessmentService) List(_ context.Context, userID string, limit int) ([]domain.Assessment, error) {
	f.limit = limit
	return []domain.Assessment{{ID: "a-1", UserID: userID, Prediction: 1500}}, nil
}

func (f *fakeAssessmentService) Latest(context.Context, string) (domain.AssessmentComparison, error) {
	return f.latest, f.latestErr
}

// withUser stands in for the auth middleware.
func withUser(id string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id != "" {
				c.Set("user_id", id)
			}
			return next(c)
		}
	}
}

func newAssessmentEcho(svc AssessmentService, userID string) *echo.Echo {
	e := echo.New()
	h := NewAssessmentHandler(svc)
	g := e.Group("/api/v1/assessments", withUser(userID))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/latest", h.Latest)
	return e
}

func TestCreateAssessment(t *testing.T) {
	svc := &fakeAssessmentService{}
	e := newAssessmentEcho(svc, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", strings.NewReader(`{"Diet":"vegan"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "vegan", svc.recorded["Diet"])
	assert.Contains(t, rec.Body.String(), `"carbon_emission":1500`)
}

func TestCreateAssessmentRejectsEmptyBody(t *testing.T) {
	e := newAssessmentEcho(&fakeAssessmentService{}, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssessmentsRequireUser(t *testing.T) {
	e := newAssessmentEcho(&fakeAssessmentService{}, "")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/assessments", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAssessmentsLimit(t *testing.T) {
	svc := &fakeAssessmentService{}
	e := newAssessmentEcho(svc, "user-1")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/assessments?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.limit)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/assessments?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/assessments?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLatestAssessment(t *testing.T) {
	prev := domain.Assessment{ID: "a-0", Prediction: 1000}
	svc := &fakeAssessmentService{latest: domain.AssessmentComparison{
		Latest:           domain.Assessment{ID: "a-1", Prediction: 800},
		Previous:         &prev,
		ChangePercentage: -20,
	}}
	e := newAssessmentEcho(svc, "user-1")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/assessments/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"change_percentage":-20`)
}

func TestLatestAssessmentNotFound(t *testing.T) {
	e := newAssessmentEcho(&fakeAssessmentService{latestErr: assessment.ErrAssessmentNotFound}, "user-1")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/assessments/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no carbon data found"}`, rec.Body.String())
}
