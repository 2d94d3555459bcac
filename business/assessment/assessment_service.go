package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"carbonCare/domain"
	"carbonCare/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	ErrAssessmentNotFound = errors.New("no carbon data found")
	ErrInvalidUser        = errors.New("invalid user")
)

type (
	AssessmentRepository interface {
		Create(ctx context.Context, a *domain.Assessment) error
		// FindByUser returns the user's assessments newest first.
		FindByUser(ctx context.Context, userID string, limit int) ([]domain.Assessment, error)
	}

	Scorer interface {
		Predict(ctx context.Context, raw domain.RawPayload) (domain.PredictionResult, error)
	}

	AssessmentService struct {
		repo   AssessmentRepository
		scorer Scorer
	}
)

func NewAssessmentService(repo AssessmentRepository, scorer Scorer) *AssessmentService {
	return &AssessmentService{
		repo:   repo,
		scorer: scorer,
	}
}

// Record scores raw and stores the submission with its insights.
func (s *AssessmentService) Record(ctx context.Context, userID string, raw domain.RawPayload) (domain.Assessment, error) {
	if userID == "" {
		return domain.Assessment{}, ErrInvalidUser
	}

	res, err := s.scorer.Predict(ctx, raw)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("failed to score assessment: %w", err)
	}

	a := domain.Assessment{
		ID:         uuid.NewString(),
		UserID:     userID,
		Input:      datatypes.JSONMap(raw),
		Prediction: res.Prediction,
		Insights:   datatypes.NewJSONType(res.Insights),
	}

	if err := s.repo.Create(ctx, &a); err != nil {
		logger.Error("Failed to store assessment", "user_id", userID, err)
		return domain.Assessment{}, fmt.Errorf("failed to store assessment: %w", err)
	}

	logger.Info("Assessment recorded", "user_id", userID, "assessment_id", a.ID, "prediction", a.Prediction)
	return a, nil
}

func (s *AssessmentService) List(ctx context.Context, userID string, limit int) ([]domain.Assessment, error) {
	if userID == "" {
		return nil, ErrInvalidUser
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	list, err := s.repo.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	if list == nil {
		list = []domain.Assessment{}
	}
	return list, nil
}

// Latest returns the newest assessment and its change against the one
// before it. ChangePercentage is 0 without a usable previous value.
func (s *AssessmentService) Latest(ctx context.Context, userID string) (domain.AssessmentComparison, error) {
	if userID == "" {
		return domain.AssessmentComparison{}, ErrInvalidUser
	}

	list, err := s.repo.FindByUser(ctx, userID, 2)
	if err != nil {
		return domain.AssessmentComparison{}, fmt.Errorf("failed to find latest assessment: %w", err)
	}
	if len(list) == 0 {
		return domain.AssessmentComparison{}, ErrAssessmentNotFound
	}

	cmp := domain.AssessmentComparison{Latest: list[0]}
	if len(list) > 1 {
		prev := list[1]
		cmp.Previous = &prev
		cmp.ChangePercentage = changePercentage(prev.Prediction, list[0].Prediction)
	}
	return cmp, nil
}

func changePercentage(previous, latest float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round((latest-previous)/previous*100*100) / 100
}
