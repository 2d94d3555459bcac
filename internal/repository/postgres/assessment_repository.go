package postgres

import (
	"context"
	"fmt"

	"carbonCare/domain"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{
		DB: db,
	}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *domain.Assessment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}

	return nil
}

func (r *AssessmentRepository) FindByUser(ctx context.Context, userID string, limit int) ([]domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var assessments []domain.Assessment
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find assessments: %w", err)
	}

	return assessments, nil
}
