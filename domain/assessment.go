package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Assessment is one stored footprint submission of a user.
type Assessment struct {
	ID         string                       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     string                       `gorm:"column:user_id;not null;index:idx_assessments_user_created,priority:1" json:"user_id"`
	Input      datatypes.JSONMap            `gorm:"column:input;type:jsonb" json:"input"`
	Prediction float64                      `gorm:"column:prediction;not null" json:"carbon_emission"`
	Insights   datatypes.JSONType[Insights] `gorm:"column:insights;type:jsonb" json:"insights"`
	CreatedAt  time.Time                    `gorm:"column:created_at;autoCreateTime;index:idx_assessments_user_created,priority:2,sort:desc" json:"created_at"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// AssessmentComparison is the latest submission next to the one before it.
type AssessmentComparison struct {
	Latest           Assessment  `json:"latest"`
	Previous         *Assessment `json:"previous"`
	ChangePercentage float64     `json:"change_percentage"`
}
