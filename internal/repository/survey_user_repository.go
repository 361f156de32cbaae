package repository

import (
	"time"

	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/util"

	"gorm.io/gorm"
)

type SurveyUserRepository struct {
	DB *gorm.DB
}

func NewSurveyUserRepository(db *gorm.DB) *SurveyUserRepository {
	return &SurveyUserRepository{DB: db}
}

// Create registers a new anonymous participant and returns its UUID.
func (r *SurveyUserRepository) Create() (string, error) {
	now := time.Now()
	return Allocate(util.NewUUID, func(id string) error {
		return r.DB.Create(&model.SurveyUser{ID: id, CreatedAt: now}).Error
	})
}

func (r *SurveyUserRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.SurveyUser{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
