package repository

import (
	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/util"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB

	// newID generates proof-token candidates; injectable for tests.
	newID func() string
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db, newID: util.NewUUID}
}

// CreateWithProof stores a response, its measurement rows and exactly one
// allocated proof token in a single transaction. Returns the proof token ID.
// Each token attempt runs in its own savepoint: a collided insert rolls back
// to the savepoint, keeping the outer transaction usable for the retry on
// backends that abort a transaction after any failed statement.
func (r *ResponseRepository) CreateWithProof(resp *model.Response) (string, error) {
	var proof string
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resp).Error; err != nil {
			return err
		}

		token, err := Allocate(r.newID, func(id string) error {
			return tx.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&model.ResponseToken{
					ID:           id,
					ResponseID:   resp.ID,
					SurveyUserID: resp.SurveyUserID,
				}).Error
			})
		})
		if err != nil {
			return err
		}
		proof = token
		return nil
	})
	return proof, err
}

// ListByCampaign fetches one page of responses with their measurements,
// optionally filtered by submission type. Pages are zero-based and ordered by
// insertion so repeated pagination is stable.
func (r *ResponseRepository) ListByCampaign(campaignID string, page, limit int, benchType *model.SubmissionType) ([]model.Response, error) {
	q := r.DB.Preload("Benches").
		Where("campaign_id = ?", campaignID).
		Order("id").
		Offset(page * limit).
		Limit(limit)
	if benchType != nil {
		q = q.Where("submission_type = ?", *benchType)
	}

	var responses []model.Response
	err := q.Find(&responses).Error
	return responses, err
}

func (r *ResponseRepository) CountByCampaign(campaignID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Response{}).Where("campaign_id = ?", campaignID).Count(&count).Error
	return count, err
}
