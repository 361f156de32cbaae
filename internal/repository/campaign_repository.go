package repository

import (
	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/util"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	DB *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

// Create persists the campaign under a freshly allocated UUID.
func (r *CampaignRepository) Create(campaign *model.Campaign) error {
	_, err := Allocate(util.NewUUID, func(id string) error {
		campaign.ID = id
		return r.DB.Create(campaign).Error
	})
	return err
}

func (r *CampaignRepository) FindByID(id string) (*model.Campaign, error) {
	var campaign model.Campaign
	err := r.DB.Where("id = ?", id).First(&campaign).Error
	return &campaign, err
}

func (r *CampaignRepository) ListByAdmin(adminID uint) ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.DB.Where("admin_id = ?", adminID).Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

// ListAll returns every campaign; the archiver snapshots them all each pass.
func (r *CampaignRepository) ListAll() ([]model.Campaign, error) {
	var campaigns []model.Campaign
	err := r.DB.Order("id").Find(&campaigns).Error
	return campaigns, err
}

// DeleteByAdmin removes an owned campaign together with its responses,
// measurements and proof tokens. gorm.ErrRecordNotFound when the campaign
// does not exist or belongs to someone else.
func (r *CampaignRepository) DeleteByAdmin(adminID uint, id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var campaign model.Campaign
		if err := tx.Where("id = ? AND admin_id = ?", id, adminID).First(&campaign).Error; err != nil {
			return err
		}

		respIDs := tx.Model(&model.Response{}).Select("id").Where("campaign_id = ?", id)
		if err := tx.Where("response_id IN (?)", respIDs).Delete(&model.ResponseToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("response_id IN (?)", respIDs).Delete(&model.BenchMeasurement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ?", id).Delete(&model.Response{}).Error; err != nil {
			return err
		}

		return tx.Delete(&campaign).Error
	})
}
