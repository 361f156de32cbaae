package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/repository"
	"bench_survey_backend/internal/util"
	"bench_survey_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// resultsLimit is the page size of the admin results listing.
const resultsLimit = 10

type CampaignService struct {
	Campaigns *repository.CampaignRepository
	Responses *repository.ResponseRepository
	Cache     ConfigCache
}

func NewCampaignService(campaigns *repository.CampaignRepository, responses *repository.ResponseRepository, cache ConfigCache) *CampaignService {
	return &CampaignService{
		Campaigns: campaigns,
		Responses: responses,
		Cache:     cache,
	}
}

// Create persists a new campaign. Difficulties are sorted ascending before
// they ever reach the database and are immutable afterwards.
func (s *CampaignService) Create(adminID uint, name string, difficulties []int) (*model.Campaign, error) {
	sorted := make([]int, len(difficulties))
	copy(sorted, difficulties)
	sort.Ints(sorted)

	campaign := &model.Campaign{
		AdminID:      adminID,
		Name:         name,
		Difficulties: sorted,
		CreatedAt:    time.Now(),
	}
	if err := s.Campaigns.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *CampaignService) List(adminID uint) ([]model.Campaign, error) {
	return s.Campaigns.ListByAdmin(adminID)
}

// Delete removes an owned campaign and drops its cached bench config so
// participants stop seeing the deleted campaign immediately.
func (s *CampaignService) Delete(adminID uint, campaignID string) error {
	err := s.Campaigns.DeleteByAdmin(adminID, campaignID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrCampaignNotFound
	}
	if err != nil {
		return err
	}

	if s.Cache != nil {
		if err := s.Cache.Del(context.Background(), benchConfigCachePrefix+campaignID); err != nil {
			logger.Log.Warn("bench config cache invalidation failed",
				zap.String("campaign", campaignID), zap.Error(err))
		}
	}
	return nil
}

// Results returns one page of an owned campaign's submissions, optionally
// filtered by submission type.
func (s *CampaignService) Results(adminID uint, campaignID string, page int, benchType *model.SubmissionType) ([]model.Response, error) {
	campaign, err := s.owned(adminID, campaignID)
	if err != nil {
		return nil, err
	}
	return s.Responses.ListByCampaign(campaign.ID, page, resultsLimit, benchType)
}

// ResultsPageSize exposes the page size so handlers can detect a full page.
func (s *CampaignService) ResultsPageSize() int {
	return resultsLimit
}

// ExportCSV streams an owned campaign's full result set in the same record
// layout the archiver writes.
func (s *CampaignService) ExportCSV(adminID uint, campaignID string, w io.Writer) error {
	campaign, err := s.owned(adminID, campaignID)
	if err != nil {
		return err
	}
	return WriteBenchmarkCSV(w, campaign, s.Responses, archivePageSize)
}

func (s *CampaignService) owned(adminID uint, campaignID string) (*model.Campaign, error) {
	campaign, err := s.Campaigns.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCampaignNotFound
		}
		return nil, err
	}
	if campaign.AdminID != adminID {
		return nil, util.ErrCampaignNotFound
	}
	return campaign, nil
}
