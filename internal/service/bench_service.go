package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bench_survey_backend/internal/config"
	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/repository"
	"bench_survey_backend/internal/util"
	"bench_survey_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	benchConfigCachePrefix = "bench_config:"
	benchConfigCacheTTL    = 5 * time.Minute
)

// Submission is one participant's benchmark payload.
type Submission struct {
	DeviceUserProvided       string                   `json:"device_user_provided"`
	DeviceSoftwareRecognised string                   `json:"device_software_recognised"`
	Threads                  *int                     `json:"threads"`
	Benches                  []model.BenchMeasurement `json:"benches"`
	SubmissionType           model.SubmissionType     `json:"submission_type"`
}

// SubmissionProof is the receipt returned for a stored submission.
type SubmissionProof struct {
	Token string `json:"token"`
	Proof string `json:"proof"`
}

// BenchConfig is what a participant needs to run the benchmark.
type BenchConfig struct {
	Difficulties []int `json:"difficulties"`
}

type BenchService struct {
	Users     *repository.SurveyUserRepository
	Campaigns *repository.CampaignRepository
	Responses *repository.ResponseRepository
	Cache     ConfigCache
	Cfg       *config.Config
}

func NewBenchService(users *repository.SurveyUserRepository, campaigns *repository.CampaignRepository, responses *repository.ResponseRepository, cache ConfigCache, cfg *config.Config) *BenchService {
	return &BenchService{
		Users:     users,
		Campaigns: campaigns,
		Responses: responses,
		Cache:     cache,
		Cfg:       cfg,
	}
}

// Register allocates a fresh survey-user UUID and returns it with a signed
// survey token carrying it.
func (s *BenchService) Register() (id, token string, err error) {
	id, err = s.Users.Create()
	if err != nil {
		return "", "", err
	}
	token, err = util.GenerateSurveyJWT(id, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", "", err
	}
	return id, token, nil
}

// Config returns the campaign's difficulty levels, served from the cache when
// warm. Cache failures fall through to the database.
func (s *BenchService) Config(ctx context.Context, campaignID string) (*BenchConfig, error) {
	key := benchConfigCachePrefix + campaignID

	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, key); err == nil {
			var cfg BenchConfig
			if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
				return &cfg, nil
			}
		}
	}

	campaign, err := s.Campaigns.FindByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCampaignNotFound
		}
		return nil, err
	}

	cfg := &BenchConfig{Difficulties: campaign.Difficulties}

	if s.Cache != nil {
		if b, err := json.Marshal(cfg); err == nil {
			if err := s.Cache.Set(ctx, key, string(b), benchConfigCacheTTL); err != nil {
				logger.Log.Warn("bench config cache write failed", zap.Error(err))
			}
		}
	}

	return cfg, nil
}

// Submit stores the submission atomically with its measurements and proof
// token and returns the participant's receipt.
func (s *BenchService) Submit(userID, campaignID string, sub *Submission) (*SubmissionProof, error) {
	if !sub.SubmissionType.Valid() {
		return nil, util.ErrInvalidSubmissionType
	}

	if _, err := s.Campaigns.FindByID(campaignID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCampaignNotFound
		}
		return nil, err
	}

	resp := &model.Response{
		SurveyUserID:             userID,
		CampaignID:               campaignID,
		DeviceUserProvided:       sub.DeviceUserProvided,
		DeviceSoftwareRecognised: sub.DeviceSoftwareRecognised,
		Threads:                  sub.Threads,
		SubmittedAt:              time.Now(),
		SubmissionType:           sub.SubmissionType,
		Benches:                  sub.Benches,
	}

	proof, err := s.Responses.CreateWithProof(resp)
	if err != nil {
		return nil, err
	}

	return &SubmissionProof{Token: userID, Proof: proof}, nil
}
