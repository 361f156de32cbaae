package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/repository"
	"bench_survey_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var errCacheMiss = errors.New("cache miss")

// mapCache is an in-memory ConfigCache for tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return "", errCacheMiss
	}
	return v, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mapCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type fixture struct {
	db        *gorm.DB
	campaigns *CampaignService
	bench     *BenchService
	cache     *mapCache
	adminID   uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := testutil.NewConfig()
	cache := newMapCache()

	admin := &model.Admin{Name: "owner", Password: "x", Secret: "fixture-secret"}
	require.NoError(t, db.Create(admin).Error)

	campaignRepo := repository.NewCampaignRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	userRepo := repository.NewSurveyUserRepository(db)

	return &fixture{
		db:        db,
		campaigns: NewCampaignService(campaignRepo, responseRepo, cache),
		bench:     NewBenchService(userRepo, campaignRepo, responseRepo, cache, cfg),
		cache:     cache,
		adminID:   admin.ID,
	}
}

func (f *fixture) createCampaign(t *testing.T, difficulties []int) *model.Campaign {
	t.Helper()
	campaign, err := f.campaigns.Create(f.adminID, "test campaign", difficulties)
	require.NoError(t, err)
	return campaign
}

func (f *fixture) registerUser(t *testing.T) string {
	t.Helper()
	id, _, err := f.bench.Register()
	require.NoError(t, err)
	return id
}

func (f *fixture) submit(t *testing.T, userID, campaignID string, sub *Submission) *SubmissionProof {
	t.Helper()
	proof, err := f.bench.Submit(userID, campaignID, sub)
	require.NoError(t, err)
	return proof
}
