package service

import (
	"context"
	"testing"

	"bench_survey_backend/internal/model"
	"bench_survey_backend/internal/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchRegister(t *testing.T) {
	f := newFixture(t)

	id, token, err := f.bench.Register()
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err, "participant id must be a UUID")

	exists, err := f.bench.Users.Exists(id)
	require.NoError(t, err)
	assert.True(t, exists)

	claims, err := util.ParseSurveyJWT(token, f.bench.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, id, claims.SurveyUserID)
}

func TestBenchConfig(t *testing.T) {
	f := newFixture(t)

	campaign := f.createCampaign(t, []int{9, 1, 5})

	cfg, err := f.bench.Config(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 9}, cfg.Difficulties)

	_, err = f.bench.Config(context.Background(), util.NewUUID())
	assert.ErrorIs(t, err, util.ErrCampaignNotFound)
}

func TestBenchConfigServedFromCache(t *testing.T) {
	f := newFixture(t)

	campaign := f.createCampaign(t, []int{1, 2})

	_, err := f.bench.Config(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.True(t, f.cache.has("bench_config:"+campaign.ID), "config fetch must warm the cache")

	// Drop the row out from under the cache; a warm entry still answers.
	require.NoError(t, f.db.Delete(&model.Campaign{}, "id = ?", campaign.ID).Error)

	cfg, err := f.bench.Config(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, cfg.Difficulties)
}

func TestDeleteInvalidatesBenchConfigCache(t *testing.T) {
	f := newFixture(t)

	campaign := f.createCampaign(t, []int{1, 2})

	_, err := f.bench.Config(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.True(t, f.cache.has("bench_config:"+campaign.ID))

	require.NoError(t, f.campaigns.Delete(f.adminID, campaign.ID))
	assert.False(t, f.cache.has("bench_config:"+campaign.ID), "delete must drop the cached config")

	_, err = f.bench.Config(context.Background(), campaign.ID)
	assert.ErrorIs(t, err, util.ErrCampaignNotFound)
}

func TestSubmitReturnsProof(t *testing.T) {
	f := newFixture(t)

	campaign := f.createCampaign(t, []int{1, 2})
	userID := f.registerUser(t)

	proof := f.submit(t, userID, campaign.ID, &Submission{
		DeviceUserProvided: "phone",
		SubmissionType:     model.SubmissionJS,
		Benches: []model.BenchMeasurement{
			{Difficulty: 1, Duration: 0.5},
			{Difficulty: 2, Duration: 1.75},
		},
	})

	assert.Equal(t, userID, proof.Token)

	var token model.ResponseToken
	require.NoError(t, f.db.Where("id = ?", proof.Proof).First(&token).Error)
	assert.Equal(t, userID, token.SurveyUserID)

	var benches int64
	require.NoError(t, f.db.Model(&model.BenchMeasurement{}).
		Where("response_id = ?", token.ResponseID).Count(&benches).Error)
	assert.EqualValues(t, 2, benches)
}

func TestSubmitInvalidType(t *testing.T) {
	f := newFixture(t)

	campaign := f.createCampaign(t, []int{1})
	userID := f.registerUser(t)

	_, err := f.bench.Submit(userID, campaign.ID, &Submission{SubmissionType: "native"})
	assert.ErrorIs(t, err, util.ErrInvalidSubmissionType)
}

func TestSubmitUnknownCampaign(t *testing.T) {
	f := newFixture(t)

	userID := f.registerUser(t)

	_, err := f.bench.Submit(userID, util.NewUUID(), &Submission{SubmissionType: model.SubmissionWasm})
	assert.ErrorIs(t, err, util.ErrCampaignNotFound)
}

func TestSubmitEachGetsDistinctProof(t *testing.T) {
	f := newFixture(t)

	campaign := f.createCampaign(t, []int{1})
	userID := f.registerUser(t)

	first := f.submit(t, userID, campaign.ID, &Submission{SubmissionType: model.SubmissionWasm})
	second := f.submit(t, userID, campaign.ID, &Submission{SubmissionType: model.SubmissionWasm})

	assert.NotEqual(t, first.Proof, second.Proof)
}
