package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"bench_survey_backend/internal/config"
	"bench_survey_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	campaigns []model.Campaign
	err       error
}

func (s *stubLister) ListAll() ([]model.Campaign, error) {
	return s.campaigns, s.err
}

// stubPager serves a fixed result set in pages and counts the fetches.
type stubPager struct {
	responses []model.Response
	fetches   int
	failFor   string
}

func (s *stubPager) ListByCampaign(campaignID string, page, limit int, benchType *model.SubmissionType) ([]model.Response, error) {
	if s.failFor != "" && campaignID == s.failFor {
		return nil, errors.New("storage gone")
	}
	s.fetches++

	start := page * limit
	if start >= len(s.responses) {
		return nil, nil
	}
	end := start + limit
	if end > len(s.responses) {
		end = len(s.responses)
	}
	return s.responses[start:end], nil
}

func newTestArchiver(t *testing.T, lister campaignLister, pager responsePager) *ArchiveService {
	t.Helper()
	return NewArchiveService(lister, pager, &config.PublishConfig{
		Dir:      t.TempDir(),
		Interval: time.Hour,
	}, nil)
}

func testCampaign(id string, difficulties ...int) model.Campaign {
	return model.Campaign{
		ID:           id,
		Name:         "campaign " + id,
		Difficulties: difficulties,
		CreatedAt:    time.Unix(1700000000, 0),
	}
}

func TestArchivePassesUseDistinctDirectories(t *testing.T) {
	campaign := testCampaign("11111111-1111-1111-1111-111111111111", 1)
	lister := &stubLister{campaigns: []model.Campaign{campaign}}
	svc := newTestArchiver(t, lister, &stubPager{})

	clock := int64(1000)
	svc.now = func() int64 { clock += 60; return clock }

	require.NoError(t, svc.ArchiveOnce(context.Background()))
	require.NoError(t, svc.ArchiveOnce(context.Background()))

	first := filepath.Join(svc.BaseDir, campaign.ID, "1060")
	second := filepath.Join(svc.BaseDir, campaign.ID, "1120")
	for _, dir := range []string{first, second} {
		assert.FileExists(t, filepath.Join(dir, "campaign.json"))
		assert.FileExists(t, filepath.Join(dir, "benchmark.csv"))
	}
}

func TestArchiveCampaignJSON(t *testing.T) {
	campaign := testCampaign("22222222-2222-2222-2222-222222222222", 1, 2, 3)
	lister := &stubLister{campaigns: []model.Campaign{campaign}}
	svc := newTestArchiver(t, lister, &stubPager{})
	svc.now = func() int64 { return 5000 }

	require.NoError(t, svc.ArchiveOnce(context.Background()))

	raw, err := os.ReadFile(filepath.Join(svc.BaseDir, campaign.ID, "5000", "campaign.json"))
	require.NoError(t, err)

	var snapshot CampaignSnapshot
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, campaign.ID, snapshot.ID)
	assert.Equal(t, campaign.Name, snapshot.Name)
	assert.Equal(t, []int{1, 2, 3}, snapshot.Difficulties)
	assert.Equal(t, campaign.CreatedAt.Unix(), snapshot.CreatedAt)
}

func TestBenchmarkCSVSentinels(t *testing.T) {
	campaign := testCampaign("33333333-3333-3333-3333-333333333333", 1, 2, 3, 4, 5)
	pager := &stubPager{responses: []model.Response{{
		ID:             7,
		SurveyUserID:   "user-a",
		SubmittedAt:    time.Unix(1700000100, 0),
		SubmissionType: model.SubmissionWasm,
		Benches: []model.BenchMeasurement{
			{Difficulty: 1, Duration: 0.5},
			{Difficulty: 3, Duration: 1.5},
			{Difficulty: 5, Duration: 2.5},
		},
	}}}

	dir := t.TempDir()
	path := filepath.Join(dir, "benchmark.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteBenchmarkCSV(f, &campaign, pager, 50))
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	// Columns after submission_type follow the difficulty order 1..5.
	assert.Equal(t, []string{"0.5", "-", "1.5", "-", "2.5"}, row[7:])
	assert.Equal(t, "-", row[4], "missing thread count takes the sentinel")
	assert.Equal(t, "1700000100", row[5])
}

func TestBenchmarkCSVPagination(t *testing.T) {
	const pageSize = 5

	tests := []struct {
		responses int
		fetches   int
	}{
		{responses: 0, fetches: 1},
		{responses: 3, fetches: 1},
		{responses: pageSize, fetches: 2},
		{responses: 2*pageSize + 1, fetches: 3},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.responses), func(t *testing.T) {
			campaign := testCampaign("44444444-4444-4444-4444-444444444444", 1)
			pager := &stubPager{}
			for i := 0; i < tt.responses; i++ {
				pager.responses = append(pager.responses, model.Response{
					ID:             uint(i + 1),
					SurveyUserID:   fmt.Sprintf("user-%d", i),
					SubmittedAt:    time.Unix(0, 0),
					SubmissionType: model.SubmissionJS,
				})
			}

			path := filepath.Join(t.TempDir(), "benchmark.csv")
			f, err := os.Create(path)
			require.NoError(t, err)
			require.NoError(t, WriteBenchmarkCSV(f, &campaign, pager, pageSize))
			require.NoError(t, f.Close())

			assert.Equal(t, tt.fetches, pager.fetches)

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
			require.NoError(t, err)
			assert.Len(t, records, tt.responses+1)
		})
	}
}

func TestArchivePassIsolatesFailures(t *testing.T) {
	healthy := testCampaign("55555555-5555-5555-5555-555555555555", 1)
	broken := testCampaign("66666666-6666-6666-6666-666666666666", 1)
	lister := &stubLister{campaigns: []model.Campaign{broken, healthy}}
	pager := &stubPager{failFor: broken.ID}
	svc := newTestArchiver(t, lister, pager)
	svc.now = func() int64 { return 7000 }

	err := svc.ArchiveOnce(context.Background())
	require.Error(t, err)

	// The healthy campaign was still archived.
	assert.FileExists(t, filepath.Join(svc.BaseDir, healthy.ID, "7000", "benchmark.csv"))
}

func TestRunStopsWhenCancelled(t *testing.T) {
	lister := &stubLister{}
	svc := newTestArchiver(t, lister, &stubPager{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestArchiveEndToEnd(t *testing.T) {
	f := newFixture(t)

	campaign := f.createCampaign(t, []int{1, 2, 3, 4, 5})
	userID := f.registerUser(t)
	threads := 4
	f.submit(t, userID, campaign.ID, &Submission{
		DeviceUserProvided:       "desktop",
		DeviceSoftwareRecognised: "linux x86_64",
		Threads:                  &threads,
		SubmissionType:           model.SubmissionWasm,
		Benches: []model.BenchMeasurement{
			{Difficulty: 1, Duration: 0.1},
			{Difficulty: 2, Duration: 0.2},
			{Difficulty: 3, Duration: 0.3},
			{Difficulty: 4, Duration: 0.4},
			{Difficulty: 5, Duration: 0.5},
		},
	})

	svc := NewArchiveService(f.campaigns.Campaigns, f.campaigns.Responses, &config.PublishConfig{
		Dir:      t.TempDir(),
		Interval: time.Hour,
	}, nil)
	svc.now = func() int64 { return 9000 }

	require.NoError(t, svc.ArchiveOnce(context.Background()))

	dir := filepath.Join(svc.BaseDir, campaign.ID, "9000")

	raw, err := os.ReadFile(filepath.Join(dir, "campaign.json"))
	require.NoError(t, err)
	var snapshot CampaignSnapshot
	require.NoError(t, json.Unmarshal(raw, &snapshot))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, snapshot.Difficulties)

	raw, err = os.ReadFile(filepath.Join(dir, "benchmark.csv"))
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, userID, row[1])
	assert.Equal(t, "desktop", row[2])
	assert.Equal(t, "linux x86_64", row[3])
	assert.Equal(t, "4", row[4])
	assert.Equal(t, "wasm", row[6])
	assert.Equal(t, []string{"0.1", "0.2", "0.3", "0.4", "0.5"}, row[7:])
}
