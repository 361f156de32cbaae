package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bench_survey_backend/internal/config"
	"bench_survey_backend/internal/model"
	"bench_survey_backend/pkg/logger"
	"bench_survey_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const (
	campaignInfoFile = "campaign.json"
	benchmarkFile    = "benchmark.csv"

	// archivePageSize bounds memory per campaign: responses are streamed to
	// the CSV in pages of this size.
	archivePageSize = 50

	// csvSentinel marks a difficulty the response never measured, or a
	// missing thread count.
	csvSentinel = "-"
)

type campaignLister interface {
	ListAll() ([]model.Campaign, error)
}

type responsePager interface {
	ListByCampaign(campaignID string, page, limit int, benchType *model.SubmissionType) ([]model.Response, error)
}

// ObjectStore mirrors archive files to remote storage.
type ObjectStore interface {
	Upload(ctx context.Context, objectName, localPath, contentType string) error
}

// CampaignSnapshot is the campaign.json wire shape.
type CampaignSnapshot struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Difficulties []int  `json:"difficulties"`
	CreatedAt    int64  `json:"created_at"`
}

// ArchiveService periodically snapshots every campaign's result set to
// timestamped directories under BaseDir, and optionally mirrors the files to
// an object store.
type ArchiveService struct {
	Campaigns campaignLister
	Responses responsePager
	BaseDir   string
	Interval  time.Duration
	PageSize  int
	Store     ObjectStore

	// now stamps each pass; injectable for tests.
	now func() int64
}

func NewArchiveService(campaigns campaignLister, responses responsePager, cfg *config.PublishConfig, store ObjectStore) *ArchiveService {
	return &ArchiveService{
		Campaigns: campaigns,
		Responses: responses,
		BaseDir:   cfg.Dir,
		Interval:  cfg.Interval,
		PageSize:  archivePageSize,
		Store:     store,
		now:       func() int64 { return time.Now().Unix() },
	}
}

// Run executes archive passes until the context is cancelled. The signal is
// checked between passes only; an in-flight pass always runs to completion.
func (s *ArchiveService) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			logger.Log.Info("archive loop stopped")
			return
		}

		if err := s.ArchiveOnce(ctx); err != nil {
			logger.Log.Error("archive pass failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			logger.Log.Info("archive loop stopped")
			return
		case <-time.After(s.Interval):
		}
	}
}

// ArchiveOnce performs one full pass over all campaigns. A campaign that
// fails to archive is logged and skipped; files already written for other
// campaigns stay in place.
func (s *ArchiveService) ArchiveOnce(ctx context.Context) error {
	campaigns, err := s.Campaigns.ListAll()
	if err != nil {
		return err
	}

	ts := s.now()

	var failed int
	for i := range campaigns {
		if err := s.archiveCampaign(ctx, &campaigns[i], ts); err != nil {
			logger.Log.Error("campaign archive failed",
				zap.String("campaign", campaigns[i].ID),
				zap.Error(err),
			)
			monitoring.ArchiveCampaignFailures.Inc()
			failed++
		}
	}

	monitoring.ArchivePasses.Inc()

	if failed > 0 {
		return fmt.Errorf("archive pass: %d of %d campaigns failed", failed, len(campaigns))
	}
	return nil
}

func (s *ArchiveService) archiveCampaign(ctx context.Context, c *model.Campaign, ts int64) error {
	dir := filepath.Join(s.BaseDir, c.ID, strconv.FormatInt(ts, 10))
	if err := ensureDir(dir); err != nil {
		return err
	}

	infoPath := filepath.Join(dir, campaignInfoFile)
	if err := writeCampaignFile(infoPath, c); err != nil {
		return err
	}

	benchPath := filepath.Join(dir, benchmarkFile)
	if err := s.writeBenchmarkFile(benchPath, c); err != nil {
		return err
	}

	if s.Store != nil {
		prefix := c.ID + "/" + strconv.FormatInt(ts, 10) + "/"
		if err := s.Store.Upload(ctx, prefix+campaignInfoFile, infoPath, "application/json"); err != nil {
			logger.Log.Warn("archive mirror upload failed", zap.String("campaign", c.ID), zap.Error(err))
		} else if err := s.Store.Upload(ctx, prefix+benchmarkFile, benchPath, "text/csv"); err != nil {
			logger.Log.Warn("archive mirror upload failed", zap.String("campaign", c.ID), zap.Error(err))
		}
	}

	return nil
}

// ensureDir creates the directory tree, removing a regular file that blocks
// the path.
func ensureDir(p string) error {
	info, err := os.Stat(p)
	if err == nil && !info.IsDir() {
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return os.MkdirAll(p, 0755)
}

func writeCampaignFile(path string, c *model.Campaign) error {
	snapshot := CampaignSnapshot{
		ID:           c.ID,
		Name:         c.Name,
		Difficulties: c.Difficulties,
		CreatedAt:    c.CreatedAt.Unix(),
	}
	contents, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

func (s *ArchiveService) writeBenchmarkFile(path string, c *model.Campaign) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteBenchmarkCSV(f, c, s.Responses, s.PageSize)
}

// WriteBenchmarkCSV writes the header plus one row per response, paging
// through the result set until a short page. Shared by the archiver and the
// admin CSV export.
func WriteBenchmarkCSV(w io.Writer, c *model.Campaign, pager responsePager, pageSize int) error {
	wri := csv.NewWriter(w)

	if err := wri.Write(benchmarkHeader(c)); err != nil {
		return err
	}

	for page := 0; ; page++ {
		responses, err := pager.ListByCampaign(c.ID, page, pageSize, nil)
		if err != nil {
			return err
		}

		for i := range responses {
			if err := wri.Write(benchmarkRecord(c, &responses[i])); err != nil {
				return err
			}
		}

		if len(responses) < pageSize {
			break
		}
	}

	wri.Flush()
	return wri.Error()
}

func benchmarkHeader(c *model.Campaign) []string {
	keys := []string{
		"ID",
		"user",
		"device_user_provided",
		"device_software_recognised",
		"threads",
		"submitted_at",
		"submission_type",
	}
	for _, d := range c.Difficulties {
		keys = append(keys, fmt.Sprintf("Difficulty %d", d))
	}
	return keys
}

func benchmarkRecord(c *model.Campaign, r *model.Response) []string {
	threads := csvSentinel
	if r.Threads != nil {
		threads = strconv.Itoa(*r.Threads)
	}

	rec := []string{
		strconv.FormatUint(uint64(r.ID), 10),
		r.SurveyUserID,
		r.DeviceUserProvided,
		r.DeviceSoftwareRecognised,
		threads,
		strconv.FormatInt(r.SubmittedAt.Unix(), 10),
		string(r.SubmissionType),
	}

	for _, d := range c.Difficulties {
		cell := csvSentinel
		for i := range r.Benches {
			if r.Benches[i].Difficulty == d {
				cell = strconv.FormatFloat(r.Benches[i].Duration, 'f', -1, 64)
				break
			}
		}
		rec = append(rec, cell)
	}

	return rec
}
