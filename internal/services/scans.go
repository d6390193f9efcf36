package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"reel-radar/internal/apify"
	"reel-radar/internal/config"
	"reel-radar/internal/models"
	"reel-radar/internal/scoring"
	"reel-radar/internal/scraper"

	"gorm.io/gorm"
)

// ScanService runs the full pipeline (fetch, enrich, score, filter) and
// persists the outcome as a ScanRun.
type ScanService struct {
	db      *gorm.DB
	fetcher *scraper.Fetcher
	cfg     *config.Config
}

// NewScanService creates a new scan service. db may be nil for one-shot CLI
// runs that only want the in-memory result.
func NewScanService(db *gorm.DB, fetcher *scraper.Fetcher, cfg *config.Config) *ScanService {
	return &ScanService{db: db, fetcher: fetcher, cfg: cfg}
}

// ScanRequest describes one pipeline run.
type ScanRequest struct {
	Usernames []string
	// FollowerOverrides are caller-supplied counts (e.g. from the
	// competitors CSV) that take precedence over provider lookups.
	FollowerOverrides map[string]int
	StartDate         time.Time
	EndDate           time.Time
	Kind              scraper.ContentKind
	Policy            scraper.WindowPolicy
	Thresholds        config.Thresholds
}

// ScanResult is the outcome of one pipeline run.
type ScanResult struct {
	Run *models.ScanRun `json:"run,omitempty"`

	// All holds every record that survived the structural and date filters,
	// scored but not threshold-filtered.
	All []*models.ContentRecord `json:"all"`

	// Viral holds the ranked records that met the thresholds.
	Viral []*models.ContentRecord `json:"viral"`

	RawItems []apify.RawItem    `json:"-"`
	Stats    scraper.FetchStats `json:"stats"`

	// FollowerWarning is set when the follower lookup failed and records
	// were left unenriched.
	FollowerWarning string `json:"follower_warning,omitempty"`
}

// RunScan executes the pipeline for one request.
func (s *ScanService) RunScan(ctx context.Context, req ScanRequest) (*ScanResult, error) {
	if len(req.Usernames) == 0 {
		return nil, fmt.Errorf("scan needs at least one username")
	}

	run := s.createRun(req)

	records, rawItems, stats, err := s.fetcher.Fetch(ctx, req.Usernames, req.StartDate, req.EndDate, req.Kind, req.Policy)
	if err != nil {
		s.failRun(run, err)
		return nil, err
	}

	result := &ScanResult{Run: run, All: records, RawItems: rawItems, Stats: stats}

	overrides := s.mergeTrackedOverrides(req.Usernames, req.FollowerOverrides)

	// Only look up users the overrides don't already cover.
	var missing []string
	for _, username := range req.Usernames {
		if overrides[username] == 0 {
			missing = append(missing, username)
		}
	}

	fetched := map[string]int{}
	if len(missing) > 0 {
		fetched, err = s.fetcher.FetchFollowerCounts(ctx, missing)
		if err != nil {
			// Follower enrichment is best-effort: the scan still returns
			// content, just unscored where counts are missing.
			result.FollowerWarning = fmt.Sprintf("could not fetch follower counts: %v", err)
			log.Printf("⚠️  %s", result.FollowerWarning)
			fetched = map[string]int{}
		}
	}

	scoring.EnrichFollowers(records, overrides, fetched)
	result.Viral = scoring.FilterViral(records, req.Thresholds, scoring.Mode(req.Kind))

	log.Printf("Found %d viral %ss (min views: %d, min ER: %.1f%%)",
		len(result.Viral), req.Kind, req.Thresholds.MinViews, req.Thresholds.MinEngagementRate)

	s.completeRun(run, result)
	return result, nil
}

// createRun inserts the running ScanRun row, or returns nil without a db.
func (s *ScanService) createRun(req ScanRequest) *models.ScanRun {
	if s.db == nil {
		return nil
	}

	run := &models.ScanRun{
		ContentKind:       string(req.Kind),
		Usernames:         req.Usernames,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		MinViews:          req.Thresholds.MinViews,
		MinEngagementRate: req.Thresholds.MinEngagementRate,
		Status:            models.ScanStatusRunning,
	}
	if err := s.db.Create(run).Error; err != nil {
		log.Printf("Failed to persist scan run: %v", err)
		return nil
	}
	return run
}

func (s *ScanService) failRun(run *models.ScanRun, cause error) {
	if s.db == nil || run == nil {
		return
	}
	s.db.Model(run).Updates(map[string]interface{}{
		"status": models.ScanStatusFailed,
		"error":  cause.Error(),
	})
}

// completeRun stores the viral records under the run and marks it completed.
func (s *ScanService) completeRun(run *models.ScanRun, result *ScanResult) {
	if s.db == nil || run == nil {
		return
	}

	for _, record := range result.Viral {
		record.ScanID = &run.ID
		if err := s.db.Create(record).Error; err != nil {
			log.Printf("Failed to persist record %s: %v", record.URL, err)
		}
	}

	now := time.Now()
	s.db.Model(&models.TrackedAccount{}).
		Where("username IN ?", []string(run.Usernames)).
		Update("last_scanned_at", &now)

	s.db.Model(run).Updates(map[string]interface{}{
		"total_items":    result.Stats.TotalItems,
		"kind_filtered":  result.Stats.KindFiltered,
		"date_filtered":  result.Stats.DateFiltered,
		"parse_failures": result.Stats.ParseFailures,
		"viral_count":    len(result.Viral),
		"status":         models.ScanStatusCompleted,
	})
}

// mergeTrackedOverrides layers TrackedAccount follower overrides underneath
// the caller-supplied ones.
func (s *ScanService) mergeTrackedOverrides(usernames []string, callerOverrides map[string]int) map[string]int {
	merged := make(map[string]int, len(callerOverrides))
	for username, count := range callerOverrides {
		merged[username] = count
	}

	if s.db == nil {
		return merged
	}

	var accounts []models.TrackedAccount
	if err := s.db.Where("username IN ? AND follower_override > 0", usernames).Find(&accounts).Error; err != nil {
		log.Printf("Failed to load tracked account overrides: %v", err)
		return merged
	}
	for _, account := range accounts {
		if merged[account.Username] == 0 {
			merged[account.Username] = account.FollowerOverride
		}
	}
	return merged
}

// GetScan loads one scan with its records.
func (s *ScanService) GetScan(id string) (*models.ScanRun, error) {
	var run models.ScanRun
	if err := s.db.Preload("Records").Where("id = ?", id).First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// ListScans returns recent scans, newest first.
func (s *ScanService) ListScans(limit int) ([]models.ScanRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.ScanRun
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
