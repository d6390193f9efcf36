package handlers

import (
	"net/http"
	"time"

	"reel-radar/internal/config"
	"reel-radar/internal/scraper"
	"reel-radar/internal/services"

	"github.com/gin-gonic/gin"
)

// ScanHandler exposes the scan pipeline over HTTP
type ScanHandler struct {
	scans *services.ScanService
	cfg   *config.Config
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scans *services.ScanService, cfg *config.Config) *ScanHandler {
	return &ScanHandler{scans: scans, cfg: cfg}
}

// HealthCheck returns service health status
func (h *ScanHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "reel-radar",
	})
}

// scanRequest is the POST /api/scans body
type scanRequest struct {
	Usernames         []string       `json:"usernames" binding:"required"`
	StartDate         string         `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate           string         `json:"end_date" binding:"required"`   // YYYY-MM-DD
	Kind              string         `json:"kind"`                          // reel (default) | post
	Policy            string         `json:"policy"`                        // client (default) | hybrid | strict
	MinViews          *int           `json:"min_views"`
	MinEngagementRate *float64       `json:"min_engagement_rate"`
	FollowerOverrides map[string]int `json:"follower_overrides"`
}

// RunScan runs the pipeline synchronously and returns the ranked result
func (h *ScanHandler) RunScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must not be after end_date"})
		return
	}

	kind := scraper.ContentKind(req.Kind)
	if kind == "" {
		kind = scraper.KindReel
	}
	if kind != scraper.KindReel && kind != scraper.KindPost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be reel or post"})
		return
	}

	policy := scraper.WindowPolicy(req.Policy)
	if policy == "" {
		policy = scraper.WindowClient
	}

	thresholds := h.cfg.Thresholds
	if req.MinViews != nil {
		thresholds.MinViews = *req.MinViews
	}
	if req.MinEngagementRate != nil {
		thresholds.MinEngagementRate = *req.MinEngagementRate
	}

	result, err := h.scans.RunScan(c.Request.Context(), services.ScanRequest{
		Usernames:         req.Usernames,
		FollowerOverrides: req.FollowerOverrides,
		StartDate:         start,
		EndDate:           end,
		Kind:              kind,
		Policy:            policy,
		Thresholds:        thresholds,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListScans returns recent scan runs
func (h *ScanHandler) ListScans(c *gin.Context) {
	runs, err := h.scans.ListScans(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": runs})
}

// GetScan returns one scan run with its surviving records
func (h *ScanHandler) GetScan(c *gin.Context) {
	run, err := h.scans.GetScan(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}
