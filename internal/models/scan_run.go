package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Scan status values
const (
	ScanStatusRunning   = "running"
	ScanStatusCompleted = "completed"
	ScanStatusFailed    = "failed"
)

// ScanRun represents one execution of the scraping pipeline over a set of
// tracked usernames, together with the thresholds that were applied and the
// per-stage filtering stats.
type ScanRun struct {
	ID uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`

	ContentKind string         `json:"content_kind" db:"content_kind" gorm:"not null"` // reel | post
	Usernames   pq.StringArray `json:"usernames" db:"usernames" gorm:"type:text[]"`
	StartDate   time.Time      `json:"start_date" db:"start_date"`
	EndDate     time.Time      `json:"end_date" db:"end_date"`

	// Thresholds in effect for this run
	MinViews          int     `json:"min_views" db:"min_views" gorm:"default:0"`
	MinEngagementRate float64 `json:"min_engagement_rate" db:"min_engagement_rate" gorm:"default:0.0"`

	// Stats from the fetch stage
	TotalItems    int `json:"total_items" db:"total_items" gorm:"default:0"`
	KindFiltered  int `json:"kind_filtered" db:"kind_filtered" gorm:"default:0"`
	DateFiltered  int `json:"date_filtered" db:"date_filtered" gorm:"default:0"`
	ParseFailures int `json:"parse_failures" db:"parse_failures" gorm:"default:0"`
	ViralCount    int `json:"viral_count" db:"viral_count" gorm:"default:0"`

	Status string `json:"status" db:"status" gorm:"default:'running'"`
	Error  string `json:"error,omitempty" db:"error"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Records []ContentRecord `json:"records,omitempty" gorm:"foreignKey:ScanID"`
}

// TableName sets the table name for the ScanRun model
func (ScanRun) TableName() string {
	return "scan_runs"
}

// BeforeCreate assigns an ID when the caller did not set one
func (s *ScanRun) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
