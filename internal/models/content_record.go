package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentRecord is the canonical normalized form of one scraped content item
// (a reel or a post/carousel). Records are created by the normalizer, enriched
// with follower counts, scored, and optionally persisted under a ScanRun.
type ContentRecord struct {
	ID     uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	ScanID *uuid.UUID `json:"scan_id,omitempty" db:"scan_id" gorm:"index"`

	Username      string `json:"username" db:"username" gorm:"index"`
	FollowerCount int    `json:"follower_count" db:"follower_count" gorm:"default:0"` // 0 means not yet enriched
	Shortcode     string `json:"shortcode" db:"shortcode"`
	URL           string `json:"url" db:"url"`

	// TakenAt is nil when the source supplied no parseable timestamp.
	TakenAt *time.Time `json:"taken_at" db:"taken_at"`

	// Engagement metrics from the scraper
	Views    int `json:"views" db:"views" gorm:"default:0"`
	Likes    int `json:"likes" db:"likes" gorm:"default:0"`
	Comments int `json:"comments" db:"comments" gorm:"default:0"`
	Shares   int `json:"shares" db:"shares" gorm:"default:0"`

	// EngagementRate is computed by the scorer, never supplied by the source.
	// It must be recomputed whenever FollowerCount changes.
	EngagementRate float64 `json:"engagement_rate" db:"engagement_rate" gorm:"default:0.0"`

	Caption string `json:"caption" db:"caption" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the ContentRecord model
func (ContentRecord) TableName() string {
	return "content_records"
}

// BeforeCreate assigns an ID when the caller did not set one
func (r *ContentRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
