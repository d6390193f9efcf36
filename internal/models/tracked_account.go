package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackedAccount represents a competitor account the service scans periodically.
type TrackedAccount struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Username string    `json:"username" db:"username" gorm:"uniqueIndex;not null"`

	// FollowerOverride, when nonzero, takes precedence over provider-fetched
	// follower counts during enrichment.
	FollowerOverride int `json:"follower_override" db:"follower_override" gorm:"default:0"`

	IsActive      bool       `json:"is_active" db:"is_active" gorm:"default:true"`
	LastScannedAt *time.Time `json:"last_scanned_at" db:"last_scanned_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the TrackedAccount model
func (TrackedAccount) TableName() string {
	return "tracked_accounts"
}

// BeforeCreate assigns an ID when the caller did not set one
func (a *TrackedAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
