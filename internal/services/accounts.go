package services

import (
	"fmt"
	"strings"

	"reel-radar/internal/models"

	"gorm.io/gorm"
)

// AccountsService manages the tracked competitor accounts.
type AccountsService struct {
	db *gorm.DB
}

// NewAccountsService creates a new accounts service
func NewAccountsService(db *gorm.DB) *AccountsService {
	return &AccountsService{db: db}
}

// Track adds a username to the tracked set, or reactivates it when already
// known. The leading @ users paste in is stripped.
func (as *AccountsService) Track(username string, followerOverride int) (*models.TrackedAccount, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	var account models.TrackedAccount
	err := as.db.Where("username = ?", username).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		account = models.TrackedAccount{
			Username:         username,
			FollowerOverride: followerOverride,
			IsActive:         true,
		}
		if err := as.db.Create(&account).Error; err != nil {
			return nil, err
		}
		return &account, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"is_active": true}
	if followerOverride > 0 {
		updates["follower_override"] = followerOverride
	}
	if err := as.db.Model(&account).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// Untrack deactivates an account without deleting its scan history.
func (as *AccountsService) Untrack(username string) error {
	result := as.db.Model(&models.TrackedAccount{}).
		Where("username = ?", username).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActive returns the active tracked accounts in username order.
func (as *AccountsService) ListActive() ([]models.TrackedAccount, error) {
	var accounts []models.TrackedAccount
	if err := as.db.Where("is_active = ?", true).Order("username").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// List returns all tracked accounts in username order.
func (as *AccountsService) List() ([]models.TrackedAccount, error) {
	var accounts []models.TrackedAccount
	if err := as.db.Order("username").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
