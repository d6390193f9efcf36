package handlers

import (
	"net/http"
	"os"

	"reel-radar/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler manages the tracked-account roster
type AdminHandler struct {
	accounts *services.AccountsService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(accounts *services.AccountsService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// AdminAuth middleware for basic password protection
func (h *AdminHandler) AdminAuth() gin.HandlerFunc {
	return gin.BasicAuth(gin.Accounts{
		"admin": getAdminPassword(),
	})
}

// getAdminPassword returns the admin password from environment or default
func getAdminPassword() string {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123" // Default password for development
	}
	return password
}

// ListAccounts returns all tracked accounts
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

type trackRequest struct {
	Username         string `json:"username" binding:"required"`
	FollowerOverride int    `json:"follower_override"`
}

// TrackAccount adds or reactivates a tracked account
func (h *AdminHandler) TrackAccount(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Track(req.Username, req.FollowerOverride)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, account)
}

// UntrackAccount deactivates a tracked account
func (h *AdminHandler) UntrackAccount(c *gin.Context) {
	err := h.accounts.Untrack(c.Param("username"))
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not tracked"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "untracked"})
}
