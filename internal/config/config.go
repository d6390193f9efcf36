// Package config loads the application configuration from a YAML file with
// environment variable overrides for secrets.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is an immutable snapshot of the application configuration. It is
// passed explicitly to every component that needs one of its fields.
type Config struct {
	Apify       ApifyConfig  `yaml:"apify"`
	Thresholds  Thresholds   `yaml:"thresholds"`
	GoogleSheet SheetsConfig `yaml:"google_sheets"`
}

// ApifyConfig holds the scraping provider settings
type ApifyConfig struct {
	Token              string `yaml:"token"`
	ActorID            string `yaml:"actor_id"`
	PostActorID        string `yaml:"post_actor_id"`
	ProfileActorID     string `yaml:"profile_actor_id"`
	MaxReelsPerProfile int    `yaml:"max_reels_per_profile"`
}

// Thresholds holds the viral filtering thresholds
type Thresholds struct {
	MinViews          int     `yaml:"min_views"`
	MinEngagementRate float64 `yaml:"min_engagement_rate"` // percentage, 0-100
}

// SheetsConfig holds the Google Sheets export settings. When SpreadsheetID is
// empty a new spreadsheet named SpreadsheetName is created on export.
type SheetsConfig struct {
	ServiceAccountFile string `yaml:"service_account_file"`
	SpreadsheetID      string `yaml:"spreadsheet_id"`
	SpreadsheetName    string `yaml:"spreadsheet_name"`
	WorksheetName      string `yaml:"worksheet_name"`
}

// Load reads the YAML config at path, applies defaults, and validates it.
// APIFY_TOKEN from the environment overrides the token in the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if token := os.Getenv("APIFY_TOKEN"); token != "" {
		c.Apify.Token = token
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// Default returns a config with all defaults applied and the token taken from
// the environment. Used when no config file is present.
func Default() *Config {
	c := &Config{}
	c.Apify.Token = os.Getenv("APIFY_TOKEN")
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Apify.ActorID == "" {
		c.Apify.ActorID = "apify/instagram-reel-scraper"
	}
	if c.Apify.PostActorID == "" {
		c.Apify.PostActorID = "apify/instagram-post-scraper"
	}
	if c.Apify.ProfileActorID == "" {
		c.Apify.ProfileActorID = "apify/instagram-profile-scraper"
	}
	if c.Apify.MaxReelsPerProfile == 0 {
		c.Apify.MaxReelsPerProfile = 50
	}
	if c.Thresholds.MinViews == 0 {
		c.Thresholds.MinViews = 100000
	}
	if c.Thresholds.MinEngagementRate == 0 {
		c.Thresholds.MinEngagementRate = 3.0
	}
	if c.GoogleSheet.ServiceAccountFile == "" {
		c.GoogleSheet.ServiceAccountFile = "service_account.json"
	}
	if c.GoogleSheet.SpreadsheetName == "" {
		c.GoogleSheet.SpreadsheetName = "Viral Reels Report"
	}
	if c.GoogleSheet.WorksheetName == "" {
		c.GoogleSheet.WorksheetName = "Reels"
	}
}

// Validate checks basic invariants on the configuration
func (c *Config) Validate() error {
	if c.Apify.MaxReelsPerProfile < 1 {
		return errors.New("apify.max_reels_per_profile must be >= 1")
	}
	if c.Thresholds.MinViews < 0 {
		return errors.New("thresholds.min_views must be >= 0")
	}
	if c.Thresholds.MinEngagementRate < 0 {
		return errors.New("thresholds.min_engagement_rate must be >= 0")
	}
	return nil
}
