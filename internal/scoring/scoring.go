// Package scoring enriches content records with follower counts, computes
// engagement rates, and applies the viral thresholds.
package scoring

import (
	"math"
	"sort"

	"reel-radar/internal/config"
	"reel-radar/internal/models"
)

// Mode selects the scoring and filtering rules for a content kind.
type Mode string

const (
	// ModeReel counts shares in the engagement numerator, gates on views,
	// and ranks by views.
	ModeReel Mode = "reel"

	// ModePost ignores shares (the post scraper never reports them), has no
	// views gate, and ranks by likes.
	ModePost Mode = "post"
)

// EngagementRate computes the percentage ratio of engagement to followers,
// rounded half away from zero to two decimals. A record with an unknown
// follower count always scores 0.0.
func EngagementRate(record *models.ContentRecord, mode Mode) float64 {
	if record.FollowerCount <= 0 {
		return 0.0
	}

	engagement := record.Likes + record.Comments
	if mode == ModeReel {
		engagement += record.Shares
	}

	rate := float64(engagement) / float64(record.FollowerCount) * 100
	return math.Round(rate*100) / 100
}

// EnrichFollowers fills in follower counts for records that have none yet,
// checking the caller-supplied override map before the provider-fetched map.
// Records with a known count are never touched, so repeated calls are
// idempotent.
func EnrichFollowers(records []*models.ContentRecord, override, fetched map[string]int) {
	for _, record := range records {
		if record.FollowerCount > 0 {
			continue
		}
		if n := override[record.Username]; n > 0 {
			record.FollowerCount = n
		} else if n := fetched[record.Username]; n > 0 {
			record.FollowerCount = n
		}
	}
}

// FilterViral scores every input record, then returns the records that meet
// the thresholds, ranked by views (reel mode) or likes (post mode). Scoring is
// deliberately applied to all inputs, not only survivors, so callers can show
// rates on the unfiltered set. Ties keep their input order.
func FilterViral(records []*models.ContentRecord, thresholds config.Thresholds, mode Mode) []*models.ContentRecord {
	for _, record := range records {
		record.EngagementRate = EngagementRate(record, mode)
	}

	var viral []*models.ContentRecord
	for _, record := range records {
		if mode == ModeReel && record.Views < thresholds.MinViews {
			continue
		}
		if record.EngagementRate < thresholds.MinEngagementRate {
			continue
		}
		viral = append(viral, record)
	}

	if mode == ModeReel {
		sort.SliceStable(viral, func(i, j int) bool {
			return viral[i].Views > viral[j].Views
		})
	} else {
		sort.SliceStable(viral, func(i, j int) bool {
			return viral[i].Likes > viral[j].Likes
		})
	}

	return viral
}
