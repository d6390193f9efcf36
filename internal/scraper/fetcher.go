// Package scraper orchestrates the scraping provider and turns its raw
// dataset items into filtered, normalized content records.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"reel-radar/internal/apify"
	"reel-radar/internal/config"
	"reel-radar/internal/models"
	"reel-radar/internal/normalize"
)

// ContentKind selects which content classification a fetch targets.
type ContentKind string

const (
	KindReel ContentKind = "reel"
	KindPost ContentKind = "post"
)

// WindowPolicy selects how the date window is enforced.
type WindowPolicy string

const (
	// WindowClient filters entirely client-side. Records without a
	// timestamp pass the lower bound and, having no timestamp, cannot
	// violate the upper bound either, so they are kept.
	WindowClient WindowPolicy = "client"

	// WindowHybrid passes a "newer than N days" hint to the provider and
	// enforces only the upper bound client-side.
	WindowHybrid WindowPolicy = "hybrid"

	// WindowStrict behaves like WindowClient but drops records that carry
	// no timestamp at all.
	WindowStrict WindowPolicy = "strict"
)

// reelTypeTags is the allow-list of provider type tags that classify an item
// as reel-like. Post mode discards exactly this set, so the two kinds split
// any item stream into disjoint outputs.
var reelTypeTags = map[string]bool{
	"video": true,
	"reel":  true,
	"clips": true,
}

// Provider runs a scraping actor and returns its dataset items.
type Provider interface {
	RunActor(ctx context.Context, actorID string, input map[string]interface{}) ([]apify.RawItem, error)
}

// FetchStats counts how many items each filter stage removed.
type FetchStats struct {
	TotalItems    int `json:"total_items"`
	KindFiltered  int `json:"kind_filtered"`
	DateFiltered  int `json:"date_filtered"`
	ParseFailures int `json:"parse_failures"`
}

// Fetcher retrieves and normalizes content for a list of usernames.
type Fetcher struct {
	provider Provider
	cfg      *config.Config
}

// NewFetcher creates a new Fetcher
func NewFetcher(provider Provider, cfg *config.Config) *Fetcher {
	return &Fetcher{provider: provider, cfg: cfg}
}

// Fetch runs the content actor once per username so the per-profile result cap
// applies to each account individually, then filters the concatenated items by
// content kind and date window. It returns the surviving records, the raw
// items for diagnostic display, and the per-stage stats.
func (f *Fetcher) Fetch(ctx context.Context, usernames []string, start, end time.Time, kind ContentKind, policy WindowPolicy) ([]*models.ContentRecord, []apify.RawItem, FetchStats, error) {
	var stats FetchStats

	if len(usernames) == 0 {
		return nil, nil, stats, errors.New("no usernames to fetch")
	}
	startDay, endDay := dayNumber(start), dayNumber(end)
	if startDay > endDay {
		return nil, nil, stats, errors.New("start date must not be after end date")
	}

	actorID := f.cfg.Apify.ActorID
	schema := normalize.SchemaReel
	if kind == KindPost {
		actorID = f.cfg.Apify.PostActorID
		schema = normalize.SchemaPost
	}

	log.Printf("Starting actor %s for %d users", actorID, len(usernames))

	var rawItems []apify.RawItem
	for _, username := range usernames {
		input := map[string]interface{}{
			"username":     []string{username},
			"resultsLimit": f.cfg.Apify.MaxReelsPerProfile,
		}
		if policy == WindowHybrid {
			input["onlyPostsNewerThan"] = newerThanHint(start)
		}

		items, err := f.provider.RunActor(ctx, actorID, input)
		if err != nil {
			return nil, nil, stats, fmt.Errorf("fetch %s for @%s: %w", kind, username, err)
		}
		rawItems = append(rawItems, items...)
	}

	stats.TotalItems = len(rawItems)
	log.Printf("Received %d items from provider", len(rawItems))

	var records []*models.ContentRecord
	for _, item := range rawItems {
		if !matchesKind(item, kind) {
			stats.KindFiltered++
			continue
		}

		record, ok := normalize.Parse(item, schema)
		if !ok {
			stats.ParseFailures++
			log.Printf("Failed to parse %s item, skipping", kind)
			continue
		}

		if !inWindow(record.TakenAt, startDay, endDay, policy) {
			stats.DateFiltered++
			continue
		}

		records = append(records, record)
	}

	log.Printf("Filtering: %d %ss in range, %d wrong kind, %d outside range, %d failed to parse (from %d total)",
		len(records), kind, stats.KindFiltered, stats.DateFiltered, stats.ParseFailures, stats.TotalItems)

	return records, rawItems, stats, nil
}

// FetchFollowerCounts runs the profile actor once for the whole username list
// and returns a map of username to follower count. Usernames the actor did not
// report are absent from the map.
func (f *Fetcher) FetchFollowerCounts(ctx context.Context, usernames []string) (map[string]int, error) {
	if len(usernames) == 0 {
		return map[string]int{}, nil
	}

	log.Printf("Fetching follower counts for %d users via %s", len(usernames), f.cfg.Apify.ProfileActorID)

	items, err := f.provider.RunActor(ctx, f.cfg.Apify.ProfileActorID, map[string]interface{}{
		"usernames": usernames,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch follower counts: %w", err)
	}

	counts := make(map[string]int)
	for _, item := range items {
		username := normalize.StringField(item, "username")
		if username == "" {
			continue
		}
		counts[username] = normalize.FirstTruthyInt(item, "followersCount", "followers")
	}

	log.Printf("Got follower counts for %d users", len(counts))
	return counts, nil
}

// matchesKind applies the structural filter: reel mode admits only items whose
// type tag is reel-like, post mode admits only items whose type tag is not.
func matchesKind(item apify.RawItem, kind ContentKind) bool {
	isReelLike := reelTypeTags[strings.ToLower(normalize.ItemType(item))]
	if kind == KindReel {
		return isReelLike
	}
	return !isReelLike
}

// inWindow checks a record timestamp against the inclusive calendar-date
// window under the selected policy.
func inWindow(takenAt *time.Time, startDay, endDay int, policy WindowPolicy) bool {
	if takenAt == nil {
		return policy != WindowStrict
	}

	day := dayNumber(*takenAt)
	if day > endDay {
		return false
	}
	// The hybrid lower bound is enforced by the provider hint.
	if policy == WindowHybrid {
		return true
	}
	return day >= startDay
}

// newerThanHint renders the provider's relative lower-bound hint, always at
// least one day back.
func newerThanHint(start time.Time) string {
	days := int(time.Since(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return fmt.Sprintf("%d days", days)
}

// dayNumber collapses a timestamp to a comparable yyyymmdd calendar date.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
