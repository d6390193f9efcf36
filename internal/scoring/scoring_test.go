package scoring

import (
	"testing"

	"reel-radar/internal/config"
	"reel-radar/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEngagementRate(t *testing.T) {
	t.Run("known scenario pins exact rounding", func(t *testing.T) {
		record := &models.ContentRecord{
			Username:      "acct1",
			FollowerCount: 100000,
			Views:         150000,
			Likes:         5000,
			Comments:      200,
		}
		assert.Equal(t, 5.2, EngagementRate(record, ModeReel))
	})

	t.Run("zero followers always scores zero", func(t *testing.T) {
		record := &models.ContentRecord{Likes: 5000, Comments: 200, Views: 150000}
		assert.Equal(t, 0.0, EngagementRate(record, ModeReel))
		assert.Equal(t, 0.0, EngagementRate(record, ModePost))
	})

	t.Run("reel mode counts shares, post mode does not", func(t *testing.T) {
		record := &models.ContentRecord{
			FollowerCount: 1000,
			Likes:         10,
			Comments:      5,
			Shares:        5,
		}
		assert.Equal(t, 2.0, EngagementRate(record, ModeReel))
		assert.Equal(t, 1.5, EngagementRate(record, ModePost))
	})

	t.Run("rounds half away from zero at two decimals", func(t *testing.T) {
		// 125 / 100000 * 100 = 0.125 -> 0.13
		record := &models.ContentRecord{FollowerCount: 100000, Likes: 125}
		assert.Equal(t, 0.13, EngagementRate(record, ModePost))
	})
}

func TestEnrichFollowers(t *testing.T) {
	t.Run("override beats provider counts", func(t *testing.T) {
		records := []*models.ContentRecord{{Username: "acct1"}}
		EnrichFollowers(records, map[string]int{"acct1": 500}, map[string]int{"acct1": 900})
		assert.Equal(t, 500, records[0].FollowerCount)
	})

	t.Run("provider fills when override misses", func(t *testing.T) {
		records := []*models.ContentRecord{{Username: "acct1"}}
		EnrichFollowers(records, map[string]int{}, map[string]int{"acct1": 900})
		assert.Equal(t, 900, records[0].FollowerCount)
	})

	t.Run("unknown user stays at zero", func(t *testing.T) {
		records := []*models.ContentRecord{{Username: "ghost"}}
		EnrichFollowers(records, map[string]int{}, map[string]int{})
		assert.Equal(t, 0, records[0].FollowerCount)
	})

	t.Run("never overwrites a known count", func(t *testing.T) {
		records := []*models.ContentRecord{{Username: "acct1", FollowerCount: 123}}
		EnrichFollowers(records, map[string]int{"acct1": 500}, nil)
		assert.Equal(t, 123, records[0].FollowerCount)
	})

	t.Run("idempotent", func(t *testing.T) {
		records := []*models.ContentRecord{{Username: "acct1"}, {Username: "acct2"}}
		override := map[string]int{"acct1": 500}
		fetched := map[string]int{"acct2": 900}

		EnrichFollowers(records, override, fetched)
		first := []int{records[0].FollowerCount, records[1].FollowerCount}
		EnrichFollowers(records, override, fetched)
		assert.Equal(t, first, []int{records[0].FollowerCount, records[1].FollowerCount})
	})
}

func TestFilterViral(t *testing.T) {
	thresholds := config.Thresholds{MinViews: 100000, MinEngagementRate: 1.0}

	t.Run("qualifying record survives", func(t *testing.T) {
		records := []*models.ContentRecord{{
			Username:      "acct1",
			FollowerCount: 100000,
			Views:         150000,
			Likes:         5000,
			Comments:      200,
		}}
		viral := FilterViral(records, thresholds, ModeReel)
		if assert.Len(t, viral, 1) {
			assert.Equal(t, 5.2, viral[0].EngagementRate)
		}
	})

	t.Run("unenriched record is excluded regardless of views", func(t *testing.T) {
		records := []*models.ContentRecord{{
			Username: "acct1",
			Views:    150000,
			Likes:    5000,
			Comments: 200,
		}}
		viral := FilterViral(records, thresholds, ModeReel)
		assert.Empty(t, viral)
		assert.Equal(t, 0.0, records[0].EngagementRate)
	})

	t.Run("scores every input as a side effect", func(t *testing.T) {
		records := []*models.ContentRecord{
			{Username: "low", FollowerCount: 1000, Views: 10, Likes: 1},
			{Username: "high", FollowerCount: 1000, Views: 200000, Likes: 100},
		}
		FilterViral(records, thresholds, ModeReel)
		assert.Equal(t, 0.1, records[0].EngagementRate)
		assert.Equal(t, 10.0, records[1].EngagementRate)
	})

	t.Run("reel mode sorts by views descending", func(t *testing.T) {
		records := []*models.ContentRecord{
			{Username: "a", FollowerCount: 100, Views: 150000, Likes: 50},
			{Username: "b", FollowerCount: 100, Views: 300000, Likes: 10},
			{Username: "c", FollowerCount: 100, Views: 200000, Likes: 90},
		}
		viral := FilterViral(records, thresholds, ModeReel)
		if assert.Len(t, viral, 3) {
			assert.Equal(t, []string{"b", "c", "a"}, []string{viral[0].Username, viral[1].Username, viral[2].Username})
		}
	})

	t.Run("post mode has no views gate and sorts by likes", func(t *testing.T) {
		records := []*models.ContentRecord{
			{Username: "a", FollowerCount: 100, Likes: 5},
			{Username: "b", FollowerCount: 100, Likes: 50},
		}
		viral := FilterViral(records, config.Thresholds{MinViews: 100000, MinEngagementRate: 1.0}, ModePost)
		if assert.Len(t, viral, 2) {
			assert.Equal(t, "b", viral[0].Username)
			assert.Equal(t, "a", viral[1].Username)
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		records := []*models.ContentRecord{
			{Username: "first", FollowerCount: 100, Views: 200000, Likes: 10},
			{Username: "second", FollowerCount: 100, Views: 200000, Likes: 10},
			{Username: "third", FollowerCount: 100, Views: 200000, Likes: 10},
		}
		viral := FilterViral(records, thresholds, ModeReel)
		if assert.Len(t, viral, 3) {
			assert.Equal(t, "first", viral[0].Username)
			assert.Equal(t, "second", viral[1].Username)
			assert.Equal(t, "third", viral[2].Username)
		}
	})

	t.Run("raising thresholds never grows the result", func(t *testing.T) {
		records := []*models.ContentRecord{
			{Username: "a", FollowerCount: 1000, Views: 150000, Likes: 50},
			{Username: "b", FollowerCount: 1000, Views: 90000, Likes: 500},
			{Username: "c", FollowerCount: 1000, Views: 500000, Likes: 5},
		}

		base := len(FilterViral(records, config.Thresholds{MinViews: 50000, MinEngagementRate: 0.1}, ModeReel))
		moreViews := len(FilterViral(records, config.Thresholds{MinViews: 200000, MinEngagementRate: 0.1}, ModeReel))
		moreER := len(FilterViral(records, config.Thresholds{MinViews: 50000, MinEngagementRate: 5.0}, ModeReel))

		assert.LessOrEqual(t, moreViews, base)
		assert.LessOrEqual(t, moreER, base)
	})
}
