package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"reel-radar/internal/models"
	"reel-radar/internal/scoring"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() *models.ContentRecord {
	takenAt := time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)
	return &models.ContentRecord{
		Username:       "acct1",
		FollowerCount:  100000,
		URL:            "https://www.instagram.com/reel/abc/",
		TakenAt:        &takenAt,
		Views:          150000,
		Likes:          5000,
		Comments:       200,
		Shares:         10,
		EngagementRate: 5.2,
		Caption:        "a caption",
	}
}

func TestHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"Username", "Followers", "URL", "Date", "Views", "Likes", "Comments", "Shares", "ER (%)", "Caption"},
		Headers(scoring.ModeReel))

	// Post rows have no meaningful view count.
	assert.NotContains(t, Headers(scoring.ModePost), "Views")
}

func TestRows(t *testing.T) {
	t.Run("formats timestamp to the minute", func(t *testing.T) {
		rows := Rows([]*models.ContentRecord{sampleRecord()}, scoring.ModeReel, csvCaptionLimit)
		if assert.Len(t, rows, 1) {
			assert.Equal(t, "2024-01-05 10:30", rows[0][3])
		}
	})

	t.Run("empty date cell when timestamp is missing", func(t *testing.T) {
		record := sampleRecord()
		record.TakenAt = nil
		rows := Rows([]*models.ContentRecord{record}, scoring.ModeReel, csvCaptionLimit)
		assert.Equal(t, "", rows[0][3])
	})

	t.Run("truncates caption only in the row", func(t *testing.T) {
		record := sampleRecord()
		record.Caption = strings.Repeat("x", 500)
		rows := Rows([]*models.ContentRecord{record}, scoring.ModeReel, csvCaptionLimit)

		caption := rows[0][len(rows[0])-1].(string)
		assert.Len(t, caption, csvCaptionLimit)
		assert.Len(t, record.Caption, 500)
	})

	t.Run("post rows omit the views cell", func(t *testing.T) {
		reelRow := Rows([]*models.ContentRecord{sampleRecord()}, scoring.ModeReel, csvCaptionLimit)[0]
		postRow := Rows([]*models.ContentRecord{sampleRecord()}, scoring.ModePost, csvCaptionLimit)[0]
		assert.Len(t, reelRow, len(postRow)+1)
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []*models.ContentRecord{sampleRecord()}, scoring.ModeReel)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Equal(t, "Username,Followers,URL,Date,Views,Likes,Comments,Shares,ER (%),Caption", lines[0])
		assert.Equal(t, "acct1,100000,https://www.instagram.com/reel/abc/,2024-01-05 10:30,150000,5000,200,10,5.2,a caption", lines[1])
	}
}
