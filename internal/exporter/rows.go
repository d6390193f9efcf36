// Package exporter serializes ranked content records to tabular sinks: a CSV
// download and a hosted Google Sheets worksheet.
package exporter

import (
	"reel-radar/internal/models"
	"reel-radar/internal/scoring"
)

// Caption display limits per sink. The canonical record keeps the full
// caption; truncation happens only in export rows.
const (
	csvCaptionLimit    = 100
	sheetsCaptionLimit = 200
)

const dateLayout = "2006-01-02 15:04"

// Headers returns the column set for a scoring mode. Post rows have no
// meaningful view count, so the Views column exists only in reel mode.
func Headers(mode scoring.Mode) []string {
	headers := []string{"Username", "Followers", "URL", "Date"}
	if mode == scoring.ModeReel {
		headers = append(headers, "Views")
	}
	return append(headers, "Likes", "Comments", "Shares", "ER (%)", "Caption")
}

// Rows builds one export row per record, in input order, matching
// Headers(mode).
func Rows(records []*models.ContentRecord, mode scoring.Mode, captionLimit int) [][]interface{} {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		date := ""
		if r.TakenAt != nil {
			date = r.TakenAt.Format(dateLayout)
		}

		row := []interface{}{r.Username, r.FollowerCount, r.URL, date}
		if mode == scoring.ModeReel {
			row = append(row, r.Views)
		}
		row = append(row, r.Likes, r.Comments, r.Shares, r.EngagementRate, truncate(r.Caption, captionLimit))
		rows = append(rows, row)
	}
	return rows
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
