package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCompetitorsCSV parses a competitors file with a required "username"
// column and an optional "followers" column. Leading @ signs are stripped,
// blank usernames are skipped, and unparsable follower values are ignored.
// The follower map feeds enrichment as the highest-priority override source.
func ReadCompetitorsCSV(r io.Reader) ([]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read CSV header: %w", err)
	}

	usernameCol, followersCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "username":
			usernameCol = i
		case "followers":
			followersCol = i
		}
	}
	if usernameCol == -1 {
		return nil, nil, fmt.Errorf("CSV must have a 'username' column, found: %v", header)
	}

	var usernames []string
	followers := make(map[string]int)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read CSV row: %w", err)
		}

		username := strings.TrimPrefix(strings.TrimSpace(row[usernameCol]), "@")
		if username == "" {
			continue
		}
		usernames = append(usernames, username)

		if followersCol >= 0 && followersCol < len(row) {
			if n, err := strconv.Atoi(strings.TrimSpace(row[followersCol])); err == nil {
				followers[username] = n
			}
		}
	}

	return usernames, followers, nil
}
