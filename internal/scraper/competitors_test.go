package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCompetitorsCSV(t *testing.T) {
	t.Run("parses usernames and follower overrides", func(t *testing.T) {
		csv := "username,followers\n@cristiano,650000000\ntheweeknd,\n instagram ,not-a-number\n,1000\n"
		usernames, followers, err := ReadCompetitorsCSV(strings.NewReader(csv))

		assert.NoError(t, err)
		assert.Equal(t, []string{"cristiano", "theweeknd", "instagram"}, usernames)
		assert.Equal(t, map[string]int{"cristiano": 650000000}, followers)
	})

	t.Run("followers column is optional", func(t *testing.T) {
		usernames, followers, err := ReadCompetitorsCSV(strings.NewReader("username\nacct1\nacct2\n"))
		assert.NoError(t, err)
		assert.Equal(t, []string{"acct1", "acct2"}, usernames)
		assert.Empty(t, followers)
	})

	t.Run("missing username column is an error", func(t *testing.T) {
		_, _, err := ReadCompetitorsCSV(strings.NewReader("handle,followers\nacct1,10\n"))
		assert.ErrorContains(t, err, "username")
	})

	t.Run("header casing is forgiven", func(t *testing.T) {
		usernames, _, err := ReadCompetitorsCSV(strings.NewReader("Username,Followers\nacct1,10\n"))
		assert.NoError(t, err)
		assert.Equal(t, []string{"acct1"}, usernames)
	})
}
