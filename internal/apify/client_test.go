package apify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunActor(t *testing.T) {
	t.Run("posts input and decodes dataset items", func(t *testing.T) {
		var gotPath, gotToken string
		var gotInput map[string]interface{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotToken = r.URL.Query().Get("token")
			json.NewDecoder(r.Body).Decode(&gotInput)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"ownerUsername":"acct1","likesCount":10},{"ownerUsername":"acct2"}]`))
		}))
		defer server.Close()

		client := NewClient("secret", server.URL)
		items, err := client.RunActor(context.Background(), "apify/instagram-reel-scraper", map[string]interface{}{
			"username":     []string{"acct1"},
			"resultsLimit": 25,
		})

		assert.NoError(t, err)
		assert.Equal(t, "/v2/acts/apify~instagram-reel-scraper/run-sync-get-dataset-items", gotPath)
		assert.Equal(t, "secret", gotToken)
		assert.Equal(t, float64(25), gotInput["resultsLimit"])

		if assert.Len(t, items, 2) {
			assert.Equal(t, "acct1", items[0]["ownerUsername"])
			assert.Equal(t, float64(10), items[0]["likesCount"])
		}
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"actor not found"}`, http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient("secret", server.URL)
		_, err := client.RunActor(context.Background(), "apify/missing", nil)
		assert.ErrorContains(t, err, "404")
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`))
		}))
		defer server.Close()

		client := NewClient("secret", server.URL)
		_, err := client.RunActor(context.Background(), "apify/whatever", nil)
		assert.Error(t, err)
	})
}
