// Package normalize converts raw scraper dataset items into canonical
// ContentRecords. Each supported actor schema is a named parsing strategy with
// its own field-priority tables; item shapes are never trusted.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"reel-radar/internal/apify"
	"reel-radar/internal/models"
)

// Schema selects which actor's response shape an item is parsed as.
type Schema string

const (
	// SchemaReel matches the reel-scraper actor output. The nested author
	// object is the authoritative username source.
	SchemaReel Schema = "reel-scraper"

	// SchemaPost matches the post-scraper actor output, which reports the
	// owner username as a flat field.
	SchemaPost Schema = "post-scraper"
)

// URL templates used when an item carries a shortcode but no direct URL.
const (
	reelURLTemplate = "https://www.instagram.com/reel/%s/"
	postURLTemplate = "https://www.instagram.com/p/%s/"
)

// usernameFields returns the ordered username candidates for a schema.
// "author.username" means the username field of the nested author object.
func usernameFields(schema Schema) []string {
	if schema == SchemaPost {
		return []string{"ownerUsername", "author.username", "username"}
	}
	return []string{"author.username", "ownerUsername", "username"}
}

// metricAliases maps each metric to its ordered candidate field names. The
// first present and non-zero field wins, so an explicit 0 in a higher-priority
// alias falls through to later aliases. That mirrors the actors' habit of
// emitting a dead 0 in deprecated fields alongside the live count.
var metricAliases = map[string][]string{
	"views":    {"playsCount", "videoPlayCount", "viewsCount", "videoViewCount"},
	"likes":    {"likesCount", "likes"},
	"comments": {"commentsCount", "comments"},
	"shares":   {"sharesCount"},
}

// Parse maps one raw item to a ContentRecord. It returns false when the item
// has no identifying fields at all (no resolvable username and no shortcode or
// URL); per-field failures fall back to zero values instead of rejecting.
func Parse(item apify.RawItem, schema Schema) (*models.ContentRecord, bool) {
	username := firstString(item, usernameFields(schema))

	shortcode := firstString(item, []string{"shortCode", "code"})
	url := StringField(item, "url")
	if url == "" && shortcode != "" {
		template := postURLTemplate
		if schema == SchemaReel {
			template = reelURLTemplate
		}
		url = fmt.Sprintf(template, shortcode)
	}

	// An item with neither an identity nor a link is unparsable.
	if username == "" && url == "" {
		return nil, false
	}

	return &models.ContentRecord{
		Username:  username,
		Shortcode: shortcode,
		URL:       url,
		TakenAt:   parseTimestamp(item["timestamp"]),
		Views:     FirstTruthyInt(item, metricAliases["views"]...),
		Likes:     FirstTruthyInt(item, metricAliases["likes"]...),
		Comments:  FirstTruthyInt(item, metricAliases["comments"]...),
		Shares:    FirstTruthyInt(item, metricAliases["shares"]...),
		Caption:   StringField(item, "caption"),
	}, true
}

// ItemType returns the provider-reported content type tag ("Video", "Sidecar",
// "Image", ...) or empty string when absent.
func ItemType(item apify.RawItem) string {
	return StringField(item, "type")
}

// parseTimestamp handles the two encodings the actors emit: ISO-8601 strings
// (with or without a trailing Z) and numeric Unix epoch seconds. Anything else,
// including malformed strings, yields nil.
func parseTimestamp(v interface{}) *time.Time {
	switch ts := v.(type) {
	case string:
		if ts == "" {
			return nil
		}
		s := ts
		if strings.HasSuffix(s, "Z") {
			s = strings.TrimSuffix(s, "Z") + "+00:00"
		}
		for _, layout := range []string{
			"2006-01-02T15:04:05.999999999-07:00",
			"2006-01-02T15:04:05-07:00",
			"2006-01-02T15:04:05",
		} {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	case float64:
		t := time.Unix(int64(ts), 0)
		return &t
	case int:
		t := time.Unix(int64(ts), 0)
		return &t
	case int64:
		t := time.Unix(ts, 0)
		return &t
	default:
		return nil
	}
}

// firstString returns the first non-empty string among the candidate fields.
// A candidate of the form "author.username" reads through the nested object.
func firstString(item apify.RawItem, fields []string) string {
	for _, field := range fields {
		var value string
		if parent, child, ok := strings.Cut(field, "."); ok {
			value = nestedStringField(item, parent, child)
		} else {
			value = StringField(item, field)
		}
		if value != "" {
			return value
		}
	}
	return ""
}

// FirstTruthyInt returns the first present, non-zero integer among the
// candidate fields, or 0 when none match.
func FirstTruthyInt(item apify.RawItem, fields ...string) int {
	for _, field := range fields {
		if n, ok := intValue(item[field]); ok && n != 0 {
			return n
		}
	}
	return 0
}

// StringField reads a top-level string field, returning "" for any other type.
func StringField(item apify.RawItem, key string) string {
	if s, ok := item[key].(string); ok {
		return s
	}
	return ""
}

func nestedStringField(item apify.RawItem, parent, key string) string {
	obj, ok := item[parent].(map[string]interface{})
	if !ok {
		return ""
	}
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

// intValue coerces the numeric shapes encoding/json produces. Negative counts
// are scraper glitches and are treated as absent.
func intValue(v interface{}) (int, bool) {
	var n int
	switch num := v.(type) {
	case float64:
		n = int(num)
	case int:
		n = num
	case int64:
		n = int(num)
	default:
		return 0, false
	}
	if n < 0 {
		return 0, false
	}
	return n, true
}
