package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"tracker/internal/domain"
)

// encodeActivities renders the cache snapshot, one JSON object per item.
func encodeActivities(items []domain.ActivityItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		b, _ := json.Marshal(it)
		out = append(out, string(b))
	}
	return out
}

// decodeActivities parses cached entries leniently. Entries that are not JSON
// objects are skipped; a missing text becomes "" and done accepts booleans,
// "true"/"1" strings and non-zero numbers.
func decodeActivities(entries []string) (items []domain.ActivityItem, skipped int) {
	items = make([]domain.ActivityItem, 0, len(entries))
	for _, raw := range entries {
		var fields map[string]any
		if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
			skipped++
			continue
		}
		items = append(items, domain.ActivityItem{
			Text: coerceText(fields["text"]),
			Done: coerceDone(fields["done"]),
		})
	}
	return items, skipped
}

func coerceText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func coerceDone(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.TrimSpace(t)
		return strings.EqualFold(s, "true") || s == "1"
	case float64:
		return t != 0
	default:
		return false
	}
}
