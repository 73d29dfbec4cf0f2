package interchange

import (
	"fmt"
	"strings"
	"time"
)

// genericLayouts are tried as a last resort, in order.
var genericLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 -0700",
	"2006-01-02",
}

// parseDate parses a document timestamp leniently: strict ISO first,
// then with a space before the time normalized to the ISO separator,
// then a generic pass over known layouts.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, strings.Replace(s, " ", "T", 1)); err == nil {
		return t, nil
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// formatTimestamp renders a timestamp in the document's canonical form.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 -0700")
}
