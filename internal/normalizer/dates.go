package normalizer

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for local front matter dates, most specific first.
var localDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parsePublishedAt parses a CMS timestamp such as 2024-07-01T00:00:00.000Z.
func parsePublishedAt(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return t, nil
}

// parseLocalDate parses a front matter date. Dates without a zone are UTC.
func parseLocalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range localDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
