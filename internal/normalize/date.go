package normalize

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the canonical date layout for every record leaving the service.
const ISODate = "2006-01-02"

// NormalizationError reports a raw value that could not be mapped into its
// canonical form. Callers recover from it in place.
type NormalizationError struct {
	Field string
	Raw   string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: unrecognized value %q", e.Field, e.Raw)
}

// dateLayouts are tried in order; the first three are the formats providers
// are known to send, the rest form the generic fallback.
var dateLayouts = []string{
	ISODate,
	"2-1-2006",
	"2-Jan-2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2/1/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses a provider date string using the known layouts. The result
// carries only the calendar date of the input, in UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, &NormalizationError{Field: "date", Raw: raw}
}

// DateOrToday returns raw as an ISO date, or the date of now when raw cannot
// be parsed.
func DateOrToday(raw string, now time.Time) string {
	t, err := ParseDate(raw)
	if err != nil {
		return now.Format(ISODate)
	}
	return t.Format(ISODate)
}
