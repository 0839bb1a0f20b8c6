package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/hirewatch/internal/model"
)

// absoluteLayouts are tried in order against cleaned timestamp text.
var absoluteLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"02/01/2006",
	"01-02-2006",
}

// relativePattern matches forms like "3 days ago", "2w", "5 hours ago".
var relativePattern = regexp.MustCompile(`^(\d+)\s*(minute|min|m|hour|hr|h|day|d|week|wk|w|month|mo|year|yr|y)s?(\s+ago)?$`)

// ParseDate converts the raw timestamp text of a post into a date. It
// handles absolute layouts and the relative forms social platforms
// render ("3d", "2 weeks ago", "yesterday"). Failure yields the zero
// time: an unparsable date is excluded from recency windows, never an
// error. Dates are attacker-influenceable; parsing is deliberately
// forgiving rather than strict.
func ParseDate(s string, now time.Time) time.Time {
	cleaned := strings.TrimSpace(strings.ToLower(s))
	cleaned = strings.TrimSuffix(cleaned, ".")
	cleaned = strings.TrimPrefix(cleaned, "posted ")
	cleaned = strings.TrimPrefix(cleaned, "published ")
	if cleaned == "" {
		return time.Time{}
	}

	switch cleaned {
	case "just now", "now", "today":
		return model.DateOnly(now)
	case "yesterday":
		return model.DateOnly(now.AddDate(0, 0, -1))
	}

	if m := relativePattern.FindStringSubmatch(cleaned); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}
		}
		switch m[2] {
		case "minute", "min", "m", "hour", "hr", "h":
			// Sub-day offsets still land on today or yesterday.
			return model.DateOnly(now.Add(-subDayOffset(n, m[2])))
		case "day", "d":
			return model.DateOnly(now.AddDate(0, 0, -n))
		case "week", "wk", "w":
			return model.DateOnly(now.AddDate(0, 0, -7*n))
		case "month", "mo":
			return model.DateOnly(now.AddDate(0, -n, 0))
		case "year", "yr", "y":
			return model.DateOnly(now.AddDate(-n, 0, 0))
		}
	}

	raw := strings.TrimSpace(s)
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.DateOnly(t)
		}
		if t, err := time.Parse(layout, cleaned); err == nil {
			return model.DateOnly(t)
		}
	}

	return time.Time{}
}

func subDayOffset(n int, unit string) time.Duration {
	switch unit {
	case "minute", "min", "m":
		return time.Duration(n) * time.Minute
	default:
		return time.Duration(n) * time.Hour
	}
}
