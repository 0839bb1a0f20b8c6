package model

import "time"

// RoleUnknown is the sentinel role assigned when no job title could be
// extracted from a post.
const RoleUnknown = "Job Position"

// NameUnknown is the sentinel used by upstream scrapers when a display
// name could not be read. It never overwrites a known name.
const NameUnknown = "Unknown"

// Post represents one observed hiring post attributed to an author.
type Post struct {
	Role string `json:"role"` // Extracted job title, or RoleUnknown

	// Date is the post's publish date truncated to midnight UTC.
	// Zero when the upstream timestamp could not be parsed; such posts
	// are excluded from recency windows but still count toward volume.
	Date time.Time `json:"date"`

	// ObservedAt is when the system recorded the post. Unlike Date it
	// cannot be back-dated by the poster.
	ObservedAt time.Time `json:"observed_at"`

	// Fingerprint is a truncated normalized excerpt of the post body.
	// Used only for deduplication, never for scoring.
	Fingerprint string `json:"fingerprint,omitempty"`
}

// HasDate reports whether the post carries a parseable publish date.
func (p Post) HasDate() bool {
	return !p.Date.IsZero()
}

// Author represents one tracked posting identity (e.g. a recruiter profile).
type Author struct {
	// IdentityKey is the canonical normalized identifier, stable across
	// URL variations of the same profile.
	IdentityKey string `json:"identity_key"`

	DisplayName string `json:"display_name,omitempty"`

	// Posts is insertion-ordered and not required to be date-sorted.
	Posts []Post `json:"posts"`

	// FirstSeen is set once at first observation and never mutated.
	FirstSeen time.Time `json:"first_seen"`
}

// FirstSeenOrDefault returns FirstSeen, backfilling legacy records that
// predate the field. Missing data is treated as "very old" so that
// recency rules never fire spuriously: the oldest observation wins,
// else one year before now.
func (a Author) FirstSeenOrDefault(now time.Time) time.Time {
	if !a.FirstSeen.IsZero() {
		return a.FirstSeen
	}
	var oldest time.Time
	for _, p := range a.Posts {
		if p.ObservedAt.IsZero() {
			continue
		}
		if oldest.IsZero() || p.ObservedAt.Before(oldest) {
			oldest = p.ObservedAt
		}
	}
	if !oldest.IsZero() {
		return oldest
	}
	return now.AddDate(-1, 0, 0)
}

// HasPost reports whether an equivalent post is already recorded.
// Equivalence is the dedup triple (role, date, fingerprint); a post with
// the same role and date but a different fingerprint is a distinct entity.
func (a Author) HasPost(role string, date time.Time, fingerprint string) bool {
	for _, p := range a.Posts {
		if p.Role == role && p.Date.Equal(date) && p.Fingerprint == fingerprint {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so that callers can mutate snapshots without
// aliasing stored state.
func (a Author) Clone() Author {
	out := a
	if a.Posts != nil {
		out.Posts = make([]Post, len(a.Posts))
		copy(out.Posts, a.Posts)
	}
	return out
}

// DateOnly truncates an instant to midnight UTC, the granularity posts
// are keyed on.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
