// Package ingest normalizes raw post captures handed over by external
// scrapers into ledger records. It is the trust boundary: everything
// past it is canonical.
package ingest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/hirewatch/internal/ledger"
	"github.com/ppiankov/hirewatch/internal/model"
)

// KindHiring is the only capture kind the ledger accepts. The all-hiring
// ratio rule depends on this filter: the ledger must contain only hiring
// posts by construction.
const KindHiring = "hiring"

// ErrSkipped marks captures rejected at the boundary (wrong kind,
// missing identity). Callers log and move on.
var ErrSkipped = errors.New("capture skipped")

// fingerprintLen bounds the normalized body excerpt used for dedup.
const fingerprintLen = 80

// Capture is one raw observation from an external scraper.
type Capture struct {
	ProfileURL  string    `json:"profile_url"`
	DisplayName string    `json:"display_name,omitempty"`
	Title       string    `json:"title,omitempty"`
	PostedText  string    `json:"posted_text,omitempty"` // Raw timestamp text, absolute or relative
	Body        string    `json:"body,omitempty"`
	Kind        string    `json:"kind"`
	Source      string    `json:"source,omitempty"` // Which scraper produced it
	CapturedAt  time.Time `json:"captured_at,omitempty"`
}

// Normalizer converts captures to ledger inputs.
type Normalizer struct {
	log zerolog.Logger
}

// NewNormalizer creates a normalizer that debug-logs degraded fields.
func NewNormalizer(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize validates and canonicalizes one capture. Non-hiring kinds
// and captures without a usable profile URL return ErrSkipped. A
// malformed posted date degrades to a zero date instead of failing.
func (n *Normalizer) Normalize(c Capture, now time.Time) (ledger.RecordInput, error) {
	if c.Kind != KindHiring {
		return ledger.RecordInput{}, fmt.Errorf("%w: kind %q", ErrSkipped, c.Kind)
	}

	key, err := IdentityKey(c.ProfileURL)
	if err != nil {
		return ledger.RecordInput{}, fmt.Errorf("%w: %v", ErrSkipped, err)
	}

	date := ParseDate(c.PostedText, now)
	if date.IsZero() && c.PostedText != "" {
		n.log.Debug().
			Str("identity", key).
			Str("posted_text", c.PostedText).
			Msg("unparsable post date, excluded from recency windows")
	}

	observedAt := c.CapturedAt
	if observedAt.IsZero() {
		observedAt = now
	}

	return ledger.RecordInput{
		IdentityKey: key,
		DisplayName: strings.TrimSpace(c.DisplayName),
		Role:        Role(c.Title),
		Date:        date,
		ObservedAt:  observedAt.UTC(),
		Fingerprint: Fingerprint(c.Body),
	}, nil
}

// IdentityKey canonicalizes a profile URL: lowercased host plus path,
// query string and fragment stripped so tracking parameters cannot split
// one profile into many authors.
func IdentityKey(profileURL string) (string, error) {
	raw := strings.TrimSpace(profileURL)
	if raw == "" {
		return "", errors.New("empty profile URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse profile URL: %w", err)
	}
	if u.Host == "" {
		return "", errors.New("profile URL has no host")
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	path := strings.TrimRight(u.Path, "/")
	return host + path, nil
}

// Role trims the extracted title, falling back to the unknown sentinel.
func Role(title string) string {
	role := strings.Join(strings.Fields(title), " ")
	if role == "" {
		return model.RoleUnknown
	}
	return role
}

// Fingerprint reduces a post body to a normalized excerpt: lowercased,
// whitespace collapsed, truncated. Used only for deduplication.
func Fingerprint(body string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(body), " "))
	runes := []rune(normalized)
	if len(runes) > fingerprintLen {
		runes = runes[:fingerprintLen]
	}
	return string(runes)
}
