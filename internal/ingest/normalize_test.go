package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/hirewatch/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testNormalizer() *Normalizer {
	return NewNormalizer(zerolog.Nop())
}

func TestNormalize_HiringCapture(t *testing.T) {
	n := testNormalizer()

	in, err := n.Normalize(Capture{
		ProfileURL:  "https://www.linkedin.com/in/test-recruiter/?utm_source=share",
		DisplayName: "  Test Recruiter  ",
		Title:       "Backend   Engineer",
		PostedText:  "2 days ago",
		Body:        "We Are Hiring!  Apply   now.",
		Kind:        KindHiring,
		CapturedAt:  testNow,
	}, testNow)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if in.IdentityKey != "linkedin.com/in/test-recruiter" {
		t.Errorf("unexpected identity key %q", in.IdentityKey)
	}
	if in.DisplayName != "Test Recruiter" {
		t.Errorf("unexpected display name %q", in.DisplayName)
	}
	if in.Role != "Backend Engineer" {
		t.Errorf("unexpected role %q", in.Role)
	}
	want := model.DateOnly(testNow.AddDate(0, 0, -2))
	if !in.Date.Equal(want) {
		t.Errorf("unexpected date %v, want %v", in.Date, want)
	}
	if in.Fingerprint != "we are hiring! apply now." {
		t.Errorf("unexpected fingerprint %q", in.Fingerprint)
	}
}

func TestNormalize_NonHiringKindSkipped(t *testing.T) {
	n := testNormalizer()

	_, err := n.Normalize(Capture{
		ProfileURL: "linkedin.com/in/test-recruiter",
		Kind:       "celebration",
	}, testNow)

	if !errors.Is(err, ErrSkipped) {
		t.Errorf("expected ErrSkipped, got %v", err)
	}
}

func TestNormalize_MissingProfileURLSkipped(t *testing.T) {
	n := testNormalizer()

	_, err := n.Normalize(Capture{Kind: KindHiring}, testNow)

	if !errors.Is(err, ErrSkipped) {
		t.Errorf("expected ErrSkipped, got %v", err)
	}
}

func TestNormalize_UnparsableDateDegrades(t *testing.T) {
	n := testNormalizer()

	in, err := n.Normalize(Capture{
		ProfileURL: "linkedin.com/in/test-recruiter",
		Kind:       KindHiring,
		PostedText: "sometime last spring",
	}, testNow)
	if err != nil {
		t.Fatalf("expected degraded record, got error: %v", err)
	}
	if !in.Date.IsZero() {
		t.Errorf("expected zero date, got %v", in.Date)
	}
}

func TestNormalize_MissingCapturedAtDefaultsToNow(t *testing.T) {
	n := testNormalizer()

	in, err := n.Normalize(Capture{
		ProfileURL: "linkedin.com/in/test-recruiter",
		Kind:       KindHiring,
	}, testNow)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !in.ObservedAt.Equal(testNow) {
		t.Errorf("expected observedAt defaulted to now, got %v", in.ObservedAt)
	}
}

func TestIdentityKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe/", "linkedin.com/in/jane-doe"},
		{"http://LinkedIn.com/in/jane-doe?utm_source=share&tracking=abc", "linkedin.com/in/jane-doe"},
		{"linkedin.com/in/jane-doe#about", "linkedin.com/in/jane-doe"},
		{"www.linkedin.com/in/jane-doe", "linkedin.com/in/jane-doe"},
		{"  https://linkedin.com/in/jane-doe  ", "linkedin.com/in/jane-doe"},
	}

	for _, tc := range cases {
		got, err := IdentityKey(tc.in)
		if err != nil {
			t.Errorf("IdentityKey(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("IdentityKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentityKey_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "https://"} {
		if _, err := IdentityKey(in); err == nil {
			t.Errorf("IdentityKey(%q): expected error", in)
		}
	}
}

func TestRole(t *testing.T) {
	if got := Role("  Senior   Backend  Engineer "); got != "Senior Backend Engineer" {
		t.Errorf("unexpected role %q", got)
	}
	if got := Role("   "); got != model.RoleUnknown {
		t.Errorf("expected sentinel for blank title, got %q", got)
	}
}

func TestFingerprint_Truncation(t *testing.T) {
	body := strings.Repeat("Hiring Now ", 30)
	fp := Fingerprint(body)

	if len([]rune(fp)) != 80 {
		t.Errorf("expected 80-rune fingerprint, got %d", len([]rune(fp)))
	}
	if fp != strings.ToLower(fp) {
		t.Error("fingerprint not lowercased")
	}
}

func TestFingerprint_Empty(t *testing.T) {
	if fp := Fingerprint("   "); fp != "" {
		t.Errorf("expected empty fingerprint, got %q", fp)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-10", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"Jan 2, 2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2 Jan 2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"today", model.DateOnly(testNow)},
		{"just now", model.DateOnly(testNow)},
		{"yesterday", model.DateOnly(testNow.AddDate(0, 0, -1))},
		{"3 days ago", model.DateOnly(testNow.AddDate(0, 0, -3))},
		{"3d", model.DateOnly(testNow.AddDate(0, 0, -3))},
		{"2 weeks ago", model.DateOnly(testNow.AddDate(0, 0, -14))},
		{"2w", model.DateOnly(testNow.AddDate(0, 0, -14))},
		{"1 month ago", model.DateOnly(testNow.AddDate(0, -1, 0))},
		{"1 year ago", model.DateOnly(testNow.AddDate(-1, 0, 0))},
		{"5 hours ago", model.DateOnly(testNow)},
		{"30 minutes ago", model.DateOnly(testNow)},
		{"Posted 3 days ago", model.DateOnly(testNow.AddDate(0, 0, -3))},
		{"", time.Time{}},
		{"sometime last spring", time.Time{}},
		{"soon", time.Time{}},
	}

	for _, tc := range cases {
		got := ParseDate(tc.in, testNow)
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDate_SubDayCrossesMidnight(t *testing.T) {
	// 01:00 UTC minus 5 hours lands on the previous day.
	earlyNow := time.Date(2025, 6, 15, 1, 0, 0, 0, time.UTC)
	got := ParseDate("5 hours ago", earlyNow)
	want := model.DateOnly(earlyNow.AddDate(0, 0, -1))
	if !got.Equal(want) {
		t.Errorf("ParseDate crossing midnight = %v, want %v", got, want)
	}
}
