package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/hirewatch/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		Author: model.Author{
			IdentityKey: "linkedin.com/in/test-recruiter",
			DisplayName: "Test Recruiter",
			Posts: []model.Post{
				{Role: "Backend Engineer", Date: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)},
				{Role: "Frontend Engineer", Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)},
			},
		},
		GeneratedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Result: model.ScoreResult{
			Tier:          model.TierHigh,
			Points:        120,
			IsFake:        true,
			Confidence:    85,
			Reasons:       []string{"posted 2 posts in 2 days - all posts are hiring (100% ratio)"},
			Roles:         []string{"Backend Engineer", "Frontend Engineer"},
			FakeNarrative: "LIKELY FAKE HIRING PATTERN\n\ndetails here",
		},
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := NewRenderer(true).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Result.Tier != model.TierHigh || !decoded.Result.IsFake {
		t.Errorf("round trip lost verdict: %+v", decoded.Result)
	}
	if decoded.Author.IdentityKey != "linkedin.com/in/test-recruiter" {
		t.Errorf("round trip lost author: %+v", decoded.Author)
	}
}

func TestRenderMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(true).RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"# Hiring Post Risk Report: Test Recruiter",
		"`linkedin.com/in/test-recruiter`",
		"LIKELY FAKE (confidence 85%)",
		"- Backend Engineer",
		"all posts are hiring",
		"LIKELY FAKE HIRING PATTERN",
		"Generated by hirewatch",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(false).RenderMarkdown(sampleReport(), path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Contains(string(data), "Generated by hirewatch") {
		t.Error("footer rendered despite being disabled")
	}
}

func TestRenderMarkdown_AdvisorySection(t *testing.T) {
	report := sampleReport()
	report.Advisory = &model.Advisory{
		Enabled:  true,
		Provider: "openai",
		Model:    "gpt-4o-mini",
		Text:     "This account shows a posting cadence typical of spam hiring accounts.",
	}

	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(true).RenderMarkdown(report, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "does not affect scoring") {
		t.Error("advisory section missing the scoring disclaimer")
	}
	if !strings.Contains(out, report.Advisory.Text) {
		t.Error("advisory text missing")
	}
}
