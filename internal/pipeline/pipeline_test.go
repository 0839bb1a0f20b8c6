package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/hirewatch/internal/ingest"
	"github.com/ppiankov/hirewatch/internal/model"
	"github.com/ppiankov/hirewatch/internal/store"
)

func testPipeline() *Pipeline {
	return New(model.DefaultConfig(), store.NewMemoryStore(), zerolog.Nop())
}

func hiringCapture(body string) ingest.Capture {
	return ingest.Capture{
		ProfileURL:  "https://www.linkedin.com/in/test-recruiter/",
		DisplayName: "Test Recruiter",
		Title:       "Backend Engineer",
		PostedText:  "today",
		Body:        body,
		Kind:        ingest.KindHiring,
	}
}

func TestPipeline_RecordAndCheck(t *testing.T) {
	p := testPipeline()
	ctx := context.Background()

	report, err := p.Record(ctx, hiringCapture("we are hiring backend engineers"))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if report.Author.IdentityKey != "linkedin.com/in/test-recruiter" {
		t.Errorf("unexpected identity %q", report.Author.IdentityKey)
	}
	if len(report.Author.Posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(report.Author.Posts))
	}

	// The check sees the same state the record produced.
	checked, err := p.Check(ctx, "linkedin.com/in/test-recruiter", time.Now().UTC())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(checked.Author.Posts) != 1 {
		t.Errorf("check saw %d posts", len(checked.Author.Posts))
	}
}

func TestPipeline_BurstFlagsAuthor(t *testing.T) {
	p := testPipeline()
	ctx := context.Background()

	var report *model.Report
	var err error
	for i := 0; i < 5; i++ {
		report, err = p.Record(ctx, hiringCapture(fmt.Sprintf("hiring post number %d", i)))
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	if !report.Result.IsFake {
		t.Errorf("expected fraud verdict after burst, reasons: %v", report.Result.Reasons)
	}
	if report.Result.Tier != model.TierHigh {
		t.Errorf("expected tier high, got %s", report.Result.Tier)
	}
	// Advisor is disabled by default; no advisory attached.
	if report.Advisory != nil {
		t.Errorf("unexpected advisory: %+v", report.Advisory)
	}
}

func TestPipeline_DuplicateCaptureIdempotent(t *testing.T) {
	p := testPipeline()
	ctx := context.Background()

	c := hiringCapture("we are hiring")
	if _, err := p.Record(ctx, c); err != nil {
		t.Fatalf("record: %v", err)
	}
	report, err := p.Record(ctx, c)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(report.Author.Posts) != 1 {
		t.Errorf("duplicate capture appended: %d posts", len(report.Author.Posts))
	}
}

func TestPipeline_NonHiringSkipped(t *testing.T) {
	p := testPipeline()

	c := hiringCapture("celebrating a work anniversary")
	c.Kind = "celebration"
	_, err := p.Record(context.Background(), c)
	if !errors.Is(err, ingest.ErrSkipped) {
		t.Errorf("expected ErrSkipped, got %v", err)
	}
}

func TestPipeline_CheckUnknownAuthor(t *testing.T) {
	p := testPipeline()

	report, err := p.Check(context.Background(), "linkedin.com/in/never-seen", time.Now().UTC())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Result.Tier != model.TierUnknown {
		t.Errorf("expected tier unknown, got %s", report.Result.Tier)
	}
	if report.Result.IsFake {
		t.Error("unknown author flagged")
	}
}

func TestPipeline_URLVariantsShareLedger(t *testing.T) {
	p := testPipeline()
	ctx := context.Background()

	variants := []string{
		"https://www.linkedin.com/in/test-recruiter/",
		"linkedin.com/in/test-recruiter?utm_source=share",
		"http://LinkedIn.com/in/test-recruiter#recent",
	}
	for i, u := range variants {
		c := hiringCapture(fmt.Sprintf("hiring post %d", i))
		c.ProfileURL = u
		if _, err := p.Record(ctx, c); err != nil {
			t.Fatalf("record %q: %v", u, err)
		}
	}

	report, err := p.Check(ctx, "linkedin.com/in/test-recruiter", time.Now().UTC())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(report.Author.Posts) != 3 {
		t.Errorf("URL variants split the author: %d posts", len(report.Author.Posts))
	}
}
