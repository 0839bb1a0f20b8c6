package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/hirewatch/internal/model"
)

type mockProvider struct {
	name      string
	available bool
	response  *AdviseResponse
	err       error
	lastReq   *AdviseRequest
}

func (p *mockProvider) Name() string { return p.name }

func (p *mockProvider) Advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error) {
	p.lastReq = &req
	if p.err != nil {
		return nil, p.err
	}
	return p.response, nil
}

func (p *mockProvider) IsAvailable(ctx context.Context) bool { return p.available }

func flaggedReport() model.Report {
	return model.Report{
		Author: model.Author{
			IdentityKey: "linkedin.com/in/test-recruiter",
			DisplayName: "Test Recruiter",
			Posts:       []model.Post{{Role: "Backend Engineer"}},
		},
		GeneratedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Result: model.ScoreResult{
			Tier:       model.TierHigh,
			Points:     120,
			IsFake:     true,
			Confidence: 85,
			Reasons:    []string{"posted 3 posts in 3 days - all posts are hiring (100% ratio)"},
		},
	}
}

func TestAdvisor_Disabled(t *testing.T) {
	advisor, err := NewAdvisor(Config{Provider: ""})
	if err != nil {
		t.Fatalf("new advisor: %v", err)
	}
	if advisor.IsEnabled() {
		t.Error("expected disabled advisor for empty provider")
	}

	advisory, err := advisor.GenerateAdvisory(context.Background(), flaggedReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if advisory != nil {
		t.Errorf("expected nil advisory when disabled, got %+v", advisory)
	}
}

func TestAdvisor_NilSafe(t *testing.T) {
	var advisor *Advisor
	if advisor.IsEnabled() {
		t.Error("nil advisor reported enabled")
	}
}

func TestAdvisor_UnknownProvider(t *testing.T) {
	if _, err := NewAdvisor(Config{Provider: "parrot"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestAdvisor_ProviderUnavailable(t *testing.T) {
	advisor := &Advisor{
		provider: &mockProvider{name: "mock", available: false},
		config:   DefaultConfig(),
	}

	advisory, err := advisor.GenerateAdvisory(context.Background(), flaggedReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if advisory == nil {
		t.Fatal("expected an advisory recording the unavailability")
	}
	if advisory.Enabled {
		t.Error("expected advisory marked disabled")
	}
	if len(advisory.Warnings) != 1 || !strings.Contains(advisory.Warnings[0], "not available") {
		t.Errorf("unexpected warnings: %v", advisory.Warnings)
	}
}

func TestAdvisor_Success(t *testing.T) {
	mock := &mockProvider{
		name:      "mock",
		available: true,
		response: &AdviseResponse{
			Text:  "This account shows a posting cadence typical of spam hiring accounts.",
			Model: "mock-model",
		},
	}
	cfg := DefaultConfig()
	cfg.Model = "mock-model"
	cfg.MaxTokens = 300
	advisor := &Advisor{provider: mock, config: cfg}

	advisory, err := advisor.GenerateAdvisory(context.Background(), flaggedReport())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if advisory == nil || !advisory.Enabled {
		t.Fatalf("expected enabled advisory, got %+v", advisory)
	}
	if advisory.Text != mock.response.Text {
		t.Errorf("unexpected text %q", advisory.Text)
	}
	if advisory.Provider != "mock" || advisory.Model != "mock-model" {
		t.Errorf("provenance missing: %+v", advisory)
	}
	if mock.lastReq == nil || mock.lastReq.MaxTokens != 300 {
		t.Errorf("request not forwarded: %+v", mock.lastReq)
	}
}

func TestAdvisor_ProviderErrorDegrades(t *testing.T) {
	advisor := &Advisor{
		provider: &mockProvider{name: "mock", available: true, err: errors.New("rate limited")},
		config:   DefaultConfig(),
	}

	advisory, err := advisor.GenerateAdvisory(context.Background(), flaggedReport())
	if err != nil {
		t.Fatalf("provider failure must not propagate as error, got %v", err)
	}
	if advisory == nil || advisory.Enabled {
		t.Fatalf("expected disabled advisory, got %+v", advisory)
	}
	if len(advisory.Warnings) != 1 || !strings.Contains(advisory.Warnings[0], "rate limited") {
		t.Errorf("unexpected warnings: %v", advisory.Warnings)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(flaggedReport())

	for _, want := range []string{
		"Test Recruiter",
		"fake=true",
		"Risk tier: high",
		"Do not include any URLs",
		"posted 3 posts in 3 days",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_CapsEvidence(t *testing.T) {
	report := flaggedReport()
	report.Result.Reasons = []string{"one", "two", "three", "four", "five", "six", "seven"}

	prompt := BuildPrompt(report)
	if strings.Contains(prompt, "six") || strings.Contains(prompt, "seven") {
		t.Error("expected evidence list capped at 5 entries")
	}
}

func TestExtractURLs(t *testing.T) {
	urls := extractURLs("Apply at https://scam.example/jobs or visit www.scam.example today")
	if len(urls) == 0 {
		t.Fatal("expected URLs detected")
	}

	if got := extractURLs("No links in this advisory at all."); len(got) != 0 {
		t.Errorf("false positive URLs: %v", got)
	}
}
