package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/hirewatch/internal/model"
)

// Advisor wraps an optional provider and turns scored reports into
// reviewer advisories. A nil provider means the feature is disabled;
// every path degrades to "no advisory" rather than an error, because a
// missing advisory must never block a verdict.
type Advisor struct {
	provider Provider
	config   Config
}

// NewAdvisor creates an advisor from configuration. An empty provider
// name yields a disabled advisor, not an error.
func NewAdvisor(config Config) (*Advisor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}
	return &Advisor{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured.
func (a *Advisor) IsEnabled() bool {
	return a != nil && a.provider != nil
}

// ProviderName returns the configured provider's name, empty if disabled.
func (a *Advisor) ProviderName() string {
	if !a.IsEnabled() {
		return ""
	}
	return a.provider.Name()
}

// GenerateAdvisory produces an advisory for the report. Disabled
// advisors return (nil, nil). Provider unavailability or errors come
// back as a disabled Advisory with warnings so the report records what
// happened without failing.
func (a *Advisor) GenerateAdvisory(ctx context.Context, report model.Report) (*model.Advisory, error) {
	if !a.IsEnabled() {
		return nil, nil
	}

	if !a.provider.IsAvailable(ctx) {
		return &model.Advisory{
			Enabled:  false,
			Provider: a.provider.Name(),
			Warnings: []string{fmt.Sprintf("LLM provider %s is not available", a.provider.Name())},
		}, nil
	}

	resp, err := a.provider.Advise(ctx, AdviseRequest{
		Report:    report,
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
	})
	if err != nil {
		return &model.Advisory{
			Enabled:  false,
			Provider: a.provider.Name(),
			Warnings: []string{fmt.Sprintf("advisory generation failed: %v", err)},
		}, nil
	}

	return &model.Advisory{
		Enabled:  true,
		Provider: a.provider.Name(),
		Model:    resp.Model,
		Text:     resp.Text,
	}, nil
}
