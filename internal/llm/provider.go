package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/hirewatch/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Advise generates reviewer-facing guidance for a scored author
	Advise(ctx context.Context, req AdviseRequest) (*AdviseResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// AdviseRequest contains the input for advisory generation
type AdviseRequest struct {
	// Report is the scored author report to explain
	Report model.Report

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// AdviseResponse contains the LLM's advisory output
type AdviseResponse struct {
	// Text is the generated advisory
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 500,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}

// BuildPrompt constructs the default advisory prompt. The scoring stays
// deterministic; the LLM only rephrases the already-computed evidence
// for a human reviewer.
func BuildPrompt(report model.Report) string {
	r := report.Result

	name := report.Author.DisplayName
	if name == "" {
		name = "This recruiter"
	}

	prompt := fmt.Sprintf(`You are explaining a hiring-post risk assessment to a job seeker. The verdict below was produced by deterministic rules - do NOT second-guess, soften, or change it.

CRITICAL RULES:
1. Do not include any URLs, email addresses, or contact details.
2. Do not invent facts beyond the evidence listed below.
3. Do not claim certainty - the system flags patterns, not people.
4. Keep it to 3-4 plain sentences.

Assessment:
- Author: %s
- Verdict: fake=%t
- Risk tier: %s
- Points: %d
- Posts tracked: %d

Evidence:
`, name, r.IsFake, r.Tier, r.Points, len(report.Author.Posts))

	for i, reason := range r.Reasons {
		if i >= 5 {
			break
		}
		prompt += fmt.Sprintf("- %s\n", reason)
	}

	prompt += "\nWrite the advisory now."
	return prompt
}

// systemPrompt is shared across providers.
const systemPrompt = "You are a careful assistant that explains hiring-post risk assessments without changing or second-guessing the deterministic verdict."
