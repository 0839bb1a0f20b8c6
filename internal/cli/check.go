package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hirewatch/internal/ingest"
	"github.com/ppiankov/hirewatch/internal/model"
	"github.com/ppiankov/hirewatch/internal/pipeline"
)

var (
	outJSON      string
	outMD        string
	noFooter     bool
	checkTimeout time.Duration
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <profile-url>",
	Short: "Evaluate a tracked author and report the fraud verdict",
	Long: `Check scores an author's recorded hiring posts against the
detection ruleset and prints the verdict, risk tier, points and reasons.

An author nobody has recorded yet comes back as tier "unknown" - that is
a valid "no data" answer, not an error.

Example:
  hirewatch check linkedin.com/in/some-recruiter
  hirewatch check linkedin.com/in/some-recruiter --json report.json --md report.md
  hirewatch check linkedin.com/in/some-recruiter --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall check timeout")

	// LLM flags
	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM advisory generation for flagged authors")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	identityKey, err := ingest.IdentityKey(args[0])
	if err != nil {
		return fmt.Errorf("invalid profile URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Output.IncludeFooter = !noFooter
	if err := applyLLMFlags(cfg); err != nil {
		return err
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	p := pipeline.New(cfg, st, logger)

	report, err := p.Check(ctx, identityKey, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	printSummary(report)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render Markdown: %w", err)
		}
	}

	return nil
}

// applyLLMFlags wires the --llm flags into the config, pulling API keys
// from the environment.
func applyLLMFlags(cfg *model.Config) error {
	if !llmEnabled {
		cfg.LLM.Provider = ""
		return nil
	}

	cfg.LLM.Provider = llmProvider
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// printSummary writes the human-facing verdict to stdout.
func printSummary(report *model.Report) {
	name := report.Author.DisplayName
	if name == "" {
		name = report.Author.IdentityKey
	}

	fmt.Printf("Author:  %s\n", name)
	fmt.Printf("Tier:    %s\n", report.Result.Tier)
	fmt.Printf("Points:  %d\n", report.Result.Points)
	fmt.Printf("Posts:   %d\n", len(report.Author.Posts))

	if report.Result.IsFake {
		fmt.Printf("Verdict: LIKELY FAKE (confidence %d%%)\n", report.Result.Confidence)
	} else if report.Result.Tier == model.TierUnknown {
		fmt.Println("Verdict: no data yet")
	} else {
		fmt.Println("Verdict: no fraud pattern detected")
	}

	for _, reason := range report.Result.Reasons {
		fmt.Printf("  - %s\n", reason)
	}

	if report.Result.FakeNarrative != "" {
		fmt.Println()
		fmt.Println(report.Result.FakeNarrative)
	}
	if report.Advisory != nil && report.Advisory.Enabled {
		fmt.Println()
		fmt.Printf("Advisory (%s, does not affect scoring):\n%s\n", report.Advisory.Provider, report.Advisory.Text)
	}
}
