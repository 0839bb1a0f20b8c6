package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/hirewatch/internal/model"
)

// Renderer writes reports as JSON or Markdown.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable badge-style report, the data
// source for whatever surface displays the verdict.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	name := report.Author.DisplayName
	if name == "" {
		name = report.Author.IdentityKey
	}

	fmt.Fprintf(&b, "# Hiring Post Risk Report: %s\n\n", name)
	fmt.Fprintf(&b, "- **Profile**: `%s`\n", report.Author.IdentityKey)
	fmt.Fprintf(&b, "- **Risk tier**: %s %s\n", tierBadge(report.Result.Tier), report.Result.Tier)
	fmt.Fprintf(&b, "- **Points**: %d\n", report.Result.Points)
	fmt.Fprintf(&b, "- **Verdict**: %s\n", verdictLabel(report.Result))
	fmt.Fprintf(&b, "- **Posts tracked**: %d\n", len(report.Author.Posts))
	if report.Result.RecentCount > 0 {
		fmt.Fprintf(&b, "- **Recent posts**: %d\n", report.Result.RecentCount)
	}
	fmt.Fprintf(&b, "- **Generated**: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	if len(report.Result.Roles) > 0 {
		b.WriteString("## Roles observed\n\n")
		for _, role := range report.Result.Roles {
			fmt.Fprintf(&b, "- %s\n", role)
		}
		b.WriteString("\n")
	}

	if len(report.Result.Reasons) > 0 {
		b.WriteString("## Why\n\n")
		for _, reason := range report.Result.Reasons {
			fmt.Fprintf(&b, "- %s\n", reason)
		}
		b.WriteString("\n")
	}

	if report.Result.FakeNarrative != "" {
		b.WriteString("## Assessment\n\n")
		b.WriteString("```\n")
		b.WriteString(report.Result.FakeNarrative)
		b.WriteString("\n```\n\n")
	}

	if report.Advisory != nil && report.Advisory.Enabled && report.Advisory.Text != "" {
		fmt.Fprintf(&b, "## Advisory (generated by %s, does not affect scoring)\n\n", report.Advisory.Provider)
		b.WriteString(report.Advisory.Text)
		b.WriteString("\n\n")
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("Generated by hirewatch. Verdicts describe posting cadence patterns, not people; verify independently before acting.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func tierBadge(tier model.RiskTier) string {
	switch tier {
	case model.TierHigh:
		return "🔴"
	case model.TierMedium:
		return "🟡"
	case model.TierLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func verdictLabel(result model.ScoreResult) string {
	if result.IsFake {
		return fmt.Sprintf("LIKELY FAKE (confidence %d%%)", result.Confidence)
	}
	if result.Tier == model.TierUnknown {
		return "no data yet"
	}
	return "no fraud pattern detected"
}
