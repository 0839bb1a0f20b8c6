package model

import "time"

// RiskTier is the coarse risk bucket derived from points and verdict.
type RiskTier string

const (
	TierUnknown RiskTier = "unknown" // Zero posts recorded, no judgment possible
	TierLow     RiskTier = "low"
	TierMedium  RiskTier = "medium"
	TierHigh    RiskTier = "high"
)

// ScoreResult is the engine output for one evaluation of an author.
type ScoreResult struct {
	Tier   RiskTier `json:"tier"`
	Points int      `json:"points"` // Accumulated risk score, >= 0

	// IsFake is the fraud verdict. Stronger than Tier: IsFake implies TierHigh.
	IsFake bool `json:"is_fake"`

	// Confidence is the firing rule's confidence percentage, 0 when no
	// fraud rule fired.
	Confidence int `json:"confidence,omitempty"`

	// Reasons is human-readable evidence in the order rules fired.
	Reasons []string `json:"reasons"`

	// Roles is the distinct set of roles observed, insertion-ordered.
	Roles []string `json:"roles"`

	// RecentCount is the largest recency-window count, kept for display
	// even when no window threshold was crossed.
	RecentCount int `json:"recent_count"`

	// FakeNarrative is a multi-line explanation, present iff IsFake.
	FakeNarrative string `json:"fake_narrative,omitempty"`

	// Signals carry the transparent per-rule scoring breakdown.
	Signals []Signal `json:"signals,omitempty"`
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType     `json:"type"`
	Severity    SignalSeverity `json:"severity"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalAllHiringRatio    SignalType = "all_hiring_ratio"   // Only-ever-hiring account seen within one week
	SignalObservationWindow SignalType = "observation_window" // Many posts shortly after first observation
	SignalPostingBurst      SignalType = "posting_burst"      // Sliding-date-window threshold crossed
	SignalDailyBurst        SignalType = "daily_burst"        // Multiple posts sharing one date
	SignalRoleVariety       SignalType = "role_variety"       // Many distinct roles
	SignalRoleRepetition    SignalType = "role_repetition"    // Same role posted repeatedly
	SignalVolume            SignalType = "volume"             // Total tracked post count
)

// SignalSeverity indicates how alarming a signal is
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Report is the rendered output for one author evaluation.
type Report struct {
	Author      Author      `json:"author"`
	GeneratedAt time.Time   `json:"generated_at"`
	Result      ScoreResult `json:"result"`

	// Advisory is optional LLM-generated reviewer guidance. It never
	// affects the verdict, points, or tier.
	Advisory *Advisory `json:"advisory,omitempty"`
}

// Advisory contains optional LLM-generated guidance for a flagged author.
// CRITICAL: This never affects scoring and is clearly separated.
type Advisory struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider,omitempty"`
	Model    string   `json:"model,omitempty"`
	Text     string   `json:"text,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
