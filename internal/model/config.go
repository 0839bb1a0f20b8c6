package model

import "time"

// Config is the complete runtime configuration. Rule thresholds are
// injectable rather than package constants so alternate policies can be
// tested without recompilation.
type Config struct {
	Rules       RulesConfig       `yaml:"rules" json:"rules"`
	Store       StoreConfig       `yaml:"store" json:"store"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit"`
}

// WindowRule is one sliding-date-window threshold: at least MinPosts
// dated within the trailing Days window. Rules are evaluated in slice
// order and the first match wins.
type WindowRule struct {
	Days       int `yaml:"days" json:"days"`
	MinPosts   int `yaml:"min_posts" json:"min_posts"`
	Confidence int `yaml:"confidence" json:"confidence"`
}

// RulesConfig holds every threshold of the detection ruleset.
type RulesConfig struct {
	// All-hiring-ratio rule: an account only ever seen posting hiring
	// content within its first observation week.
	AllHiringMinPosts   int `yaml:"all_hiring_min_posts" json:"all_hiring_min_posts"`
	AllHiringWindowDays int `yaml:"all_hiring_window_days" json:"all_hiring_window_days"`
	AllHiringConfidence int `yaml:"all_hiring_confidence" json:"all_hiring_confidence"`

	// Observation-window rule: many posts shortly after first observation.
	ObservationMinPosts   int `yaml:"observation_min_posts" json:"observation_min_posts"`
	ObservationWindowDays int `yaml:"observation_window_days" json:"observation_window_days"`
	ObservationConfidence int `yaml:"observation_confidence" json:"observation_confidence"`

	// Windows is the ordered sliding-date-window ladder.
	Windows []WindowRule `yaml:"windows" json:"windows"`

	FakePoints int `yaml:"fake_points" json:"fake_points"`

	BurstMinPerDay int `yaml:"burst_min_per_day" json:"burst_min_per_day"`
	BurstPoints    int `yaml:"burst_points" json:"burst_points"`

	VarietyMinRoles int `yaml:"variety_min_roles" json:"variety_min_roles"`
	VarietyPoints   int `yaml:"variety_points" json:"variety_points"`

	RepeatMinCount int `yaml:"repeat_min_count" json:"repeat_min_count"`
	RepeatPoints   int `yaml:"repeat_points" json:"repeat_points"`

	// Volume bonuses are cumulative: an author crossing all three
	// thresholds collects all three.
	VolumeMinPosts    int `yaml:"volume_min_posts" json:"volume_min_posts"`
	VolumePoints      int `yaml:"volume_points" json:"volume_points"`
	VolumeHighPosts   int `yaml:"volume_high_posts" json:"volume_high_posts"`
	VolumeHighPoints  int `yaml:"volume_high_points" json:"volume_high_points"`
	VolumeFloodPosts  int `yaml:"volume_flood_posts" json:"volume_flood_posts"`
	VolumeFloodPoints int `yaml:"volume_flood_points" json:"volume_flood_points"`

	TierHighPoints   int `yaml:"tier_high_points" json:"tier_high_points"`
	TierMediumPoints int `yaml:"tier_medium_points" json:"tier_medium_points"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend: "memory", "disk", or "sqlite".
	Backend string `yaml:"backend" json:"backend"`

	// Dir is the data directory for the disk backend.
	Dir string `yaml:"dir" json:"dir"`

	// Path is the database file for the sqlite backend.
	Path string `yaml:"path" json:"path"`

	// Layered puts a memory layer in front of a durable backend.
	Layered bool `yaml:"layered" json:"layered"`
}

// LLMConfig configures the optional advisory generator.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai", "anthropic", "ollama", "" = disabled
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"` // From environment only, never persisted
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" json:"include_footer"`
	ReportDir     string `yaml:"report_dir" json:"report_dir"`
}

// ConcurrencyConfig controls worker counts for batch operations.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimitConfig throttles bulk imports per capture source.
type RateLimitConfig struct {
	RecordsPerSecond float64 `yaml:"records_per_second" json:"records_per_second"`
	BurstSize        int     `yaml:"burst_size" json:"burst_size"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			AllHiringMinPosts:   2,
			AllHiringWindowDays: 7,
			AllHiringConfidence: 85,

			ObservationMinPosts:   3,
			ObservationWindowDays: 5,
			ObservationConfidence: 95,

			// Order matters: most specific first, first match wins.
			Windows: []WindowRule{
				{Days: 5, MinPosts: 5, Confidence: 98},
				{Days: 5, MinPosts: 4, Confidence: 90},
				{Days: 5, MinPosts: 3, Confidence: 80},
				{Days: 3, MinPosts: 2, Confidence: 75},
				{Days: 7, MinPosts: 5, Confidence: 92},
			},

			FakePoints: 100,

			BurstMinPerDay: 2,
			BurstPoints:    40,

			VarietyMinRoles: 3,
			VarietyPoints:   30,

			RepeatMinCount: 2,
			RepeatPoints:   25,

			VolumeMinPosts:    2,
			VolumePoints:      20,
			VolumeHighPosts:   6,
			VolumeHighPoints:  15,
			VolumeFloodPosts:  8,
			VolumeFloodPoints: 10,

			TierHighPoints:   45,
			TierMediumPoints: 20,
		},
		Store: StoreConfig{
			Backend: "disk",
			Layered: true,
		},
		LLM: LLMConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 500,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			ReportDir:     "./hirewatch-reports",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RecordsPerSecond: 50,
			BurstSize:        10,
		},
	}
}

// Day is the unit recency windows are measured in.
const Day = 24 * time.Hour
