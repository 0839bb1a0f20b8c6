package score

import (
	"fmt"
	"time"

	"github.com/ppiankov/hirewatch/internal/model"
)

// Engine evaluates an author's posting cadence against the detection
// ruleset and produces a verdict, points, tier and reasons.
type Engine struct {
	rules model.RulesConfig
}

// NewEngine creates an engine with the given thresholds.
func NewEngine(cfg *model.Config) *Engine {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Engine{rules: cfg.Rules}
}

// verdict is the outcome of the fraud rules (steps 1-3).
type verdict struct {
	fake        bool
	confidence  int
	reason      string
	recentCount int
	signal      model.Signal
}

// Evaluate scores one author snapshot. Pure function of its inputs: the
// wall clock is passed explicitly, never read ambiently.
func (e *Engine) Evaluate(author model.Author, now time.Time) model.ScoreResult {
	result := model.ScoreResult{
		Tier:    model.TierUnknown,
		Reasons: []string{},
		Roles:   distinctRoles(author.Posts),
	}

	// "No data yet" is a valid state, not a failure.
	if len(author.Posts) == 0 {
		return result
	}

	firstSeen := author.FirstSeenOrDefault(now)

	// 1. All-hiring-ratio rule. The ledger records only hiring posts by
	// construction, so an account whose entire observed history fits in
	// one week behaves like a spam account: there is no non-hiring
	// content to offset it.
	v := e.checkAllHiringRatio(author, firstSeen, now)

	// 2. Observation-window rule, skipped if rule 1 fired.
	if !v.fake {
		v = e.checkObservationWindow(author, firstSeen, now)
	}

	// 3. Sliding-date-window ladder, skipped if an earlier rule fired.
	if !v.fake {
		v = e.checkPostingBurst(author, now)
	}
	result.RecentCount = v.recentCount

	// 4. Any fired fraud rule contributes a flat penalty.
	if v.fake {
		result.IsFake = true
		result.Confidence = v.confidence
		result.Points += e.rules.FakePoints
		result.Reasons = append(result.Reasons, v.reason)
		result.Signals = append(result.Signals, v.signal)
	}

	// 5. Daily burst: several posts sharing a single date.
	if pts, sig := e.scoreDailyBurst(author); pts > 0 {
		result.Points += pts
		result.Reasons = append(result.Reasons, sig.Description)
		result.Signals = append(result.Signals, sig)
	}

	// 6. Role variety.
	if pts, sig := e.scoreRoleVariety(author); pts > 0 {
		result.Points += pts
		result.Reasons = append(result.Reasons, sig.Description)
		result.Signals = append(result.Signals, sig)
	}

	// 7. Role repetition, additive per qualifying role.
	if pts, sig := e.scoreRoleRepetition(author); pts > 0 {
		result.Points += pts
		result.Reasons = append(result.Reasons, sig.Description)
		result.Signals = append(result.Signals, sig)
	}

	// 8. Volume bonuses, cumulative across thresholds.
	if pts, sig := e.scoreVolume(author); pts > 0 {
		result.Points += pts
		result.Reasons = append(result.Reasons, sig.Description)
		result.Signals = append(result.Signals, sig)
	}

	// 9. Tier assignment. The verdict forces high regardless of points.
	switch {
	case result.IsFake || result.Points >= e.rules.TierHighPoints:
		result.Tier = model.TierHigh
	case result.Points >= e.rules.TierMediumPoints:
		result.Tier = model.TierMedium
	default:
		result.Tier = model.TierLow
	}

	// 10. Narrative for flagged authors.
	if result.IsFake {
		result.FakeNarrative = buildNarrative(author, v)
	}

	return result
}

// checkAllHiringRatio flags accounts with enough posts whose entire
// observed lifetime fits inside the first observation week.
func (e *Engine) checkAllHiringRatio(author model.Author, firstSeen, now time.Time) verdict {
	tracked := now.Sub(firstSeen)
	if len(author.Posts) < e.rules.AllHiringMinPosts || tracked > time.Duration(e.rules.AllHiringWindowDays)*model.Day {
		return verdict{}
	}

	days := daysTracked(tracked)
	reason := fmt.Sprintf("posted %d posts in %d days - all posts are hiring (100%% ratio)", len(author.Posts), days)
	return verdict{
		fake:       true,
		confidence: e.rules.AllHiringConfidence,
		reason:     reason,
		signal: model.Signal{
			Type:        model.SignalAllHiringRatio,
			Severity:    model.SeverityCritical,
			Description: reason,
			Data: map[string]any{
				"posts":        len(author.Posts),
				"days_tracked": days,
				"confidence":   e.rules.AllHiringConfidence,
			},
		},
	}
}

// checkObservationWindow flags accounts that accumulate posts quickly
// after first being observed. firstSeen is system-recorded and cannot be
// back-dated by the poster, unlike post dates.
func (e *Engine) checkObservationWindow(author model.Author, firstSeen, now time.Time) verdict {
	tracked := now.Sub(firstSeen)
	if len(author.Posts) < e.rules.ObservationMinPosts || tracked > time.Duration(e.rules.ObservationWindowDays)*model.Day {
		return verdict{}
	}

	days := daysTracked(tracked)
	reason := fmt.Sprintf("posted %d posts within %d days of first observation", len(author.Posts), days)
	return verdict{
		fake:       true,
		confidence: e.rules.ObservationConfidence,
		reason:     reason,
		signal: model.Signal{
			Type:        model.SignalObservationWindow,
			Severity:    model.SeverityCritical,
			Description: reason,
			Data: map[string]any{
				"posts":        len(author.Posts),
				"days_tracked": days,
				"confidence":   e.rules.ObservationConfidence,
			},
		},
	}
}

// checkPostingBurst walks the window ladder in declared order; the first
// satisfied threshold wins and short-circuits the rest. When nothing
// fires, the maximum window count is kept for display.
func (e *Engine) checkPostingBurst(author model.Author, now time.Time) verdict {
	counts := make(map[int]int)
	maxCount := 0
	for _, w := range e.rules.Windows {
		if _, ok := counts[w.Days]; !ok {
			counts[w.Days] = countInWindow(author.Posts, now, w.Days)
		}
		if counts[w.Days] > maxCount {
			maxCount = counts[w.Days]
		}
	}

	for _, w := range e.rules.Windows {
		if counts[w.Days] < w.MinPosts {
			continue
		}
		reason := fmt.Sprintf("posted %d jobs in the last %d days", counts[w.Days], w.Days)
		return verdict{
			fake:        true,
			confidence:  w.Confidence,
			reason:      reason,
			recentCount: counts[w.Days],
			signal: model.Signal{
				Type:        model.SignalPostingBurst,
				Severity:    model.SeverityCritical,
				Description: reason,
				Data: map[string]any{
					"window_days": w.Days,
					"count":       counts[w.Days],
					"threshold":   w.MinPosts,
					"confidence":  w.Confidence,
				},
			},
		}
	}

	return verdict{recentCount: maxCount}
}

// scoreDailyBurst scores the largest number of posts sharing one date.
func (e *Engine) scoreDailyBurst(author model.Author) (int, model.Signal) {
	perDay := make(map[time.Time]int)
	maxDay := 0
	for _, p := range author.Posts {
		if !p.HasDate() {
			continue
		}
		perDay[p.Date]++
		if perDay[p.Date] > maxDay {
			maxDay = perDay[p.Date]
		}
	}

	if maxDay < e.rules.BurstMinPerDay {
		return 0, model.Signal{}
	}

	return e.rules.BurstPoints, model.Signal{
		Type:        model.SignalDailyBurst,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("posted %d jobs in a single day", maxDay),
		Data: map[string]any{
			"max_per_day": maxDay,
			"points":      e.rules.BurstPoints,
		},
	}
}

// scoreRoleVariety scores the count of distinct known roles. The unknown
// role sentinel does not count: absence of a title is not variety.
func (e *Engine) scoreRoleVariety(author model.Author) (int, model.Signal) {
	distinct := len(roleCounts(author.Posts))
	if distinct < e.rules.VarietyMinRoles {
		return 0, model.Signal{}
	}

	return e.rules.VarietyPoints, model.Signal{
		Type:        model.SignalRoleVariety,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("hiring for %d different roles", distinct),
		Data: map[string]any{
			"distinct_roles": distinct,
			"points":         e.rules.VarietyPoints,
		},
	}
}

// scoreRoleRepetition adds points per role posted repeatedly, uncapped.
func (e *Engine) scoreRoleRepetition(author model.Author) (int, model.Signal) {
	repeated := 0
	for _, count := range roleCounts(author.Posts) {
		if count >= e.rules.RepeatMinCount {
			repeated++
		}
	}

	if repeated == 0 {
		return 0, model.Signal{}
	}

	points := repeated * e.rules.RepeatPoints
	return points, model.Signal{
		Type:        model.SignalRoleRepetition,
		Severity:    model.SeverityWarning,
		Description: fmt.Sprintf("%d role(s) posted repeatedly", repeated),
		Data: map[string]any{
			"repeated_roles": repeated,
			"points":         points,
		},
	}
}

// scoreVolume applies the cumulative volume bonuses.
func (e *Engine) scoreVolume(author model.Author) (int, model.Signal) {
	total := len(author.Posts)
	points := 0
	if total >= e.rules.VolumeMinPosts {
		points += e.rules.VolumePoints
	}
	if total >= e.rules.VolumeHighPosts {
		points += e.rules.VolumeHighPoints
	}
	if total >= e.rules.VolumeFloodPosts {
		points += e.rules.VolumeFloodPoints
	}

	if points == 0 {
		return 0, model.Signal{}
	}

	return points, model.Signal{
		Type:        model.SignalVolume,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("all %d tracked posts are hiring posts", total),
		Data: map[string]any{
			"total_posts": total,
			"points":      points,
		},
	}
}

// countInWindow counts posts dated within the trailing window, inclusive.
// Posts without a parseable date are excluded rather than failing:
// upstream date extraction is lossy and a bad date must never crash an
// evaluation. Future-dated posts are excluded as well.
func countInWindow(posts []model.Post, now time.Time, days int) int {
	today := model.DateOnly(now)
	count := 0
	for _, p := range posts {
		if !p.HasDate() {
			continue
		}
		age := int(today.Sub(p.Date) / model.Day)
		if age >= 0 && age <= days {
			count++
		}
	}
	return count
}

// roleCounts tallies posts per known role, skipping the unknown sentinel.
func roleCounts(posts []model.Post) map[string]int {
	counts := make(map[string]int)
	for _, p := range posts {
		if p.Role == "" || p.Role == model.RoleUnknown {
			continue
		}
		counts[p.Role]++
	}
	return counts
}

// distinctRoles returns unique non-empty roles in first-seen order,
// including the unknown sentinel (it is still a displayed label).
func distinctRoles(posts []model.Post) []string {
	seen := make(map[string]bool)
	roles := []string{}
	for _, p := range posts {
		if p.Role == "" || seen[p.Role] {
			continue
		}
		seen[p.Role] = true
		roles = append(roles, p.Role)
	}
	return roles
}

// daysTracked converts a tracking duration to whole days, never below 1
// so narratives read naturally for brand-new accounts.
func daysTracked(d time.Duration) int {
	days := int(d / model.Day)
	if days < 1 {
		days = 1
	}
	return days
}

// buildNarrative synthesizes the multi-line explanation for a flagged
// author. Fixed structure: who, what fired, confidence, advice, totals.
func buildNarrative(author model.Author, v verdict) string {
	name := author.DisplayName
	if name == "" || name == model.NameUnknown {
		name = "This recruiter"
	}

	return fmt.Sprintf(`LIKELY FAKE HIRING PATTERN

%s shows a posting cadence typical of spam hiring accounts.
Detected by: %s
Confidence: %d%%

These posts match a known spam cadence. Do not apply or share personal
information until the poster has been verified through an independent
channel.

Total posts tracked for this account: %d`,
		name, v.reason, v.confidence, len(author.Posts))
}
