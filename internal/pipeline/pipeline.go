// Package pipeline wires the ledger, the scoring engine and the
// optional advisor into the two operations the surrounding system
// calls: record a post, check an author.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/hirewatch/internal/ingest"
	"github.com/ppiankov/hirewatch/internal/ledger"
	"github.com/ppiankov/hirewatch/internal/llm"
	"github.com/ppiankov/hirewatch/internal/model"
	"github.com/ppiankov/hirewatch/internal/score"
	"github.com/ppiankov/hirewatch/internal/store"
)

// Pipeline orchestrates record -> evaluate -> report.
type Pipeline struct {
	ledger     *ledger.Ledger
	engine     *score.Engine
	normalizer *ingest.Normalizer
	advisor    *llm.Advisor
	config     *model.Config
	log        zerolog.Logger
}

// New creates a pipeline over the given store.
func New(cfg *model.Config, st store.Store, log zerolog.Logger) *Pipeline {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	// The advisor is optional; a broken LLM config downgrades to
	// disabled with a warning instead of blocking scoring.
	advisor, err := llm.NewAdvisor(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		log.Warn().Err(err).Msg("LLM advisor disabled")
		advisor = nil
	}

	return &Pipeline{
		ledger:     ledger.New(st),
		engine:     score.NewEngine(cfg),
		normalizer: ingest.NewNormalizer(log),
		advisor:    advisor,
		config:     cfg,
		log:        log,
	}
}

// Ledger exposes the underlying ledger for callers that manage records
// directly (reset, key listing).
func (p *Pipeline) Ledger() *ledger.Ledger {
	return p.ledger
}

// Record normalizes one capture, appends it to the author's ledger and
// returns the fresh evaluation. Skipped captures (wrong kind, unusable
// profile URL) return ingest.ErrSkipped.
func (p *Pipeline) Record(ctx context.Context, capture ingest.Capture) (*model.Report, error) {
	now := time.Now().UTC()

	in, err := p.normalizer.Normalize(capture, now)
	if err != nil {
		return nil, err
	}

	author, err := p.ledger.RecordPost(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("record post: %w", err)
	}

	p.log.Debug().
		Str("identity", author.IdentityKey).
		Int("posts", len(author.Posts)).
		Msg("post recorded")

	return p.buildReport(ctx, author, now), nil
}

// Check evaluates the stored author for an identity key at the given
// instant. Unknown authors come back with tier "unknown", not an error.
func (p *Pipeline) Check(ctx context.Context, identityKey string, now time.Time) (*model.Report, error) {
	author, err := p.ledger.GetAuthor(ctx, identityKey)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}
	return p.buildReport(ctx, author, now), nil
}

// buildReport scores the snapshot and, for flagged authors, attaches the
// optional LLM advisory. The advisory is generated AFTER scoring and
// never affects the result.
func (p *Pipeline) buildReport(ctx context.Context, author model.Author, now time.Time) *model.Report {
	result := p.engine.Evaluate(author, now)

	report := &model.Report{
		Author:      author,
		GeneratedAt: now,
		Result:      result,
	}

	if result.IsFake && p.advisor.IsEnabled() {
		advisory, err := p.advisor.GenerateAdvisory(ctx, *report)
		if err != nil {
			p.log.Warn().Err(err).Str("identity", author.IdentityKey).Msg("advisory generation failed")
		} else {
			report.Advisory = advisory
		}
	}

	return report
}
