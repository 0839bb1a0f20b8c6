package worker

import (
	"context"
	"time"

	"github.com/ppiankov/hirewatch/internal/model"
)

// Checker evaluates one stored author. Satisfied by pipeline.Pipeline.
type Checker interface {
	Check(ctx context.Context, identityKey string, now time.Time) (*model.Report, error)
}

// EvalJob re-evaluates one author.
type EvalJob struct {
	IdentityKey string
	Now         time.Time
	Checker     Checker
}

// Execute runs the evaluation.
func (j *EvalJob) Execute(ctx context.Context) Result {
	report, err := j.Checker.Check(ctx, j.IdentityKey, j.Now)
	return &EvalResult{
		IdentityKey: j.IdentityKey,
		Report:      report,
		Error:       err,
	}
}

// EvalResult is the outcome of one author evaluation.
type EvalResult struct {
	IdentityKey string
	Report      *model.Report
	Error       error
}

// GetError returns the evaluation error, if any.
func (r *EvalResult) GetError() error {
	return r.Error
}

// BatchEvaluator re-scores many authors concurrently.
type BatchEvaluator struct {
	checker     Checker
	concurrency int
}

// NewBatchEvaluator creates a batch evaluator.
func NewBatchEvaluator(checker Checker, concurrency int) *BatchEvaluator {
	return &BatchEvaluator{
		checker:     checker,
		concurrency: concurrency,
	}
}

// EvaluateAll evaluates every key with a shared now, so one batch run is
// internally consistent.
func (b *BatchEvaluator) EvaluateAll(ctx context.Context, keys []string, now time.Time) []*EvalResult {
	if len(keys) == 0 {
		return []*EvalResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit from a separate goroutine so result draining keeps pace
	// with intake on batches larger than the queue.
	go func() {
		defer pool.Close()
		for _, key := range keys {
			pool.Submit(&EvalJob{
				IdentityKey: key,
				Now:         now,
				Checker:     b.checker,
			})
		}
	}()

	results := pool.Wait()

	evalResults := make([]*EvalResult, len(results))
	for i, result := range results {
		evalResults[i] = result.(*EvalResult)
	}
	return evalResults
}
