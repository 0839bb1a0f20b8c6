package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hirewatch/internal/pipeline"
	"github.com/ppiankov/hirewatch/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Re-evaluate every tracked author and write reports",
	Long: `Batch re-scores all tracked authors concurrently against a
single evaluation instant and writes one JSON and one Markdown report
per author.

Useful after threshold changes or on a schedule to refresh a dashboard.

Example:
  hirewatch batch
  hirewatch batch --concurrency 10 --output-dir ./reports`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory for reports (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.Concurrency.Workers = concurrency
	if outputDir == "" {
		outputDir = cfg.Output.ReportDir
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	p := pipeline.New(cfg, st, logger)

	keys, err := p.Ledger().Keys(ctx)
	if err != nil {
		return fmt.Errorf("list authors: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("No tracked authors.")
		return nil
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logger.Info().Int("authors", len(keys)).Int("workers", concurrency).Msg("batch evaluation started")

	evaluator := worker.NewBatchEvaluator(p, concurrency)
	results := evaluator.EvaluateAll(ctx, keys, time.Now().UTC())

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	flagged := 0
	failures := 0
	for _, result := range results {
		if result.Error != nil {
			failures++
			logger.Error().Str("identity", result.IdentityKey).Err(result.Error).Msg("evaluation failed")
			continue
		}

		slug := sanitizeFilename(result.IdentityKey)
		if err := renderer.RenderJSON(result.Report, filepath.Join(outputDir, slug+".json")); err != nil {
			failures++
			logger.Error().Str("identity", result.IdentityKey).Err(err).Msg("write JSON report failed")
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, filepath.Join(outputDir, slug+".md")); err != nil {
			failures++
			logger.Error().Str("identity", result.IdentityKey).Err(err).Msg("write Markdown report failed")
			continue
		}

		if result.Report.Result.IsFake {
			flagged++
			fmt.Printf("FLAGGED  %s (confidence %d%%)\n", result.IdentityKey, result.Report.Result.Confidence)
		}
	}

	fmt.Printf("\nEvaluated %d authors: %d flagged, %d failures. Reports in %s\n",
		len(results), flagged, failures, outputDir)
	return nil
}

// sanitizeFilename makes an identity key safe to use as a file name.
func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
	)
	out := replacer.Replace(s)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
