package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/hirewatch/internal/ingest"
	"github.com/ppiankov/hirewatch/internal/model"
	"github.com/ppiankov/hirewatch/internal/pipeline"
	"github.com/ppiankov/hirewatch/internal/worker"
)

var importTimeout time.Duration

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:     "import <captures.ndjson> [more-files...]",
	Aliases: []string{"record"},
	Short:   "Record captured hiring posts from NDJSON feed files",
	Long: `Import reads capture files produced by external scrapers, one
JSON capture per line, records each hiring post in the author ledger and
prints every author the ruleset flags.

Captures with a kind other than "hiring" are skipped: the ledger must
contain only hiring posts for the ratio rules to stay meaningful.
Records are throttled per capture source so replaying a large feed does
not hammer the store.

Example:
  hirewatch import linkedin-feed.ndjson
  hirewatch import feed1.ndjson feed2.ndjson --verbose`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().DurationVar(&importTimeout, "timeout", 10*time.Minute, "total import timeout")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	cfg := loadConfig()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	p := pipeline.New(cfg, st, logger)
	limiter := worker.NewLimiter(cfg.RateLimit.RecordsPerSecond, cfg.RateLimit.BurstSize)

	var (
		mu       sync.Mutex
		recorded int
		skipped  int
		flagged  = make(map[string]*model.Report)
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, file := range args {
		g.Go(func() error {
			stats, err := importFile(gctx, p, limiter, file, flagged, &mu)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			mu.Lock()
			recorded += stats.recorded
			skipped += stats.skipped
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Imported %d posts (%d skipped) from %d file(s)\n", recorded, skipped, len(args))

	if len(flagged) > 0 {
		fmt.Printf("\n%d author(s) flagged:\n", len(flagged))
		for key, report := range flagged {
			fmt.Printf("  - %s (confidence %d%%, %d posts)\n", key, report.Result.Confidence, len(report.Author.Posts))
		}
	}
	return nil
}

type importStats struct {
	recorded int
	skipped  int
}

// importFile streams one NDJSON capture file into the ledger.
func importFile(ctx context.Context, p *pipeline.Pipeline, limiter *worker.Limiter, path string, flagged map[string]*model.Report, mu *sync.Mutex) (importStats, error) {
	var stats importStats

	f, err := os.Open(path)
	if err != nil {
		return stats, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var capture ingest.Capture
		if err := json.Unmarshal(raw, &capture); err != nil {
			logger.Warn().Str("file", path).Int("line", line).Err(err).Msg("malformed capture, skipped")
			stats.skipped++
			continue
		}

		if err := limiter.Wait(ctx, capture.Source); err != nil {
			return stats, err
		}

		report, err := p.Record(ctx, capture)
		if errors.Is(err, ingest.ErrSkipped) {
			logger.Debug().Str("file", path).Int("line", line).Err(err).Msg("capture skipped")
			stats.skipped++
			continue
		}
		if err != nil {
			return stats, err
		}

		stats.recorded++
		if report.Result.IsFake {
			mu.Lock()
			flagged[report.Author.IdentityKey] = report
			mu.Unlock()
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read captures: %w", err)
	}
	return stats, nil
}
