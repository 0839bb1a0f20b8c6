package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hirewatch/internal/ingest"
	"github.com/ppiankov/hirewatch/internal/ledger"
)

var resetAll bool

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset [profile-url]",
	Short: "Forget a tracked author (or all of them)",
	Long: `Reset removes an author's recorded posts. Authors are never
deleted by the system itself; this explicit reset is the only way.

Example:
  hirewatch reset linkedin.com/in/some-recruiter
  hirewatch reset --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVar(&resetAll, "all", false, "forget every tracked author")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetAll && len(args) == 0 {
		return fmt.Errorf("either a profile URL or --all is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := loadConfig()
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	lg := ledger.New(st)

	if resetAll {
		if err := lg.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("All tracked authors forgotten.")
		return nil
	}

	identityKey, err := ingest.IdentityKey(args[0])
	if err != nil {
		return fmt.Errorf("invalid profile URL: %w", err)
	}
	if err := lg.Reset(ctx, identityKey); err != nil {
		return err
	}
	fmt.Printf("Forgot author %s\n", identityKey)
	return nil
}
