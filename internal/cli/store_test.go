package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// withConfigFile points initConfig at a throwaway config path so tests
// never read the developer's real ~/.hirewatch/config.yaml.
func withConfigFile(t *testing.T, path string) {
	t.Helper()
	viper.Reset()
	prev := cfgFile
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = prev
		viper.Reset()
	})
}

func TestLoadConfig_RulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `rules:
  tier_high_points: 60
  windows:
    - days: 2
      min_posts: 2
      confidence: 70
store:
  backend: memory
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	withConfigFile(t, path)

	initConfig()
	cfg := loadConfig()

	if cfg.Rules.TierHighPoints != 60 {
		t.Errorf("tier_high_points not loaded: %d", cfg.Rules.TierHighPoints)
	}
	// Unspecified thresholds keep their defaults.
	if cfg.Rules.AllHiringMinPosts != 2 || cfg.Rules.FakePoints != 100 {
		t.Errorf("defaults lost: min_posts=%d fake_points=%d",
			cfg.Rules.AllHiringMinPosts, cfg.Rules.FakePoints)
	}
	// A configured ladder replaces the default one entirely.
	if len(cfg.Rules.Windows) != 1 {
		t.Fatalf("expected 1 window rule, got %d", len(cfg.Rules.Windows))
	}
	if w := cfg.Rules.Windows[0]; w.Days != 2 || w.MinPosts != 2 || w.Confidence != 70 {
		t.Errorf("window rule not decoded: %+v", w)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("store.backend not loaded: %q", cfg.Store.Backend)
	}
}

func TestLoadConfig_NoFileKeepsDefaults(t *testing.T) {
	withConfigFile(t, filepath.Join(t.TempDir(), "missing.yaml"))

	initConfig()
	cfg := loadConfig()

	if cfg.Rules.TierHighPoints != 45 || len(cfg.Rules.Windows) != 5 {
		t.Errorf("defaults not intact: high=%d windows=%d",
			cfg.Rules.TierHighPoints, len(cfg.Rules.Windows))
	}
}

func TestLoadConfig_EnvOverridesNestedKeys(t *testing.T) {
	withConfigFile(t, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HIREWATCH_STORE_BACKEND", "memory")

	initConfig()
	cfg := loadConfig()

	if cfg.Store.Backend != "memory" {
		t.Errorf("env override ignored: %q", cfg.Store.Backend)
	}
}
