package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ppiankov/hirewatch/internal/model"
	"github.com/ppiankov/hirewatch/internal/store"
)

// openStore builds the persistence backend from configuration. The
// sqlite backend returns a closer; the others do not need one.
func openStore(cfg *model.Config) (store.Store, func(), error) {
	var (
		backend store.Store
		closer  = func() {}
	)

	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), closer, nil

	case "disk", "":
		dir := cfg.Store.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("find home directory: %w", err)
			}
			dir = filepath.Join(home, ".hirewatch", "authors")
		}
		backend = store.NewDiskStore(dir)

	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("find home directory: %w", err)
			}
			path = filepath.Join(home, ".hirewatch", "authors.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create data directory: %w", err)
		}
		db, err := store.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		backend = db
		closer = func() { _ = db.Close() }

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s (supported: memory, disk, sqlite)", cfg.Store.Backend)
	}

	if cfg.Store.Layered {
		backend = store.NewLayeredStore(backend)
	}
	return backend, closer, nil
}

// loadConfig merges file and flag configuration over the defaults.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	// Rule thresholds decode over the defaults, so a config file only
	// needs the values it changes. A configured window ladder replaces
	// the default ladder wholesale; merging ordered rules element-wise
	// would be meaningless.
	if viper.IsSet("rules") {
		if viper.IsSet("rules.windows") {
			cfg.Rules.Windows = nil
		}
		err := viper.UnmarshalKey("rules", &cfg.Rules, func(dc *mapstructure.DecoderConfig) {
			dc.TagName = "yaml"
		})
		if err != nil {
			logger.Warn().Err(err).Msg("invalid rules section in config, keeping defaults")
			cfg.Rules = model.DefaultConfig().Rules
		}
	}

	// Per-machine settings.
	if viper.IsSet("store.backend") {
		cfg.Store.Backend = viper.GetString("store.backend")
	}
	if viper.IsSet("store.dir") {
		cfg.Store.Dir = viper.GetString("store.dir")
	}
	if viper.IsSet("store.path") {
		cfg.Store.Path = viper.GetString("store.path")
	}
	if viper.IsSet("store.layered") {
		cfg.Store.Layered = viper.GetBool("store.layered")
	}
	if viper.IsSet("llm.provider") {
		cfg.LLM.Provider = viper.GetString("llm.provider")
	}
	if viper.IsSet("llm.model") {
		cfg.LLM.Model = viper.GetString("llm.model")
	}
	if viper.IsSet("llm.base_url") {
		cfg.LLM.BaseURL = viper.GetString("llm.base_url")
	}
	if viper.IsSet("output.report_dir") {
		cfg.Output.ReportDir = viper.GetString("output.report_dir")
	}
	if viper.IsSet("concurrency.workers") {
		cfg.Concurrency.Workers = viper.GetInt("concurrency.workers")
	}

	// API keys come from the environment only.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}

	return cfg
}
