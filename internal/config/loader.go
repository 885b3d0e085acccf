// Package config provides centralized configuration management for lendlens.
// Configuration is layered: built-in defaults, an optional YAML config file,
// then LENDLENS_* environment variables.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	appConfig *Config
	configMu  sync.RWMutex
)

// EnvPrefix is the environment variable prefix for overrides.
const EnvPrefix = "LENDLENS"

// Load reads configuration from the optional file path plus environment
// variables and returns the decoded, validated Config. A missing config
// file is not an error; defaults and environment cover everything.
func Load(cfgFile string) (*Config, error) {
	// API keys typically live in a .env file next to the binary, mirroring
	// how operators configured the research agent before this tool.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("lendlens")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.config/lendlens")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configMu.Lock()
	appConfig = cfg
	configMu.Unlock()

	return cfg, nil
}

// GetConfig returns the most recently loaded configuration, or nil when
// Load has not run yet.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	// Monitoring defaults: three concurrent subject jobs, probes bounded
	// at 30s, full source surface.
	v.SetDefault("monitor.concurrency", 3)
	v.SetDefault("monitor.probe_timeout", "30s")
	v.SetDefault("monitor.sources", []string{"reviews", "news", "social", "website"})

	// Sequential research defaults: 2s between units to stay polite with
	// rate-limited services.
	v.SetDefault("research.delay", "2s")
	v.SetDefault("research.types", []string{"comprehensive"})

	// Crawler defaults
	v.SetDefault("crawler.base_url", "http://localhost:3000")
	v.SetDefault("crawler.api_key", "")
	v.SetDefault("crawler.timeout", "30s")
	v.SetDefault("crawler.local_extract", true)

	// Analyzer defaults
	v.SetDefault("analyzer.endpoint", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("analyzer.api_key", "")
	v.SetDefault("analyzer.model", "gpt-4o-mini")
	v.SetDefault("analyzer.timeout", "60s")
	v.SetDefault("analyzer.temperature", 0.1)
	v.SetDefault("analyzer.max_content_chars", 4000)

	// Store defaults
	v.SetDefault("store.driver", "libsql")
	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("store.url", "")
	v.SetDefault("store.auth_token", "")

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Logging defaults
	v.SetDefault("logging.level", "info")

	// Output defaults
	v.SetDefault("output.dir", "research_results")
}
