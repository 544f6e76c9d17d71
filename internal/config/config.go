// Package config loads and validates coursewatch configuration via Viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	WatchlistPath string        `mapstructure:"watchlist_path"`
	StatePath     string        `mapstructure:"state_path"`
	HTTP          HTTPConfig    `mapstructure:"http"`
	Runner        RunnerConfig  `mapstructure:"runner"`
	GitHub        GitHubConfig  `mapstructure:"github"`
	Logging       LoggingConfig `mapstructure:"logging"`
}

// HTTPConfig configures page fetching.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// RunnerConfig governs the polling pass.
type RunnerConfig struct {
	DelaySeconds int `mapstructure:"delay_seconds"`
}

// GitHubConfig points the notifier at an issue tracker. With an empty
// Repo, alerts are logged instead of delivered (local runs).
type GitHubConfig struct {
	Repo       string `mapstructure:"repo"`
	Token      string `mapstructure:"token"`
	APIBaseURL string `mapstructure:"api_base_url"`
	IssueLabel string `mapstructure:"issue_label"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COURSEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("watchlist_path", "watchlist.yaml")
	v.SetDefault("state_path", "state.json")
	v.SetDefault("http.timeout_seconds", 20)
	v.SetDefault("http.user_agent", "coursewatch/1.0 (respectful polling)")
	v.SetDefault("runner.delay_seconds", 2)
	// GitHub Actions injects both of these.
	v.SetDefault("github.repo", os.Getenv("GITHUB_REPOSITORY"))
	v.SetDefault("github.token", os.Getenv("GITHUB_TOKEN"))
	v.SetDefault("github.api_base_url", "https://api.github.com")
	v.SetDefault("github.issue_label", "coursewatch")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.WatchlistPath == "" {
		return fmt.Errorf("watchlist_path must be set")
	}
	if c.StatePath == "" {
		return fmt.Errorf("state_path must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Runner.DelaySeconds < 0 {
		return fmt.Errorf("runner.delay_seconds must be >= 0")
	}
	if c.GitHub.Repo != "" {
		if !strings.Contains(c.GitHub.Repo, "/") {
			return fmt.Errorf("github.repo must be owner/name, got %q", c.GitHub.Repo)
		}
		if c.GitHub.Token == "" {
			return fmt.Errorf("github.token must be set when github.repo is set")
		}
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// InterWatchDelay is the polite pause between consecutive watches.
func (c Config) InterWatchDelay() time.Duration {
	return time.Duration(c.Runner.DelaySeconds) * time.Second
}
