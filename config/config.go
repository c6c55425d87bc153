// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Platform keys of search.include_paths.
const (
	PlatformLinux   = "linux"
	PlatformMacOS   = "macos"
	PlatformWindows = "windows"
)

// PlatformKey maps a runtime.GOOS value to its include_paths key. Systems
// other than macOS and Windows share the linux entry.
func PlatformKey(goos string) string {
	switch goos {
	case "darwin", PlatformMacOS:
		return PlatformMacOS
	case PlatformWindows:
		return PlatformWindows
	default:
		return PlatformLinux
	}
}

// Config holds the launcher's user-editable settings.
type Config struct {
	Behavior BehaviorConfig `yaml:"behavior"`
	Search   SearchConfig   `yaml:"search"`
	Plugins  PluginConfig   `yaml:"plugins"`
	History  HistoryConfig  `yaml:"history"`
}

// BehaviorConfig controls result presentation and bookkeeping.
type BehaviorConfig struct {
	// Hotkey is the global shortcut the presentation layer binds.
	// Default: "Ctrl+Space"
	Hotkey string `yaml:"hotkey"`

	// MaxResults bounds the number of results returned per query.
	// Default: 10
	MaxResults int `yaml:"max_results"`

	RebuildIndexOnStartup bool `yaml:"rebuild_index_on_startup"`

	// SaveSearchHistory records executed results in the selection history.
	SaveSearchHistory bool `yaml:"save_search_history"`

	// RecordUsageStats persists application usage counters.
	RecordUsageStats bool `yaml:"record_usage_stats"`
}

// SearchConfig controls what is indexed and searched.
type SearchConfig struct {
	// IncludePaths maps a platform key ("linux", "macos", "windows") to the
	// directories whose files are indexed. See PlatformKey.
	IncludePaths map[string][]string `yaml:"include_paths"`

	// ExcludePatterns are matched against full file paths.
	// Default: ["*.tmp", "*.log"]
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// FuzzyThreshold is reserved and not applied to scores.
	// Default: 0.6
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	EnableFileSearch bool `yaml:"enable_file_search"`
	EnableAppSearch  bool `yaml:"enable_app_search"`

	// WatchIncludePaths rebuilds the index when include paths change.
	WatchIncludePaths bool `yaml:"watch_include_paths"`
}

// PluginConfig selects the built-in plugins.
type PluginConfig struct {
	Enabled    []string         `yaml:"enabled"`
	Disabled   []string         `yaml:"disabled"`
	Translator TranslatorConfig `yaml:"translator"`
}

// TranslatorConfig configures the translator plugin's model. An empty Host
// keeps the plugin offline.
type TranslatorConfig struct {
	// Host is the base URL of an OpenAI-compatible API.
	// Example: "http://localhost:11434/v1"
	Host string `yaml:"host"`

	// Model is the chat model identifier.
	// Example: "qwen2.5:3b"
	Model string `yaml:"model"`

	// TargetLanguage defaults to "English".
	TargetLanguage string `yaml:"target_language"`

	// Timeout bounds each translation request.
	// Default: 3s
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig controls where usage and selection history is stored.
type HistoryConfig struct {
	// DataDir is the history database directory. Empty keeps history in memory.
	DataDir string `yaml:"data_dir"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithMaxResults sets the maximum number of results per query.
func WithMaxResults(n int) Option {
	return func(c *Config) {
		c.Behavior.MaxResults = n
	}
}

// WithIncludePaths sets the include paths for a platform, given either as a
// platform key or as a runtime.GOOS value.
func WithIncludePaths(platform string, paths ...string) Option {
	return func(c *Config) {
		if c.Search.IncludePaths == nil {
			c.Search.IncludePaths = make(map[string][]string)
		}
		c.Search.IncludePaths[PlatformKey(platform)] = paths
	}
}

// WithExcludePatterns replaces the exclude patterns.
func WithExcludePatterns(patterns ...string) Option {
	return func(c *Config) {
		c.Search.ExcludePatterns = patterns
	}
}

// WithFileSearch enables or disables file search.
func WithFileSearch(enabled bool) Option {
	return func(c *Config) {
		c.Search.EnableFileSearch = enabled
	}
}

// WithAppSearch enables or disables application search.
func WithAppSearch(enabled bool) Option {
	return func(c *Config) {
		c.Search.EnableAppSearch = enabled
	}
}

// WithWatchIncludePaths enables or disables the include path watcher.
func WithWatchIncludePaths(enabled bool) Option {
	return func(c *Config) {
		c.Search.WatchIncludePaths = enabled
	}
}

// WithPlugins replaces the enabled built-in plugins.
func WithPlugins(names ...string) Option {
	return func(c *Config) {
		c.Plugins.Enabled = names
	}
}

// WithTranslator sets the translator model host, model and target language.
func WithTranslator(host, model, targetLanguage string) Option {
	return func(c *Config) {
		c.Plugins.Translator.Host = host
		c.Plugins.Translator.Model = model
		c.Plugins.Translator.TargetLanguage = targetLanguage
	}
}

// WithTranslatorTimeout bounds each translation request.
func WithTranslatorTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Plugins.Translator.Timeout = d
	}
}

// WithDataDir sets the history database directory.
func WithDataDir(dir string) Option {
	return func(c *Config) {
		c.History.DataDir = dir
	}
}

// WithSaveSearchHistory enables or disables selection history.
func WithSaveSearchHistory(enabled bool) Option {
	return func(c *Config) {
		c.Behavior.SaveSearchHistory = enabled
	}
}

// WithRecordUsageStats enables or disables persisted usage counters.
func WithRecordUsageStats(enabled bool) Option {
	return func(c *Config) {
		c.Behavior.RecordUsageStats = enabled
	}
}

// DefaultConfig returns a Config with the launcher's defaults.
func DefaultConfig() *Config {
	return &Config{
		Behavior: BehaviorConfig{
			Hotkey:                "Ctrl+Space",
			MaxResults:            10,
			RebuildIndexOnStartup: true,
			SaveSearchHistory:     true,
			RecordUsageStats:      true,
		},
		Search: SearchConfig{
			IncludePaths: map[string][]string{
				PlatformLinux:   {"/usr/bin", "/usr/local/bin", "~/.local/share/applications"},
				PlatformMacOS:   {"~/Applications", "/Applications"},
				PlatformWindows: {`C:\Program Files`, `C:\Program Files (x86)`},
			},
			ExcludePatterns:  []string{"*.tmp", "*.log"},
			FuzzyThreshold:   0.6,
			EnableFileSearch: true,
			EnableAppSearch:  true,
		},
		Plugins: PluginConfig{
			Enabled:  []string{"calculator", "translator"},
			Disabled: []string{"weather"},
			Translator: TranslatorConfig{
				Timeout: 3 * time.Second,
			},
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithMaxResults(20),
//	    WithIncludePaths("linux", "~/Documents"),
//	)
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Search.IncludePaths = make(map[string][]string, len(c.Search.IncludePaths))
	for platform, paths := range c.Search.IncludePaths {
		clone.Search.IncludePaths[platform] = slices.Clone(paths)
	}
	clone.Search.ExcludePatterns = slices.Clone(c.Search.ExcludePatterns)
	clone.Plugins.Enabled = slices.Clone(c.Plugins.Enabled)
	clone.Plugins.Disabled = slices.Clone(c.Plugins.Disabled)
	return &clone
}

// IncludeRoots returns the include paths configured for goos, looked up
// through PlatformKey.
func (c *Config) IncludeRoots(goos string) []string {
	return slices.Clone(c.Search.IncludePaths[PlatformKey(goos)])
}

// Platforms returns the platform keys that have include paths, sorted.
func (c *Config) Platforms() []string {
	return slices.Sorted(maps.Keys(c.Search.IncludePaths))
}

// EnabledPlugins returns the enabled plugin names that are not also
// disabled, compared case-insensitively.
func (c *Config) EnabledPlugins() []string {
	var names []string
	for _, name := range c.Plugins.Enabled {
		if !slices.ContainsFunc(c.Plugins.Disabled, func(d string) bool { return strings.EqualFold(d, name) }) {
			names = append(names, name)
		}
	}
	return names
}

// Normalize ensures the configuration is in a canonical form.
// The translator host gets the /v1 suffix OpenAI-compatible APIs expect.
func (c *Config) Normalize() {
	host := c.Plugins.Translator.Host
	if host != "" && !strings.HasSuffix(host, "/v1") {
		c.Plugins.Translator.Host = strings.TrimSuffix(host, "/") + "/v1"
	}
}

// Validate normalizes the configuration and checks its ranges.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Behavior.MaxResults < 1 || c.Behavior.MaxResults > 100 {
		return fmt.Errorf("%w: max_results must be between 1 and 100, got %d", ErrInvalidConfig, c.Behavior.MaxResults)
	}
	if c.Search.FuzzyThreshold < 0 || c.Search.FuzzyThreshold > 1 {
		return fmt.Errorf("%w: fuzzy_threshold must be between 0.0 and 1.0, got %g", ErrInvalidConfig, c.Search.FuzzyThreshold)
	}
	for _, platform := range c.Platforms() {
		if platform != PlatformLinux && platform != PlatformMacOS && platform != PlatformWindows {
			return fmt.Errorf("%w: unknown include_paths platform %q, use linux, macos or windows", ErrInvalidConfig, platform)
		}
	}
	if c.Plugins.Translator.Timeout < 0 {
		return fmt.Errorf("%w: plugins.translator.timeout must not be negative, got %s", ErrInvalidConfig, c.Plugins.Translator.Timeout)
	}
	if c.Plugins.Translator.Host != "" && c.Plugins.Translator.Model == "" {
		return fmt.Errorf("%w: plugins.translator.model is required when a host is set", ErrInvalidConfig)
	}
	return nil
}
