// Package config provides configuration management for recforge with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (RECFORGE_* prefix)
//  3. Project config (.recforge/config.yaml)
//  4. Global config (~/.recforge/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for recforge.
type Config struct {
	// Output controls where generated artifacts are written and which Java packages they use.
	Output OutputConfig `yaml:"output" mapstructure:"output"`

	// Resolver contains settings for locator resolution during replay.
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`

	// Browser contains settings for the replay browser.
	Browser BrowserConfig `yaml:"browser" mapstructure:"browser"`

	// Generate contains settings for batch generation.
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
}

// OutputConfig describes the generated artifact layout.
type OutputConfig struct {
	// PagesDir receives page-object classes.
	// Default: src/test/java/pages
	PagesDir string `yaml:"pages_dir" mapstructure:"pages_dir"`

	// FeaturesDir receives Gherkin feature files.
	// Default: src/test/resources/features
	FeaturesDir string `yaml:"features_dir" mapstructure:"features_dir"`

	// StepsDir receives step-definition classes.
	// Default: src/test/java/steps
	StepsDir string `yaml:"steps_dir" mapstructure:"steps_dir"`

	// PagesPackage is the Java package declared by page objects.
	PagesPackage string `yaml:"pages_package" mapstructure:"pages_package"`

	// StepsPackage is the Java package declared by step definitions.
	StepsPackage string `yaml:"steps_package" mapstructure:"steps_package"`

	// SupportPackage holds the LocatorResolver and PageContext runtime classes.
	SupportPackage string `yaml:"support_package" mapstructure:"support_package"`
}

// ResolverConfig contains settings for the self-healing resolver.
type ResolverConfig struct {
	// ProbeTimeout bounds each visibility wait during a full search.
	// Default: 300ms
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`

	// CacheSize bounds the number of remembered winning strategies.
	// Default: 1024
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
}

// BrowserConfig contains settings for the replay browser.
type BrowserConfig struct {
	// Headless runs Chromium without a window.
	// Default: true
	Headless bool `yaml:"headless" mapstructure:"headless"`

	// BaseURL resolves relative navigate targets. Empty leaves them as recorded.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// NavigationTimeout bounds each page load.
	// Default: 30s
	NavigationTimeout time.Duration `yaml:"navigation_timeout" mapstructure:"navigation_timeout"`

	// ControlURL attaches to a running browser's DevTools endpoint instead of launching one.
	ControlURL string `yaml:"control_url" mapstructure:"control_url"`
}

// GenerateConfig contains settings for batch generation.
type GenerateConfig struct {
	// Concurrency is the number of recordings generated in parallel.
	// Default: 4, Valid range: 1-32
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// StoryID tags generated scenarios (e.g. "AUTH-12"). Empty omits the tag.
	StoryID string `yaml:"story_id" mapstructure:"story_id"`
}
