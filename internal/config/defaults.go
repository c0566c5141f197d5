package config

import (
	"github.com/mrz1836/recforge/internal/constants"
)

// DefaultConfig returns a new Config with the built-in defaults.
// These are the base layer that config files, environment variables
// and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			PagesDir:       constants.DefaultPagesDir,
			FeaturesDir:    constants.DefaultFeaturesDir,
			StepsDir:       constants.DefaultStepsDir,
			PagesPackage:   constants.DefaultPagesPackage,
			StepsPackage:   constants.DefaultStepsPackage,
			SupportPackage: constants.DefaultSupportPackage,
		},
		Resolver: ResolverConfig{
			ProbeTimeout: constants.DefaultProbeTimeout,
			CacheSize:    constants.DefaultCacheSize,
		},
		Browser: BrowserConfig{
			// Headless: replay usually runs in CI.
			Headless:          true,
			NavigationTimeout: constants.DefaultNavigationTimeout,
		},
		Generate: GenerateConfig{
			Concurrency: constants.DefaultGenerateConcurrency,
		},
	}
}
