package config

import (
	"net/url"
	"regexp"
	"time"

	"github.com/mrz1836/recforge/internal/constants"
	"github.com/mrz1836/recforge/internal/errors"
)

// javaPackagePattern matches dotted Java package names such as com.acme.pages.
var javaPackagePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// maxProbeTimeout keeps a single strategy probe from stalling a resolution.
const maxProbeTimeout = time.Minute

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - Output directories must not be empty
//   - Java packages must be dotted identifiers
//   - Resolver probe timeout must be between 1ms and 1 minute
//   - Resolver cache size must be positive
//   - Browser base URL, when set, must be an absolute http(s) URL
//   - Browser navigation timeout must be positive
//   - Generate concurrency must be between 1 and 32
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}
	if err := validateOutputConfig(&cfg.Output); err != nil {
		return err
	}
	if err := validateResolverConfig(&cfg.Resolver); err != nil {
		return err
	}
	if err := validateBrowserConfig(&cfg.Browser); err != nil {
		return err
	}
	return validateGenerateConfig(&cfg.Generate)
}

func validateOutputConfig(cfg *OutputConfig) error {
	dirs := []struct{ key, value string }{
		{"output.pages_dir", cfg.PagesDir},
		{"output.features_dir", cfg.FeaturesDir},
		{"output.steps_dir", cfg.StepsDir},
	}
	for _, d := range dirs {
		if d.value == "" {
			return errors.Wrapf(errors.ErrConfigInvalidOutput, "%s must not be empty", d.key)
		}
	}

	packages := []struct{ key, value string }{
		{"output.pages_package", cfg.PagesPackage},
		{"output.steps_package", cfg.StepsPackage},
		{"output.support_package", cfg.SupportPackage},
	}
	for _, p := range packages {
		if !javaPackagePattern.MatchString(p.value) {
			return errors.Wrapf(errors.ErrConfigInvalidOutput,
				"%s must be a Java package name, got %q", p.key, p.value)
		}
	}
	return nil
}

func validateResolverConfig(cfg *ResolverConfig) error {
	if cfg.ProbeTimeout < time.Millisecond || cfg.ProbeTimeout > maxProbeTimeout {
		return errors.Wrapf(errors.ErrConfigInvalidResolver,
			"resolver.probe_timeout must be between 1ms and %s, got %s", maxProbeTimeout, cfg.ProbeTimeout)
	}
	if cfg.CacheSize < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidResolver,
			"resolver.cache_size must be positive, got %d", cfg.CacheSize)
	}
	return nil
}

func validateBrowserConfig(cfg *BrowserConfig) error {
	if cfg.NavigationTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidBrowser,
			"browser.navigation_timeout must be positive, got %s", cfg.NavigationTimeout)
	}
	if cfg.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Wrapf(errors.ErrConfigInvalidBrowser,
			"browser.base_url must be an absolute http(s) URL, got %q", cfg.BaseURL)
	}
	return nil
}

func validateGenerateConfig(cfg *GenerateConfig) error {
	if cfg.Concurrency < 1 || cfg.Concurrency > constants.MaxGenerateConcurrency {
		return errors.Wrapf(errors.ErrConfigInvalidGenerate,
			"generate.concurrency must be between 1 and %d, got %d",
			constants.MaxGenerateConcurrency, cfg.Concurrency)
	}
	return nil
}
