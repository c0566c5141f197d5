package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/recforge/internal/constants"
	"github.com/mrz1836/recforge/internal/errors"
)

// newViperInstance creates a Viper instance with the recforge defaults,
// the RECFORGE_ environment prefix and the dotted-key replacer.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (RECFORGE_* prefix)
//  2. Project config (.recforge/config.yaml)
//  3. Global config (~/.recforge/config.yaml)
//  4. Built-in defaults
//
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := mergeConfigFile(v, ProjectConfigPath(), "failed to read project config file"); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("output.pages_dir", cfg.Output.PagesDir).
		Dur("resolver.probe_timeout", cfg.Resolver.ProbeTimeout).
		Int("resolver.cache_size", cfg.Resolver.CacheSize).
		Int("generate.concurrency", cfg.Generate.Concurrency).
		Msg("configuration loaded")

	return cfg, nil
}

// loadGlobalConfig reads the global config file when it exists.
// A missing file or an unknown home directory is skipped silently.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return nil //nolint:nilerr // no home directory means no global config
	}
	return mergeConfigFile(v, path, "failed to read global config file")
}

// mergeConfigFile merges path over the values already in v.
func mergeConfigFile(v *viper.Viper, path, msg string) error {
	if !fileExists(path) {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, msg)
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// Keys must match the mapstructure tag names exactly.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("output.pages_dir", d.Output.PagesDir)
	v.SetDefault("output.features_dir", d.Output.FeaturesDir)
	v.SetDefault("output.steps_dir", d.Output.StepsDir)
	v.SetDefault("output.pages_package", d.Output.PagesPackage)
	v.SetDefault("output.steps_package", d.Output.StepsPackage)
	v.SetDefault("output.support_package", d.Output.SupportPackage)

	v.SetDefault("resolver.probe_timeout", d.Resolver.ProbeTimeout.String())
	v.SetDefault("resolver.cache_size", d.Resolver.CacheSize)

	v.SetDefault("browser.headless", d.Browser.Headless)
	v.SetDefault("browser.base_url", d.Browser.BaseURL)
	v.SetDefault("browser.navigation_timeout", d.Browser.NavigationTimeout.String())
	v.SetDefault("browser.control_url", d.Browser.ControlURL)

	v.SetDefault("generate.concurrency", d.Generate.Concurrency)
	v.SetDefault("generate.story_id", d.Generate.StoryID)
}

// applyOverrides merges non-zero override values into the config.
//
// Browser.Headless cannot be overridden to false here because false is the
// zero value; the CLI sets it directly when the flag was changed.
func applyOverrides(cfg, overrides *Config) {
	applyOutputOverrides(&cfg.Output, &overrides.Output)

	if overrides.Resolver.ProbeTimeout != 0 {
		cfg.Resolver.ProbeTimeout = overrides.Resolver.ProbeTimeout
	}
	if overrides.Resolver.CacheSize != 0 {
		cfg.Resolver.CacheSize = overrides.Resolver.CacheSize
	}

	if overrides.Browser.BaseURL != "" {
		cfg.Browser.BaseURL = overrides.Browser.BaseURL
	}
	if overrides.Browser.NavigationTimeout != 0 {
		cfg.Browser.NavigationTimeout = overrides.Browser.NavigationTimeout
	}
	if overrides.Browser.ControlURL != "" {
		cfg.Browser.ControlURL = overrides.Browser.ControlURL
	}

	if overrides.Generate.Concurrency != 0 {
		cfg.Generate.Concurrency = overrides.Generate.Concurrency
	}
	if overrides.Generate.StoryID != "" {
		cfg.Generate.StoryID = overrides.Generate.StoryID
	}
}

func applyOutputOverrides(cfg, overrides *OutputConfig) {
	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&cfg.PagesDir, overrides.PagesDir)
	set(&cfg.FeaturesDir, overrides.FeaturesDir)
	set(&cfg.StepsDir, overrides.StepsDir)
	set(&cfg.PagesPackage, overrides.PagesPackage)
	set(&cfg.StepsPackage, overrides.StepsPackage)
	set(&cfg.SupportPackage, overrides.SupportPackage)
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
