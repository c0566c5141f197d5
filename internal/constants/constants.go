// Package constants provides centralized constant values used throughout recforge.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by recforge.
const (
	// RecforgeHome is the hidden directory name where recforge stores user-wide data.
	// This directory is created in the user's home directory.
	RecforgeHome = ".recforge"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the global CLI log file.
	CLILogFileName = "recforge.log"

	// GlobalConfigName is the name of the global configuration file.
	GlobalConfigName = "config.yaml"

	// ProjectConfigDir is the project-local configuration directory.
	ProjectConfigDir = ".recforge"

	// EnvPrefix is the prefix of environment variables read by the config layer.
	EnvPrefix = "RECFORGE"

	// HomeEnvVar overrides the recforge home directory.
	HomeEnvVar = "RECFORGE_HOME"
)

// Generated artifact layout defaults.
const (
	// DefaultPagesDir is where page-object classes are written.
	DefaultPagesDir = "src/test/java/pages"

	// DefaultFeaturesDir is where Gherkin feature files are written.
	DefaultFeaturesDir = "src/test/resources/features"

	// DefaultStepsDir is where step-definition classes are written.
	DefaultStepsDir = "src/test/java/steps"

	// DefaultPagesPackage is the Java package of generated page objects.
	DefaultPagesPackage = "pages"

	// DefaultStepsPackage is the Java package of generated step definitions.
	DefaultStepsPackage = "steps"

	// DefaultSupportPackage is the Java package holding the runtime LocatorResolver
	// and PageContext classes the generated code calls into.
	DefaultSupportPackage = "support"

	// SourceExt is the extension of page-object and step-definition files.
	SourceExt = ".java"

	// FeatureExt is the extension of feature files.
	FeatureExt = ".feature"

	// StepsSuffix is appended to the class name for the step-definition file.
	StepsSuffix = "Steps"

	// ElementConstPrefix prefixes every generated locator constant.
	ElementConstPrefix = "ELEMENT_"
)

// Resolver defaults.
const (
	// DefaultProbeTimeout bounds each visibility wait during a full search.
	// Long enough to absorb layout settling, short enough to fail fast.
	DefaultProbeTimeout = 300 * time.Millisecond

	// DefaultCacheSize bounds the number of remembered winning strategies.
	DefaultCacheSize = 1024

	// DefaultNavigationTimeout bounds page loads during replay.
	DefaultNavigationTimeout = 30 * time.Second
)

// Generation defaults.
const (
	// DefaultGenerateConcurrency is the number of recordings generated in parallel in batch mode.
	DefaultGenerateConcurrency = 4

	// MaxGenerateConcurrency caps the batch worker count.
	MaxGenerateConcurrency = 32
)

// Log rotation settings.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28
	LogCompress   = true
)
