package constants_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/recforge/internal/constants"
)

func TestArtifactExtensions(t *testing.T) {
	assert.True(t, strings.HasPrefix(constants.SourceExt, "."))
	assert.True(t, strings.HasPrefix(constants.FeatureExt, "."))
	assert.NotEqual(t, constants.SourceExt, constants.FeatureExt)
}

func TestResolverDefaults(t *testing.T) {
	// Probes must stay well below a second so an exhausted list fails fast.
	assert.Less(t, constants.DefaultProbeTimeout.Milliseconds(), int64(1000))
	assert.Positive(t, constants.DefaultCacheSize)
}

func TestGenerateConcurrencyBounds(t *testing.T) {
	assert.LessOrEqual(t, constants.DefaultGenerateConcurrency, constants.MaxGenerateConcurrency)
	assert.Positive(t, constants.DefaultGenerateConcurrency)
}
