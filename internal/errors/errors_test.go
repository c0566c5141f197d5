package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rferrors "github.com/mrz1836/recforge/internal/errors"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	allErrors := []error{
		rferrors.ErrEmptyRecording,
		rferrors.ErrGeneration,
		rferrors.ErrLocatorNotFound,
		rferrors.ErrNoCandidates,
		rferrors.ErrInvalidFeatureName,
		rferrors.ErrTemplateExecution,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i == j {
				assert.ErrorIs(t, err1, err2)
			} else {
				assert.NotErrorIs(t, err1, err2)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	t.Run("preserves chain", func(t *testing.T) {
		wrapped := rferrors.Wrap(rferrors.ErrGeneration, "writing artifacts")

		require.ErrorIs(t, wrapped, rferrors.ErrGeneration)
		assert.Equal(t, "writing artifacts: artifact generation failed", wrapped.Error())
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, rferrors.Wrap(nil, "ignored"))
		assert.NoError(t, rferrors.Wrapf(nil, "ignored %d", 1))
	})

	t.Run("wrapf formats", func(t *testing.T) {
		wrapped := rferrors.Wrapf(rferrors.ErrEmptyRecording, "parsing %s", "login.rec")

		require.ErrorIs(t, wrapped, rferrors.ErrEmptyRecording)
		assert.Equal(t, "parsing login.rec: recording is empty", wrapped.Error())
	})
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, rferrors.UserMessage(nil))
	assert.Equal(t, "The recording is empty.", rferrors.UserMessage(rferrors.ErrEmptyRecording))

	wrapped := fmt.Errorf("outer: %w", rferrors.ErrLocatorNotFound)
	assert.Equal(t, "No locator strategy matched a visible element.", rferrors.UserMessage(wrapped))

	unknown := stderrors.New("something odd")
	assert.Equal(t, "something odd", rferrors.UserMessage(unknown))
}

func TestActionable(t *testing.T) {
	msg, action := rferrors.Actionable(rferrors.Wrap(rferrors.ErrGeneration, "ctx"))
	assert.Contains(t, msg, "No files were left behind")
	assert.NotEmpty(t, action)

	msg, action = rferrors.Actionable(rferrors.ErrNoCandidates)
	assert.NotEmpty(t, msg)
	assert.Empty(t, action)

	msg, action = rferrors.Actionable(nil)
	assert.Empty(t, msg)
	assert.Empty(t, action)
}

func TestExitCode2Error(t *testing.T) {
	err := rferrors.NewExitCode2Error(rferrors.ErrInvalidArgument)

	assert.True(t, rferrors.IsExitCode2Error(err))
	assert.True(t, rferrors.IsExitCode2Error(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, rferrors.IsExitCode2Error(rferrors.ErrInvalidArgument))
	assert.ErrorIs(t, err, rferrors.ErrInvalidArgument)
	assert.Equal(t, "invalid argument", err.Error())
}
