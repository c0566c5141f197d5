package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/recforge/internal/browser"
	"github.com/mrz1836/recforge/internal/config"
	"github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/testutil"
	"github.com/mrz1836/recforge/internal/tui"
)

func launcherFor(p *testutil.Page, got *browser.Options) browserLauncher {
	return func(_ context.Context, opts browser.Options, _ zerolog.Logger) (replayBrowser, error) {
		*got = opts
		return p, nil
	}
}

func replayFixture(t *testing.T) (afero.Fs, *bytes.Buffer, tui.Output, *config.Config) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "login.txt", []byte(loginRecording), 0o644))
	buf := &bytes.Buffer{}
	cfg := config.DefaultConfig()
	cfg.Browser.BaseURL = "https://app.example"
	return fs, buf, tui.NewOutput(buf, OutputText), cfg
}

func TestRunReplay_AllStepsPass(t *testing.T) {
	fs, buf, out, cfg := replayFixture(t)
	p := testutil.NewPage("#user", "#submit")
	var opts browser.Options

	err := runReplay(context.Background(), out, OutputText, fs, launcherFor(p, &opts), cfg, &ReplayFlags{}, "login.txt")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.example/login"}, p.Visited())
	assert.Equal(t, []string{"fill #user alice", "click #submit"}, p.Log())
	assert.True(t, p.Closed())
	assert.True(t, opts.Headless)
	assert.Equal(t, cfg.Browser.NavigationTimeout, opts.NavigationTimeout)
	assert.Contains(t, buf.String(), "2. fill #user via id #user")
	assert.Contains(t, buf.String(), "3 passed, 0 failed, 0 skipped")
}

func TestRunReplay_StepFails(t *testing.T) {
	fs, buf, out, cfg := replayFixture(t)
	p := testutil.NewPage("#user")
	var opts browser.Options

	err := runReplay(context.Background(), out, OutputText, fs, launcherFor(p, &opts), cfg, &ReplayFlags{}, "login.txt")

	require.ErrorIs(t, err, errors.ErrLocatorNotFound)
	assert.True(t, p.Closed(), "browser is closed even when a step fails")
	assert.Contains(t, buf.String(), "✗ 3. click #submit")
	assert.Contains(t, buf.String(), "2 passed, 1 failed, 0 skipped")
}

func TestRunReplay_LaunchFails(t *testing.T) {
	fs, _, out, cfg := replayFixture(t)
	launch := func(context.Context, browser.Options, zerolog.Logger) (replayBrowser, error) {
		return nil, errors.Wrap(errors.ErrBrowserUnavailable, testutil.ErrMockLaunch.Error())
	}

	err := runReplay(context.Background(), out, OutputText, fs, launch, cfg, &ReplayFlags{}, "login.txt")

	require.ErrorIs(t, err, errors.ErrBrowserUnavailable)
}

func TestRunReplay_MissingRecording(t *testing.T) {
	fs, _, out, cfg := replayFixture(t)
	p := testutil.NewPage()
	var opts browser.Options

	err := runReplay(context.Background(), out, OutputText, fs, launcherFor(p, &opts), cfg, &ReplayFlags{}, "nope.txt")

	require.ErrorIs(t, err, errors.ErrRecordingRead)
	assert.False(t, p.Closed(), "the browser is never launched")
}

func TestRunReplay_JSON(t *testing.T) {
	fs, buf, _, cfg := replayFixture(t)
	var opts browser.Options

	err := runReplay(context.Background(), tui.NewOutput(buf, OutputJSON), OutputJSON, fs,
		launcherFor(testutil.NewPage("#user", "#submit"), &opts), cfg, &ReplayFlags{}, "login.txt")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"passed": 3`)
	assert.Contains(t, buf.String(), `"type": "id"`)
}
