package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/recforge/internal/config"
	"github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/tui"
)

const loginRecording = `navigate("/login")
fill("#user", "alice")
click("#submit")
`

type generateFixture struct {
	fs      afero.Fs
	buf     *bytes.Buffer
	env     *generateEnv
	cfg     *config.Config
	prompts []string
}

func newGenerateFixture(t *testing.T, format string) *generateFixture {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	f := &generateFixture{
		fs:  afero.NewMemMapFs(),
		buf: &bytes.Buffer{},
		cfg: config.DefaultConfig(),
	}
	f.env = &generateEnv{
		fs:     f.fs,
		out:    tui.NewOutput(f.buf, format),
		w:      f.buf,
		format: format,
		runID:  "run-1",
		prompt: func(def string) (string, error) {
			f.prompts = append(f.prompts, def)
			return "", errors.ErrInteractiveRequired
		},
	}
	return f
}

func (f *generateFixture) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(f.fs, path, []byte(content), 0o644))
}

func (f *generateFixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	return string(data)
}

func artifactPaths(class string) []string {
	return []string{
		filepath.Join("src/test/java/pages", class+".java"),
		filepath.Join("src/test/resources/features", class+".feature"),
		filepath.Join("src/test/java/steps", class+"Steps.java"),
	}
}

func TestRunGenerate_SingleRecording(t *testing.T) {
	f := newGenerateFixture(t, OutputText)
	f.write(t, "login.txt", loginRecording)

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{Feature: "login", StoryID: "AUTH-12"}, []string{"login.txt"})
	require.NoError(t, err)

	for _, p := range artifactPaths("Login") {
		exists, err := afero.Exists(f.fs, p)
		require.NoError(t, err)
		assert.True(t, exists, p)
	}
	assert.Contains(t, f.read(t, artifactPaths("Login")[0]), "public class Login")
	assert.Contains(t, f.buf.String(), "✓ generated Login from login.txt (3 actions)")
	assert.Empty(t, f.prompts)
}

func TestRunGenerate_PromptsForFeatureName(t *testing.T) {
	f := newGenerateFixture(t, OutputText)
	f.write(t, "recordings/check-out.txt", loginRecording)
	f.env.prompt = func(def string) (string, error) {
		f.prompts = append(f.prompts, def)
		return "cart", nil
	}

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{}, []string{"recordings/check-out.txt"})
	require.NoError(t, err)

	assert.Equal(t, []string{"checkOut"}, f.prompts)
	exists, err := afero.Exists(f.fs, artifactPaths("Cart")[0])
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRunGenerate_NonInteractiveWithoutFeature(t *testing.T) {
	f := newGenerateFixture(t, OutputText)
	f.write(t, "login.txt", loginRecording)

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{}, []string{"login.txt"})

	require.ErrorIs(t, err, errors.ErrInteractiveRequired)
	assert.Contains(t, err.Error(), "--feature")
}

func TestRunGenerate_Batch(t *testing.T) {
	f := newGenerateFixture(t, OutputText)
	f.write(t, "rec/user-login.txt", loginRecording)
	f.write(t, "rec/search.spec.txt", "navigate(\"/search\")\nfill(\"#q\", \"shoes\")\npress(\"#q\", \"Enter\")\n")
	f.cfg.Generate.Concurrency = 2

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{}, []string{"rec/user-login.txt", "rec/search.spec.txt"})
	require.NoError(t, err)

	for _, class := range []string{"UserLogin", "Search"} {
		for _, p := range artifactPaths(class) {
			exists, err := afero.Exists(f.fs, p)
			require.NoError(t, err)
			assert.True(t, exists, p)
		}
	}
	assert.Empty(t, f.prompts, "batches never prompt")
}

func TestRunGenerate_BatchContinuesPastFailures(t *testing.T) {
	f := newGenerateFixture(t, OutputText)
	f.write(t, "good.txt", loginRecording)
	f.write(t, "empty.txt", "")

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{}, []string{"good.txt", "empty.txt"})

	require.ErrorIs(t, err, errors.ErrEmptyRecording)
	assert.Contains(t, err.Error(), "1 of 2 recordings failed")
	exists, existsErr := afero.Exists(f.fs, artifactPaths("Good")[0])
	require.NoError(t, existsErr)
	assert.True(t, exists)
	assert.Contains(t, f.buf.String(), "✗ empty.txt")
}

func TestRunGenerate_FeatureWithBatchConflicts(t *testing.T) {
	f := newGenerateFixture(t, OutputText)

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{Feature: "login"}, []string{"a.txt", "b.txt"})

	require.ErrorIs(t, err, errors.ErrConflictingFlags)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRunGenerate_DuplicateClassInBatch(t *testing.T) {
	f := newGenerateFixture(t, OutputText)

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{}, []string{"a/login.txt", "b/login.txt"})

	require.ErrorIs(t, err, errors.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "both generate Login")
}

func TestRunGenerate_DryRunWritesNothing(t *testing.T) {
	f := newGenerateFixture(t, OutputText)
	f.write(t, "login.txt", loginRecording)

	err := runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{Feature: "login", DryRun: true}, []string{"login.txt"})
	require.NoError(t, err)

	exists, err := afero.DirExists(f.fs, "src")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Contains(t, f.buf.String(), "// ===== Login.java =====")
	assert.Contains(t, f.buf.String(), "// ===== Login.feature =====")
	assert.Contains(t, f.buf.String(), "// ===== LoginSteps.java =====")
}

func TestRunGenerate_Merge(t *testing.T) {
	f := newGenerateFixture(t, OutputText)
	f.write(t, "login.txt", loginRecording)
	f.write(t, "help.txt", "navigate(\"/login\")\nclick(\"#help\")\n")

	require.NoError(t, runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{Feature: "login"}, []string{"login.txt"}))
	require.NoError(t, runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{Feature: "login", Merge: true}, []string{"help.txt"}))

	page := f.read(t, artifactPaths("Login")[0])
	assert.Contains(t, page, "fillElement2(")
	assert.Contains(t, page, "ELEMENT_3")
	assert.Contains(t, page, "clickElement5(")
	assert.Contains(t, f.buf.String(), "✓ merged Login from help.txt")
}

func TestRunGenerate_JSON(t *testing.T) {
	f := newGenerateFixture(t, OutputJSON)
	f.write(t, "login.txt", loginRecording)

	require.NoError(t, runGenerate(context.Background(), f.env, f.cfg, &GenerateFlags{Feature: "login"}, []string{"login.txt"}))

	var report struct {
		RunID   string `json:"run_id"`
		Results []struct {
			ClassName string `json:"class_name"`
			Actions   int    `json:"actions"`
			Paths     struct {
				PageObject string `json:"page_object"`
			} `json:"paths"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(f.buf.Bytes(), &report))
	assert.Equal(t, "run-1", report.RunID)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Login", report.Results[0].ClassName)
	assert.Equal(t, 3, report.Results[0].Actions)
	assert.Equal(t, artifactPaths("Login")[0], report.Results[0].Paths.PageObject)
}

func TestFeatureNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"login.txt", "login"},
		{"recordings/user-login.spec.txt", "userLogin"},
		{"/abs/Checkout_Flow.txt", "checkoutFlow"},
		{"myAccountPage", "myAccountPage"},
		{"café-menu.txt", "cafeMenu"},
		{"---.txt", ""},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FeatureNameFromPath(tc.path))
		})
	}
}
