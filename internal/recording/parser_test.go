package recording_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rferrors "github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/recording"
)

func TestParse_LoginScenario(t *testing.T) {
	raw := `navigate("/login")
fill("#user", "alice")
click("#submit")
`
	res, err := recording.Parse(raw)
	require.NoError(t, err)
	require.Len(t, res.Actions, 3)
	assert.Empty(t, res.Warnings)

	nav := res.Actions[0]
	assert.Equal(t, 1, nav.SequenceID)
	assert.Equal(t, recording.KindNavigate, nav.Kind)
	assert.False(t, nav.HasSelector())
	assert.Equal(t, "/login", nav.ValueText())
	assert.Equal(t, "navigateTo", nav.MethodName())

	fill := res.Actions[1]
	assert.Equal(t, 2, fill.SequenceID)
	assert.Equal(t, recording.KindFill, fill.Kind)
	assert.Equal(t, "#user", fill.SelectorText())
	assert.Equal(t, "alice", fill.ValueText())
	assert.Equal(t, "fillElement2", fill.MethodName())
	assert.Equal(t, "user enters {string} into element 2", fill.StepText())

	click := res.Actions[2]
	assert.Equal(t, 3, click.SequenceID)
	assert.Equal(t, "clickElement3", click.MethodName())
	assert.Equal(t, "user clicks on element 3", click.StepText())
	assert.Nil(t, click.Value)
}

func TestParse_AllKinds(t *testing.T) {
	raw := `await page.goto('https://shop.example/cart');
await page.click('text=Checkout');
await page.fill('[name="email"]', 'a@b.c');
await page.selectOption('#country', 'NL');
await page.check('#terms');
await page.press('#email', 'Enter');
`
	res, err := recording.Parse(raw)
	require.NoError(t, err)

	got := make([]recording.Kind, 0, len(res.Actions))
	for _, a := range res.Actions {
		got = append(got, a.Kind)
	}
	assert.Equal(t, recording.Kinds(), got)

	assert.Equal(t, "https://shop.example/cart", res.Actions[0].ValueText())
	assert.Equal(t, `[name="email"]`, res.Actions[2].SelectorText())
	assert.Equal(t, "NL", res.Actions[3].ValueText())
	assert.Equal(t, "selectElement4", res.Actions[3].MethodName())
	assert.Equal(t, "checkElement5", res.Actions[4].MethodName())
	assert.Equal(t, "user checks element 5", res.Actions[4].StepText())
	assert.Equal(t, "pressKeyElement6", res.Actions[5].MethodName())
	assert.Equal(t, "user presses {string} on element 6", res.Actions[5].StepText())
	assert.Equal(t, "Enter", res.Actions[5].ValueText())
}

func TestParse_SkippedLinesDoNotConsumeIDs(t *testing.T) {
	raw := `// recorded 2026-10-15
navigate("/")
console.log("noise")

# another comment with click("#ignored")
click("#a")
dblclick("#b")
uncheck("#c")
click("#d")
`
	res, err := recording.Parse(raw)
	require.NoError(t, err)
	require.Len(t, res.Actions, 3)

	assert.Equal(t, []int{1, 2, 3}, []int{res.Actions[0].SequenceID, res.Actions[1].SequenceID, res.Actions[2].SequenceID})
	assert.Equal(t, "#a", res.Actions[1].SelectorText())
	assert.Equal(t, 6, res.Actions[1].Line)
	assert.Equal(t, "#d", res.Actions[2].SelectorText())
	assert.Equal(t, 9, res.LinesScanned)
	assert.Equal(t, 6, res.LinesSkipped)
}

func TestParse_FirstMatchWinsOnAmbiguousLine(t *testing.T) {
	// Both fill and click appear; click precedes fill in the fixed order.
	res, err := recording.Parse(`page.fill("#q", "x"); page.click("#go")`)
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)

	assert.Equal(t, recording.KindClick, res.Actions[0].Kind)
	assert.Equal(t, "#go", res.Actions[0].SelectorText())
}

func TestParse_EmptyValueRetained(t *testing.T) {
	res, err := recording.Parse(`fill("#search", "")`)
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)

	require.NotNil(t, res.Actions[0].Value)
	assert.Empty(t, *res.Actions[0].Value)
}

func TestParse_EscapesResolvedNotReEscaped(t *testing.T) {
	res, err := recording.Parse(`fill("input[name=\"q\"]", "line1\nsaid \"hi\"\tC:\\tmp")`)
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)

	assert.Equal(t, `input[name="q"]`, res.Actions[0].SelectorText())
	assert.Equal(t, "line1\nsaid \"hi\"\tC:\\tmp", res.Actions[0].ValueText())
}

func TestParse_TrailingOptionsIgnored(t *testing.T) {
	res, err := recording.Parse(`await page.click("#save", { force: true });`)
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, "#save", res.Actions[0].SelectorText())
}

func TestParse_NoActionsSynthesizesSkeleton(t *testing.T) {
	res, err := recording.Parse("hello\nworld\n")
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	require.Len(t, res.Warnings, 1)

	a := res.Actions[0]
	assert.Equal(t, recording.KindNavigate, a.Kind)
	assert.Equal(t, 1, a.SequenceID)
	assert.Empty(t, a.ValueText())
	assert.Equal(t, recording.WarnEmptyRecording, res.Warnings[0].Code)
}

func TestParse_WhitespaceOnlySynthesizesSkeleton(t *testing.T) {
	res, err := recording.Parse("  \n\t\n")
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, recording.KindNavigate, res.Actions[0].Kind)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, recording.WarnEmptyRecording, res.Warnings[0].Code)
}

func TestParse_NoInputIsEmpty(t *testing.T) {
	_, err := recording.Parse("")
	require.ErrorIs(t, err, rferrors.ErrEmptyRecording)
}

func TestParse_CallTextInsideLiteral(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantKind     recording.Kind
		wantSelector string
		wantValue    string
	}{
		{"click typed into fill", `page.fill("#editor", "click('#x')")`, recording.KindFill, "#editor", "click('#x')"},
		{"navigate typed into fill", `page.fill("#url", "navigate('/evil')")`, recording.KindFill, "#url", "navigate('/evil')"},
		{"call in selector", `click("button:has-text('fill(\"a\", \"b\")')")`, recording.KindClick, `button:has-text('fill("a", "b")')`, ""},
		{"press value looks like goto", "press(`#q`, `goto('/x')`)", recording.KindPressKey, "#q", "goto('/x')"},
		{"multibyte text before call", `fill("#名前", "click(\"#x\") 日本")`, recording.KindFill, "#名前", `click("#x") 日本`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := recording.Parse(tc.line)
			require.NoError(t, err)
			require.Len(t, res.Actions, 1)
			require.Empty(t, res.Warnings)

			a := res.Actions[0]
			assert.Equal(t, tc.wantKind, a.Kind)
			assert.Equal(t, tc.wantSelector, a.SelectorText())
			assert.Equal(t, tc.wantValue, a.ValueText())
		})
	}
}

func TestParse_CRLF(t *testing.T) {
	res, err := recording.Parse("navigate(\"/a\")\r\nclick(\"#b\")\r\n")
	require.NoError(t, err)
	require.Len(t, res.Actions, 2)
	assert.Equal(t, "#b", res.Actions[1].SelectorText())
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "rec/login.rec", []byte(`navigate("/login")`+"\n"+`click("#go")`), 0o644))

	res, err := recording.ParseFile(context.Background(), fs, "rec/login.rec")
	require.NoError(t, err)
	assert.Len(t, res.Actions, 2)

	_, err = recording.ParseFile(context.Background(), fs, "rec/missing.rec")
	require.ErrorIs(t, err, rferrors.ErrRecordingRead)
}

func TestParseReader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := recording.ParseFile(ctx, afero.NewMemMapFs(), "any")
	require.ErrorIs(t, err, context.Canceled)
}

func TestKind_TakesValue(t *testing.T) {
	assert.True(t, recording.KindFill.TakesValue())
	assert.True(t, recording.KindPressKey.TakesValue())
	assert.False(t, recording.KindClick.TakesValue())
	assert.False(t, recording.KindCheck.TakesValue())
}
