package recording

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/mrz1836/recforge/internal/ctxutil"
	rferrors "github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/logging"
)

// Warning codes surfaced to callers.
const (
	// WarnEmptyRecording means no action was recognized and a skeleton navigation
	// was synthesized in its place.
	WarnEmptyRecording = "empty_recording"
)

// Warning is a non-fatal parse finding that callers must surface to the user.
type Warning struct {
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of parsing one recording.
type Result struct {
	Actions      []Action  `json:"actions"`
	Warnings     []Warning `json:"warnings,omitempty"`
	LinesScanned int       `json:"lines_scanned"`
	LinesSkipped int       `json:"lines_skipped"`
}

// quoted matches one quoted literal in ", ' or ` with backslash escapes.
const quoted = `("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'|` + "`(?:[^`\\\\]|\\\\.)*`" + `)`

//nolint:gochecknoglobals // compiled once, immutable
var quotedRe = regexp.MustCompile(quoted)

// callPattern builds the regex for a call named by one of names with argc
// quoted arguments. Trailing option arguments (e.g. `{ force: true }`) are ignored.
func callPattern(argc int, names ...string) *regexp.Regexp {
	args := quoted
	for i := 1; i < argc; i++ {
		args += `\s*,\s*` + quoted
	}
	return regexp.MustCompile(`(?:^|[^\w$])(?:` + strings.Join(names, "|") + `)\s*\(\s*` + args + `\s*(?:,[^)]*)?\)`)
}

// linePattern pairs a kind with its structural pattern.
type linePattern struct {
	kind Kind
	re   *regexp.Regexp
}

// patterns are tested in this order; the first match wins.
//
//nolint:gochecknoglobals // compiled once, immutable
var patterns = []linePattern{
	{KindNavigate, callPattern(1, "navigate", "goto")},
	{KindClick, callPattern(1, "click")},
	{KindFill, callPattern(2, "fill")},
	{KindSelect, callPattern(2, "selectOption")},
	{KindCheck, callPattern(1, "check")},
	{KindPressKey, callPattern(2, "press")},
}

// Parse scans raw line by line and returns the recognized actions in order.
//
// Unrecognized lines are skipped. A recording with text but no recognized
// action, whitespace-only text included, yields a single synthesized Navigate
// with an empty target plus a WarnEmptyRecording warning. Input with no lines
// at all is ErrEmptyRecording.
func Parse(raw string) (*Result, error) {
	return parse(strings.NewReader(raw))
}

// ParseReader parses a recording streamed from r, logging surfaced warnings
// through the logger carried by ctx.
func ParseReader(ctx context.Context, r io.Reader) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	res, err := parse(r)
	if err != nil {
		return nil, err
	}
	logResult(zerolog.Ctx(ctx), res)
	return res, nil
}

// ParseFile reads and parses the recording at path on fs.
func ParseFile(ctx context.Context, fs afero.Fs, path string) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, rferrors.Wrapf(rferrors.ErrRecordingRead, "%s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	res, err := ParseReader(ctx, f)
	if err != nil {
		return nil, rferrors.Wrapf(err, "failed to parse recording %s", path)
	}
	return res, nil
}

func parse(r io.Reader) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	res := &Result{}
	seq := 0

	for scanner.Scan() {
		res.LinesScanned++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isComment(trimmed) {
			res.LinesSkipped++
			continue
		}

		action, ok := matchLine(line)
		if !ok {
			res.LinesSkipped++
			continue
		}
		seq++
		action.SequenceID = seq
		action.Line = res.LinesScanned
		res.Actions = append(res.Actions, action)
	}
	if err := scanner.Err(); err != nil {
		return nil, rferrors.Wrap(rferrors.ErrRecordingRead, err.Error())
	}

	if res.LinesScanned == 0 {
		return nil, rferrors.ErrEmptyRecording
	}

	if len(res.Actions) == 0 {
		res.Actions = []Action{{SequenceID: 1, Kind: KindNavigate, Value: strPtr("")}}
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnEmptyRecording,
			Message: "no recognizable actions in recording; generated a navigation-only skeleton",
		})
	}
	return res, nil
}

// matchLine tests line against every pattern in precedence order. Patterns
// run over a copy whose literal bodies are blanked, so call text typed inside
// an argument is never mistaken for the line's own call. Arguments are then
// cut from the original line at the same offsets.
func matchLine(line string) (Action, bool) {
	masked := maskLiterals(line)
	for _, p := range patterns {
		loc := p.re.FindStringSubmatchIndex(masked)
		if loc == nil {
			continue
		}
		args := make([]string, 0, len(loc)/2-1)
		for i := 2; i+1 < len(loc); i += 2 {
			args = append(args, line[loc[i]:loc[i+1]])
		}
		return buildAction(p.kind, args), true
	}
	return Action{}, false
}

// maskLiterals replaces the body of every quoted literal in line with
// underscores, keeping the quote characters and every byte offset.
func maskLiterals(line string) string {
	return quotedRe.ReplaceAllStringFunc(line, func(lit string) string {
		return lit[:1] + strings.Repeat("_", len(lit)-2) + lit[len(lit)-1:]
	})
}

func buildAction(kind Kind, args []string) Action {
	a := Action{Kind: kind}
	switch kind {
	case KindNavigate:
		a.Value = strPtr(unquote(args[0]))
	case KindClick, KindCheck:
		a.Selector = strPtr(unquote(args[0]))
	case KindFill, KindSelect, KindPressKey:
		a.Selector = strPtr(unquote(args[0]))
		a.Value = strPtr(unquote(args[1]))
	}
	return a
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#")
}

// unquote strips the surrounding quote characters of a matched literal and
// resolves backslash escapes, so the action mirrors the recorded text.
func unquote(lit string) string {
	if len(lit) < 2 {
		return lit
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i == len(body)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String()
}

func logResult(logger *zerolog.Logger, res *Result) {
	l := logger.With().Str("component", "recording").Logger()
	for _, w := range res.Warnings {
		l.Warn().Str("code", w.Code).Int("line", w.Line).Msg(w.Message)
	}
	for _, a := range res.Actions {
		l.Debug().
			Int("seq", a.SequenceID).
			Str("kind", a.Kind.String()).
			Str("selector", a.SelectorText()).
			Str("value", logging.SafeActionValue(a.SelectorText(), a.ValueText())).
			Msg("parsed action")
	}
	l.Debug().
		Int("actions", len(res.Actions)).
		Int("lines_scanned", res.LinesScanned).
		Int("lines_skipped", res.LinesSkipped).
		Msg("recording parsed")
}
