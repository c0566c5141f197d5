// Package replay runs a parsed recording against a live page, finding every
// target through the locator catalog and the self-healing resolver.
package replay

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/recforge/internal/clock"
	rferrors "github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/locator"
	"github.com/mrz1836/recforge/internal/logging"
	"github.com/mrz1836/recforge/internal/recording"
	"github.com/mrz1836/recforge/internal/resolver"
)

// Navigator loads a URL in the page the resolver's browser drives.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// StepResult is the outcome of one replayed action.
type StepResult struct {
	Action    recording.Action  `json:"action"`
	URL       string            `json:"url,omitempty"`
	Strategy  *locator.Strategy `json:"strategy,omitempty"`
	FromCache bool              `json:"from_cache"`
	Elapsed   time.Duration     `json:"elapsed"`
	Err       error             `json:"-"`
	Error     string            `json:"error,omitempty"`
}

// OK reports whether the step succeeded.
func (s StepResult) OK() bool {
	return s.Err == nil
}

// Report summarizes a replay.
type Report struct {
	Steps   []StepResult  `json:"steps"`
	Passed  int           `json:"passed"`
	Failed  int           `json:"failed"`
	Skipped int           `json:"skipped"`
	Elapsed time.Duration `json:"elapsed"`
}

// Runner replays recordings.
type Runner struct {
	nav       Navigator
	resolver  *resolver.Resolver
	baseURL   string
	keepGoing bool
	clock     clock.Clock
	logger    zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithBaseURL resolves relative navigation targets against base.
func WithBaseURL(base string) Option {
	return func(r *Runner) {
		r.baseURL = base
	}
}

// WithKeepGoing continues after a failed step instead of stopping.
func WithKeepGoing(keep bool) Option {
	return func(r *Runner) {
		r.keepGoing = keep
	}
}

// WithClock sets the clock used for step timings.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithLogger sets the runner logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// New creates a Runner.
func New(nav Navigator, res *resolver.Resolver, opts ...Option) *Runner {
	r := &Runner{
		nav:      nav,
		resolver: res,
		clock:    clock.RealClock{},
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("component", "replay").Logger()
	return r
}

// Run replays actions in order. It returns the report and, when a step
// failed, the first failure.
func (r *Runner) Run(ctx context.Context, actions []recording.Action) (*Report, error) {
	start := r.clock.Now()
	report := &Report{Steps: make([]StepResult, 0, len(actions))}
	var firstErr error

	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			report.Skipped += len(actions) - i
			if firstErr == nil {
				firstErr = err
			}
			break
		}

		step := r.runStep(ctx, a)
		report.Steps = append(report.Steps, step)
		if step.OK() {
			report.Passed++
			continue
		}

		report.Failed++
		if firstErr == nil {
			firstErr = fmt.Errorf("step %d (%s): %w", a.SequenceID, a.Kind, step.Err)
		}
		if !r.keepGoing {
			report.Skipped += len(actions) - i - 1
			break
		}
	}

	report.Elapsed = clock.Since(r.clock, start)
	r.logger.Info().
		Int("passed", report.Passed).
		Int("failed", report.Failed).
		Int("skipped", report.Skipped).
		Dur("elapsed", report.Elapsed).
		Msg("replay finished")
	return report, firstErr
}

func (r *Runner) runStep(ctx context.Context, a recording.Action) StepResult {
	start := r.clock.Now()
	step := StepResult{Action: a}

	if a.Kind == recording.KindNavigate {
		target, err := ResolveURL(r.baseURL, a.ValueText())
		step.URL = target
		if err == nil {
			err = r.nav.Navigate(ctx, target)
		}
		return r.finish(step, start, err)
	}

	res, err := r.resolver.Resolve(ctx, locator.ForAction(a))
	if err != nil {
		return r.finish(step, start, err)
	}
	step.Strategy = &res.Strategy
	step.FromCache = res.FromCache
	return r.finish(step, start, Act(ctx, res.Element, a))
}

func (r *Runner) finish(step StepResult, start time.Time, err error) StepResult {
	a := step.Action
	step.Elapsed = clock.Since(r.clock, start)

	var ev *zerolog.Event
	if err != nil {
		step.Err = err
		step.Error = err.Error()
		ev = r.logger.Warn().Err(err)
	} else {
		ev = r.logger.Debug()
	}
	ev = ev.Int("seq", a.SequenceID).Str("kind", a.Kind.String())
	if a.HasSelector() {
		ev = ev.Str("selector", a.SelectorText()).
			Str("value", logging.SafeActionValue(a.SelectorText(), a.ValueText()))
	} else {
		ev = ev.Str("url", step.URL)
	}
	if step.Strategy != nil {
		ev = ev.Str("strategy", string(step.Strategy.Type)).Bool("from_cache", step.FromCache)
	}
	ev.Msg("replay step")
	return step
}

// Act performs a on a resolved element.
func Act(ctx context.Context, el resolver.Element, a recording.Action) error {
	switch a.Kind {
	case recording.KindClick:
		return el.Click(ctx)
	case recording.KindFill:
		return el.Fill(ctx, a.ValueText())
	case recording.KindSelect:
		return el.SelectOption(ctx, a.ValueText())
	case recording.KindCheck:
		return el.Check(ctx)
	case recording.KindPressKey:
		return el.Press(ctx, a.ValueText())
	case recording.KindNavigate:
	}
	return rferrors.Wrapf(rferrors.ErrUnsupportedAction, "%s on an element", a.Kind)
}

// ResolveURL resolves target against base. An empty target means base itself.
func ResolveURL(base, target string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return target, nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", rferrors.Wrapf(rferrors.ErrInvalidArgument, "base url %q: %v", base, err)
	}
	t, err := url.Parse(target)
	if err != nil {
		return "", rferrors.Wrapf(rferrors.ErrInvalidArgument, "navigation target %q: %v", target, err)
	}
	return b.ResolveReference(t).String(), nil
}
