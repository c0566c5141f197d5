package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/recforge/internal/clock"
	"github.com/mrz1836/recforge/internal/constants"
	rferrors "github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/locator"
)

// Resolution is a successful lookup.
type Resolution struct {
	Element   Element
	Strategy  locator.Strategy
	Index     int
	FromCache bool
	Elapsed   time.Duration
}

// Resolver walks candidate lists against a Browser. It is safe for concurrent
// use; two callers racing on the same key both search and write the same index.
type Resolver struct {
	browser      Browser
	cache        *Cache
	probeTimeout time.Duration
	clock        clock.Clock
	logger       zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProbeTimeout bounds the visibility wait per candidate.
func WithProbeTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.probeTimeout = d
		}
	}
}

// WithClock sets the clock used for elapsed-time reporting.
func WithClock(c clock.Clock) Option {
	return func(r *Resolver) {
		r.clock = c
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver. A nil cache gets a private cache of the default size.
func New(browser Browser, cache *Cache, opts ...Option) *Resolver {
	if cache == nil {
		cache = NewCache(constants.DefaultCacheSize)
	}
	r := &Resolver{
		browser:      browser,
		cache:        cache,
		probeTimeout: constants.DefaultProbeTimeout,
		clock:        clock.RealClock{},
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With().Str("component", "resolver").Logger()
	return r
}

// Cache returns the cache the resolver reads and writes.
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the first candidate that yields a visible element.
//
// A cached winner is tried first with a single zero-wait probe. If it no
// longer resolves, the entry is dropped and the full list is searched. When
// every candidate fails the error is a *NotFoundError.
func (r *Resolver) Resolve(ctx context.Context, candidates []locator.Strategy) (*Resolution, error) {
	if len(candidates) == 0 {
		return nil, rferrors.ErrNoCandidates
	}
	start := r.clock.Now()
	key := locator.CacheKey(candidates)

	if res, ok := r.checkCache(ctx, key, candidates, start); ok {
		return res, nil
	}

	attempts := make([]Attempt, 0, len(candidates))
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, rferrors.Wrap(err, "resolution interrupted")
		}
		el, attempt, ok := r.try(ctx, c)
		if !ok {
			attempts = append(attempts, attempt)
			continue
		}

		r.cache.Put(key, i)
		elapsed := clock.Since(r.clock, start)
		r.logger.Debug().
			Int("index", i).
			Str("strategy", string(c.Type)).
			Str("expression", c.Expression).
			Int("failed_before", len(attempts)).
			Dur("elapsed", elapsed).
			Msg("locator resolved")
		return &Resolution{Element: el, Strategy: c, Index: i, Elapsed: elapsed}, nil
	}

	nf := &NotFoundError{Attempts: attempts, Elapsed: clock.Since(r.clock, start)}
	r.logger.Warn().Int("attempts", len(attempts)).Dur("elapsed", nf.Elapsed).Msg("no candidate resolved")
	return nil, nf
}

func (r *Resolver) checkCache(ctx context.Context, key string, candidates []locator.Strategy, start time.Time) (*Resolution, bool) {
	idx, ok := r.cache.Get(key)
	if !ok {
		return nil, false
	}
	if idx >= 0 && idx < len(candidates) {
		el, visible, err := r.browser.Visible(ctx, candidates[idx])
		if err == nil && visible {
			return &Resolution{
				Element:   el,
				Strategy:  candidates[idx],
				Index:     idx,
				FromCache: true,
				Elapsed:   clock.Since(r.clock, start),
			}, true
		}
	}
	r.cache.Invalidate(key, idx)
	r.logger.Debug().Int("index", idx).Msg("stale cache entry dropped")
	return nil, false
}

// try runs the zero-wait count and, only when something matched, the bounded wait.
func (r *Resolver) try(ctx context.Context, c locator.Strategy) (Element, Attempt, bool) {
	n, err := r.browser.Count(ctx, c)
	if err != nil {
		return nil, Attempt{Strategy: c, Reason: ReasonError, Err: err}, false
	}
	if n == 0 {
		return nil, Attempt{Strategy: c, Reason: ReasonNotFound}, false
	}

	el, err := r.browser.WaitVisible(ctx, c, r.probeTimeout)
	switch {
	case err == nil:
		return el, Attempt{}, true
	case errors.Is(err, ErrNotVisible):
		return nil, Attempt{Strategy: c, Reason: ReasonNotVisible, Err: err}, false
	case errors.Is(err, ErrWaitTimeout), errors.Is(err, context.DeadlineExceeded):
		return nil, Attempt{Strategy: c, Reason: ReasonTimedOut, Err: err}, false
	default:
		return nil, Attempt{Strategy: c, Reason: ReasonError, Err: err}, false
	}
}

// Exists reports whether any candidate has a visible match right now. It never
// waits and never reads or writes the cache.
func (r *Resolver) Exists(ctx context.Context, candidates []locator.Strategy) bool {
	for _, c := range candidates {
		if ctx.Err() != nil {
			return false
		}
		if _, visible, err := r.browser.Visible(ctx, c); err == nil && visible {
			return true
		}
	}
	return false
}
