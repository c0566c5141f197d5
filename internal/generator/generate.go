package generator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrz1836/recforge/internal/ctxutil"
	rferrors "github.com/mrz1836/recforge/internal/errors"
)

// Generate plans and renders the artifact set for req.
func Generate(ctx context.Context, req Request, opts Options) (*ArtifactSet, error) {
	return GenerateMerged(ctx, req, opts, Existing{})
}

// GenerateMerged is Generate for a page that may already have artifacts. When
// existing is empty it behaves exactly like Generate.
func GenerateMerged(ctx context.Context, req Request, opts Options, existing Existing) (*ArtifactSet, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if !existing.Empty() {
		opts = MergeOptions(existing, opts)
	}

	plan, err := BuildPlan(req, opts)
	if err != nil {
		return nil, rferrors.Wrap(err, "failed to plan artifacts")
	}
	set, err := RenderMerged(plan, existing)
	if err != nil {
		return nil, rferrors.Wrap(err, "failed to render artifacts")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "generator").Logger()
	for _, w := range plan.Warnings {
		logger.Warn().Str("code", w.Code).Int("line", w.Line).Msg(w.Message)
	}
	logger.Debug().
		Str("class", plan.ClassName).
		Int("constants", len(plan.Constants)).
		Int("methods", len(plan.Methods)).
		Int("steps", len(plan.Steps)).
		Bool("merged", !existing.Empty()).
		Msg("artifacts rendered")
	return set, nil
}
