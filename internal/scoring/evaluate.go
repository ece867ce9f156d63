package scoring

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// Input is one piece of copy to evaluate
type Input struct {
	Content     string
	Title       string
	Keyword     string
	ContentType types.ContentType
	Tone        string
	// SkipSEO leaves the SEO result nil. SEO then counts as 0 in the score and
	// produces no strength, issue or top suggestion.
	SkipSEO bool
}

// Evaluate runs the three analyzers concurrently and aggregates them once all
// have finished. It returns ctx.Err() if the context is cancelled before the join.
func (s *Scorer) Evaluate(ctx context.Context, in Input) (*types.QualityReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		seo   *types.SEOResult
		trust *types.TrustResult
		perf  *types.PerformanceResult
	)

	// Each branch writes its own variable, so no lock is needed before Wait.
	g, gCtx := errgroup.WithContext(ctx)
	if !in.SkipSEO {
		g.Go(func() error {
			r := s.AnalyzeSEO(in.Content, in.Title, in.Keyword)
			seo = &r
			return gCtx.Err()
		})
	}
	g.Go(func() error {
		r := s.AnalyzeTrust(in.Content)
		trust = &r
		return gCtx.Err()
	})
	g.Go(func() error {
		r := s.PredictPerformance(in.Content, in.Title, in.ContentType, in.Tone)
		perf = &r
		return gCtx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &types.QualityReport{
		SEO:         seo,
		FactCheck:   trust,
		Performance: perf,
		Quality:     aggregate(seo, trust, perf, !in.SkipSEO),
	}, nil
}

// Evaluate scores in with the default Korean rules. See Scorer.Evaluate.
func Evaluate(ctx context.Context, in Input) (*types.QualityReport, error) {
	return defaultScorer.Evaluate(ctx, in)
}
