// Package generation drafts marketing copy through an LLM and scores every draft.
package generation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/llm"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/scoring"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// Service drafts copy for each requested content type and attaches a quality report
type Service struct {
	client      llm.Client
	scorer      *scoring.Scorer
	tier        llm.ModelTier
	temperature float32
}

// Option configures a Service
type Option func(*Service)

// WithScorer replaces the default Korean scorer
func WithScorer(s *scoring.Scorer) Option {
	return func(svc *Service) {
		if s != nil {
			svc.scorer = s
		}
	}
}

// WithTier selects the model tier used for drafting
func WithTier(tier llm.ModelTier) Option {
	return func(svc *Service) {
		svc.tier = tier
	}
}

// WithTemperature overrides the drafting temperature
func WithTemperature(t float32) Option {
	return func(svc *Service) {
		svc.temperature = t
	}
}

// NewService creates a generation service
func NewService(client llm.Client, opts ...Option) *Service {
	svc := &Service{
		client:      client,
		scorer:      scoring.NewScorer(nil),
		tier:        llm.TierStandard,
		temperature: llm.DefaultTemperature,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Model returns the provider model name used for drafting
func (s *Service) Model() string {
	return s.client.GetModel(s.tier)
}

// Generate drafts and scores every requested content type concurrently.
// An empty type list drafts a blog post. Any failing type fails the request.
func (s *Service) Generate(ctx context.Context, req *types.GenerateRequest) (map[types.ContentType]*types.GeneratedContent, error) {
	return s.GenerateEach(ctx, req, nil)
}

// GenerateEach is Generate with a callback invoked as each type finishes.
// Calls to onResult are serialized.
func (s *Service) GenerateEach(ctx context.Context, req *types.GenerateRequest, onResult func(*types.GeneratedContent)) (map[types.ContentType]*types.GeneratedContent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	contentTypes := uniqueTypes(req.Types)
	system, err := BuildSystemPrompt(req.Details)
	if err != nil {
		return nil, err
	}

	results := make(map[types.ContentType]*types.GeneratedContent, len(contentTypes))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, ct := range contentTypes {
		g.Go(func() error {
			result, err := s.generateOne(gCtx, system, ct, req)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			results[ct] = result
			if onResult != nil {
				onResult(result)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) generateOne(ctx context.Context, system string, ct types.ContentType, req *types.GenerateRequest) (*types.GeneratedContent, error) {
	user, err := BuildUserPrompt(ct, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := s.client.GenerateContent(ctx, llm.Prompt{
		System:      system,
		User:        user,
		Temperature: s.temperature,
	}, s.tier)
	if err != nil {
		log.Printf("[generate] keyword=%q type=%s model=%s failed after %s: %v", req.Keyword, ct, s.Model(), time.Since(start).Round(time.Millisecond), err)
		return nil, &ProviderError{ContentType: ct, Message: "generation failed", Cause: err}
	}

	content := strings.TrimSpace(llm.StripMarkdownFence(raw))
	if content == "" {
		return nil, &ProviderError{ContentType: ct, Message: "empty response"}
	}
	log.Printf("[generate] keyword=%q type=%s model=%s chars=%d in %s", req.Keyword, ct, s.Model(), len([]rune(content)), time.Since(start).Round(time.Millisecond))

	title := ExtractTitle(content)
	report, err := s.scorer.Evaluate(ctx, scoring.Input{
		Content:     content,
		Title:       title,
		Keyword:     req.Keyword,
		ContentType: ct,
		Tone:        req.Tone,
		SkipSEO:     !ct.HasSEO(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to score %s: %w", ct, err)
	}

	return &types.GeneratedContent{
		Type:    ct,
		Title:   title,
		Content: content,
		Report:  report,
	}, nil
}

// uniqueTypes drops repeats, defaulting to a blog post when none are given
func uniqueTypes(in []types.ContentType) []types.ContentType {
	if len(in) == 0 {
		return []types.ContentType{types.ContentBlog}
	}
	seen := make(map[types.ContentType]bool, len(in))
	out := make([]types.ContentType, 0, len(in))
	for _, ct := range in {
		if !seen[ct] {
			seen[ct] = true
			out = append(out, ct)
		}
	}
	return out
}

// ExtractTitle returns the first "# " heading of a draft, or else its first
// non-empty line with markdown markers removed.
func ExtractTitle(content string) string {
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		trimmed = strings.TrimLeft(trimmed, "#>*- ")
		trimmed = strings.TrimSpace(strings.Trim(trimmed, "*_"))
		if trimmed != "" {
			return trimmed
		}
	}
	return ""
}
