// Package scoring provides the deterministic text-quality analyzers for generated marketing copy.
// Every analyzer is a pure function of its inputs; the only state a Scorer holds is its
// immutable RuleSet.
package scoring

import (
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// baselineLabel is the synthetic pass entry inserted when no criterion passes
const baselineLabel = "기본 내용 구조"

// Scorer runs the analyzers against a fixed RuleSet
type Scorer struct {
	rules *RuleSet
}

// NewScorer creates a Scorer bound to the given rules; nil selects the default Korean tables.
func NewScorer(rules *RuleSet) *Scorer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Scorer{rules: rules}
}

// Rules returns the RuleSet the scorer was built with
func (s *Scorer) Rules() *RuleSet {
	return s.rules
}

var defaultScorer = NewScorer(nil)

// AnalyzeSEO scores content against the default Korean rules. See Scorer.AnalyzeSEO.
func AnalyzeSEO(content, title, keyword string) types.SEOResult {
	return defaultScorer.AnalyzeSEO(content, title, keyword)
}

// AnalyzeTrust scores content against the default Korean rules. See Scorer.AnalyzeTrust.
func AnalyzeTrust(content string) types.TrustResult {
	return defaultScorer.AnalyzeTrust(content)
}

// PredictPerformance scores content against the default Korean rules. See Scorer.PredictPerformance.
func PredictPerformance(content, title string, contentType types.ContentType, tone string) types.PerformanceResult {
	return defaultScorer.PredictPerformance(content, title, contentType, tone)
}

func passDetail(label string, points int) types.AnalysisDetail {
	return types.AnalysisDetail{Label: label, Status: types.StatusPass, Points: points}
}

func warnDetail(label string, points int, tip string) types.AnalysisDetail {
	return types.AnalysisDetail{Label: label, Status: types.StatusWarn, Points: points, Tip: tip}
}

func failDetail(label string, points int, tip string) types.AnalysisDetail {
	return types.AnalysisDetail{Label: label, Status: types.StatusFail, Points: points, Tip: tip}
}

// ensureBaselinePass prepends a zero-point pass entry when no detail passed
func ensureBaselinePass(details []types.AnalysisDetail) []types.AnalysisDetail {
	for _, d := range details {
		if d.Status == types.StatusPass {
			return details
		}
	}
	return append([]types.AnalysisDetail{passDetail(baselineLabel, 0)}, details...)
}

// runeLen is the character length used by every length rule
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// formatCount renders a count with thousands separators
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// truncateRunes returns at most n runes of s
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func intPtr(v int) *int {
	return &v
}
