// Package types provides type definitions for structured data used throughout the content engine.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Status is the outcome of a single scored criterion
type Status string

// Status values for AnalysisDetail
const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// AnalysisDetail is one scored criterion of an analyzer.
// Details are appended in evaluation order and that order is part of the result.
type AnalysisDetail struct {
	Label  string `json:"label"`
	Status Status `json:"status"`
	Points int    `json:"points"`        // Signed contribution actually applied
	Max    *int   `json:"max,omitempty"` // Ceiling for the criterion (performance only)
	Tip    string `json:"tip,omitempty"` // Remediation hint, only when Status != pass
}

// SEOResult is the output of the SEO analyzer
type SEOResult struct {
	Score        int              `json:"score"`
	Details      []AnalysisDetail `json:"details"`
	WordCount    int              `json:"word_count"`
	KeywordCount int              `json:"keyword_count"`
	HeadingCount int              `json:"heading_count"`
	Density      float64          `json:"density"`
}

// TrustResult is the output of the fact-check heuristic
type TrustResult struct {
	Score             int              `json:"score"`
	Details           []AnalysisDetail `json:"details"`
	ExaggerationCount int              `json:"exaggeration_count"`
	SourceCount       int              `json:"source_count"`
	HedgingCount      int              `json:"hedging_count"`
	LogicalFlowCount  int              `json:"logical_flow_count"`
}

// PerformanceResult is the output of the performance predictor
type PerformanceResult struct {
	Score      int              `json:"score"`
	Details    []AnalysisDetail `json:"details"`
	Grade      string           `json:"grade"`
	GradeLabel string           `json:"grade_label,omitempty"`
}

// QualityBreakdown holds the raw sub-scores that went into a composite score
type QualityBreakdown struct {
	SEO         int `json:"seo"`
	FactCheck   int `json:"fact_check"`
	Performance int `json:"performance"`
}

// CompositeQualityResult is the aggregated quality grade of one piece of content
type CompositeQualityResult struct {
	Score         int              `json:"score"`
	Grade         string           `json:"grade"`
	GradeLabel    string           `json:"grade_label"`
	Breakdown     QualityBreakdown `json:"breakdown"`
	Strengths     []string         `json:"strengths"`
	Issues        []string         `json:"issues"`
	TopSuggestion *string          `json:"top_suggestion"`
}

// QualityReport bundles every analyzer result for one piece of content.
// SEO is nil when the content type has no SEO concept.
type QualityReport struct {
	SEO         *SEOResult             `json:"seo"`
	FactCheck   *TrustResult           `json:"fact_check"`
	Performance *PerformanceResult     `json:"performance"`
	Quality     CompositeQualityResult `json:"quality"`
}
