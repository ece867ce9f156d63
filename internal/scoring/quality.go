package scoring

import (
	"fmt"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// Aggregation weights in integer percent; they sum to 100.
const (
	WeightSEO         = 30
	WeightTrust       = 35
	WeightPerformance = 35
)

// Area names used by the top suggestion
const (
	areaSEO         = "SEO"
	areaTrust       = "신뢰도"
	areaPerformance = "성과 예측"
)

// suggestionThreshold is the sub-score below which a top suggestion is given
const suggestionThreshold = 70

var areaSuggestions = map[string]string{
	areaSEO:         "키워드 밀도, 소제목 구조, 콘텐츠 길이를 개선하세요",
	areaTrust:       "출처 추가, 과장 표현 제거, 논리적 연결어를 사용하세요",
	areaPerformance: "후킹 문구, CTA, 감정적 요소를 강화하세요",
}

// Weights returns the aggregation weights as fractions
func Weights() (seo, trust, performance float64) {
	return float64(WeightSEO) / 100, float64(WeightTrust) / 100, float64(WeightPerformance) / 100
}

// AggregateQuality combines the three analyzer results into one composite grade.
// A nil input contributes a sub-score of 0 and is not renormalized away.
func AggregateQuality(seo *types.SEOResult, trust *types.TrustResult, perf *types.PerformanceResult) types.CompositeQualityResult {
	return aggregate(seo, trust, perf, true)
}

// aggregate is AggregateQuality; with seoApplies false the SEO sub-score still
// counts as 0 but yields no strength, issue or top suggestion.
func aggregate(seo *types.SEOResult, trust *types.TrustResult, perf *types.PerformanceResult, seoApplies bool) types.CompositeQualityResult {
	breakdown := types.QualityBreakdown{}
	if seo != nil {
		breakdown.SEO = seo.Score
	}
	if trust != nil {
		breakdown.FactCheck = trust.Score
	}
	if perf != nil {
		breakdown.Performance = perf.Score
	}

	weighted := breakdown.SEO*WeightSEO + breakdown.FactCheck*WeightTrust + breakdown.Performance*WeightPerformance
	score := (weighted + 50) / 100
	grade, label := qualityGrade(score)

	strengths := []string{}
	issues := []string{}
	if seoApplies {
		switch {
		case breakdown.SEO >= 70:
			strengths = append(strengths, "SEO 최적화 우수")
		case breakdown.SEO < 50:
			issues = append(issues, "SEO 점수 개선 필요")
		}
	}
	switch {
	case breakdown.FactCheck >= 85:
		strengths = append(strengths, "높은 신뢰도")
	case breakdown.FactCheck < 70:
		issues = append(issues, "과장 표현 또는 출처 부족")
	}
	switch {
	case breakdown.Performance >= 70:
		strengths = append(strengths, "높은 참여율 예상")
	case breakdown.Performance < 50:
		issues = append(issues, "후킹/CTA 강화 필요")
	}
	if breakdown.FactCheck >= 80 && breakdown.Performance >= 70 {
		strengths = append(strengths, "신뢰도 + 참여율 동시 달성 (상위 15% 수준)")
	}

	return types.CompositeQualityResult{
		Score:         score,
		Grade:         grade,
		GradeLabel:    label,
		Breakdown:     breakdown,
		Strengths:     strengths,
		Issues:        issues,
		TopSuggestion: topSuggestion(breakdown, seoApplies),
	}
}

type area struct {
	name  string
	score int
}

// topSuggestion names the weakest area when it scores below the threshold.
// Ties go to the area listed first.
func topSuggestion(b types.QualityBreakdown, seoApplies bool) *string {
	var areas []area
	if seoApplies {
		areas = append(areas, area{areaSEO, b.SEO})
	}
	areas = append(areas, area{areaTrust, b.FactCheck}, area{areaPerformance, b.Performance})

	lowest := areas[0]
	for _, a := range areas[1:] {
		if a.score < lowest.score {
			lowest = a
		}
	}
	if lowest.score >= suggestionThreshold {
		return nil
	}
	s := fmt.Sprintf("%s 점수가 가장 낮습니다. %s", lowest.name, areaSuggestions[lowest.name])
	return &s
}

// qualityGrade maps a composite score to its grade and label
func qualityGrade(score int) (string, string) {
	switch {
	case score >= 85:
		return "S", "🏆 최상급 콘텐츠"
	case score >= 75:
		return "A", "⭐ 우수 콘텐츠"
	case score >= 60:
		return "B", "👍 양호 콘텐츠"
	case score >= 45:
		return "C", "📝 보통 콘텐츠"
	default:
		return "D", "⚠️ 개선 필요"
	}
}
