package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

const (
	// seoMaxScore is the ceiling of the SEO sub-score
	seoMaxScore = 100
	// openingWindow is the number of leading characters searched for the keyword
	openingWindow = 100
	// maxKeywordDensity is the density (percent) above which keyword use counts as stuffing
	maxKeywordDensity = 5.0
)

var (
	seoHeadingRe   = regexp.MustCompile(`(?m)^#{2,3}\s+.+`)
	paragraphSepRe = regexp.MustCompile(`\n\n+`)
	bulletItemRe   = regexp.MustCompile(`(?m)^[-*•✅❌]\s+.+`)
	numberedItemRe = regexp.MustCompile(`(?m)^\d+[.)]\s+.+`)
)

// AnalyzeSEO scores content and title against ten weighted on-page criteria.
// An empty content or keyword yields a zero score with no details.
func (s *Scorer) AnalyzeSEO(content, title, keyword string) types.SEOResult {
	if content == "" || strings.TrimSpace(keyword) == "" {
		return types.SEOResult{Details: []types.AnalysisDetail{}}
	}

	rules := s.rules
	details := make([]types.AnalysisDetail, 0, 10)
	score := 0
	add := func(d types.AnalysisDetail) {
		score += d.Points
		details = append(details, d)
	}

	keywords := NormalizeKeyword(keyword)
	primary := strings.ToLower(keyword)
	if len(keywords) > 0 {
		primary = keywords[0]
	}
	contentLower := strings.ToLower(content)
	titleLower := strings.ToLower(title)

	// 1. Title keyword (15)
	if containsAny(titleLower, keywords) {
		add(passDetail("제목에 키워드 포함 ✓", 15))
	} else {
		add(failDetail("제목에 키워드 없음", 0, fmt.Sprintf("제목에 \"%s\" 포함 시 CTR 20%% 향상", primary)))
	}

	// 2. Length (15)
	length := runeLen(content)
	lengthText := formatCount(length)
	switch {
	case length >= 2000:
		add(passDetail(fmt.Sprintf("콘텐츠 길이 (%s자) — 심층", lengthText), 15))
	case length >= 1500:
		add(passDetail(fmt.Sprintf("콘텐츠 길이 (%s자)", lengthText), 13))
	case length >= 800:
		add(warnDetail(fmt.Sprintf("콘텐츠 길이 (%s자)", lengthText), 8, "구글 1페이지 평균: 1,500자+"))
	case length >= 400:
		add(warnDetail(fmt.Sprintf("콘텐츠 길이 (%s자) — 짧음", lengthText), 4, "최소 800자 이상 작성하세요"))
	default:
		add(failDetail(fmt.Sprintf("콘텐츠 길이 (%s자) — 매우 짧음", lengthText), 0, "콘텐츠가 너무 짧습니다"))
	}

	// 3. Keyword density (15)
	keywordCount := 0
	for _, k := range keywords {
		keywordCount += strings.Count(contentLower, k)
	}
	density := 0.0
	if length > 0 {
		density = float64(keywordCount*runeLen(primary)) / float64(length) * 100
	}
	switch {
	case keywordCount >= 3 && density <= maxKeywordDensity:
		add(passDetail(fmt.Sprintf("키워드 밀도 (%d회, %.1f%%)", keywordCount, density), 15))
	case keywordCount >= 1:
		add(warnDetail(fmt.Sprintf("키워드 밀도 (%d회)", keywordCount), 8, "최적 밀도: 키워드 3회+ 자연 포함"))
	default:
		add(warnDetail("키워드 미포함", 3, "키워드를 자연스럽게 3회 이상 포함하세요"))
	}

	// 4. H2/H3 structure (12)
	headings := seoHeadingRe.FindAllString(content, -1)
	add(headingDetail(len(headings)))

	// 5. Paragraphs (8)
	paragraphs := 0
	for _, p := range paragraphSepRe.Split(content, -1) {
		if runeLen(strings.TrimSpace(p)) > 20 {
			paragraphs++
		}
	}
	switch {
	case paragraphs >= 5:
		add(passDetail(fmt.Sprintf("단락 구분 (%d개) — 우수", paragraphs), 8))
	case paragraphs >= 3:
		add(warnDetail(fmt.Sprintf("단락 구분 (%d개)", paragraphs), 5, "5개 이상 단락으로 나누세요"))
	default:
		add(warnDetail(fmt.Sprintf("단락 구분 (%d개) — 부족", paragraphs), 2, "내용을 더 많은 단락으로 나누세요"))
	}

	// 6. Lists (8)
	lists := len(bulletItemRe.FindAllStringIndex(content, -1)) + len(numberedItemRe.FindAllStringIndex(content, -1))
	switch {
	case lists >= 4:
		add(passDetail(fmt.Sprintf("목록 사용 (%d개) — 우수", lists), 8))
	case lists >= 2:
		add(warnDetail(fmt.Sprintf("목록 사용 (%d개)", lists), 5, "목록 4개+ 사용 시 스캐너빌리티 47% 향상"))
	case lists >= 1:
		add(warnDetail(fmt.Sprintf("목록 사용 (%d개)", lists), 3, "목록을 더 활용하세요"))
	default:
		add(failDetail("목록 미사용", 0, "포인트를 목록으로 정리하세요"))
	}

	// 7. Keyword in headings (8)
	headingsWithKeyword := 0
	for _, h := range headings {
		if containsAny(strings.ToLower(h), keywords) {
			headingsWithKeyword++
		}
	}
	switch {
	case headingsWithKeyword >= 2:
		add(passDetail(fmt.Sprintf("소제목에 키워드 (%d개)", headingsWithKeyword), 8))
	case headingsWithKeyword == 1:
		add(warnDetail("소제목에 키워드 1개", 5, "소제목 2개 이상에 키워드를 넣으세요"))
	default:
		add(failDetail("소제목에 키워드 없음", 0, "소제목에도 키워드를 넣으세요"))
	}

	// 8. Intro/conclusion (7)
	firstBlock, _, _ := strings.Cut(content, "\n\n")
	hasIntro := hasMatch(rules.IntroSignals, contentLower) || runeLen(firstBlock) > 50
	hasConclusion := hasMatch(rules.ConclusionSignals, contentLower)
	switch {
	case hasIntro && hasConclusion:
		add(passDetail("서론/결론 구조 ✓", 7))
	case hasIntro || hasConclusion:
		add(warnDetail("서론/결론 일부", 4, "서론과 결론을 모두 포함하세요 (E-E-A-T 신호)"))
	default:
		add(failDetail("서론/결론 없음", 0, "서론과 결론을 추가하세요"))
	}

	// 9. Keyword in opening (5)
	if containsAny(truncateRunes(contentLower, openingWindow), keywords) {
		add(passDetail("첫 100자에 키워드 ✓", 5))
	} else {
		add(warnDetail("첫 100자에 키워드 없음", 0, "콘텐츠 시작 부분에 키워드를 넣으세요"))
	}

	// 10. Link signals (2)
	if links := countMatches(rules.LinkSignals, content); links >= 1 {
		add(passDetail(fmt.Sprintf("링크 시그널 (%d건)", links), 2))
	} else {
		add(warnDetail("링크 시그널 없음", 0, "'자세히 보기', '관련 글' 같은 안내 문구를 추가하세요"))
	}

	return types.SEOResult{
		Score:        clamp(score, 0, seoMaxScore),
		Details:      ensureBaselinePass(details),
		WordCount:    length,
		KeywordCount: keywordCount,
		HeadingCount: len(headings),
		Density:      math.Round(density*100) / 100,
	}
}

// headingDetail grades the number of H2/H3 headings
func headingDetail(count int) types.AnalysisDetail {
	switch {
	case count >= 4:
		return passDetail(fmt.Sprintf("소제목 구조 (%d개) — 우수", count), 12)
	case count >= 2:
		return warnDetail(fmt.Sprintf("소제목 구조 (%d개)", count), 8, "소제목 4개+ 사용 시 체류 시간 증가")
	case count >= 1:
		return warnDetail(fmt.Sprintf("소제목 구조 (%d개) — 부족", count), 4, "소제목을 3개 이상 사용하세요")
	default:
		return failDetail("소제목 없음", 0, "## 소제목을 추가하세요")
	}
}
