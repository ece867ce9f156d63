package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// Category ceilings of the performance predictor
const (
	hookMax        = 20
	readabilityMax = 20
	emotionMax     = 15
	ctaMax         = 15
	depthMax       = 15
	titleMax       = 15
)

var (
	hookEmojiRe      = regexp.MustCompile(`[\x{1F600}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]`)
	anyHeadingRe     = regexp.MustCompile(`(?m)^#{1,3}\s+`)
	readableListRe   = regexp.MustCompile(`(?m)^[-*•✅❌🔹▸]\s+`)
	boldRe           = regexp.MustCompile(`\*\*[^*]+\*\*`)
	titleSeparatorRe = regexp.MustCompile(`\||-|:|→`)
	socialEmojiRe    = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}]`)
	hashtagRe        = regexp.MustCompile(`#\S+`)
)

// hookSignal is one attention signal looked for in the opening line
type hookSignal struct {
	label string
	found bool
}

// PredictPerformance builds an engagement score additively from six capped categories
// and maps the total to a letter grade. Tone is accepted for callers but does not
// change the score. Empty content scores 0 with grade F.
func (s *Scorer) PredictPerformance(content, title string, contentType types.ContentType, _ string) types.PerformanceResult {
	if content == "" {
		return types.PerformanceResult{Details: []types.AnalysisDetail{}, Grade: "F"}
	}

	details := []types.AnalysisDetail{
		s.hookDetail(content),
		readabilityDetail(content),
		s.emotionDetail(content),
		s.ctaDetail(content),
		depthDetail(content),
	}
	if title != "" && contentType.HasTitle() {
		details = append(details, s.titleDetail(title))
	} else {
		details = append(details, socialDetail(content))
	}

	score := 0
	for _, d := range details {
		score += d.Points
	}
	score = clamp(score, 0, 100)
	grade, label := performanceGrade(score)

	return types.PerformanceResult{
		Score:      score,
		Details:    ensureBaselinePass(details),
		Grade:      grade,
		GradeLabel: label,
	}
}

// graded builds a category detail whose status follows the pass/warn thresholds
func graded(label string, points, maxPoints, passAt, warnAt int, tip string) types.AnalysisDetail {
	d := types.AnalysisDetail{Label: label, Points: points, Max: intPtr(maxPoints)}
	switch {
	case points >= passAt:
		d.Status = types.StatusPass
		return d
	case points >= warnAt:
		d.Status = types.StatusWarn
	default:
		d.Status = types.StatusFail
	}
	d.Tip = tip
	return d
}

// openingLine returns the first line longer than five characters that is not a heading
func openingLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if runeLen(strings.TrimSpace(line)) > 5 && !strings.HasPrefix(line, "#") {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

func (s *Scorer) hookDetail(content string) types.AnalysisDetail {
	line := openingLine(content)
	signals := []hookSignal{
		{"질문", strings.Contains(line, "?")},
		{"숫자", strings.ContainsAny(line, "0123456789")},
		{"이모지", hookEmojiRe.MatchString(line)},
		{"감탄", strings.Contains(line, "!")},
		{"독자호명", hasMatch(s.rules.DirectAddress, line)},
		{"호기심", hasMatch(s.rules.Curiosity, line)},
	}

	var active []string
	for _, sig := range signals {
		if sig.found {
			active = append(active, sig.label)
		}
	}
	points := min(len(active)*4, hookMax)

	return graded(
		fmt.Sprintf("후킹 파워 (%s)", joinOrNone(active, ", ")),
		points, hookMax, 12, 8,
		"첫 문장에 질문, 숫자, 독자호명을 추가하세요 (이탈률 55% 감소)",
	)
}

func readabilityDetail(content string) types.AnalysisDetail {
	sentenceCount, sentenceRunes := 0, 0
	for _, sentence := range sentenceSepRe.Split(content, -1) {
		trimmed := strings.TrimSpace(sentence)
		if n := runeLen(trimmed); n > 3 {
			sentenceCount++
			sentenceRunes += n
		}
	}
	avgSentence := 0.0
	if sentenceCount > 0 {
		avgSentence = float64(sentenceRunes) / float64(sentenceCount)
	}

	paragraphCount, paragraphRunes := 0, 0
	for _, p := range paragraphSepRe.Split(content, -1) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		paragraphCount++
		paragraphRunes += runeLen(p)
	}
	avgParagraph := float64(paragraphRunes) / float64(max(paragraphCount, 1))

	points := 0
	switch {
	case avgSentence >= 15 && avgSentence <= 50:
		points += 5
	case avgSentence > 0:
		points += 2
	}
	switch {
	case avgParagraph < 250:
		points += 4
	case avgParagraph < 400:
		points += 2
	}
	if len(anyHeadingRe.FindAllStringIndex(content, -1)) >= 2 {
		points += 4
	}
	if len(readableListRe.FindAllStringIndex(content, -1)) >= 2 {
		points += 4
	}
	if boldRe.MatchString(content) {
		points += 3
	}
	points = min(points, readabilityMax)

	level := "어려움"
	switch {
	case avgSentence <= 30:
		level = "쉬움"
	case avgSentence <= 50:
		level = "보통"
	}

	return graded(
		fmt.Sprintf("가독성 [%s] (문장 평균 %.0f자)", level, avgSentence),
		points, readabilityMax, 15, 10,
		fmt.Sprintf("최적 문장 길이: 20-40자 (현재 %.0f자)", avgSentence),
	)
}

func (s *Scorer) emotionDetail(content string) types.AnalysisDetail {
	points := 0
	var active []string
	for _, hit := range scanRules(content, s.rules.Emotions) {
		points += hit.rule.Weight
		active = append(active, hit.rule.Label)
	}
	points = min(points, emotionMax)

	return graded(
		fmt.Sprintf("감정적 연결 (%s)", joinOrNone(active, "/")),
		points, emotionMax, 10, 5,
		"공감, 격려, 스토리텔링 요소를 추가하세요 (공유율 2-3배 향상)",
	)
}

func (s *Scorer) ctaDetail(content string) types.AnalysisDetail {
	strong := countMatches(s.rules.StrongCTA, content)
	weak := countMatches(s.rules.WeakCTA, content)
	points := min(strong*5+weak*2, ctaMax)

	return graded(
		fmt.Sprintf("행동 유도 (강력 CTA %d개, 일반 %d개)", strong, weak),
		points, ctaMax, 10, 5,
		"'지금 바로 시작하세요!' 같은 강력한 CTA를 추가하세요 (전환율 127% 향상)",
	)
}

func depthDetail(content string) types.AnalysisDetail {
	length := runeLen(content)
	var points int
	var level string
	switch {
	case length >= 2000:
		points, level = 15, "심층"
	case length >= 1500:
		points, level = 12, "적절"
	case length >= 800:
		points, level = 8, "보통"
	case length >= 400:
		points, level = 4, "짧음"
	default:
		points, level = 1, "매우 짧음"
	}

	return graded(
		fmt.Sprintf("콘텐츠 깊이 [%s] (%s자)", level, formatCount(length)),
		points, depthMax, 12, 8,
		"구글 1페이지 평균: 1,500자+. 더 깊이있는 내용을 추가하세요",
	)
}

func (s *Scorer) titleDetail(title string) types.AnalysisDetail {
	points := 0
	var checks []string
	if n := runeLen(title); n >= 15 && n <= 60 {
		points += 3
		checks = append(checks, "길이✓")
	}
	if strings.ContainsAny(title, "0123456789") {
		points += 4
		checks = append(checks, "숫자✓")
	}
	if strings.ContainsAny(title, "!?") {
		points += 2
		checks = append(checks, "구두점✓")
	}
	if hasMatch(s.rules.PowerWords, title) {
		points += 3
		checks = append(checks, "파워워드✓")
	}
	if titleSeparatorRe.MatchString(title) {
		points += 3
		checks = append(checks, "구분자✓")
	}
	points = min(points, titleMax)

	return graded(
		fmt.Sprintf("제목 매력도 (%s)", strings.Join(checks, " ")),
		points, titleMax, 10, 5,
		"숫자 포함 제목은 CTR 36% 향상. 예: '5가지 방법'",
	)
}

func socialDetail(content string) types.AnalysisDetail {
	emojis := len(socialEmojiRe.FindAllStringIndex(content, -1))
	hashtags := len(hashtagRe.FindAllStringIndex(content, -1))

	points := 0
	switch {
	case emojis >= 3:
		points += 8
	case emojis >= 1:
		points += 4
	}
	switch {
	case hashtags >= 5:
		points += 7
	case hashtags >= 1:
		points += 3
	}
	points = min(points, titleMax)

	return graded(
		fmt.Sprintf("소셜 최적화 (이모지 %d개, 해시태그 %d개)", emojis, hashtags),
		points, titleMax, 10, 5,
		"이모지 3개+, 해시태그 5개+를 사용하면 노출이 늘어납니다",
	)
}

// performanceGrade maps a performance score to its grade and label
func performanceGrade(score int) (string, string) {
	switch {
	case score >= 85:
		return "S", "최상급 — 바이럴 가능성 높음 🔥"
	case score >= 70:
		return "A", "우수 — 좋은 반응 예상 👍"
	case score >= 55:
		return "B", "양호 — 기본 이상의 성과"
	case score >= 40:
		return "C", "보통 — 개선 여지 있음"
	default:
		return "D", "미흡 — 개선 필요 ⚠️"
	}
}

func joinOrNone(items []string, sep string) string {
	if len(items) == 0 {
		return "없음"
	}
	return strings.Join(items, sep)
}
