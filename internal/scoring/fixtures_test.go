package scoring

import (
	"strings"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// optimizedBlogBody satisfies every top tier of the SEO table for the keyword "다이어트"
const optimizedBlogBody = `다이어트를 시작하는 분들을 위한 소개 글입니다. 건강한 식단 관리의 기본 원칙을 차근차근 살펴보겠습니다.

## 다이어트 식단의 기본

균형 잡힌 식사는 다이어트의 출발점입니다. 탄수화물과 단백질, 지방의 비율을 고르게 맞추세요.

## 다이어트 중 피해야 할 음식

- 설탕이 많이 들어간 음료
- 튀긴 음식과 가공식품
- 늦은 밤의 야식

## 식사 시간 관리

하루 세 끼를 일정한 시간에 먹으면 폭식을 줄일 수 있습니다. 공복 시간을 너무 길게 두지 마세요.

## 운동과 함께하기

- 하루 30분 걷기
- 주 3회 근력 운동
- 충분한 수면

## 결론

꾸준함이 다이어트 성공의 열쇠입니다. 더 자세히 알고 싶다면 관련 글을 참고하세요.`

const optimizedBlogTitle = "다이어트 식단 5가지 방법"

// padToRunes appends a filler paragraph so the result is exactly n runes long
func padToRunes(content string, n int) string {
	fill := n - runeLen(content) - 2
	if fill <= 0 {
		return content
	}
	return content + "\n\n" + strings.Repeat("가", fill)
}

// trustworthyBody triggers only the "100%" and "최고의" exaggeration rules
const trustworthyBody = "2024년 조사에 따르면 직장인의 65%가 아침 운동을 선호합니다. " +
	"통계청 보고서 역시 비슷한 경향을 보여줍니다. " +
	"따라서 아침 시간을 활용하는 습관이 중요합니다. " +
	"또한 이 방법은 최고의 선택으로 꼽힙니다. " +
	"하지만 개인의 생활 패턴도 고려해야 합니다. " +
	"실제 참여자의 100% 만족이라는 수치가 나왔습니다."

// repeatedBody has ten sentences of which six are distinct
func repeatedBody() string {
	unique := []string{
		"오늘은 건강한 식습관에 대해 이야기합니다",
		"아침 식사는 하루의 에너지를 책임집니다",
		"채소와 과일을 충분히 섭취하면 좋습니다",
		"물을 자주 마시는 습관을 들여 보세요",
		"가공식품은 가능한 한 줄이는 편이 낫습니다",
		"규칙적인 운동을 병행하면 더 효과적입니다",
	}
	sentences := append([]string{}, unique...)
	sentences = append(sentences, unique[:4]...)
	return strings.Join(sentences, ". ") + "."
}

// findDetail returns the first detail whose label starts with prefix
func findDetail(details []types.AnalysisDetail, prefix string) (types.AnalysisDetail, bool) {
	for _, d := range details {
		if strings.HasPrefix(d.Label, prefix) {
			return d, true
		}
	}
	return types.AnalysisDetail{}, false
}
