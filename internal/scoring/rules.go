package scoring

import "regexp"

// PatternRule is one row of a data-driven rule table.
//
// For penalty tables, Cap > 0 means every match costs Weight points up to Cap;
// Cap == 0 means a matching rule costs Weight once. Emotion tables use Weight
// as the flat award for a family that matches at least once.
type PatternRule struct {
	Name    string
	Label   string
	Pattern *regexp.Regexp
	Weight  int
	Cap     int
}

// RuleSet holds every lexical table the analyzers consult.
// Swapping the RuleSet changes the locale without touching the scoring algorithms.
type RuleSet struct {
	Locale string

	// SEO
	IntroSignals      *regexp.Regexp
	ConclusionSignals *regexp.Regexp
	LinkSignals       *regexp.Regexp

	// Trust
	SpecificData  *regexp.Regexp
	Exaggeration  []PatternRule
	Hedging       *regexp.Regexp
	Sources       *regexp.Regexp
	Positive      *regexp.Regexp
	Negative      *regexp.Regexp
	Hallucination []PatternRule
	RiskyClaims   []PatternRule
	Connectors    *regexp.Regexp

	// Performance
	DirectAddress *regexp.Regexp
	Curiosity     *regexp.Regexp
	Emotions      []PatternRule
	StrongCTA     *regexp.Regexp
	WeakCTA       *regexp.Regexp
	PowerWords    *regexp.Regexp
}

// DefaultRules returns the Korean marketing-copy rule tables.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Locale: "ko",

		IntroSignals:      regexp.MustCompile(`서론|소개`),
		ConclusionSignals: regexp.MustCompile(`결론|마무리|정리|요약`),
		LinkSignals:       regexp.MustCompile(`참고|자세히|더 알아|관련 글|링크|클릭`),

		SpecificData: regexp.MustCompile(`\d{4}년|\d+%|약 \d+|전년 대비|연구에 따르면|조사에 따르면|통계에 따르면`),
		Exaggeration: []PatternRule{
			{Name: "absolute", Label: "절대적 표현", Pattern: regexp.MustCompile(`100%|완벽하게|절대적으로|무조건|확실히 보장`), Weight: 4, Cap: 12},
			{Name: "superlative", Label: "최상급 과장", Pattern: regexp.MustCompile(`최고의|최강의|유일한|독보적인|압도적인`), Weight: 3, Cap: 12},
			{Name: "sensational", Label: "선정적 표현", Pattern: regexp.MustCompile(`기적|혁명적|놀라운 결과|폭발적|충격적`), Weight: 3, Cap: 12},
			{Name: "guarantee", Label: "보장 표현", Pattern: regexp.MustCompile(`반드시 성공|절대 실패하지|누구나 가능|무조건 됩니다`), Weight: 5, Cap: 12},
			{Name: "extreme", Label: "극단적 주장", Pattern: regexp.MustCompile(`세계 최초|역대 최고|전무후무|사상 초유`), Weight: 4, Cap: 12},
		},
		Hedging:  regexp.MustCompile(`것으로 알려져|연구 결과|~에 따르면|일반적으로|대체로|~라고 합니다|것으로 보입니다|가능성이 있|경향이 있`),
		Sources:  regexp.MustCompile(`출처|참고|참조|연구|논문|보고서|데이터|통계청|조사|기관|학회|전문가|교수|박사|분석에 따르면|발표에 따르면`),
		Positive: regexp.MustCompile(`좋습니다|효과적|추천합니다|도움이 됩니다|장점|이점|강점`),
		Negative: regexp.MustCompile(`좋지 않|효과가 없|비추천|위험|단점|약점|주의|한계`),
		Hallucination: []PatternRule{
			{Name: "overgeneralization", Label: "과대 일반화", Pattern: regexp.MustCompile(`모든 전문가가 동의|과학적으로 입증된 사실|100% 안전|부작용 없`), Weight: 5},
			{Name: "fabricated_source", Label: "가짜 출처 가능성", Pattern: regexp.MustCompile(`\d{4}년.*발표된.*연구에 따르면`), Weight: 5},
			{Name: "institution", Label: "기관 인용 (확인 필요)", Pattern: regexp.MustCompile(`WHO|FDA|CDC|질병관리청.*발표|권장`), Weight: 5},
		},
		RiskyClaims: []PatternRule{
			{Name: "medical", Label: "의학적 주장", Pattern: regexp.MustCompile(`치료|완치|예방.*효과|약효|질병.*낫|체중.*감소.*보장|확실.*다이어트`), Weight: 5},
			{Name: "legal", Label: "법률적 주장", Pattern: regexp.MustCompile(`법적.*보장|소송.*가능|합법적.*보장|법률.*위반 없`), Weight: 5},
			{Name: "financial", Label: "재무적 주장", Pattern: regexp.MustCompile(`수익.*보장|원금.*보장|무위험.*투자|확정.*수익`), Weight: 7},
		},
		Connectors: regexp.MustCompile(`따라서|그러므로|결과적으로|반면에|한편|그러나|하지만|또한|더불어|이와 같이|예를 들어|즉,|다시 말해`),

		DirectAddress: regexp.MustCompile(`여러분|당신|당신의`),
		Curiosity:     regexp.MustCompile(`놀라|충격|알고 계셨|비밀|몰랐|사실은`),
		Emotions: []PatternRule{
			{Name: "empathy", Label: "공감", Pattern: regexp.MustCompile(`공감|이해|느끼|걱정|고민|어려|힘든|불안|답답`), Weight: 4},
			{Name: "encouragement", Label: "격려", Pattern: regexp.MustCompile(`할 수 있|가능|응원|함께|같이|파이팅|화이팅|💪|해보세요|시작하세요`), Weight: 4},
			{Name: "storytelling", Label: "스토리", Pattern: regexp.MustCompile(`경험|사례|실제로|예를 들|이야기|했을 때|저는|제가`), Weight: 4},
			{Name: "surprise", Label: "놀라움", Pattern: regexp.MustCompile(`놀라|충격|의외|알고 보니|사실은|반전`), Weight: 4},
		},
		StrongCTA:  regexp.MustCompile(`지금 바로|여기를 클릭|지금 시작|무료로 받|한정 수량|오늘만|마감 임박`),
		WeakCTA:    regexp.MustCompile(`시작|확인|구독|좋아요|댓글|공유|저장|팔로우|무료`),
		PowerWords: regexp.MustCompile(`완벽|필수|핵심|비법|방법|가이드|비밀|진짜|꿀팁`),
	}
}

// ruleHit records the matches of one table row
type ruleHit struct {
	rule    PatternRule
	matches []string
}

// first returns the first matched phrase
func (h ruleHit) first() string {
	return h.matches[0]
}

// penalty returns the points this hit costs according to the row's Weight and Cap
func (h ruleHit) penalty() int {
	if h.rule.Cap > 0 {
		return min(len(h.matches)*h.rule.Weight, h.rule.Cap)
	}
	return h.rule.Weight
}

// scanRules applies every row of a table to content, in table order.
// Only rows with at least one match are returned.
func scanRules(content string, table []PatternRule) []ruleHit {
	var hits []ruleHit
	for _, rule := range table {
		if rule.Pattern == nil {
			continue
		}
		found := rule.Pattern.FindAllString(content, -1)
		if len(found) == 0 {
			continue
		}
		hits = append(hits, ruleHit{rule: rule, matches: found})
	}
	return hits
}

// countMatches counts non-overlapping matches of re in content; a nil pattern counts zero
func countMatches(re *regexp.Regexp, content string) int {
	if re == nil {
		return 0
	}
	return len(re.FindAllStringIndex(content, -1))
}

// hasMatch reports whether re matches content; a nil pattern never matches
func hasMatch(re *regexp.Regexp, content string) bool {
	return re != nil && re.MatchString(content)
}
