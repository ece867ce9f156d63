package scoring

import (
	"regexp"
	"strings"
)

var (
	keywordSplitRe   = regexp.MustCompile(`[\s,]+`)
	numericKeywordRe = regexp.MustCompile(`^\d+$`)
)

// NormalizeKeyword expands a topic phrase into keyword variants used for lookup.
//
// The phrase is lower-cased and split on whitespace and commas. Tokens shorter than two
// characters and purely numeric tokens are dropped. The result holds every token followed,
// for each adjacent pair, by the space-joined and the concatenated bigram, so Korean
// compounds match whether or not they are written with a space. Duplicates are removed
// keeping first insertion; the first element is the primary keyword.
func NormalizeKeyword(phrase string) []string {
	var tokens []string
	for _, t := range keywordSplitRe.Split(strings.ToLower(phrase), -1) {
		if runeLen(t) < 2 || numericKeywordRe.MatchString(t) {
			continue
		}
		tokens = append(tokens, t)
	}

	seen := make(map[string]bool)
	keywords := make([]string, 0, len(tokens)*3)
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keywords = append(keywords, k)
		}
	}

	for _, t := range tokens {
		add(t)
	}
	for i := 0; i+1 < len(tokens); i++ {
		add(tokens[i] + " " + tokens[i+1])
		add(tokens[i] + tokens[i+1])
	}
	return keywords
}

// containsAny reports whether text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
