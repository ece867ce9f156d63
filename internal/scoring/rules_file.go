package scoring

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/schemas"
	rootschemas "github.com/kdjkdj1234567890-bit/content-engine/schemas"
)

// RuleError reports a rule override that could not be applied
type RuleError struct {
	Field   string
	Pattern string
	Cause   error
}

func (e *RuleError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("rule %s: invalid pattern %q: %v", e.Field, e.Pattern, e.Cause)
	}
	return fmt.Sprintf("rule %s: %v", e.Field, e.Cause)
}

func (e *RuleError) Unwrap() error {
	return e.Cause
}

// ruleOverrides is the YAML shape of a rules file
type ruleOverrides struct {
	Locale   string                   `yaml:"locale"`
	Patterns map[string]string        `yaml:"patterns"`
	Tables   map[string][]ruleRowSpec `yaml:"tables"`
}

type ruleRowSpec struct {
	Name    string `yaml:"name"`
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
	Weight  int    `yaml:"weight"`
	Cap     int    `yaml:"cap"`
}

// LoadRuleOverrides reads a YAML rules file and applies it on top of DefaultRules.
func LoadRuleOverrides(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRuleOverrides(data)
}

// ParseRuleOverrides validates YAML rule overrides against the rule schema and
// returns DefaultRules with the named patterns and tables replaced.
func ParseRuleOverrides(data []byte) (*RuleSet, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if doc == nil {
		return DefaultRules(), nil
	}
	if err := schemas.ValidateNamed(rootschemas.RuleOverrides, doc); err != nil {
		return nil, err
	}

	var overrides ruleOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode rules file: %w", err)
	}
	return overrides.apply(DefaultRules())
}

func (o ruleOverrides) apply(rules *RuleSet) (*RuleSet, error) {
	if o.Locale != "" {
		rules.Locale = o.Locale
	}

	for field, expr := range o.Patterns {
		target := rules.patternField(field)
		if target == nil {
			return nil, &RuleError{Field: field, Cause: fmt.Errorf("unknown pattern")}
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &RuleError{Field: field, Pattern: expr, Cause: err}
		}
		*target = re
	}

	for field, rows := range o.Tables {
		target := rules.tableField(field)
		if target == nil {
			return nil, &RuleError{Field: field, Cause: fmt.Errorf("unknown table")}
		}
		table := make([]PatternRule, 0, len(rows))
		for i, row := range rows {
			re, err := regexp.Compile(row.Pattern)
			if err != nil {
				return nil, &RuleError{Field: fmt.Sprintf("%s[%d]", field, i), Pattern: row.Pattern, Cause: err}
			}
			table = append(table, PatternRule{
				Name:    row.Name,
				Label:   row.Label,
				Pattern: re,
				Weight:  row.Weight,
				Cap:     row.Cap,
			})
		}
		*target = table
	}

	return rules, nil
}

func (r *RuleSet) patternField(name string) **regexp.Regexp {
	switch name {
	case "intro_signals":
		return &r.IntroSignals
	case "conclusion_signals":
		return &r.ConclusionSignals
	case "link_signals":
		return &r.LinkSignals
	case "specific_data":
		return &r.SpecificData
	case "hedging":
		return &r.Hedging
	case "sources":
		return &r.Sources
	case "positive":
		return &r.Positive
	case "negative":
		return &r.Negative
	case "connectors":
		return &r.Connectors
	case "direct_address":
		return &r.DirectAddress
	case "curiosity":
		return &r.Curiosity
	case "strong_cta":
		return &r.StrongCTA
	case "weak_cta":
		return &r.WeakCTA
	case "power_words":
		return &r.PowerWords
	}
	return nil
}

func (r *RuleSet) tableField(name string) *[]PatternRule {
	switch name {
	case "exaggeration":
		return &r.Exaggeration
	case "hallucination":
		return &r.Hallucination
	case "risky_claims":
		return &r.RiskyClaims
	case "emotions":
		return &r.Emotions
	}
	return nil
}
