package generation

import (
	"fmt"
	"strings"

	"github.com/kdjkdj1234567890-bit/content-engine/internal/prompts"
	"github.com/kdjkdj1234567890-bit/content-engine/internal/types"
)

// Brand defaults used when the request leaves them blank
const (
	DefaultTeam        = "content"
	DefaultBrandVoice  = "Professional, Trustworthy, Modern"
	DefaultGlobalRules = "No specific constraints provided"
)

// BuildSystemPrompt renders the shared system prompt for a team and brand context
func BuildSystemPrompt(details types.GenerationDetails) (string, error) {
	team := details.Team
	if team == "" {
		team = DefaultTeam
	}
	teamName, err := promptText("team-" + team + "-name")
	if err != nil {
		return "", err
	}
	teamRole, err := promptText("team-" + team + "-role")
	if err != nil {
		return "", err
	}
	system, err := promptText("system")
	if err != nil {
		return "", err
	}

	return render("system", system, map[string]string{
		"TeamName":    teamName,
		"TeamRole":    teamRole,
		"BrandVoice":  orDefault(details.BrandVoice, DefaultBrandVoice),
		"GlobalRules": orDefault(details.GlobalRules, DefaultGlobalRules),
	})
}

// BuildUserPrompt renders the per-format prompt for one content type, followed by
// the optional tone, industry and audience lines.
func BuildUserPrompt(contentType types.ContentType, req *types.GenerateRequest) (string, error) {
	key := "type-" + string(contentType)
	template, err := promptText(key)
	if err != nil {
		key = "type-default"
		if template, err = promptText(key); err != nil {
			return "", err
		}
	}

	data := map[string]string{
		"Keyword":        strings.TrimSpace(req.Keyword),
		"Tone":           req.Tone,
		"Industry":       strings.TrimSpace(req.Industry),
		"TargetAudience": strings.TrimSpace(req.TargetAudience),
	}
	prompt, err := render(key, template, data)
	if err != nil {
		return "", err
	}

	lines := []string{prompt}
	for _, extra := range []struct{ key, value string }{
		{"line-tone", data["Tone"]},
		{"line-industry", data["Industry"]},
		{"line-audience", data["TargetAudience"]},
	} {
		if extra.value == "" {
			continue
		}
		tmpl, err := promptText(extra.key)
		if err != nil {
			return "", err
		}
		line, err := render(extra.key, tmpl, data)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func promptText(key string) (string, error) {
	text, err := prompts.Get(prompts.GenerationFile, key)
	if err != nil {
		return "", &PromptError{Key: key, Cause: err}
	}
	return text, nil
}

// render fills a template and fails if the template names a placeholder data lacks
func render(key, template string, data map[string]string) (string, error) {
	var missing []string
	for _, name := range prompts.Placeholders(template) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &PromptError{Key: key, Cause: fmt.Errorf("unresolved placeholders: %s", strings.Join(missing, ", "))}
	}
	return prompts.Format(template, data), nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
