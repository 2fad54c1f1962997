package coach

import (
	"fmt"
	"strings"
)

const (
	maxPromptFieldLen = 100

	placeholderNotSet = "not set"
	placeholderNone   = "none"
)

// PromptFields is the fixed, defanged set of strings embedded into the
// system prompt template. Every field is non-empty: missing values render
// as explicit placeholders so the template is always structurally complete.
type PromptFields struct {
	Goal        string
	Frequency   string
	Experience  string
	Equipment   string
	SessionType string
	Limitations string
}

// SanitizeString strips prompt-injection-bearing characters, trims
// whitespace and truncates to 100 runes. Idempotent: applying it twice
// yields the same output as applying it once.
func SanitizeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '<', '>', '{', '}':
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > maxPromptFieldLen {
		out = strings.TrimSpace(string(runes[:maxPromptFieldLen]))
	}
	return out
}

func sanitizeScalar(s string) string {
	out := SanitizeString(s)
	if out == "" {
		return placeholderNotSet
	}
	return out
}

func sanitizeList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if v := SanitizeString(item); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return placeholderNone
	}
	return strings.Join(cleaned, ", ")
}

// Sanitize produces the prompt-safe field set from a raw context. A nil
// context yields all placeholders. The Extra bag is never consulted.
func Sanitize(c *Context) PromptFields {
	if c == nil {
		c = &Context{}
	}

	frequency := placeholderNotSet
	if c.TrainingFrequency >= 1 && c.TrainingFrequency <= 7 {
		frequency = fmt.Sprintf("%d sessions/week", c.TrainingFrequency)
	}

	return PromptFields{
		Goal:        sanitizeScalar(c.GoalType),
		Frequency:   frequency,
		Experience:  sanitizeScalar(c.ExperienceLevel),
		Equipment:   sanitizeList(c.Equipment),
		SessionType: sanitizeScalar(c.SessionType),
		Limitations: sanitizeScalar(c.Limitations),
	}
}
