package application

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/testology/psyengine/internal/domain"
)

// slugAliases maps URL slugs whose test id is not their PascalCase form.
var slugAliases = map[string]string{
	"mbti":           "MBTI",
	"gad7":           "GAD7",
	"phq9":           "PHQ9",
	"riasec":         "RIASEC",
	"attachment":     "Attachment",
	"learning-style": "LearningStyle",
	"rosenberg":      "Rosenberg",
	"swls":           "SWLS",
	"panas":          "PANAS",
	"eq":             "EQ",
	"focus":          "FocusAttention",
	"creativity":     "Creativity",
	"neo-ffi":        "NEOFFI",
	"bfi":            "BFI",
	"pss10":          "PSS10",
	"psqi":           "PSQI",
}

// ResolveTestID maps a test id or slug to a registered test id. It tries,
// in order: the exact id, a case-insensitive id match, the slug alias
// table, and the PascalCase form of a kebab-case slug.
func ResolveTestID(reg *domain.Registry, input string) (string, error) {
	input = strings.TrimSpace(input)
	if _, ok := reg.Lookup(input); ok {
		return input, nil
	}

	candidates := []string{input}
	if alias, ok := slugAliases[strings.ToLower(input)]; ok {
		candidates = append(candidates, alias)
	}
	candidates = append(candidates, pascalCase(input))

	ids := reg.IDs()
	for _, c := range candidates {
		for _, id := range ids {
			if strings.EqualFold(id, c) {
				return id, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrConfigNotFound, input)
}

// pascalCase turns "lifestyle-sleep-quality" into "LifestyleSleepQuality".
func pascalCase(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	var b strings.Builder
	for _, p := range parts {
		runes := []rune(p)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
