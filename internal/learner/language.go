package learner

import "strings"

// Language is an onboarding language choice.
type Language struct {
	Name string
	Flag string
}

var languages = []Language{
	{Name: "English", Flag: "🇬🇧"},
	{Name: "Español", Flag: "🇪🇸"},
	{Name: "Français", Flag: "🇫🇷"},
	{Name: "Deutsch", Flag: "🇩🇪"},
	{Name: "हिंदी", Flag: "🇮🇳"},
	{Name: "Italiano", Flag: "🇮🇹"},
	{Name: "Português", Flag: "🇵🇹"},
	{Name: "中文", Flag: "🇨🇳"},
	{Name: "日本語", Flag: "🇯🇵"},
	{Name: "한국어", Flag: "🇰🇷"},
}

// DefaultLanguage is preselected during onboarding.
const DefaultLanguage = "English"

// Languages returns the built-in language list.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// SearchLanguages filters the built-in list by a case-insensitive substring.
// An empty query returns the full list.
func SearchLanguages(query string) []Language {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Languages()
	}
	var out []Language
	for _, l := range languages {
		if strings.Contains(strings.ToLower(l.Name), q) {
			out = append(out, l)
		}
	}
	return out
}
