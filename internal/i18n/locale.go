package i18n

import "strings"

// Locale is a UI language. Content is authored in Russian; Romanian and
// English are produced by the translation pipeline.
type Locale string

const (
	RU Locale = "ru"
	RO Locale = "ro"
	EN Locale = "en"
)

// Default is the authoring locale.
const Default = RU

// Targets are the locales the translation pipeline writes.
var Targets = []Locale{RO, EN}

// Parse maps a raw value (query param, cookie) to a supported locale,
// falling back to Default.
func Parse(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case RO:
		return RO
	case EN:
		return EN
	default:
		return Default
	}
}

// Secondary reports whether content for l comes from a translation block.
func (l Locale) Secondary() bool {
	return l == RO || l == EN
}

// LanguageName is the English name of the language, used in translation prompts.
func (l Locale) LanguageName() string {
	switch l {
	case RO:
		return "Romanian"
	case EN:
		return "English"
	default:
		return "Russian"
	}
}

func (l Locale) String() string {
	return string(l)
}
