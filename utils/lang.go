package utils

import (
	"net/http"

	"golang.org/x/text/language"
)

// Storefront locales, in priority order. German is the default.
var localeMatcher = language.NewMatcher([]language.Tag{
	language.German,
	language.French,
	language.English,
})

// PickLocale resolves the request locale: an explicit ?lang= parameter wins,
// then the Accept-Language header, then German.
func PickLocale(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if NormalizeLocale(lang) != "" {
			return NormalizeLocale(lang)
		}
	}

	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return "de"
	}
	_, index, _ := localeMatcher.Match(tags...)
	switch index {
	case 1:
		return "fr"
	case 2:
		return "en"
	default:
		return "de"
	}
}

// NormalizeLocale maps a raw locale string to one of the supported locales,
// or returns "" when unsupported.
func NormalizeLocale(lang string) string {
	switch lang {
	case "de", "fr", "en":
		return lang
	}
	return ""
}
