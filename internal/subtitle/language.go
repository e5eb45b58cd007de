package subtitle

import (
	"strings"

	"golang.org/x/text/language"
)

// LangUnknown is the sentinel used when a vendor tag cannot be mapped to an
// ISO 639-1 code. Normalization never guesses; a wrong language tag would let
// the deduper merge tracks that are genuinely distinct.
const LangUnknown = "unknown"

// Vendor spellings the platform is known to emit that either have no ISO 639-1
// base or whose parse would land on the wrong one.
var languageAliases = map[string]string{
	"cmn":      "zh",
	"cmn-hans": "zh",
	"cmn-hant": "zh",
	"yue":      "zh",
	"yue-hant": "zh",
	"iw":       "he",
	"in":       "id",
	"ji":       "yi",
	"fil":      "tl",
	"gsw":      "de",
	"nb":       "no",
	"nn":       "no",
}

// NormalizeLanguage reduces a raw vendor language identifier to a two-letter
// ISO 639-1 code. Pass-through for codes that already are one, alias table for
// known platform spellings, BCP 47 parse for locale forms (en-US, pt-BR,
// es-419), and LangUnknown for everything else. It never fails.
func NormalizeLanguage(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return LangUnknown
	}
	if mapped, ok := languageAliases[tag]; ok {
		return mapped
	}
	if len(tag) == 2 && isASCIILower(tag) {
		if _, err := language.ParseBase(tag); err == nil {
			return tag
		}
		return LangUnknown
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return LangUnknown
	}
	base, conf := parsed.Base()
	if conf < language.High {
		return LangUnknown
	}
	code := base.String()
	if alias, ok := languageAliases[code]; ok {
		return alias
	}
	if len(code) != 2 {
		return LangUnknown
	}
	return code
}

func isASCIILower(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
