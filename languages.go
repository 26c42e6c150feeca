package badtl

import "strings"

// DefaultLanguages is the hop sequence the dialogue files were first run
// through. Any ordered list of codes the provider understands works.
var DefaultLanguages = []string{
	"af",    // Afrikaans
	"pt",    // Portuguese
	"sw",    // Swahili
	"ru",    // Russian
	"ar",    // Arabic
	"yi",    // Yiddish
	"fr",    // French
	"zh-TW", // Chinese (Traditional)
	"la",    // Latin
	"es",    // Spanish
	"ja",    // Japanese
	"la",    // Latin, again
	"hr",    // Croatian
	"ga",    // Irish
	"it",    // Italian
}

// LanguageNames maps translation service codes to human-readable names.
var LanguageNames = map[string]string{
	"af":    "Afrikaans",
	"ar":    "Arabic",
	"bg":    "Bulgarian",
	"cs":    "Czech",
	"da":    "Danish",
	"de":    "German",
	"el":    "Greek",
	"en":    "English",
	"es":    "Spanish",
	"fi":    "Finnish",
	"fr":    "French",
	"ga":    "Irish",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hr":    "Croatian",
	"hu":    "Hungarian",
	"id":    "Indonesian",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"la":    "Latin",
	"nl":    "Dutch",
	"no":    "Norwegian",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sv":    "Swedish",
	"sw":    "Swahili",
	"th":    "Thai",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"vi":    "Vietnamese",
	"yi":    "Yiddish",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the base language, then to the code itself.
func GetLanguageName(langCode string) string {
	code := NormalizeLang(langCode)
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	if name, ok := LanguageNames[BaseLang(code)]; ok {
		return name
	}
	return langCode
}

// NormalizeLang converts a code to the form the translation service uses:
// hyphen separated, lower-case language, upper-case region ("zh_tw" → "zh-TW").
func NormalizeLang(langCode string) string {
	code := strings.TrimSpace(strings.ReplaceAll(langCode, "_", "-"))
	base, region, found := strings.Cut(code, "-")
	base = strings.ToLower(base)
	if !found {
		return base
	}
	if len(region) == 2 {
		region = strings.ToUpper(region)
	}
	return base + "-" + region
}

// BaseLang extracts the base language code (e.g., "zh" from "zh-TW").
func BaseLang(langCode string) string {
	base, _, _ := strings.Cut(NormalizeLang(langCode), "-")
	return base
}

// IsKnownLanguage reports whether the code or its base language is in LanguageNames.
func IsKnownLanguage(langCode string) bool {
	code := NormalizeLang(langCode)
	if _, ok := LanguageNames[code]; ok {
		return true
	}
	_, ok := LanguageNames[BaseLang(code)]
	return ok
}
