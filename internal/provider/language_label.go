package provider

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var languageNamer = display.English.Tags()

// LanguageName returns the English name for a BCP 47 code such as "de" or
// "pt_BR". ok is false when the code does not parse or has no name.
func LanguageName(code string) (name string, ok bool) {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", false
	}
	name = languageNamer.Name(tag)
	if name == "" || strings.EqualFold(name, code) {
		return "", false
	}
	return name, true
}

// LanguageLabel renders a code for menus and summaries: "Spanish (es)".
// Empty means auto-detect and renders as "".
func LanguageLabel(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := LanguageName(code); ok {
		return name + " (" + code + ")"
	}
	return "unrecognized code " + code
}
