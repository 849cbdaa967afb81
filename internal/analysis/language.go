package analysis

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// languageCode matches values that look like BCP 47 tags ("ta", "hi-IN", "pt_BR")
// rather than language names ("Tamil").
var languageCode = regexp.MustCompile(`^[A-Za-z]{2,3}([-_][A-Za-z0-9]{2,8})*$`)

var englishNames = display.Tags(language.English)

// ResolveLanguage turns a language code into its English name for prompting.
// Anything that is not a recognised code is returned unchanged.
func ResolveLanguage(s string) string {
	s = strings.TrimSpace(s)
	if !languageCode.MatchString(s) {
		return s
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil || tag == language.Und {
		return s
	}
	if name := englishNames.Name(tag); name != "" {
		return name
	}
	return s
}
