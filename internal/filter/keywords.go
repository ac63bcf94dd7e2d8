package filter

import (
	"regexp"
)

// keywordRegex matches kw case-insensitively as a whole word. A boundary is
// only required on a side that ends in a letter or digit, so "sr." still
// matches "Sr. Engineer" while "lead" does not match "Leading".
func keywordRegex(kw string) *regexp.Regexp {
	pattern := "(?i)"
	if isWordByte(kw[0]) {
		pattern += `\b`
	}
	pattern += regexp.QuoteMeta(kw)
	if isWordByte(kw[len(kw)-1]) {
		pattern += `\b`
	}
	return regexp.MustCompile(pattern)
}

func (m *Matcher) matchKeyword(title string) (string, bool) {
	for _, k := range m.keywords {
		if k.regex.MatchString(title) {
			return k.keyword, true
		}
	}
	return "", false
}

//RE2 \b is ASCII-only, so only ASCII letters and digits get a boundary
func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
