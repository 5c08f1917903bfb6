package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold upper-cases the input and strips diacritics (Á -> A, Ñ -> N), so
// every later stage operates on plain upper-case ASCII-ish text.
func Fold(s string) string {
	folded, _, err := transform.String(diacriticsFold, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

var (
	decimalCommaRe = regexp.MustCompile(`(\d),(\d)`)
	separatorRe    = regexp.MustCompile(`[/,]`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

// normalizeSeparators converts commas inside numbers to decimal points,
// turns remaining commas and slashes into token separators, and collapses
// hyphens to spaces. Protected placeholders carry no hyphens or slashes,
// so they pass through untouched.
func normalizeSeparators(s string) string {
	s = decimalCommaRe.ReplaceAllString(s, "$1.$2")
	s = separatorRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "-", " ")
	return s
}

// collapseSpaces squeezes runs of whitespace and trims the result.
func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}

// replaceIndexed rewrites every match of re using fn, which receives the
// matched text along with its start and end offsets in the original
// string. RE2 has no lookaround, so rewrites that depend on surrounding
// context go through here instead.
func replaceIndexed(re *regexp.Regexp, s string, fn func(match string, start, end int) string) string {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m[0]])
		b.WriteString(fn(s[m[0]:m[1]], m[0], m[1]))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// wordPattern builds a word-boundary pattern for a literal token. Tokens
// from carrier dictionaries may contain regex metacharacters ("Q.C.",
// "N/A"), so the literal is always quoted. A \b anchor only works against
// a word character, so edges that end in punctuation get none.
func wordPattern(token string) string {
	pattern := regexp.QuoteMeta(token)
	if isWordChar(rune(token[0])) {
		pattern = `\b` + pattern
	}
	if isWordChar(rune(token[len(token)-1])) {
		pattern += `\b`
	}
	return pattern
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
