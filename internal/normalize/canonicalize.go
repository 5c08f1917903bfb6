package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// rewrite pairs a compiled pattern with its replacement.
type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// Drivetrain synonyms converge on AWD/4WD/FWD/RWD. Order matters: the
// multi-word Spanish and English phrases must rewrite before the short
// codes they contain.
var drivetrainRewrites = []rewrite{
	{regexp.MustCompile(`\bALL[ -]?WHEEL DRIVE\b`), "AWD"},
	{regexp.MustCompile(`\b4MATIC\b`), "AWD"},
	{regexp.MustCompile(`\bQUATTRO\b`), "AWD"},
	{regexp.MustCompile(`\bTRACCION\s+TOTAL\b`), "AWD"},
	{regexp.MustCompile(`\bTRACCION\s+4X4\b`), "4WD"},
	{regexp.MustCompile(`\b4\s*X\s*4\b`), "4WD"},
	{regexp.MustCompile(`\b4\s*WD\b`), "4WD"},
	{regexp.MustCompile(`\b4\s*WHEEL DRIVE\b`), "4WD"},
	{regexp.MustCompile(`\bFRONT[ -]?WHEEL DRIVE\b`), "FWD"},
	{regexp.MustCompile(`\bTRACCION\s+DELANTERA\b`), "FWD"},
	{regexp.MustCompile(`\bREAR[ -]?WHEEL DRIVE\b`), "RWD"},
	{regexp.MustCompile(`\bTRACCION\s+TRASERA\b`), "RWD"},
	{regexp.MustCompile(`\b4\s*X\s*2\b`), "RWD"},
	{regexp.MustCompile(`\b2WD\b`), "RWD"},
}

// Structural body labels expand to their canonical words.
var labelRewrites = []rewrite{
	{regexp.MustCompile(`\bHB\b`), "HATCHBACK"},
	{regexp.MustCompile(`\bTUR\b`), "TURBO"},
	{regexp.MustCompile(`\bGW\b`), "WAGON"},
	{regexp.MustCompile(`\bCONV\b`), "CONVERTIBLE"},
	{regexp.MustCompile(`\bPICK\s*UP\b`), "PICKUP"},
}

var (
	displacementRe   = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*L\b`)
	bareDecimalRe    = regexp.MustCompile(`\b\d+\.\d+\b`)
	literTokenRe     = regexp.MustCompile(`\b\d+(?:\.\d+)?L\b`)
	turboSuffixRe    = regexp.MustCompile(`\b(\d+(?:\.\d+)?)(L)? ?T\b`)
	turboAliasRe     = regexp.MustCompile(`\b(\d+(?:\.\d+)?)(L)? ?(?:TFSI|TSI)\b`)
	bareTurboAliasRe = regexp.MustCompile(`\b(?:T ?FSI|T ?SI|FSI TURBO)\b`)
	horsepowerRe     = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:HP|CP)\b`)
	doorsPhraseRe    = regexp.MustCompile(`\b\d+\s*P(?:UERTAS?|TAS?|TS?|TA)?\b\.?`)
	doorsWordRe      = regexp.MustCompile(`\bPUERTAS?\b`)
	occupantPhraseRe = regexp.MustCompile(`\b0?\d+\s*(?:OCUPANTES?|OCUPACION|OCUP|OCU|OC|O|PAX|PASAJEROS?|PAS)\b\.?`)
	yearTokenRe      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	strayPunctRe     = regexp.MustCompile(`[.,]`)
	looseLiterRe     = regexp.MustCompile(`\bL\b`)
	cilSplitRe       = regexp.MustCompile(`CIL(\d)`)
	hpSpacedRe       = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s+HP\b`)

	// Tokens that claim a preceding bare decimal and disqualify it from
	// being a displacement. TURBO is here because the turbo expander
	// emits "<n> TURBO" without an L when another liter token already
	// exists, and that form must survive a second pass unchanged.
	unitAfterRe  = regexp.MustCompile(`^\s*(?:L\b|TON\b|TONELADAS\b|KG\b|KILOGRAMOS\b|PUERTAS?\b|PTS?\b|OCUP\b|PASAJEROS?\b|PAS\b|CIL\b|SERIE\b|TURBO\b)`)
	cargoBefore  = regexp.MustCompile(`(?:TON|TONELADAS|KG|KILOGRAMOS|PESO|CAB|CHASIS)\s*$`)
)

// canonicalizer runs the ordered rewrite pipeline over a version string.
// It is pure: no logging, no I/O, never fails. Empty input yields empty
// output and downstream validation decides whether that matters.
type canonicalizer struct {
	profile  *carrier.Profile
	protect  *protector
	stoplist []*regexp.Regexp
	cylinder []rewrite
}

func newCanonicalizer(profile *carrier.Profile) (*canonicalizer, error) {
	protect, err := newProtector(profile.ProtectedTrims)
	if err != nil {
		return nil, err
	}
	c := &canonicalizer{profile: profile, protect: protect}
	for _, token := range profile.Stoplist {
		// Stoplist matching happens after separator normalization, so
		// tokens like "A/A" must be compiled in their post-separator
		// form to ever match.
		normalized := collapseSpaces(normalizeSeparators(Fold(token)))
		if normalized == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + wordPattern(normalized))
		if err != nil {
			return nil, fmt.Errorf("stoplist token %q: %w", token, err)
		}
		c.stoplist = append(c.stoplist, re)
	}
	for code, canonical := range profile.CylinderMap {
		re, err := regexp.Compile(`(?i)` + wordPattern(code))
		if err != nil {
			return nil, fmt.Errorf("cylinder code %q: %w", code, err)
		}
		c.cylinder = append(c.cylinder, rewrite{re, canonical})
	}
	return c, nil
}

// Clean canonicalizes a raw version string against the resolved brand and
// model. The result is whitespace-normalized body text with doors and
// occupant phrases removed; the extractor re-appends those later from the
// untouched source.
func (c *canonicalizer) Clean(version, model, brand string) string {
	if strings.TrimSpace(version) == "" {
		return ""
	}

	s := Fold(version)
	s = c.protect.mask(s)
	s = normalizeSeparators(s)

	for _, rw := range drivetrainRewrites {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}
	for _, rw := range c.cylinder {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}
	s = normalizeDisplacement(s)
	s = c.normalizeStandaloneLiters(s)
	s = c.normalizeTurbo(s)
	s = bareTurboAliasRe.ReplaceAllString(s, "TURBO")
	s = horsepowerRe.ReplaceAllString(s, "${1}HP")

	for _, re := range c.stoplist {
		s = re.ReplaceAllString(s, " ")
	}
	s = removeSelfReferences(s, model, brand)

	for _, rw := range labelRewrites {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}

	s = doorsPhraseRe.ReplaceAllString(s, " ")
	s = doorsWordRe.ReplaceAllString(s, " ")
	s = occupantPhraseRe.ReplaceAllString(s, " ")

	s = yearTokenRe.ReplaceAllString(s, " ")
	s = stripStrayPunctuation(s)
	s = looseLiterRe.ReplaceAllString(s, " ")
	s = collapseSpaces(s)

	s = c.protect.restore(s)
	s = cilSplitRe.ReplaceAllString(s, "CIL $1")
	s = hpSpacedRe.ReplaceAllString(s, "${1}HP")
	return collapseSpaces(s)
}

// normalizeDisplacement rewrites displacement tokens into the canonical
// <d>.<d>L form: 20L -> 2.0L, 5L -> 5.0L, "3 L" -> 3.0L. Tokens already
// carrying a decimal pass through with the space squeezed out.
func normalizeDisplacement(s string) string {
	return replaceIndexed(displacementRe, s, func(match string, _, _ int) string {
		digits := strings.TrimSpace(match[:len(match)-1])
		if strings.Contains(digits, ".") {
			return digits + "L"
		}
		if len(digits) == 2 {
			return digits[:1] + "." + digits[1:] + "L"
		}
		return digits + ".0L"
	})
}

// normalizeStandaloneLiters suffixes plausible bare decimals with L when
// nothing nearby claims them as a weight, door count, or serial fragment.
func (c *canonicalizer) normalizeStandaloneLiters(s string) string {
	return replaceIndexed(bareDecimalRe, s, func(match string, start, end int) string {
		liters, err := strconv.ParseFloat(match, 64)
		if err != nil || liters < c.profile.LiterMin || liters > c.profile.LiterMax {
			return match
		}
		// Attached to a longer token (2.0T, 2.0L), leave it alone.
		if end < len(s) && isWordChar(rune(s[end])) {
			return match
		}
		if unitAfterRe.MatchString(s[end:]) {
			return match
		}
		before := s[:start]
		if len(before) > 20 {
			before = before[len(before)-20:]
		}
		if cargoBefore.MatchString(before) {
			return match
		}
		return match + "L"
	})
}

// normalizeTurbo expands turbo-indicating suffixes (2.0T, 1.4 TSI) into
// an explicit displacement plus TURBO marker. When another liter token
// already exists elsewhere in the string, the displacement is emitted
// without a second L so the tokenizer does not see two competing liter
// specs.
func (c *canonicalizer) normalizeTurbo(s string) string {
	for _, re := range []*regexp.Regexp{turboSuffixRe, turboAliasRe} {
		liters := literTokenRe.FindAllStringIndex(s, -1)
		s = c.expandTurboMatches(re, s, liters)
	}
	return s
}

func (c *canonicalizer) expandTurboMatches(re *regexp.Regexp, s string, literSpans [][]int) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		number := s[m[2]:m[3]]
		hasL := m[4] >= 0

		value, err := strconv.ParseFloat(number, 64)
		if err != nil || value < c.profile.LiterMin || value > c.profile.LiterMax {
			b.WriteString(s[last:m[1]])
			last = m[1]
			continue
		}
		if !strings.Contains(number, ".") {
			number += ".0"
		}

		otherLiters := false
		for _, span := range literSpans {
			if span[1] <= m[0] || span[0] >= m[1] {
				otherLiters = true
				break
			}
		}

		b.WriteString(s[last:m[0]])
		switch {
		case hasL, !otherLiters:
			b.WriteString(number + "L TURBO")
		default:
			b.WriteString(number + " TURBO")
		}
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// removeSelfReferences drops the resolved brand and model from the
// version body; identity already lives in dedicated fields.
func removeSelfReferences(s, model, brand string) string {
	for _, phrase := range selfReferenceVariants(model, brand) {
		re, err := regexp.Compile(`(?i)` + wordPattern(phrase))
		if err != nil {
			continue
		}
		s = re.ReplaceAllString(s, " ")
	}
	return s
}

func selfReferenceVariants(model, brand string) []string {
	var variants []string
	if m := Fold(model); m != "" {
		variants = append(variants, m)
	}
	if b := Fold(brand); b != "" {
		variants = append(variants, b)
		if collapsed := strings.ReplaceAll(b, " ", ""); collapsed != b {
			variants = append(variants, collapsed)
		}
		if first, _, ok := strings.Cut(b, " "); ok && len(first) > 2 {
			variants = append(variants, first)
		}
	}
	return variants
}

// stripStrayPunctuation removes periods and commas that do not sit
// between two digits.
func stripStrayPunctuation(s string) string {
	return replaceIndexed(strayPunctRe, s, func(match string, start, end int) string {
		if start > 0 && end < len(s) && isDigit(s[start-1]) && isDigit(s[end]) {
			return match
		}
		return " "
	})
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
