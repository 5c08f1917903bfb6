package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// protector masks protected trim names behind inert placeholders before
// the destructive rewrite stages run, and restores the canonical spelling
// afterwards. Placeholders are underscore-delimited tokens that survive
// hyphen collapsing, punctuation stripping, and whole-word stoplist
// matches, and that no carrier feed can legitimately produce.
type protector struct {
	entries []protectedEntry
}

type protectedEntry struct {
	re          *regexp.Regexp
	placeholder string
	canonical   string
}

func newProtector(trims []carrier.ProtectedTrim) (*protector, error) {
	p := &protector{}
	for i, trim := range trims {
		re, err := regexp.Compile(`(?i)\b(?:` + trim.Match + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("protected trim %q: %w", trim.Match, err)
		}
		p.entries = append(p.entries, protectedEntry{
			re:          re,
			placeholder: fmt.Sprintf("__PROTECTED_%d__", i),
			canonical:   trim.Canonical,
		})
	}
	return p, nil
}

// mask replaces every protected match with its placeholder.
func (p *protector) mask(s string) string {
	for _, e := range p.entries {
		s = e.re.ReplaceAllString(s, e.placeholder)
	}
	return s
}

// restore swaps placeholders back for the canonical trim spelling.
func (p *protector) restore(s string) string {
	for _, e := range p.entries {
		s = strings.ReplaceAll(s, e.placeholder, e.canonical)
	}
	return s
}
