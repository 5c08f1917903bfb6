package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// numericSpecRe matches unit-bearing spec tokens (2.0L, 6CIL, 150HP).
// The unit capture is the dedup key: a version string carries at most
// one displacement, one cylinder count, and so on.
var numericSpecRe = regexp.MustCompile(`^\d+(?:\.\d+)?(PUERTAS|OCUP|CIL|HP|L|TON|PAX|KG)$`)

// numericContext lists unit words that claim the bare numeral before
// them. A numeral directly followed by one of these is a count fragment
// left over from a phrase the earlier stages could not fully remove,
// never a trim designation.
var numericContext = map[string]struct{}{
	"OCUP": {}, "OCUPANTE": {}, "OCUPANTES": {}, "OCUPACION": {},
	"PASAJERO": {}, "PASAJEROS": {}, "PAS": {}, "PAX": {},
	"PUERTA": {}, "PUERTAS": {},
	"HP": {}, "CV": {}, "KW": {},
	"TON": {}, "TONELADAS": {},
}

var bareNumberRe = regexp.MustCompile(`^\d+$`)

// tokenize splits a cleaned version body into deduplicated tokens.
// Unit-bearing numeric specs dedupe by unit, alphabetic tokens by value,
// and bare numbers never dedupe against each other (an engine "6" and a
// series "6" can legitimately coexist). Single-letter residue from
// abbreviation stripping is dropped.
func tokenize(body string, profile *carrier.Profile) []string {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil
	}

	residual := make(map[string]struct{}, len(profile.ResidualTokens))
	for _, t := range profile.ResidualTokens {
		residual[t] = struct{}{}
	}

	seenUnit := make(map[string]struct{})
	seenWord := make(map[string]struct{})
	out := make([]string, 0, len(fields))

	for i := 0; i < len(fields); i++ {
		tok := fields[i]

		if _, drop := residual[tok]; drop {
			continue
		}

		if bareNumberRe.MatchString(tok) {
			if i+1 < len(fields) {
				if _, ctx := numericContext[fields[i+1]]; ctx {
					// Consume the numeral and its unit word together.
					i++
					continue
				}
			}
			out = append(out, tok)
			continue
		}

		if m := numericSpecRe.FindStringSubmatch(tok); m != nil {
			if _, dup := seenUnit[m[1]]; dup {
				continue
			}
			seenUnit[m[1]] = struct{}{}
			out = append(out, tok)
			continue
		}

		if _, dup := seenWord[tok]; dup {
			continue
		}
		seenWord[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// fallbackDoors recovers a door count from a lone bare numeral when no
// door phrase was present in the source text. The numeral must be a
// valid door count and must be the only bare number in the token list,
// otherwise it stays where it is.
func fallbackDoors(tokens []string, profile *carrier.Profile) ([]string, string) {
	idx := -1
	count := 0
	for i, tok := range tokens {
		if !bareNumberRe.MatchString(tok) {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || !profile.DoorsValid(n) {
			continue
		}
		idx = i
		count++
	}
	if count != 1 {
		return tokens, ""
	}
	doors := tokens[idx] + "PUERTAS"
	return append(tokens[:idx:idx], tokens[idx+1:]...), doors
}
