package normalize

import (
	"regexp"
	"sort"
	"strings"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// transmissionResolver merges the explicit code field, the secondary
// code field, and free-text inference into one AUTO/MANUAL value.
type transmissionResolver struct {
	profile      *carrier.Profile
	invalidCodes map[string]struct{}
	inference    []inferenceToken
}

type inferenceToken struct {
	re    *regexp.Regexp
	value string
}

func newTransmissionResolver(profile *carrier.Profile) (*transmissionResolver, error) {
	r := &transmissionResolver{
		profile:      profile,
		invalidCodes: make(map[string]struct{}, len(profile.InvalidTransmissionCodes)),
	}
	for _, code := range profile.InvalidTransmissionCodes {
		r.invalidCodes[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}

	// Longest tokens first so "S TRONIC" wins over a bare "S" never
	// matching, and "AUTOMATICO" is tried before "AUTO".
	tokens := make([]string, 0, len(profile.TransmissionMap))
	for token := range profile.TransmissionMap {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	for _, token := range tokens {
		re, err := regexp.Compile(`(?i)` + wordPattern(token))
		if err != nil {
			return nil, err
		}
		r.inference = append(r.inference, inferenceToken{re, profile.TransmissionMap[token]})
	}
	return r, nil
}

// Resolve returns AUTO or MANUAL, or "" when the transmission cannot be
// determined. Priority: explicit code, then secondary code, then
// free-text inference from the raw version string.
func (r *transmissionResolver) Resolve(primary, secondary, versionOriginal string) string {
	if v := r.normalizeCode(primary); v != "" {
		return v
	}
	if v := r.normalizeCode(secondary); v != "" {
		return v
	}
	return r.infer(versionOriginal)
}

// normalizeCode maps one code field to AUTO/MANUAL. Codes in the invalid
// set count as absent; numeric ordinals follow the 0=unknown, 1=MANUAL,
// 2=AUTO convention; anything that maps outside the enum is discarded.
func (r *transmissionResolver) normalizeCode(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return ""
	}
	if _, invalid := r.invalidCodes[normalized]; invalid {
		return ""
	}
	switch normalized {
	case "0":
		return ""
	case "1":
		return TransmissionManual
	case "2":
		return TransmissionAuto
	}
	mapped, ok := r.profile.TransmissionMap[normalized]
	if !ok {
		return ""
	}
	switch mapped {
	case TransmissionAuto, TransmissionManual:
		return mapped
	}
	return ""
}

// infer scans the free-text version for any configured transmission
// marker, most specific first, and maps the first hit.
func (r *transmissionResolver) infer(versionOriginal string) string {
	if strings.TrimSpace(versionOriginal) == "" {
		return ""
	}
	for _, tok := range r.inference {
		if tok.re.MatchString(versionOriginal) {
			return tok.value
		}
	}
	return ""
}
