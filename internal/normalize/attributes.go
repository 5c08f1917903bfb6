package normalize

import (
	"regexp"
	"strconv"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// Door and occupant phrases are extracted from the untouched source text,
// never from the cleaned stream: the stoplist and cleanup stages would
// otherwise destroy the evidence before it is captured. Patterns run in
// order, first match wins.
var doorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2})\s*PUERTAS?\b`),
	regexp.MustCompile(`\b(\d{1,2})\s*P(?:TAS?|TS?|TA)\.?\b`),
	regexp.MustCompile(`\b(\d{1,2})\s*P\b`),
}

var occupantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b0?(\d{1,2})\s*OCUPANTES?\b`),
	regexp.MustCompile(`\b0?(\d{1,2})\s*(?:OCUP|OCU|OC)\.?\b`),
	regexp.MustCompile(`\b0?(\d{1,2})\s*(?:PASAJEROS?|PAS|PAX)\b`),
}

// Attributes holds the tokens recovered from the raw version text.
// Either field may be empty when no valid phrase was found.
type Attributes struct {
	Doors     string // "<n>PUERTAS" or ""
	Occupants string // "<n>OCUP" or ""
}

// ExtractAttributes pulls door and occupant counts out of the raw version
// string, rejecting values outside the carrier's accepted ranges.
func ExtractAttributes(versionOriginal string, profile *carrier.Profile) Attributes {
	upper := Fold(versionOriginal)
	var attrs Attributes

	for _, re := range doorPatterns {
		m := re.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && profile.DoorsValid(n) {
			attrs.Doors = strconv.Itoa(n) + "PUERTAS"
		}
		break
	}

	for _, re := range occupantPatterns {
		m := re.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && profile.OccupantsValid(n) {
			attrs.Occupants = strconv.Itoa(n) + "OCUP"
		}
		break
	}

	return attrs
}
