package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Model-field noise stripped before hashing. The model must reduce to
// its commercial nameplate so that "NUEVO JETTA", "JETTA SEDAN" and
// "JETTA" all hash to the same identity.
var (
	modelPrefixRe = regexp.MustCompile(`^(?:NUEVO|NUEVA|NEW|PICKUP|PICK UP|CAMIONETA|VAN|TRUCK)\s+`)
	modelSuffixRe = regexp.MustCompile(`\s+(?:SEDAN|HATCHBACK|HB|COUPE|WAGON|VAGONETA|SUV|PICKUP|PICK UP|VAN|CHASIS|MK\s?\d|GEN\s?\d|DR|WT|SL|SLE|SLT)$`)
	cabTypeRe     = regexp.MustCompile(`\s+(?:CREW CAB|DOBLE CABINA|DOB CAB|CAB REG|REG CAB|CABINA REGULAR|CHASIS CABINA)\b`)
	letterDigitRe = regexp.MustCompile(`^([A-Z]) (\d)$`)
)

// NormalizeModel reduces a raw model field to its commercial nameplate:
// marketing prefixes, body styles, cab types, and a repeated brand are
// stripped, split alphanumerics rejoin (A 3 -> A3), and known spelling
// drift is corrected.
func NormalizeModel(model, brand string) string {
	m := Fold(model)
	b := Fold(brand)

	m = modelPrefixRe.ReplaceAllString(m, "")
	m = cabTypeRe.ReplaceAllString(m, " ")
	for {
		next := modelSuffixRe.ReplaceAllString(m, "")
		if next == m {
			break
		}
		m = next
	}
	if b != "" {
		if rest, ok := strings.CutPrefix(m, b+" "); ok {
			m = rest
		}
	}
	m = collapseSpaces(m)
	m = letterDigitRe.ReplaceAllString(m, "$1$2")
	m = strings.ReplaceAll(m, "ETRON", "E-TRON")
	return m
}

// CommercialHash derives the stable commercial identity of a vehicle:
// SHA-256 over the lower-cased pipe-joined brand, normalized model,
// year, and transmission. Identical commercial vehicles across carriers
// produce identical hashes.
func CommercialHash(brand, model string, year int, transmission string) (string, error) {
	brand = strings.TrimSpace(brand)
	model = strings.TrimSpace(model)
	transmission = strings.TrimSpace(transmission)
	if brand == "" || model == "" || year == 0 || transmission == "" {
		return "", fmt.Errorf("commercial hash needs brand, model, year and transmission (got %q, %q, %d, %q)",
			brand, model, year, transmission)
	}
	key := strings.ToLower(strings.Join([]string{brand, model, strconv.Itoa(year), transmission}, "|"))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]), nil
}
