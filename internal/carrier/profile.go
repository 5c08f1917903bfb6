// Package carrier provides per-carrier normalization profiles for the
// Vehicle Engine. A profile captures everything that differs between
// insurance carriers: stoplists, code tables, protected trims, and
// numeric bounds. Carrier differences stay data, never code paths.
package carrier

import (
	"fmt"
	"strings"
)

// ProtectedTrim describes a multi-word or hyphenated trim name that must
// survive the destructive rewrite stages in one canonical spelling.
type ProtectedTrim struct {
	// Match is a case-insensitive regular expression matching the trim in
	// any of the carrier's spellings (e.g. "A[ -]?SPEC").
	Match string `yaml:"match"`
	// Canonical is the spelling emitted in the cleaned version string.
	Canonical string `yaml:"canonical"`
}

// Profile is the full normalization configuration for one carrier.
// Profiles are loaded once and treated as read-only for the lifetime of
// a run.
type Profile struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Valid year window for incoming records.
	YearMin int `yaml:"year_min"`
	YearMax int `yaml:"year_max"`

	// Door counts accepted by the attribute extractor.
	ValidDoors []int `yaml:"valid_doors"`

	// Occupant/passenger count window.
	OccupantMin int `yaml:"occupant_min"`
	OccupantMax int `yaml:"occupant_max"`

	// Plausible engine displacement window in liters. Bare decimals
	// outside this window are never suffixed with L.
	LiterMin float64 `yaml:"liter_min"`
	LiterMax float64 `yaml:"liter_max"`

	// BatchSize is the record count processed per batch slice.
	BatchSize int `yaml:"batch_size"`

	// DefaultTransmission, when set to AUTO or MANUAL, is assigned to
	// records whose transmission cannot be resolved instead of failing
	// validation. Every shipped profile leaves this empty; it exists
	// only because one legacy carrier feed behaved this way.
	DefaultTransmission string `yaml:"default_transmission,omitempty"`

	// Stoplist holds comfort/audio/safety noise tokens removed from the
	// version string as whole words.
	Stoplist []string `yaml:"stoplist"`

	// CylinderMap maps engine-layout codes (V6, L4, ...) to canonical
	// <n>CIL labels.
	CylinderMap map[string]string `yaml:"cylinders"`

	// TransmissionMap maps carrier transmission codes and free-text
	// markers to AUTO or MANUAL.
	TransmissionMap map[string]string `yaml:"transmissions"`

	// InvalidTransmissionCodes are values treated as absent, not as a
	// transmission ("N/A", "SIN DATO", ...).
	InvalidTransmissionCodes []string `yaml:"invalid_transmission_codes"`

	// ProtectedTrims are masked before any rewrite and restored after.
	ProtectedTrims []ProtectedTrim `yaml:"protected_trims"`

	// BrandAliases canonicalize misspelled or merged brands
	// (IZSUZU -> ISUZU, MINI COOPER -> BMW).
	BrandAliases map[string]string `yaml:"brand_aliases,omitempty"`

	// ResidualTokens are single-letter leftovers from abbreviation
	// stripping that are dropped entirely.
	ResidualTokens []string `yaml:"residual_tokens"`
}

// ApplyDefaults fills unset numeric bounds with the values shared by most
// carrier feeds.
func (p *Profile) ApplyDefaults() {
	if p.YearMin == 0 {
		p.YearMin = 2000
	}
	if p.YearMax == 0 {
		p.YearMax = 2030
	}
	if len(p.ValidDoors) == 0 {
		p.ValidDoors = []int{2, 3, 4, 5, 7}
	}
	if p.OccupantMin == 0 {
		p.OccupantMin = 2
	}
	if p.OccupantMax == 0 {
		p.OccupantMax = 23
	}
	if p.LiterMin == 0 {
		p.LiterMin = 0.5
	}
	if p.LiterMax == 0 {
		p.LiterMax = 12.0
	}
	if p.BatchSize == 0 {
		p.BatchSize = 5000
	}
	if len(p.ResidualTokens) == 0 {
		p.ResidualTokens = []string{"A", "B", "C", "E", "Q", "V", "P"}
	}
}

// Validate checks the profile for configuration errors.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	if p.YearMin >= p.YearMax {
		return fmt.Errorf("profile %s: invalid year window %d-%d", p.ID, p.YearMin, p.YearMax)
	}
	if p.OccupantMin >= p.OccupantMax {
		return fmt.Errorf("profile %s: invalid occupant window %d-%d", p.ID, p.OccupantMin, p.OccupantMax)
	}
	if p.LiterMin >= p.LiterMax {
		return fmt.Errorf("profile %s: invalid liter window %.1f-%.1f", p.ID, p.LiterMin, p.LiterMax)
	}
	switch p.DefaultTransmission {
	case "", "AUTO", "MANUAL":
	default:
		return fmt.Errorf("profile %s: default_transmission must be AUTO or MANUAL, got %q", p.ID, p.DefaultTransmission)
	}
	for code, value := range p.TransmissionMap {
		if value != "AUTO" && value != "MANUAL" {
			return fmt.Errorf("profile %s: transmission code %q maps to %q, want AUTO or MANUAL", p.ID, code, value)
		}
	}
	for _, trim := range p.ProtectedTrims {
		if trim.Match == "" || trim.Canonical == "" {
			return fmt.Errorf("profile %s: protected trim needs both match and canonical", p.ID)
		}
	}
	return nil
}

// DoorsValid reports whether the extracted door count is accepted.
func (p *Profile) DoorsValid(n int) bool {
	for _, d := range p.ValidDoors {
		if d == n {
			return true
		}
	}
	return false
}

// OccupantsValid reports whether the extracted occupant count is accepted.
func (p *Profile) OccupantsValid(n int) bool {
	return n >= p.OccupantMin && n <= p.OccupantMax
}

// YearValid reports whether the model year falls inside the carrier window.
func (p *Profile) YearValid(year int) bool {
	return year >= p.YearMin && year <= p.YearMax
}

// ResolveBrand maps a raw brand through the carrier's alias table.
func (p *Profile) ResolveBrand(brand string) string {
	normalized := strings.ToUpper(strings.TrimSpace(brand))
	if alias, ok := p.BrandAliases[normalized]; ok {
		return alias
	}
	return normalized
}
