package normalize

import (
	"fmt"
	"strings"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

// validateRecord collects every rule violation on a record instead of
// stopping at the first, so one error report names everything the
// carrier has to fix. transmission is the already-resolved value, not
// the raw field.
func validateRecord(r RawVehicleRecord, transmission string, profile *carrier.Profile) []string {
	var violations []string

	if strings.TrimSpace(r.Brand) == "" {
		violations = append(violations, "marca is required")
	}
	if strings.TrimSpace(r.Model) == "" {
		violations = append(violations, "modelo is required")
	}
	if strings.TrimSpace(r.VersionOriginal) == "" {
		violations = append(violations, "version_original is required")
	}
	if !profile.YearValid(r.Year) {
		violations = append(violations,
			fmt.Sprintf("anio %d outside accepted window %d-%d", r.Year, profile.YearMin, profile.YearMax))
	}
	switch transmission {
	case TransmissionAuto, TransmissionManual:
	default:
		violations = append(violations,
			fmt.Sprintf("transmision could not be resolved to AUTO or MANUAL (got %q)", r.Transmission))
	}
	return violations
}
