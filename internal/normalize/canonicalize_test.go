package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normauto/vehicle-engine/internal/carrier"
)

func testProfile(t *testing.T) *carrier.Profile {
	t.Helper()
	p := &carrier.Profile{
		ID:       "TESTCO",
		Name:     "Test Carrier",
		Stoplist: []string{"AUT", "STD", "ABS", "A/A", "E/E", "Q/C", "CD", "PIEL", "BA"},
		CylinderMap: map[string]string{
			"V6": "6CIL", "V8": "8CIL", "L4": "4CIL",
		},
		TransmissionMap: map[string]string{
			"AUT": "AUTO", "AUTOMATICO": "AUTO", "S TRONIC": "AUTO", "CVT": "AUTO",
			"STD": "MANUAL", "ESTANDAR": "MANUAL", "MANUAL": "MANUAL",
		},
		InvalidTransmissionCodes: []string{"N/A", "SIN DATO", "S/D"},
		ProtectedTrims: []carrier.ProtectedTrim{
			{Match: "A[ -]?SPEC", Canonical: "A-SPEC"},
			{Match: "TYPE[ -]?S", Canonical: "TYPE-S"},
			{Match: "S[ -]?LINE", Canonical: "S-LINE"},
		},
		BrandAliases: map[string]string{"IZSUZU": "ISUZU"},
	}
	p.ApplyDefaults()
	require.NoError(t, p.Validate())
	return p
}

func testCanonicalizer(t *testing.T) *canonicalizer {
	t.Helper()
	c, err := newCanonicalizer(testProfile(t))
	require.NoError(t, err)
	return c
}

func TestCanonicalizer_Clean_Drivetrain(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "4WD XLT", c.Clean("4X4 XLT", "", ""))
	assert.Equal(t, "AWD PREMIUM", c.Clean("QUATTRO PREMIUM", "", ""))
	assert.Equal(t, "AWD", c.Clean("TRACCION TOTAL", "", ""))
	assert.Equal(t, "RWD", c.Clean("4X2", "", ""))
}

func TestCanonicalizer_Clean_Cylinders(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "6CIL 3.5L", c.Clean("V6 3.5", "", ""))
	assert.Equal(t, "8CIL 5.0L", c.Clean("V8 5.0L", "", ""))
}

func TestCanonicalizer_Clean_Displacement(t *testing.T) {
	c := testCanonicalizer(t)

	// Bare decimals in the plausible range gain the L suffix.
	assert.Equal(t, "SPORT 2.5L", c.Clean("SPORT 2.5", "", ""))
	// Decimal commas are separators in disguise.
	assert.Equal(t, "1.5L TURBO", c.Clean("1,5 TSI", "", ""))
	// Values outside the liter window stay untouched.
	assert.Equal(t, "GT 450.5", c.Clean("GT 450.5", "", ""))
}

func TestCanonicalizer_Clean_Turbo(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "GT 2.0L TURBO", c.Clean("GT 2.0T", "", ""))
	assert.Equal(t, "AWD 2.0L TURBO", c.Clean("TRACCION TOTAL 2.0 TFSI", "", ""))
	// A second liter token already carries the displacement, so the
	// turbo expansion emits the number without another L.
	assert.Equal(t, "1.5 TURBO 2.0L", c.Clean("1.5T 2.0L", "", ""))
	// The no-L form must pass through unchanged: a TURBO following a
	// bare decimal claims it, so the liter stage does not re-suffix it.
	assert.Equal(t, "1.5 TURBO 2.0L", c.Clean("1.5 TURBO 2.0L", "", ""))
}

func TestCanonicalizer_Clean_Horsepower(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "285HP", c.Clean("285 CP", "", ""))
	assert.Equal(t, "150HP", c.Clean("150HP", "", ""))
}

func TestCanonicalizer_Clean_Stoplist(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "XLT", c.Clean("XLT ABS A/A E/E CD", "", ""))
	// Stoplist matches whole words only.
	assert.Equal(t, "ABSOLUTE", c.Clean("ABSOLUTE", "", ""))
}

func TestCanonicalizer_Clean_SelfReferences(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "XLT", c.Clean("FORD F150 XLT", "F150", "FORD"))
	assert.Equal(t, "GLS", c.Clean("JETTA GLS", "JETTA", "VOLKSWAGEN"))
}

func TestCanonicalizer_Clean_ProtectedTrims(t *testing.T) {
	c := testCanonicalizer(t)

	// Hyphenated trims survive hyphen collapsing via the placeholder.
	assert.Equal(t, "A-SPEC", c.Clean("A-SPEC PIEL", "MDX", "ACURA"))
	assert.Equal(t, "A-SPEC", c.Clean("A SPEC", "", ""))
	assert.Equal(t, "TYPE-S 3.0L", c.Clean("TYPE S 3.0", "", ""))
}

func TestCanonicalizer_Clean_DoorsAndOccupantsRemoved(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "XLT", c.Clean("XLT 4 PTS", "", ""))
	assert.Equal(t, "", c.Clean("12 PASAJEROS", "URVAN", "NISSAN"))
	assert.Equal(t, "GL", c.Clean("GL 5 PUERTAS", "", ""))
}

func TestCanonicalizer_Clean_YearsAndPunctuation(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "SPORT", c.Clean("SPORT 2020", "", ""))
	assert.Equal(t, "LIMITED", c.Clean("LIMITED.", "", ""))
	// Periods between digits are decimal points, not punctuation.
	assert.Equal(t, "2.4L", c.Clean("2.4", "", ""))
}

func TestCanonicalizer_Clean_Empty(t *testing.T) {
	c := testCanonicalizer(t)

	assert.Equal(t, "", c.Clean("", "", ""))
	assert.Equal(t, "", c.Clean("   ", "", ""))
}

func TestCanonicalizer_Clean_FullVersion(t *testing.T) {
	c := testCanonicalizer(t)

	got := c.Clean("4X4 5.0L XLT 4 PTS AUT", "F150", "FORD")
	assert.Equal(t, "4WD 5.0L XLT", got)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "JETTA", Fold("  jetta "))
	assert.Equal(t, "LINEA", Fold("línea"))
	assert.Equal(t, "PANAMENO", Fold("panameño"))
}
