package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver(t *testing.T) *transmissionResolver {
	t.Helper()
	r, err := newTransmissionResolver(testProfile(t))
	require.NoError(t, err)
	return r
}

func TestTransmissionResolver_PrimaryCode(t *testing.T) {
	r := testResolver(t)

	assert.Equal(t, TransmissionAuto, r.Resolve("AUT", "", ""))
	assert.Equal(t, TransmissionManual, r.Resolve("STD", "", ""))
	assert.Equal(t, TransmissionAuto, r.Resolve("  aut  ", "", ""))
}

func TestTransmissionResolver_NumericOrdinals(t *testing.T) {
	r := testResolver(t)

	assert.Equal(t, TransmissionManual, r.Resolve("1", "", ""))
	assert.Equal(t, TransmissionAuto, r.Resolve("2", "", ""))
	// Zero means unknown, so resolution falls through to the next source.
	assert.Equal(t, TransmissionAuto, r.Resolve("0", "2", ""))
	assert.Equal(t, "", r.Resolve("0", "", ""))
}

func TestTransmissionResolver_InvalidCodes(t *testing.T) {
	r := testResolver(t)

	// Invalid markers count as absent, not as a value.
	assert.Equal(t, TransmissionManual, r.Resolve("N/A", "STD", ""))
	assert.Equal(t, "", r.Resolve("SIN DATO", "S/D", ""))
	assert.Equal(t, "", r.Resolve("GARBAGE", "", ""))
}

func TestTransmissionResolver_SecondaryCode(t *testing.T) {
	r := testResolver(t)

	assert.Equal(t, TransmissionAuto, r.Resolve("", "CVT", ""))
	// Primary wins over secondary when both resolve.
	assert.Equal(t, TransmissionManual, r.Resolve("STD", "AUT", ""))
}

func TestTransmissionResolver_FreeTextInference(t *testing.T) {
	r := testResolver(t)

	assert.Equal(t, TransmissionAuto, r.Resolve("", "", "GLS 1.4 AUT PIEL"))
	assert.Equal(t, TransmissionManual, r.Resolve("", "", "GT ESTANDAR"))
	// Multi-word markers match before their fragments.
	assert.Equal(t, TransmissionAuto, r.Resolve("", "", "A4 S TRONIC 2.0T"))
	assert.Equal(t, "", r.Resolve("", "", "XLT 4X4"))
	// Marker fragments inside longer words never match.
	assert.Equal(t, "", r.Resolve("", "", "AUTENTICO"))
}
