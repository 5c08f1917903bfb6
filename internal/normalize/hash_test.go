package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeModel(t *testing.T) {
	tests := []struct {
		name  string
		model string
		brand string
		want  string
	}{
		{"plain", "JETTA", "VOLKSWAGEN", "JETTA"},
		{"marketing prefix", "NUEVO JETTA", "VOLKSWAGEN", "JETTA"},
		{"body style suffix", "JETTA SEDAN", "VOLKSWAGEN", "JETTA"},
		{"pickup prefix", "PICKUP RANGER", "FORD", "RANGER"},
		{"repeated brand", "FORD F150", "FORD", "F150"},
		{"cab type", "SILVERADO DOBLE CABINA", "CHEVROLET", "SILVERADO"},
		{"split alphanumeric", "A 3", "AUDI", "A3"},
		{"spelling drift", "ETRON", "AUDI", "E-TRON"},
		{"stacked suffixes", "CHEYENNE PICKUP WT", "CHEVROLET", "CHEYENNE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeModel(tt.model, tt.brand))
		})
	}
}

func TestCommercialHash_KnownVector(t *testing.T) {
	hash, err := CommercialHash("FORD", "F150", 2020, "AUTO")
	require.NoError(t, err)
	assert.Equal(t, "c7ad58acb2f444a9d092b04c92ffc0e83f81125a17bd1ab14d4bb550f597587f", hash)
}

func TestCommercialHash_CaseInsensitive(t *testing.T) {
	a, err := CommercialHash("Ford", "f150", 2020, "auto")
	require.NoError(t, err)
	b, err := CommercialHash("FORD", "F150", 2020, "AUTO")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCommercialHash_DistinguishesComponents(t *testing.T) {
	auto, err := CommercialHash("FORD", "F150", 2020, "AUTO")
	require.NoError(t, err)
	manual, err := CommercialHash("FORD", "F150", 2020, "MANUAL")
	require.NoError(t, err)
	assert.NotEqual(t, auto, manual)

	year, err := CommercialHash("FORD", "F150", 2021, "AUTO")
	require.NoError(t, err)
	assert.NotEqual(t, auto, year)
}

func TestCommercialHash_MissingComponents(t *testing.T) {
	_, err := CommercialHash("", "F150", 2020, "AUTO")
	assert.Error(t, err)

	_, err = CommercialHash("FORD", "", 2020, "AUTO")
	assert.Error(t, err)

	_, err = CommercialHash("FORD", "F150", 0, "AUTO")
	assert.Error(t, err)

	_, err = CommercialHash("FORD", "F150", 2020, "")
	assert.Error(t, err)
}
