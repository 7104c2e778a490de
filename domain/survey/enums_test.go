package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenderCategories(t *testing.T) {
	assert.Equal(t, []string{"UNKNOWN", "MALE", "FEMALE", "OTHER"}, GenderCategories())
	assert.Equal(t, "FEMALE", Female.Category())
	assert.Equal(t, "UNKNOWN", NonMale.Category())
	assert.Equal(t, "NON_MALE", NonMale.String())
	assert.True(t, Female.Has(NonMale))
	assert.False(t, Male.Has(NonMale))
	assert.False(t, GenderUnknown.Has(GenderKnown))
}

func TestRaceMasks(t *testing.T) {
	assert.Equal(t, []string{"UNKNOWN", "ASIAN", "BLACK", "BROWN", "INDIGENOUS", "WHITE"}, RaceCategories())
	assert.True(t, Brown.Has(Dark))
	assert.True(t, Indigenous.Has(Colored))
	assert.False(t, White.Has(NonWhite))
	assert.True(t, Asian.Has(Light))
	assert.Equal(t, "NON_INDIGENOUS", NonIndigenous.String())
	assert.Equal(t, "UNKNOWN", Race(0b100000).String())
}

func TestStateRegions(t *testing.T) {
	tests := []struct {
		state  State
		region State
		abbr   string
		ibge   int
	}{
		{RS, Sul, "RS", 43},
		{SP, Sudeste, "SP", 35},
		{DF, CentroOeste, "DF", 53},
		{BA, Nordeste, "BA", 29},
		{MA, Nordeste, "MA", 21},
		{RO, Norte, "RO", 11},
		{TO, Norte, "TO", 17},
	}

	for _, test := range tests {
		assert.Equal(t, test.region, test.state.Region(), test.abbr)
		assert.Equal(t, test.abbr, test.state.String())
		assert.Equal(t, test.ibge, test.state.IBGE())
		assert.True(t, test.state.InRegion(AnyRegion), test.abbr)
		assert.True(t, test.state.IsState())

		fromCode, ok := StateFromIBGE(test.ibge)
		assert.True(t, ok)
		assert.Equal(t, test.state, fromCode)
	}

	assert.True(t, PE.InRegion(NorteNordeste))
	assert.False(t, PE.InRegion(NonNordeste))
	assert.True(t, SC.InRegion(SulSudeste))
	assert.True(t, RJ.Has(SP|RJ))
	assert.False(t, MG.Has(SP|RJ))
	assert.False(t, Sul.IsState())
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "São Paulo", SP.VerboseName())
	assert.Equal(t, "Rio Grande do Norte", RN.VerboseName())
	assert.Equal(t, "NORDESTE", Nordeste.VerboseName())
	assert.Equal(t, "UNKNOWN", StateUnknown.String())

	states := States()
	assert.Len(t, states, 27)
	assert.Equal(t, RO, states[0])
	assert.Equal(t, DF, states[len(states)-1])

	cats := StateCategories()
	assert.Equal(t, "UNKNOWN", cats[0])
	assert.Len(t, cats, 28)
	assert.Equal(t, []string{"UNKNOWN", "NORTE", "NORDESTE", "SUDESTE", "SUL", "CENTRO_OESTE"}, RegionCategories())
}

func TestStateCodeTables(t *testing.T) {
	assert.Len(t, StateCodes1992, 27)
	for code, s := range StateCodes1992 {
		assert.Equal(t, code, s.IBGE())
	}
	assert.Equal(t, BA, StateCodes1981[60])
	assert.Equal(t, RO, StateCodes1976[71])
}
