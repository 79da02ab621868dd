package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSaleType(t *testing.T) {
	tests := []struct {
		in   string
		want SaleType
		ok   bool
	}{
		{"Sale", SaleTypeSale, true},
		{"buy", SaleTypeSale, true},
		{" RENT ", SaleTypeRent, true},
		{"any", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSaleType(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestParseEnergyClass(t *testing.T) {
	c, ok := ParseEnergyClass("b")
	assert.True(t, ok)
	assert.Equal(t, EnergyClass("B"), c)

	_, ok = ParseEnergyClass("H")
	assert.False(t, ok)
}

func TestParseReviewStatus(t *testing.T) {
	st, ok := ParseReviewStatus("pending")
	assert.True(t, ok)
	assert.Equal(t, StatusPending, st)

	_, ok = ParseReviewStatus("All")
	assert.False(t, ok)
}

func TestProperty_HasService(t *testing.T) {
	p := Property{Services: []Service{{ServiceName: "Elevator"}, {ServiceName: "garage"}}}
	assert.True(t, p.HasService("elevator"))
	assert.True(t, p.HasService("GARAGE"))
	assert.False(t, p.HasService("terrace"))
}

func TestProperty_MunicipalityName(t *testing.T) {
	assert.Empty(t, Property{}.MunicipalityName())
	assert.Empty(t, Property{Address: &Address{Street: "Via Roma"}}.MunicipalityName())
	p := Property{Address: &Address{Municipality: &Municipality{Name: "Napoli"}}}
	assert.Equal(t, "Napoli", p.MunicipalityName())
}

func TestLookupService(t *testing.T) {
	e, ok := LookupService("cellar")
	assert.True(t, ok)
	assert.Equal(t, "Cellar", e.Name)

	_, ok = LookupService("pool")
	assert.False(t, ok)
	assert.Len(t, Catalog, 11)
}
