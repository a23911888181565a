package filters

import (
	"net/url"
	"testing"

	"github.com/senyabanana/licitaciones/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func TestParseEmptyValuesYieldZeroFilter(t *testing.T) {
	f := Parse(mustQuery(t, "busqueda=&province=&cpvCodes="))
	assert.Equal(t, models.Filter{}, f)
	assert.True(t, f.IsEmpty())

	all := Parse(mustQuery(t, "busqueda=&q=&cpvCodes=&cpv=&cpvSearch=&province=&organismo=&from=&to=&mostrarFinalizadas="))
	assert.Equal(t, models.Filter{}, all)
}

func TestParseSearchText(t *testing.T) {
	assert.Equal(t, "valencia", Parse(mustQuery(t, "busqueda=valencia")).SearchText)
	assert.Equal(t, "obras", Parse(mustQuery(t, "busqueda=%20%20obras%20")).SearchText)
	assert.Equal(t, "limpieza", Parse(mustQuery(t, "q=limpieza")).SearchText)
	assert.Equal(t, "primero", Parse(mustQuery(t, "busqueda=primero&q=segundo")).SearchText)
	assert.Empty(t, Parse(mustQuery(t, "busqueda=%20%20")).SearchText)
}

func TestParseRegionHierarchy(t *testing.T) {
	tests := []struct {
		query string
		want  *models.RegionFilter
	}{
		{"province=ES523", &models.RegionFilter{Level: 3, Code: "ES523", Match: models.RegionMatchEq}},
		{"province=ES30", &models.RegionFilter{Level: 2, Code: "ES30", Match: models.RegionMatchPrefix}},
		{"province=ES5", &models.RegionFilter{Level: 1, Code: "ES5", Match: models.RegionMatchPrefix}},
		{"province=es300", &models.RegionFilter{Level: 3, Code: "ES300", Match: models.RegionMatchEq}},
		{"province=all", nil},
		{"province=ALL", nil},
		{"province=+all+", nil},
		{"province=", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(mustQuery(t, tt.query)).Region)
		})
	}
}

func TestParseCPVCodes(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{"json array", url.Values{KeyCPVCodes: {`["45000000","90000000"]`}}, []string{"45000000", "90000000"}},
		{"malformed json", url.Values{KeyCPVCodes: {"invalid-json"}}, []string{"invalid-json"}},
		{"non string array", url.Values{KeyCPVCodes: {`[45000000]`}}, []string{"[45000000]"}},
		{"blank entries dropped", url.Values{KeyCPVCodes: {`["", " 72 "]`}}, []string{"72"}},
		{"empty array", url.Values{KeyCPVCodes: {`[]`}}, nil},
		{"json null", url.Values{KeyCPVCodes: {`null`}}, nil},
		{"legacy single code", url.Values{KeyCPV: {"45233140"}}, []string{"45233140"}},
		{"array wins over legacy", url.Values{KeyCPVCodes: {`["72"]`}, KeyCPV: {"45"}}, []string{"72"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.query).CPVCodes)
		})
	}
}

func TestParsePassThroughFields(t *testing.T) {
	f := Parse(mustQuery(t, "organismo=Ayuntamiento+de+Valencia&from=2024-01-01&to=not-a-date&cpvSearch=+limpieza"))
	assert.Equal(t, "Ayuntamiento de Valencia", f.Organization)
	assert.Equal(t, "2024-01-01", f.DateFrom)
	assert.Equal(t, "not-a-date", f.DateTo)
	assert.Equal(t, " limpieza", f.CPVSearch)
}

func TestParseRecentlyClosedRequiresLiteralTrue(t *testing.T) {
	for _, v := range []string{"false", "1", "TRUE", "yes", ""} {
		assert.False(t, Parse(url.Values{KeyRecentlyClosed: {v}}).IncludeRecentlyClosed, v)
	}
	assert.True(t, Parse(url.Values{KeyRecentlyClosed: {"true"}}).IncludeRecentlyClosed)
}

func TestParseIgnoresUnknownKeys(t *testing.T) {
	f := Parse(mustQuery(t, "page=3&foo=bar&busqueda=x"))
	assert.Equal(t, models.Filter{SearchText: "x"}, f)
}

func TestParseQueryToleratesBrokenEscapes(t *testing.T) {
	f := ParseQuery("?busqueda=valencia&broken=%zz&province=ES523")
	assert.Equal(t, "valencia", f.SearchText)
	require.NotNil(t, f.Region)
	assert.Equal(t, "ES523", f.Region.Code)
}

func TestEncodeRoundTrip(t *testing.T) {
	filters := []models.Filter{
		{},
		{SearchText: "valencia"},
		{
			SearchText:            "construcción",
			CPVCodes:              []string{"45000000", "90910000"},
			CPVSearch:             "limpieza",
			Region:                &models.RegionFilter{Level: 3, Code: "ES523", Match: models.RegionMatchEq},
			Organization:          "Ayuntamiento de Valencia",
			DateFrom:              "2024-01-01",
			DateTo:                "2024-12-31",
			IncludeRecentlyClosed: true,
		},
	}
	for _, f := range filters {
		encoded := Encode(f)
		assert.Equal(t, f, Parse(encoded))
		assert.Equal(t, f, ParseQuery(encoded.Encode()))
	}
	assert.Empty(t, Encode(models.Filter{}))
}
