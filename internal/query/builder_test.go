package query

import (
	"testing"
	"time"

	"github.com/senyabanana/licitaciones/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

var madrid = mustLocation("Europe/Madrid")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("CET", 3600)
	}
	return loc
}

// 00:30 в Мадриде - ещё 22:30 предыдущего дня по UTC.
var today = time.Date(2024, 3, 15, 0, 30, 0, 0, madrid)

func TestBuildEmptyFilterOnlyOpenItems(t *testing.T) {
	got := Build(models.Filter{}, nil, today)
	want := Plan{
		Predicates: []Predicate{AtLeast{Field: FieldClosingDate, Value: "2024-03-15"}},
		Sort:       Sort{Field: FieldClosingDate},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFullFilterOrder(t *testing.T) {
	f := models.Filter{
		SearchText:            "valencia",
		CPVCodes:              []string{"45", "9091"},
		CPVSearch:             "ignored by storage",
		Region:                &models.RegionFilter{Level: 2, Code: "ES52", Match: models.RegionMatchPrefix},
		Organization:          "Ayuntamiento de Valencia",
		DateFrom:              "2024-01-01",
		DateTo:                "2024-06-30",
		IncludeRecentlyClosed: true,
	}

	got := Build(f, &models.OrderBy{Field: "importe", Dir: models.SortDesc}, today)
	want := Plan{
		Predicates: []Predicate{
			Or{
				Contains{Field: FieldContractingParty, Value: "valencia"},
				Contains{Field: FieldProjectName, Value: "valencia"},
				Contains{Field: FieldCPVCode, Value: "valencia"},
				Contains{Field: FieldCPVDescription, Value: "valencia"},
				Contains{Field: FieldNUTSCode, Value: "valencia"},
				Contains{Field: FieldTerritoryName, Value: "valencia"},
			},
			Or{
				Prefix{Field: FieldCPVCode, Value: "45"},
				Prefix{Field: FieldCPVCode, Value: "9091"},
			},
			Prefix{Field: FieldNUTSCode, Value: "ES52"},
			Eq{Field: FieldContractingParty, Value: "Ayuntamiento de Valencia"},
			AtLeast{Field: FieldClosingDate, Value: "2024-01-01"},
			AtMost{Field: FieldClosingDate, Value: "2024-06-30"},
			AtLeast{Field: FieldClosingDate, Value: "2024-03-08"},
		},
		Sort: Sort{Field: FieldAmount, Descending: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRegionExactMatch(t *testing.T) {
	f := models.Filter{Region: &models.RegionFilter{Level: 3, Code: "ES523", Match: models.RegionMatchEq}}
	got := Build(f, nil, today)
	assert.Equal(t, Eq{Field: FieldNUTSCode, Value: "ES523"}, got.Predicates[0])
}

func TestBuildRecentlyClosedWindowCrossesMonth(t *testing.T) {
	day := time.Date(2024, 3, 3, 23, 59, 0, 0, time.UTC)
	got := Build(models.Filter{IncludeRecentlyClosed: true}, nil, day)
	assert.Equal(t, []Predicate{AtLeast{Field: FieldClosingDate, Value: "2024-02-25"}}, got.Predicates)
}

func TestBuildSortFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name  string
		order *models.OrderBy
		want  Sort
	}{
		{"nil", nil, DefaultSort},
		{"unknown field", &models.OrderBy{Field: "id; DROP TABLE licitaciones", Dir: models.SortDesc}, DefaultSort},
		{"cpv description is not sortable", &models.OrderBy{Field: "cpv_description"}, DefaultSort},
		{"asc", &models.OrderBy{Field: "project_name", Dir: models.SortAsc}, Sort{Field: FieldProjectName}},
		{"unknown dir", &models.OrderBy{Field: "project_name", Dir: "sideways"}, Sort{Field: FieldProjectName}},
		{"desc", &models.OrderBy{Field: "fecha_fin_presentacion", Dir: models.SortDesc}, Sort{Field: FieldClosingDate, Descending: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(models.Filter{}, tt.order, today).Sort)
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	f := models.Filter{SearchText: "x", CPVCodes: []string{"1", "2"}}
	assert.Equal(t, Build(f, nil, today), Build(f, nil, today))
}
