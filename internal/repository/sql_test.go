package repository

import (
	"strings"
	"testing"

	"github.com/senyabanana/licitaciones/internal/query"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCountQuery(t *testing.T) {
	preds := []query.Predicate{
		query.Or{
			query.Contains{Field: query.FieldContractingParty, Value: "a_b"},
			query.Contains{Field: query.FieldProjectName, Value: "a_b"},
		},
		query.Or{
			query.Prefix{Field: query.FieldCPVCode, Value: "45"},
			query.Prefix{Field: query.FieldCPVCode, Value: "90%"},
		},
		query.Prefix{Field: query.FieldNUTSCode, Value: "ES52"},
		query.Eq{Field: query.FieldContractingParty, Value: "Ayuntamiento"},
		query.AtLeast{Field: query.FieldClosingDate, Value: "2024-01-01"},
		query.AtMost{Field: query.FieldClosingDate, Value: "2024-02-01"},
	}

	q, args, err := buildCountQuery(preds)
	require.NoError(t, err)

	assert.Equal(t, `SELECT COUNT(*) FROM licitaciones l WHERE `+
		`(l."contracting_party_name" ILIKE $1 OR l."project_name" ILIKE $2) `+
		`AND l."cpv_code" LIKE ANY($3) `+
		`AND l."nuts_code" LIKE $4 `+
		`AND l."contracting_party_name" = $5 `+
		`AND l."fecha_fin_presentacion" >= $6::date `+
		`AND l."fecha_fin_presentacion" <= $7::date`, q)
	assert.Equal(t, []interface{}{
		`%a\_b%`,
		`%a\_b%`,
		pq.Array([]string{"45%", `90\%%`}),
		"ES52%",
		"Ayuntamiento",
		"2024-01-01",
		"2024-02-01",
	}, args)
}

func TestBuildCountQueryWithoutPredicates(t *testing.T) {
	q, args, err := buildCountQuery(nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM licitaciones l", q)
	assert.Empty(t, args)
}

func TestBuildRangeQuery(t *testing.T) {
	preds := []query.Predicate{
		query.Eq{Field: query.FieldNUTSCode, Value: "ES523"},
		query.AtLeast{Field: query.FieldClosingDate, Value: "2024-03-15"},
	}

	q, args, err := buildRangeQuery(preds, query.Sort{Field: query.FieldAmount, Descending: true}, 200, 100)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(q, "SELECT l.id::text, l.project_name"))
	assert.True(t, strings.HasSuffix(q, ` FROM licitaciones l WHERE l."nuts_code" = $1 `+
		`AND l."fecha_fin_presentacion" >= $2::date `+
		`ORDER BY l."importe" DESC NULLS LAST, l.id ASC LIMIT $3 OFFSET $4`), q)
	assert.Equal(t, []interface{}{"ES523", "2024-03-15", 100, 200}, args)
}

func TestBuildRangeQuerySortByID(t *testing.T) {
	q, _, err := buildRangeQuery(nil, query.Sort{Field: query.FieldID}, 0, 10)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q, `ORDER BY l."id" ASC NULLS LAST LIMIT $1 OFFSET $2`), q)
}

func TestMixedOrGroupIsExpanded(t *testing.T) {
	preds := []query.Predicate{query.Or{
		query.Prefix{Field: query.FieldCPVCode, Value: "45"},
		query.Prefix{Field: query.FieldNUTSCode, Value: "ES"},
	}}

	q, args, err := buildCountQuery(preds)
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM licitaciones l WHERE (l."cpv_code" LIKE $1 OR l."nuts_code" LIKE $2)`, q)
	assert.Equal(t, []interface{}{"45%", "ES%"}, args)
}

func TestEmptyOrIsFalse(t *testing.T) {
	q, args, err := buildCountQuery([]query.Predicate{query.Or{}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM licitaciones l WHERE FALSE", q)
	assert.Empty(t, args)
}

func TestBuildQueryRejectsUnknownInput(t *testing.T) {
	_, _, err := buildCountQuery([]query.Predicate{query.Eq{Field: "secret", Value: "x"}})
	assert.Error(t, err)

	_, _, err = buildCountQuery([]query.Predicate{nil})
	assert.Error(t, err)

	_, _, err = buildRangeQuery(nil, query.Sort{Field: "1; DROP TABLE licitaciones"}, 0, 10)
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_x\\`, escapeLike(`100% _x\`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
