package repository

import (
	"fmt"
	"strings"

	"github.com/senyabanana/licitaciones/internal/query"

	"github.com/lib/pq"
)

const selectColumns = `l.id::text, l.project_name, l.contracting_party_name, l.cpv_code, l.nuts_code,
       l.territory_name, l.fecha_fin_presentacion, l.importe, l.anuncio_link`

// column описывает колонку таблицы licitaciones.
type column struct {
	name string
	date bool
}

// columns сопоставляет логические поля с колонками таблицы.
var columns = map[query.Field]column{
	query.FieldID:               {name: "id"},
	query.FieldProjectName:      {name: "project_name"},
	query.FieldContractingParty: {name: "contracting_party_name"},
	query.FieldCPVCode:          {name: "cpv_code"},
	query.FieldCPVDescription:   {name: "cpv_description"},
	query.FieldNUTSCode:         {name: "nuts_code"},
	query.FieldTerritoryName:    {name: "territory_name"},
	query.FieldClosingDate:      {name: "fecha_fin_presentacion", date: true},
	query.FieldAmount:           {name: "importe"},
}

// sqlBuilder накапливает условия и аргументы с нумерацией плейсхолдеров.
type sqlBuilder struct {
	args     []interface{}
	argIndex int
}

func newSQLBuilder() *sqlBuilder {
	return &sqlBuilder{argIndex: 1}
}

func (b *sqlBuilder) bind(v interface{}) string {
	b.args = append(b.args, v)
	placeholder := fmt.Sprintf("$%d", b.argIndex)
	b.argIndex++
	return placeholder
}

func columnRef(f query.Field) (column, string, error) {
	c, ok := columns[f]
	if !ok {
		return column{}, "", fmt.Errorf("unknown field %q", f)
	}
	return c, "l." + pq.QuoteIdentifier(c.name), nil
}

// where рендерит набор предикатов в конъюнкцию SQL-условий.
func (b *sqlBuilder) where(preds []query.Predicate) (string, error) {
	var filters []string
	for _, p := range preds {
		cond, err := b.predicate(p)
		if err != nil {
			return "", err
		}
		filters = append(filters, cond)
	}
	if len(filters) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(filters, " AND "), nil
}

func (b *sqlBuilder) predicate(p query.Predicate) (string, error) {
	switch p := p.(type) {
	case query.Eq:
		_, ref, err := columnRef(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", ref, b.bind(p.Value)), nil
	case query.Prefix:
		_, ref, err := columnRef(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s LIKE %s", ref, b.bind(escapeLike(p.Value)+"%")), nil
	case query.Contains:
		_, ref, err := columnRef(p.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s ILIKE %s", ref, b.bind("%"+escapeLike(p.Value)+"%")), nil
	case query.AtLeast:
		return b.bound(p.Field, ">=", p.Value)
	case query.AtMost:
		return b.bound(p.Field, "<=", p.Value)
	case query.Or:
		return b.or(p)
	default:
		return "", fmt.Errorf("unsupported predicate %T", p)
	}
}

func (b *sqlBuilder) bound(f query.Field, op, value string) (string, error) {
	c, ref, err := columnRef(f)
	if err != nil {
		return "", err
	}
	placeholder := b.bind(value)
	if c.date {
		placeholder += "::date"
	}
	return fmt.Sprintf("%s %s %s", ref, op, placeholder), nil
}

// or рендерит дизъюнкцию. Группа префиксов по одному полю
// сворачивается в LIKE ANY с массивом шаблонов.
func (b *sqlBuilder) or(group query.Or) (string, error) {
	if len(group) == 0 {
		return "FALSE", nil
	}

	if field, patterns, ok := prefixGroup(group); ok {
		_, ref, err := columnRef(field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s LIKE ANY(%s)", ref, b.bind(pq.Array(patterns))), nil
	}

	parts := make([]string, 0, len(group))
	for _, p := range group {
		cond, err := b.predicate(p)
		if err != nil {
			return "", err
		}
		parts = append(parts, cond)
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

func prefixGroup(group query.Or) (query.Field, []string, bool) {
	var field query.Field
	patterns := make([]string, 0, len(group))
	for i, p := range group {
		prefix, ok := p.(query.Prefix)
		if !ok || (i > 0 && prefix.Field != field) {
			return "", nil, false
		}
		field = prefix.Field
		patterns = append(patterns, escapeLike(prefix.Value)+"%")
	}
	return field, patterns, true
}

// orderBy рендерит сортировку; пустые значения всегда в конце.
func orderBy(s query.Sort) (string, error) {
	_, ref, err := columnRef(s.Field)
	if err != nil {
		return "", err
	}
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	clause := fmt.Sprintf(" ORDER BY %s %s NULLS LAST", ref, dir)
	if s.Field != query.FieldID {
		clause += ", l.id ASC"
	}
	return clause, nil
}

// buildCountQuery строит запрос подсчёта по плану.
func buildCountQuery(preds []query.Predicate) (string, []interface{}, error) {
	b := newSQLBuilder()
	where, err := b.where(preds)
	if err != nil {
		return "", nil, err
	}
	return "SELECT COUNT(*) FROM licitaciones l" + where, b.args, nil
}

// buildRangeQuery строит запрос страницы по тому же плану.
func buildRangeQuery(preds []query.Predicate, s query.Sort, offset, limit int) (string, []interface{}, error) {
	b := newSQLBuilder()
	where, err := b.where(preds)
	if err != nil {
		return "", nil, err
	}
	order, err := orderBy(s)
	if err != nil {
		return "", nil, err
	}

	q := "SELECT " + selectColumns + " FROM licitaciones l" + where + order
	q += fmt.Sprintf(" LIMIT %s OFFSET %s", b.bind(limit), b.bind(offset))
	return q, b.args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
