package query

import (
	"time"

	"github.com/senyabanana/licitaciones/internal/models"
)

const (
	dateLayout         = "2006-01-02"
	recentlyClosedDays = 7
)

// SearchFields - поля, по которым ищется общий поисковый текст.
var SearchFields = []Field{
	FieldContractingParty,
	FieldProjectName,
	FieldCPVCode,
	FieldCPVDescription,
	FieldNUTSCode,
	FieldTerritoryName,
}

var sortable = map[Field]bool{
	FieldID:               true,
	FieldProjectName:      true,
	FieldContractingParty: true,
	FieldCPVCode:          true,
	FieldNUTSCode:         true,
	FieldTerritoryName:    true,
	FieldClosingDate:      true,
	FieldAmount:           true,
}

// DefaultSort - по дате окончания подачи, ближайшие первыми.
var DefaultSort = Sort{Field: FieldClosingDate}

// Build переводит фильтр в план запроса. today задаёт текущую дату
// в нужном часовом поясе; время суток отбрасывается.
func Build(f models.Filter, order *models.OrderBy, today time.Time) Plan {
	var preds []Predicate

	if f.SearchText != "" {
		group := make(Or, 0, len(SearchFields))
		for _, field := range SearchFields {
			group = append(group, Contains{Field: field, Value: f.SearchText})
		}
		preds = append(preds, group)
	}

	if len(f.CPVCodes) > 0 {
		group := make(Or, 0, len(f.CPVCodes))
		for _, code := range f.CPVCodes {
			group = append(group, Prefix{Field: FieldCPVCode, Value: code})
		}
		preds = append(preds, group)
	}

	if f.Region != nil && f.Region.Code != "" {
		if f.Region.Match == models.RegionMatchEq {
			preds = append(preds, Eq{Field: FieldNUTSCode, Value: f.Region.Code})
		} else {
			preds = append(preds, Prefix{Field: FieldNUTSCode, Value: f.Region.Code})
		}
	}

	if f.Organization != "" {
		preds = append(preds, Eq{Field: FieldContractingParty, Value: f.Organization})
	}

	if f.DateFrom != "" {
		preds = append(preds, AtLeast{Field: FieldClosingDate, Value: f.DateFrom})
	}
	if f.DateTo != "" {
		preds = append(preds, AtMost{Field: FieldClosingDate, Value: f.DateTo})
	}

	preds = append(preds, AtLeast{Field: FieldClosingDate, Value: windowStart(f, today)})

	return Plan{
		Predicates: preds,
		Sort:       resolveSort(order),
	}
}

// windowStart возвращает нижнюю границу видимости: сегодня, либо
// неделю назад, если нужны недавно закрытые тендеры.
func windowStart(f models.Filter, today time.Time) string {
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	if f.IncludeRecentlyClosed {
		day = day.AddDate(0, 0, -recentlyClosedDays)
	}
	return day.Format(dateLayout)
}

func resolveSort(order *models.OrderBy) Sort {
	if order == nil || !sortable[Field(order.Field)] {
		return DefaultSort
	}
	return Sort{
		Field:      Field(order.Field),
		Descending: order.Dir == models.SortDesc,
	}
}

// IsSortable сообщает, можно ли сортировать по полю.
func IsSortable(field string) bool {
	return sortable[Field(field)]
}
