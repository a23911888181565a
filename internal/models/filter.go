package models

type (
	RegionMatch string // Стратегия сравнения NUTS-кода
	SortDir     string // Направление сортировки
)

const (
	RegionMatchEq     RegionMatch = "eq"     // Точное совпадение (уровень 3)
	RegionMatchPrefix RegionMatch = "prefix" // Совпадение по префиксу (уровни 1-2)

	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// RegionFilter описывает иерархический фильтр по NUTS-коду.
type RegionFilter struct {
	Level int         `json:"level"`
	Code  string      `json:"code"`
	Match RegionMatch `json:"match"`
}

// Filter описывает поисковый запрос пользователя для одного запроса.
// Нулевое значение означает "все открытые на сегодня тендеры".
type Filter struct {
	SearchText            string        `json:"searchText,omitempty"`
	CPVCodes              []string      `json:"cpvCodes,omitempty"`
	CPVSearch             string        `json:"cpvSearch,omitempty"`
	Region                *RegionFilter `json:"region,omitempty"`
	Organization          string        `json:"organization,omitempty"`
	DateFrom              string        `json:"dateFrom,omitempty"`
	DateTo                string        `json:"dateTo,omitempty"`
	IncludeRecentlyClosed bool          `json:"includeRecentlyClosed,omitempty"`
}

// IsEmpty сообщает, что ни одно поле фильтра не задано.
func (f Filter) IsEmpty() bool {
	return f.SearchText == "" &&
		len(f.CPVCodes) == 0 &&
		f.CPVSearch == "" &&
		f.Region == nil &&
		f.Organization == "" &&
		f.DateFrom == "" &&
		f.DateTo == "" &&
		!f.IncludeRecentlyClosed
}

// OrderBy задаёт поле и направление сортировки.
type OrderBy struct {
	Field string  `json:"field"`
	Dir   SortDir `json:"dir"`
}
