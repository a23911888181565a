package models

const (
	MaxPageSize     = 200 // Жёсткий предел строк на страницу
	DefaultPageSize = 100
)

// PageRequest представляет запрос одной страницы выдачи.
type PageRequest struct {
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
	Filter   Filter   `json:"filters"`
	OrderBy  *OrderBy `json:"orderBy,omitempty"`
}

// Offset возвращает количество пропускаемых строк.
func (r PageRequest) Offset() int {
	return r.Page * r.PageSize
}

// PageResult представляет одну страницу выдачи с метаданными пагинации.
type PageResult struct {
	Rows       []EnrichedLicitacion `json:"rows"`
	HasMore    bool                 `json:"hasMore"`
	Total      *int                 `json:"total,omitempty"`
	UniqueCPVs []string             `json:"uniqueCpvs"`
}

// EmptyPageResult возвращает пустую страницу без признака продолжения.
func EmptyPageResult() *PageResult {
	return &PageResult{
		Rows:       []EnrichedLicitacion{},
		HasMore:    false,
		UniqueCPVs: []string{},
	}
}
