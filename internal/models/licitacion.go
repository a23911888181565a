package models

import "time"

// Licitacion представляет строку таблицы licitaciones.
type Licitacion struct {
	ID               string     `json:"id"`
	ProjectName      string     `json:"projectName"`
	ContractingParty *string    `json:"contractingParty,omitempty"`
	CPVCode          *string    `json:"cpvCode,omitempty"`
	NUTSCode         *string    `json:"nutsCode,omitempty"`
	TerritoryName    *string    `json:"territoryName,omitempty"`
	ClosingDate      *time.Time `json:"closingDate,omitempty"`
	Amount           *float64   `json:"amount,omitempty"`
	NoticeURL        *string    `json:"noticeUrl,omitempty"`
}

// EnrichedLicitacion - строка выдачи с вычисленными при выборке подписями.
type EnrichedLicitacion struct {
	Licitacion
	CPVDescription string `json:"cpvDescription,omitempty"`
	RegionName     string `json:"regionName,omitempty"`
}

// StringValue возвращает значение nullable-колонки или пустую строку.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
