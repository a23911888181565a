// Package filters переводит параметры строки запроса в models.Filter и обратно.
package filters

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/senyabanana/licitaciones/internal/models"
)

// Имена параметров, которые использует форма фильтров.
const (
	KeySearch         = "busqueda"
	KeySearchAlias    = "q"
	KeyCPVCodes       = "cpvCodes"
	KeyCPV            = "cpv"
	KeyCPVSearch      = "cpvSearch"
	KeyProvince       = "province"
	KeyOrganization   = "organismo"
	KeyFrom           = "from"
	KeyTo             = "to"
	KeyRecentlyClosed = "mostrarFinalizadas"

	allRegions = "all"
)

// Parse строит фильтр из параметров запроса. Никогда не возвращает ошибку:
// неизвестные ключи игнорируются, некорректные значения деградируют
// до наилучшего возможного толкования.
func Parse(values url.Values) models.Filter {
	var f models.Filter

	if s := strings.TrimSpace(values.Get(KeySearch)); s != "" {
		f.SearchText = s
	} else if s := strings.TrimSpace(values.Get(KeySearchAlias)); s != "" {
		f.SearchText = s
	}

	f.CPVCodes = parseCodes(values.Get(KeyCPVCodes))
	if len(f.CPVCodes) == 0 {
		if code := strings.TrimSpace(values.Get(KeyCPV)); code != "" {
			f.CPVCodes = []string{code}
		}
	}

	if s := values.Get(KeyCPVSearch); s != "" {
		f.CPVSearch = s
	}

	if province := strings.ToUpper(strings.TrimSpace(values.Get(KeyProvince))); province != strings.ToUpper(allRegions) {
		f.Region = RegionFromCode(province)
	}

	if org := values.Get(KeyOrganization); org != "" {
		f.Organization = org
	}

	if from := values.Get(KeyFrom); from != "" {
		f.DateFrom = from
	}
	if to := values.Get(KeyTo); to != "" {
		f.DateTo = to
	}

	if values.Get(KeyRecentlyClosed) == "true" {
		f.IncludeRecentlyClosed = true
	}

	return f
}

// ParseQuery разбирает сырую строку запроса. Ошибки разбора отдельных
// пар не мешают использовать уже разобранные значения.
func ParseQuery(raw string) models.Filter {
	values, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Parse(values)
}

// RegionFromCode выводит уровень NUTS и стратегию сравнения из длины кода.
// Пустой код означает отсутствие фильтра.
func RegionFromCode(code string) *models.RegionFilter {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}

	switch len(code) {
	case 5:
		return &models.RegionFilter{Level: 3, Code: code, Match: models.RegionMatchEq}
	case 4:
		return &models.RegionFilter{Level: 2, Code: code, Match: models.RegionMatchPrefix}
	default:
		return &models.RegionFilter{Level: 1, Code: code, Match: models.RegionMatchPrefix}
	}
}

// parseCodes ожидает JSON-массив строк; всё остальное трактуется как один код.
func parseCodes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		codes = []string{raw}
	}

	var out []string
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Encode возвращает параметры запроса, из которых Parse восстановит тот же фильтр.
func Encode(f models.Filter) url.Values {
	values := url.Values{}

	if f.SearchText != "" {
		values.Set(KeySearch, f.SearchText)
	}
	if len(f.CPVCodes) > 0 {
		if b, err := json.Marshal(f.CPVCodes); err == nil {
			values.Set(KeyCPVCodes, string(b))
		}
	}
	if f.CPVSearch != "" {
		values.Set(KeyCPVSearch, f.CPVSearch)
	}
	if f.Region != nil && f.Region.Code != "" {
		values.Set(KeyProvince, f.Region.Code)
	}
	if f.Organization != "" {
		values.Set(KeyOrganization, f.Organization)
	}
	if f.DateFrom != "" {
		values.Set(KeyFrom, f.DateFrom)
	}
	if f.DateTo != "" {
		values.Set(KeyTo, f.DateTo)
	}
	if f.IncludeRecentlyClosed {
		values.Set(KeyRecentlyClosed, "true")
	}

	return values
}
