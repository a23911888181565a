package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/senyabanana/licitaciones/internal/models"
	"github.com/senyabanana/licitaciones/internal/query"
)

const dateLayout = "2006-01-02"

// MemoryLicitacionRepository - реализация LicitacionRepository поверх
// среза строк. Используется в тестах и для работы с выгрузками без базы.
type MemoryLicitacionRepository struct {
	mu   sync.RWMutex
	rows []models.Licitacion
	// CPVLabel заполняет виртуальную колонку cpv_description.
	CPVLabel func(code string) string
}

// NewMemoryLicitacionRepository создаёт репозиторий с копией переданных строк.
func NewMemoryLicitacionRepository(rows []models.Licitacion) *MemoryLicitacionRepository {
	return &MemoryLicitacionRepository{rows: append([]models.Licitacion(nil), rows...)}
}

// CountMatching возвращает количество строк, подходящих под условия.
func (r *MemoryLicitacionRepository) CountMatching(ctx context.Context, preds []query.Predicate) (int, error) {
	matched, err := r.matching(ctx, preds)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// SelectRangeMatching возвращает отсортированный срез подходящих строк.
func (r *MemoryLicitacionRepository) SelectRangeMatching(ctx context.Context, preds []query.Predicate, s query.Sort, offset, limit int) ([]models.Licitacion, error) {
	matched, err := r.matching(ctx, preds)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return r.less(matched[i], matched[j], s)
	})

	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid range offset=%d limit=%d", offset, limit)
	}
	if offset >= len(matched) {
		return []models.Licitacion{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *MemoryLicitacionRepository) matching(ctx context.Context, preds []query.Predicate) ([]models.Licitacion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Licitacion, 0)
	for _, row := range r.rows {
		ok, err := r.matchAll(row, preds)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, row)
		}
	}
	return matched, nil
}

func (r *MemoryLicitacionRepository) matchAll(row models.Licitacion, preds []query.Predicate) (bool, error) {
	for _, p := range preds {
		ok, err := r.match(row, p)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (r *MemoryLicitacionRepository) match(row models.Licitacion, p query.Predicate) (bool, error) {
	switch p := p.(type) {
	case query.Eq:
		v, ok, err := r.value(row, p.Field)
		return ok && v == p.Value, err
	case query.Prefix:
		v, ok, err := r.value(row, p.Field)
		return ok && strings.HasPrefix(v, p.Value), err
	case query.Contains:
		v, ok, err := r.value(row, p.Field)
		return ok && strings.Contains(strings.ToLower(v), strings.ToLower(p.Value)), err
	case query.AtLeast:
		v, ok, err := r.value(row, p.Field)
		return ok && v >= p.Value, err
	case query.AtMost:
		v, ok, err := r.value(row, p.Field)
		return ok && v <= p.Value, err
	case query.Or:
		for _, inner := range p {
			ok, err := r.match(row, inner)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported predicate %T", p)
	}
}

// value возвращает значение поля строки; ok=false соответствует NULL.
func (r *MemoryLicitacionRepository) value(row models.Licitacion, f query.Field) (string, bool, error) {
	switch f {
	case query.FieldID:
		return row.ID, true, nil
	case query.FieldProjectName:
		return row.ProjectName, true, nil
	case query.FieldContractingParty:
		return deref(row.ContractingParty)
	case query.FieldCPVCode:
		return deref(row.CPVCode)
	case query.FieldCPVDescription:
		if row.CPVCode == nil || r.CPVLabel == nil {
			return "", false, nil
		}
		return r.CPVLabel(*row.CPVCode), true, nil
	case query.FieldNUTSCode:
		return deref(row.NUTSCode)
	case query.FieldTerritoryName:
		return deref(row.TerritoryName)
	case query.FieldClosingDate:
		if row.ClosingDate == nil {
			return "", false, nil
		}
		return row.ClosingDate.Format(dateLayout), true, nil
	case query.FieldAmount:
		if row.Amount == nil {
			return "", false, nil
		}
		return fmt.Sprintf("%020.2f", *row.Amount), true, nil
	default:
		return "", false, fmt.Errorf("unknown field %q", f)
	}
}

// less упорядочивает строки как ORDER BY ... NULLS LAST, id.
func (r *MemoryLicitacionRepository) less(a, b models.Licitacion, s query.Sort) bool {
	va, oka, _ := r.value(a, s.Field)
	vb, okb, _ := r.value(b, s.Field)
	switch {
	case oka != okb:
		return oka
	case oka && va != vb:
		if s.Descending {
			return va > vb
		}
		return va < vb
	default:
		return a.ID < b.ID
	}
}

func deref(s *string) (string, bool, error) {
	if s == nil {
		return "", false, nil
	}
	return *s, true, nil
}
