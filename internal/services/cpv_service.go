package services

import (
	"github.com/senyabanana/licitaciones/internal/cpv"
	"github.com/senyabanana/licitaciones/internal/nuts"
)

// CPVService отвечает на запросы к справочникам CPV и NUTS.
type CPVService struct {
	Cache *cpv.Cache
}

// NewCPVService создаёт новый экземпляр CPVService.
func NewCPVService(cache *cpv.Cache) *CPVService {
	return &CPVService{Cache: cache}
}

// Describe возвращает подпись для CPV-кода.
func (s *CPVService) Describe(code string) string {
	return s.Cache.Get().Describe(code)
}

// DescribeMany возвращает подписи для набора кодов.
func (s *CPVService) DescribeMany(codes []string) map[string]string {
	dict := s.Cache.Get()
	out := make(map[string]string, len(codes))
	for _, code := range codes {
		out[code] = dict.Describe(code)
	}
	return out
}

// Search ищет категории по тексту или префиксу кода.
func (s *CPVService) Search(text string, limit int) []cpv.Match {
	return s.Cache.Get().Search(text, limit)
}

// Regions возвращает справочник регионов NUTS.
func (s *CPVService) Regions() []nuts.Region {
	return nuts.List()
}
