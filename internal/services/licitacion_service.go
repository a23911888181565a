package services

import (
	"context"
	"sort"
	"time"

	"github.com/senyabanana/licitaciones/internal/cpv"
	"github.com/senyabanana/licitaciones/internal/logger"
	"github.com/senyabanana/licitaciones/internal/models"
	"github.com/senyabanana/licitaciones/internal/nuts"
	"github.com/senyabanana/licitaciones/internal/query"
	"github.com/senyabanana/licitaciones/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const cpvCodeLength = 8

// LicitacionService выдаёт страницы тендеров по фильтру.
type LicitacionService struct {
	Repo     repository.LicitacionRepository
	CPV      *cpv.Cache
	Logger   zerolog.Logger
	Location *time.Location
	Now      func() time.Time
}

// NewLicitacionService создаёт новый экземпляр LicitacionService.
func NewLicitacionService(repo repository.LicitacionRepository, cache *cpv.Cache, log zerolog.Logger, loc *time.Location) *LicitacionService {
	if loc == nil {
		loc = time.UTC
	}
	return &LicitacionService{
		Repo:     repo,
		CPV:      cache,
		Logger:   log.With().Str("component", "licitaciones").Logger(),
		Location: loc,
		Now:      time.Now,
	}
}

// FetchPage возвращает одну страницу выдачи. Некорректные параметры
// страницы возвращаются как InvalidArgument; ошибка хранилища
// логируется и превращается в пустую страницу.
func (s *LicitacionService) FetchPage(ctx context.Context, req models.PageRequest) (*models.PageResult, error) {
	if err := validatePage(req); err != nil {
		return nil, err
	}

	result, err := s.fetch(ctx, req)
	if err != nil {
		logger.FromContext(ctx, s.Logger).Error().
			Err(err).
			Int("page", req.Page).
			Int("page_size", req.PageSize).
			Msg("failed to fetch licitaciones page")
		return models.EmptyPageResult(), nil
	}
	return result, nil
}

// fetch выполняет подсчёт и выборку по одному плану и пробрасывает
// ошибку хранилища вызывающему.
func (s *LicitacionService) fetch(ctx context.Context, req models.PageRequest) (*models.PageResult, error) {
	plan := query.Build(req.Filter, req.OrderBy, s.Now().In(s.Location))

	var (
		total int
		rows  []models.Licitacion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.Repo.CountMatching(gctx, plan.Predicates)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.Repo.SelectRangeMatching(gctx, plan.Predicates, plan.Sort, req.Offset(), req.PageSize)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, models.NewStorageFailure("failed to query licitaciones", err)
	}

	dict := s.CPV.Get()
	enriched := make([]models.EnrichedLicitacion, 0, len(rows))
	for _, row := range rows {
		enriched = append(enriched, enrich(dict, row))
	}

	return &models.PageResult{
		Rows:       enriched,
		HasMore:    len(rows) == req.PageSize && (req.Page+1)*req.PageSize < total,
		Total:      &total,
		UniqueCPVs: uniqueCPVs(rows),
	}, nil
}

func validatePage(req models.PageRequest) error {
	switch {
	case req.Page < 0:
		return models.NewInvalidArgument("page must be non-negative")
	case req.PageSize > models.MaxPageSize:
		return models.NewInvalidArgument("page size exceeds maximum of 200")
	case req.PageSize <= 0:
		return models.NewInvalidArgument("page size must be positive")
	}
	return nil
}

func enrich(dict *cpv.Dictionary, row models.Licitacion) models.EnrichedLicitacion {
	e := models.EnrichedLicitacion{Licitacion: row}
	if code := models.StringValue(row.CPVCode); code != "" {
		e.CPVDescription = dict.Describe(code)
	}
	if name := models.StringValue(row.TerritoryName); name != "" {
		e.RegionName = name
	} else if code := models.StringValue(row.NUTSCode); code != "" {
		e.RegionName = nuts.Describe(code)
	}
	return e
}

// uniqueCPVs возвращает отсортированный набор 8-значных префиксов CPV-кодов.
func uniqueCPVs(rows []models.Licitacion) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		code := models.StringValue(row.CPVCode)
		if code == "" {
			continue
		}
		if len(code) > cpvCodeLength {
			code = code[:cpvCodeLength]
		}
		seen[code] = struct{}{}
	}

	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// UniqueCPVs возвращает CPV-коды первой страницы максимального размера.
func (s *LicitacionService) UniqueCPVs(ctx context.Context, f models.Filter) ([]string, error) {
	result, err := s.fetch(ctx, models.PageRequest{PageSize: models.MaxPageSize, Filter: f})
	if err != nil {
		return nil, err
	}
	return result.UniqueCPVs, nil
}
