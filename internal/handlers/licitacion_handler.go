package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/senyabanana/licitaciones/internal/filters"
	"github.com/senyabanana/licitaciones/internal/logger"
	"github.com/senyabanana/licitaciones/internal/models"
	"github.com/senyabanana/licitaciones/internal/services"
	"github.com/senyabanana/licitaciones/internal/utils"

	"github.com/rs/zerolog"
)

// LicitacionHandler - структура для обработки HTTP-запросов к выдаче тендеров.
type LicitacionHandler struct {
	Service         *services.LicitacionService
	Logger          zerolog.Logger
	Timeout         time.Duration
	DefaultPageSize int
}

// NewLicitacionHandler создаёт новый экземпляр LicitacionHandler.
func NewLicitacionHandler(service *services.LicitacionService, log zerolog.Logger, timeout time.Duration, defaultPageSize int) *LicitacionHandler {
	if defaultPageSize <= 0 || defaultPageSize > models.MaxPageSize {
		defaultPageSize = models.DefaultPageSize
	}
	return &LicitacionHandler{
		Service:         service,
		Logger:          log,
		Timeout:         timeout,
		DefaultPageSize: defaultPageSize,
	}
}

// GetLicitaciones обрабатывает запросы первой загрузки выдачи с фильтрами из URL.
func (h *LicitacionHandler) GetLicitaciones(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	q := r.URL.Query()
	page, pageSize, err := utils.ParsePageParams(q.Get("page"), q.Get("pageSize"), h.DefaultPageSize)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Service.FetchPage(ctx, models.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Filter:   filters.Parse(q),
		OrderBy:  utils.ParseOrderBy(q.Get("sort"), q.Get("dir")),
	})
	if err != nil {
		h.sendError(w, r, err, "failed to fetch licitaciones")
		return
	}

	utils.SendJSON(w, http.StatusOK, result)
}

// LoadMore обрабатывает запросы подгрузки следующей страницы.
func (h *LicitacionHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var req models.PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PageSize == 0 {
		req.PageSize = h.DefaultPageSize
	}
	if req.PageSize > models.MaxPageSize {
		req.PageSize = models.MaxPageSize
	}

	result, err := h.Service.FetchPage(ctx, req)
	if err != nil {
		h.sendError(w, r, err, "failed to fetch licitaciones")
		return
	}

	utils.SendJSON(w, http.StatusOK, result)
}

// Export обрабатывает запросы выгрузки всех подходящих тендеров в CSV.
func (h *LicitacionHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	q := r.URL.Query()
	var buf bytes.Buffer
	count, err := h.Service.ExportCSV(ctx, filters.Parse(q), utils.ParseOrderBy(q.Get("sort"), q.Get("dir")), &buf)
	if err != nil {
		h.sendError(w, r, err, "failed to export licitaciones")
		return
	}

	logger.FromContext(r.Context(), h.Logger).Info().Int("rows", count).Msg("csv export generated")

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFilename(h.Service.Now().In(h.Service.Location))+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context(), h.Logger).Error().Err(err).Msg("failed to write csv export")
	}
}

// GetUniqueCPVs обрабатывает запросы набора CPV-кодов первой страницы выдачи.
func (h *LicitacionHandler) GetUniqueCPVs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	codes, err := h.Service.UniqueCPVs(ctx, filters.Parse(r.URL.Query()))
	if err != nil {
		h.sendError(w, r, err, "failed to fetch cpv codes")
		return
	}

	utils.SendJSON(w, http.StatusOK, codes)
}

// sendError отвечает статусом из *models.ErrorResponse или 500 для прочих ошибок.
func (h *LicitacionHandler) sendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	l := logger.FromContext(r.Context(), h.Logger)

	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		if errorResponse.Kind == models.InvalidArgument {
			l.Warn().Err(err).Msg("rejected request")
			utils.SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message)
			return
		}
		l.Error().Err(err).Msg(fallback)
		utils.SendErrorResponse(w, errorResponse.StatusCode, fallback)
		return
	}
	l.Error().Err(err).Msg(fallback)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}
