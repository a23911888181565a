package handlers

import (
	"net/http"
	"strings"

	"github.com/senyabanana/licitaciones/internal/models"
	"github.com/senyabanana/licitaciones/internal/services"
	"github.com/senyabanana/licitaciones/internal/utils"
)

const defaultSearchLimit = 20

// CPVHandler - структура для обработки HTTP-запросов к справочникам.
type CPVHandler struct {
	Service *services.CPVService
}

// NewCPVHandler создаёт новый экземпляр CPVHandler.
func NewCPVHandler(service *services.CPVService) *CPVHandler {
	return &CPVHandler{Service: service}
}

type describeResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Describe обрабатывает запросы описания CPV-кода.
func (h *CPVHandler) Describe(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if strings.TrimSpace(code) == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "CPV code is required")
		return
	}

	utils.SendJSON(w, http.StatusOK, describeResponse{
		Code:        code,
		Description: h.Service.Describe(code),
	})
}

// DescribeBatch обрабатывает запросы подписей для нескольких CPV-кодов
// (повторяющийся параметр code) и отвечает отображением код -> подпись.
func (h *CPVHandler) DescribeBatch(w http.ResponseWriter, r *http.Request) {
	var codes []string
	for _, code := range r.URL.Query()["code"] {
		if strings.TrimSpace(code) != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		utils.SendErrorResponse(w, http.StatusBadRequest, "at least one CPV code is required")
		return
	}
	if len(codes) > models.MaxPageSize {
		utils.SendErrorResponse(w, http.StatusBadRequest, "too many CPV codes")
		return
	}

	utils.SendJSON(w, http.StatusOK, h.Service.DescribeMany(codes))
}

// Search обрабатывает запросы поиска категорий CPV. Ответ не длиннее
// models.MaxPageSize записей.
func (h *CPVHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.ParseLimit(r.URL.Query().Get("limit"), defaultSearchLimit)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit == 0 || limit > models.MaxPageSize {
		limit = models.MaxPageSize
	}

	utils.SendJSON(w, http.StatusOK, h.Service.Search(r.URL.Query().Get("q"), limit))
}

// Regions обрабатывает запросы справочника регионов.
func (h *CPVHandler) Regions(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, h.Service.Regions())
}
