package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/senyabanana/licitaciones/internal/models"
	"github.com/senyabanana/licitaciones/internal/query"

	"github.com/rs/zerolog/log"
)

// SendErrorResponse отправляет ошибку в формате JSON
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, models.NewErrorResponse(statusCode, message))
}

// SendJSON отправляет значение в формате JSON с указанным статусом
func SendJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// ParsePageParams обрабатывает page и pageSize
func ParsePageParams(pageStr, pageSizeStr string, defaultPageSize int) (int, int, error) {
	page, pageSize := 0, defaultPageSize
	var err error

	if pageStr != "" {
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 0 {
			return 0, 0, fmt.Errorf("invalid page parameter, must be a non-negative integer")
		}
	}

	if pageSizeStr != "" {
		pageSize, err = strconv.Atoi(pageSizeStr)
		if err != nil || pageSize <= 0 || pageSize > models.MaxPageSize {
			return 0, 0, fmt.Errorf("invalid pageSize parameter, must be a positive integer [1:%d]", models.MaxPageSize)
		}
	}

	return page, pageSize, nil
}

// ParseOrderBy обрабатывает sort и dir; пустое или неизвестное поле
// означает сортировку по умолчанию
func ParseOrderBy(field, dir string) *models.OrderBy {
	field = strings.TrimSpace(field)
	if !query.IsSortable(field) {
		return nil
	}
	order := &models.OrderBy{Field: field, Dir: models.SortAsc}
	if strings.EqualFold(strings.TrimSpace(dir), string(models.SortDesc)) {
		order.Dir = models.SortDesc
	}
	return order
}

// ParseLimit обрабатывает limit; пустое значение означает fallback
func ParseLimit(limitStr string, fallback int) (int, error) {
	if limitStr == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("invalid limit parameter, must be a non-negative integer")
	}
	return limit, nil
}
