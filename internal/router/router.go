package router

import (
	"net/http"

	"github.com/senyabanana/licitaciones/internal/handlers"

	"github.com/rs/zerolog"
)

// InitRoutes регистрирует маршруты API и оборачивает их логированием запросов.
func InitRoutes(licitacionHandler *handlers.LicitacionHandler, cpvHandler *handlers.CPVHandler, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", handlers.PingHandler)

	mux.HandleFunc("GET /api/licitaciones", licitacionHandler.GetLicitaciones)
	mux.HandleFunc("POST /api/licitaciones/more", licitacionHandler.LoadMore)
	mux.HandleFunc("GET /api/licitaciones/export", licitacionHandler.Export)

	mux.HandleFunc("GET /api/cpv", cpvHandler.Describe)
	mux.HandleFunc("GET /api/cpv/labels", cpvHandler.DescribeBatch)
	mux.HandleFunc("GET /api/cpv/search", cpvHandler.Search)
	mux.HandleFunc("GET /api/cpv/unique", licitacionHandler.GetUniqueCPVs)
	mux.HandleFunc("GET /api/regions", cpvHandler.Regions)

	return RequestLogger(logger)(mux)
}
