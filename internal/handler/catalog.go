package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BMSihlas/dataops-greenflow-sage/internal/service"
)

// CatalogHandler serves the authenticated read endpoints backed by the
// catalog service.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.catalog.Insights(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

func (h *CatalogHandler) InsightBySector(w http.ResponseWriter, r *http.Request) {
	sector := chi.URLParam(r, "sector")

	insight, err := h.catalog.InsightBySector(r.Context(), sector)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, insight)
}

func (h *CatalogHandler) Sectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.catalog.Sectors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sectors": sectors})
}

func (h *CatalogHandler) SensorData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	records, err := h.catalog.SensorData(r.Context(), limit, q.Get("company"), q.Get("sector"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  records,
		"count": len(records),
	})
}

func (h *CatalogHandler) Companies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.catalog.Companies(r.Context(), service.CompanyQuery{
		Sector:   q.Get("sector"),
		Page:     page,
		PageSize: pageSize,
		OrderBy:  q.Get("order_by"),
		OrderDir: q.Get("order_dir"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
