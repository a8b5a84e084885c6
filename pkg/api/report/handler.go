// Package report exposes the report builder over HTTP.
package report

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"btr_valuation/pkg/core/dataset"
	"btr_valuation/pkg/core/report"
	"btr_valuation/pkg/core/score"
	"btr_valuation/pkg/core/store"
)

// Handler serves report generation and location scoring.
type Handler struct {
	builder *report.Builder
	catalog *dataset.Catalog
	repo    *store.ReportRepo // nil when persistence is disabled
}

// NewHandler wires the HTTP handler. repo may be nil.
func NewHandler(builder *report.Builder, catalog *dataset.Catalog, repo *store.ReportRepo) *Handler {
	return &Handler{builder: builder, catalog: catalog, repo: repo}
}

type reportResponse struct {
	Report *report.Report `json:"report"`
	HTML   string         `json:"html"`
}

// HandleGenerateReport handles POST /api/report.
func (h *Handler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req report.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Address == "" {
		http.Error(w, "address is required", http.StatusBadRequest)
		return
	}

	rep, err := h.builder.Build(r.Context(), req)
	if err != nil {
		if errors.Is(err, report.ErrLocationNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if h.repo != nil {
		if err := h.repo.Save(r.Context(), rep); err != nil {
			// Persistence is best-effort: the caller still gets the report.
			log.Warnf("[API] failed to persist report %s: %v", rep.ID, err)
		}
	}

	html, err := report.RenderHTML(rep)
	if err != nil {
		log.Warnf("[API] html rendering failed for %s: %v", rep.ID, err)
	}
	writeJSON(w, reportResponse{Report: rep, HTML: html})
}

// HandleScore handles GET /api/score?area=...&postcode=...
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	area := r.URL.Query().Get("area")
	postcode := r.URL.Query().Get("postcode")
	if area == "" && postcode == "" {
		http.Error(w, "area or postcode is required", http.StatusBadRequest)
		return
	}

	data := h.catalog.Snapshot()
	loc := score.Location{Area: area, Postcode: postcode}
	components := score.Components{
		score.Amenities:     score.ScoreAmenities(loc, data.Amenities),
		score.RentalMarket:  score.ScoreRentalMarket(loc, data.Rentals),
		score.PropertyValue: score.ScorePropertyValue(loc, data.Sales),
		score.Growth:        score.ScoreGrowth(loc, data.Planning, data.Sales),
		score.Efficiency:    score.ScoreEfficiency(loc, data.EPC),
	}
	writeJSON(w, score.Aggregate(components, nil))
}

// HandleGetReport handles GET /api/report/{id} when persistence is enabled.
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request, id string) {
	if h.repo == nil {
		http.Error(w, "report storage not configured", http.StatusNotImplemented)
		return
	}
	rep, err := h.repo.Load(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, rep)
}

// HandleHealth handles GET /api/health.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	data := h.catalog.Snapshot()
	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"datasets": map[string]int{
			"sales":     len(data.Sales),
			"rentals":   len(data.Rentals),
			"amenities": len(data.Amenities),
			"epc":       len(data.EPC),
			"planning":  len(data.Planning),
		},
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("[API] failed to encode response: %v", err)
	}
}
