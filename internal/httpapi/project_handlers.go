package httpapi

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/naim-haider/freelancer-ai-backend/internal/config"
	"github.com/naim-haider/freelancer-ai-backend/internal/events"
	"github.com/naim-haider/freelancer-ai-backend/internal/freelancer"
)

type ProjectsHandler struct {
	Market *freelancer.Client
	CfgVal *atomic.Value // stores config.Config
	Hub    *events.Hub
}

type searchReq struct {
	Query       string   `json:"query"`
	MinPrice    *float64 `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`
	ProjectType string   `json:"project_type"`
}

// Search runs the marketplace active-projects search, enriches the owners
// in one bulk lookup, and ships the shaped list.
func (h ProjectsHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if err := decodeJSON(r, &req); err != nil {
		apiErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	projects, err := h.Market.SearchActive(r.Context(), freelancer.SearchQuery{
		Query:       strings.TrimSpace(req.Query),
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		ProjectType: req.ProjectType,
		Limit:       10,
	})
	if err != nil {
		apiErr(w, http.StatusInternalServerError, "Error fetching projects: "+err.Error())
		return
	}

	clients := freelancer.EnrichClients(r.Context(), h.Market, projects)
	writeJSON(w, freelancer.Shape(projects, clients))
}

type scanReq struct {
	StartID *int64 `json:"start_id"`
}

// Scan walks the project-ID space from start_id until it collects the
// target count or exhausts the attempt budget, then enriches and shapes
// whatever it found.
func (h ProjectsHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanReq
	if err := decodeJSON(r, &req); err != nil || req.StartID == nil {
		apiErr(w, http.StatusBadRequest, "start_id is required and must be an integer")
		return
	}
	if *req.StartID <= 0 {
		apiErr(w, http.StatusBadRequest, "start_id must be positive")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	sc := freelancer.NewScanner(
		h.Market,
		cfg.Marketplace.Scan.TargetCount,
		cfg.Marketplace.Scan.MaxAttempts,
		time.Duration(cfg.Marketplace.Scan.DelayMs)*time.Millisecond,
	)

	res, err := sc.Run(r.Context(), *req.StartID)
	if err != nil {
		// Client went away; nothing left to answer.
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeScanFinished, 1, map[string]any{
		"start_id": *req.StartID,
		"end_id":   res.LastID,
		"found":    len(res.Collected),
		"checked":  len(res.CheckedIDs),
	}))

	if len(res.Collected) == 0 {
		WriteJSON(w, http.StatusNotFound, map[string]any{
			"error":       "No projects found in the scanned range.",
			"checked_ids": res.CheckedIDs,
		})
		return
	}

	clients := freelancer.EnrichClients(r.Context(), h.Market, res.Collected)
	writeJSON(w, map[string]any{
		"projects":    freelancer.Shape(res.Collected, clients),
		"start_id":    *req.StartID,
		"end_id":      res.LastID,
		"total_found": len(res.Collected),
		"checked_ids": res.CheckedIDs,
	})
}
