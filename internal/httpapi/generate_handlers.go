package httpapi

import (
	"net/http"

	"github.com/naim-haider/freelancer-ai-backend/internal/gemini"
	"github.com/naim-haider/freelancer-ai-backend/internal/proposal"
)

type GenerateHandler struct {
	Gemini *gemini.Client
}

type generateReq struct {
	Project struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Budget      struct {
			Minimum float64 `json:"minimum"`
			Maximum float64 `json:"maximum"`
		} `json:"budget"`
		Currency struct {
			Code string `json:"code"`
		} `json:"currency"`
	} `json:"project"`
	// userDetails is accepted for UI compatibility but unused; the prompt
	// template already carries the company profile.
	UserDetails map[string]any `json:"userDetails"`
}

// Generate builds the bid-writer prompt from the project facts and asks
// the model for a proposal.
func (h GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := decodeJSON(r, &req); err != nil {
		apiErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	prompt := proposal.BuildPrompt(proposal.ProjectInput{
		Title:       req.Project.Title,
		Description: req.Project.Description,
		BudgetMin:   req.Project.Budget.Minimum,
		BudgetMax:   req.Project.Budget.Maximum,
		Currency:    req.Project.Currency.Code,
	})

	bid, err := h.Gemini.Generate(r.Context(), prompt)
	if err != nil {
		apiErr(w, http.StatusInternalServerError, "AI service error: "+err.Error())
		return
	}
	writeJSON(w, map[string]any{"bid": bid})
}

// GenerateGraphics returns the canned graphics-team bid; no model call.
func (h GenerateHandler) GenerateGraphics(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := decodeJSON(r, &req); err != nil {
		apiErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, map[string]any{"bid": proposal.GraphicsBid(req.Project.Title)})
}
