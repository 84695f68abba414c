package httpapi

import (
	"database/sql"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/naim-haider/freelancer-ai-backend/internal/config"
	"github.com/naim-haider/freelancer-ai-backend/internal/domain"
	"github.com/naim-haider/freelancer-ai-backend/internal/events"
	"github.com/naim-haider/freelancer-ai-backend/internal/freelancer"
	"github.com/naim-haider/freelancer-ai-backend/internal/store"
)

type BidsHandler struct {
	DB     *sql.DB
	Market *freelancer.Client
	Hub    *events.Hub
	CfgVal *atomic.Value // stores config.Config
}

type placeBidReq struct {
	ProjectID    int64   `json:"project_id"`
	Bid          string  `json:"bid"`
	Amount       float64 `json:"amount"`
	Period       int     `json:"period"`
	ProjectTitle string  `json:"project_title"`
	Title        string  `json:"title"`
	ProjectURL   string  `json:"project_url"`
	Link         string  `json:"link"`
}

// PlaceBid tries to push the bid to the marketplace and always records it
// locally. The HTTP status tells the UI whether the upstream submission
// went through (200) or the bid only exists locally (202).
func (h BidsHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	var req placeBidReq
	if err := decodeJSON(r, &req); err != nil {
		apiErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProjectID == 0 || strings.TrimSpace(req.Bid) == "" {
		apiErr(w, http.StatusBadRequest, "Project ID and bid text required")
		return
	}

	if req.Amount == 0 {
		req.Amount = 50
	}
	if req.Period == 0 {
		req.Period = 7
	}
	title := req.ProjectTitle
	if title == "" {
		title = req.Title
	}
	if title == "" {
		title = "Untitled"
	}
	link := req.ProjectURL
	if link == "" {
		link = req.Link
	}
	if link == "" {
		link = "#"
	}

	email := UserEmailFrom(r.Context())

	dup, err := store.HasBidOnLink(r.Context(), h.DB, email, link)
	if err != nil {
		apiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if dup {
		WriteJSON(w, http.StatusConflict, map[string]any{
			"success": false,
			"message": "Already bid",
		})
		return
	}

	outcome := h.submitExternal(r, req.ProjectID, req.Amount, req.Period, req.Bid)

	id, err := store.InsertBid(r.Context(), h.DB, store.NewBid{
		UserEmail: email,
		Title:     title,
		Link:      link,
		Amount:    req.Amount,
		Period:    req.Period,
		BidText:   req.Bid,
		Status:    outcome.Status,
	})
	if err != nil {
		apiErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeBidCreated, 1, map[string]any{
		"id":     id,
		"status": string(outcome.Status),
	}))

	switch outcome.Status {
	case domain.SubmitSent:
		writeJSON(w, map[string]any{
			"success":  true,
			"message":  "Bid sent successfully!",
			"external": outcome.External,
		})
	case domain.SubmitError:
		WriteJSON(w, http.StatusAccepted, map[string]any{
			"success":  true,
			"message":  "Bid stored locally (marketplace submission failed).",
			"external": outcome.External,
		})
	default:
		WriteJSON(w, http.StatusAccepted, map[string]any{
			"success": true,
			"message": "Bid saved locally (marketplace unavailable).",
		})
	}
}

// submitExternal is best-effort: a failed identity lookup means no attempt
// is made at all, a failed submission is recorded as an error outcome.
func (h BidsHandler) submitExternal(r *http.Request, projectID int64, amount float64, period int, text string) domain.SubmitOutcome {
	bidderID, err := h.Market.Self(r.Context())
	if err != nil {
		return domain.SubmitOutcome{Status: domain.SubmitNotSent}
	}

	ext, status, err := h.Market.SubmitBid(r.Context(), freelancer.BidPayload{
		ProjectID:           projectID,
		BidderID:            bidderID,
		Amount:              amount,
		Period:              period,
		MilestonePercentage: 100,
		Description:         text,
	})
	if err != nil {
		return domain.SubmitOutcome{Status: domain.SubmitError}
	}
	if status >= 400 {
		return domain.SubmitOutcome{Status: domain.SubmitError, External: ext}
	}
	return domain.SubmitOutcome{Status: domain.SubmitSent, External: ext}
}

type createBidReq struct {
	Title   string  `json:"title"`
	Link    string  `json:"link"`
	Amount  float64 `json:"amount"`
	Period  int     `json:"period"`
	BidText string  `json:"bid_text"`
	Status  string  `json:"status"`
}

func (h BidsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBidReq
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, http.StatusBadRequest, "invalid json")
		return
	}

	status := domain.SubmitStatus(req.Status)
	if req.Status == "" {
		status = domain.SubmitStored
	}
	if !status.Valid() {
		apiFail(w, http.StatusBadRequest, "invalid status")
		return
	}

	id, err := store.InsertBid(r.Context(), h.DB, store.NewBid{
		UserEmail: UserEmailFrom(r.Context()),
		Title:     req.Title,
		Link:      req.Link,
		Amount:    req.Amount,
		Period:    req.Period,
		BidText:   req.BidText,
		Status:    status,
	})
	if err != nil {
		apiFail(w, http.StatusInternalServerError, err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeBidCreated, 1, map[string]any{"id": id}))

	WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Bid stored successfully",
		"bid_id":  id,
	})
}

func (h BidsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	bids, err := store.ListUserBids(r.Context(), h.DB, UserEmailFrom(r.Context()))
	if err != nil {
		apiFail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bids == nil {
		bids = []domain.Bid{}
	}
	writeJSON(w, map[string]any{"success": true, "bids": bids})
}

func (h BidsHandler) All(w http.ResponseWriter, r *http.Request) {
	bids, err := store.ListAllBids(r.Context(), h.DB)
	if err != nil {
		apiFail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if bids == nil {
		bids = []domain.Bid{}
	}
	writeJSON(w, map[string]any{"success": true, "bids": bids})
}

type updateBidReq struct {
	Title   *string  `json:"title"`
	Link    *string  `json:"link"`
	Amount  *float64 `json:"amount"`
	Period  *int     `json:"period"`
	BidText *string  `json:"bid_text"`
	Status  *string  `json:"status"`
}

func (h BidsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateBidReq
	if err := decodeJSON(r, &req); err != nil {
		apiFail(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Status != nil && !domain.SubmitStatus(*req.Status).Valid() {
		apiFail(w, http.StatusBadRequest, "invalid status")
		return
	}

	u := store.BidUpdate{
		Title:   req.Title,
		Link:    req.Link,
		Amount:  req.Amount,
		Period:  req.Period,
		BidText: req.BidText,
		Status:  req.Status,
	}
	if u.Empty() {
		apiFail(w, http.StatusBadRequest, "No valid fields provided")
		return
	}

	found, err := store.UpdateBid(r.Context(), h.DB, id, u)
	if err != nil {
		apiFail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		apiFail(w, http.StatusNotFound, "Bid not found or not updated")
		return
	}
	writeJSON(w, map[string]any{"success": true, "message": "Bid updated successfully"})
}

func (h BidsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := store.DeleteBid(r.Context(), h.DB, id)
	if err != nil {
		apiFail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		apiFail(w, http.StatusNotFound, "Bid not found")
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Publish(events.MakeEvent(reqID, events.TypeBidDeleted, 1, map[string]any{"id": id}))

	writeJSON(w, map[string]any{"success": true, "message": "Bid deleted successfully"})
}

// Insight reports the month's bids grouped per user per day. Regular users
// see only their own bids; the admin account sees everyone.
func (h BidsHandler) Insight(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = store.CurrentMonth()
	}
	if !store.ValidMonth(month) {
		apiErr(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	email := UserEmailFrom(r.Context())
	cfg := h.CfgVal.Load().(config.Config)

	filter := email
	if email == cfg.Auth.AdminEmail {
		filter = ""
	}

	data, err := store.MonthlyInsight(r.Context(), h.DB, month, filter)
	if err != nil {
		apiErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]any{"month": month, "data": data})
}
