package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/naim-haider/freelancer-ai-backend/internal/store"
)

func TestPlaceBidSentFlow(t *testing.T) {
	t.Parallel()

	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")
	token := signToken(t, "alice@example.com", time.Hour)

	res, raw := env.do(t, http.MethodPost, "/place_bid", token, map[string]any{
		"project_id":    1234,
		"bid":           "my proposal",
		"amount":        120,
		"period":        5,
		"project_title": "Site build",
		"project_url":   "https://example.com/p/1234",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, raw)
	}

	var body map[string]any
	decodeBody(t, raw, &body)
	if body["success"] != true || body["external"] == nil {
		t.Fatalf("body = %v", body)
	}

	bids, err := store.ListUserBids(context.Background(), env.db.Pool, "alice@example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bids) != 1 || bids[0].Status != "sent" || bids[0].Amount != 120 {
		t.Fatalf("stored = %+v", bids)
	}
}

func TestPlaceBidDuplicateIsConflict(t *testing.T) {
	t.Parallel()

	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")
	token := signToken(t, "alice@example.com", time.Hour)

	payload := map[string]any{
		"project_id":  1234,
		"bid":         "my proposal",
		"project_url": "https://example.com/p/1234",
	}
	if res, raw := env.do(t, http.MethodPost, "/place_bid", token, payload); res.StatusCode != http.StatusOK {
		t.Fatalf("first bid status = %d (%s)", res.StatusCode, raw)
	}

	res, raw := env.do(t, http.MethodPost, "/place_bid", token, payload)
	if res.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (%s)", res.StatusCode, raw)
	}
	var body map[string]any
	decodeBody(t, raw, &body)
	if body["message"] != "Already bid" {
		t.Fatalf("body = %v", body)
	}

	// Same link is fine for a different user.
	other := signToken(t, "bob@example.com", time.Hour)
	if res, raw := env.do(t, http.MethodPost, "/place_bid", other, payload); res.StatusCode != http.StatusOK {
		t.Fatalf("other user status = %d (%s)", res.StatusCode, raw)
	}
}

func TestPlaceBidStoresLocallyWhenSubmissionRejected(t *testing.T) {
	t.Parallel()

	env := newEnv(t, &fakeMarketplace{bidsCode: http.StatusForbidden, bidsBody: `{"message":"no bids left"}`}, "http://unused", "http://unused")
	token := signToken(t, "alice@example.com", time.Hour)

	res, raw := env.do(t, http.MethodPost, "/place_bid", token, map[string]any{
		"project_id":  1,
		"bid":         "text",
		"project_url": "https://example.com/p/1",
	})
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (%s)", res.StatusCode, raw)
	}

	bids, _ := store.ListUserBids(context.Background(), env.db.Pool, "alice@example.com")
	if len(bids) != 1 || bids[0].Status != "error" {
		t.Fatalf("stored = %+v", bids)
	}
}

func TestPlaceBidSkipsSubmissionWhenIdentityUnavailable(t *testing.T) {
	t.Parallel()

	env := newEnv(t, &fakeMarketplace{selfFail: true}, "http://unused", "http://unused")
	token := signToken(t, "alice@example.com", time.Hour)

	res, raw := env.do(t, http.MethodPost, "/place_bid", token, map[string]any{
		"project_id":  1,
		"bid":         "text",
		"project_url": "https://example.com/p/1",
	})
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (%s)", res.StatusCode, raw)
	}

	bids, _ := store.ListUserBids(context.Background(), env.db.Pool, "alice@example.com")
	if len(bids) != 1 || bids[0].Status != "not_sent" {
		t.Fatalf("stored = %+v", bids)
	}
}

func TestPlaceBidValidationAndDefaults(t *testing.T) {
	t.Parallel()

	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")
	token := signToken(t, "alice@example.com", time.Hour)

	res, _ := env.do(t, http.MethodPost, "/place_bid", token, map[string]any{"bid": "text"})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing project_id: status = %d, want 400", res.StatusCode)
	}
	res, _ = env.do(t, http.MethodPost, "/place_bid", token, map[string]any{"project_id": 9})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing bid text: status = %d, want 400", res.StatusCode)
	}

	// Defaults: amount 50, period 7, title/link fallbacks.
	res, raw := env.do(t, http.MethodPost, "/place_bid", token, map[string]any{
		"project_id": 9, "bid": "text",
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, raw)
	}
	bids, _ := store.ListUserBids(context.Background(), env.db.Pool, "alice@example.com")
	b := bids[0]
	if b.Amount != 50 || b.Period != 7 || b.Title != "Untitled" || b.Link != "#" {
		t.Fatalf("defaults = %+v", b)
	}
}

func TestBidCRUD(t *testing.T) {
	t.Parallel()

	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")
	alice := signToken(t, "alice@example.com", time.Hour)
	bob := signToken(t, "bob@example.com", time.Hour)

	// Create
	res, raw := env.do(t, http.MethodPost, "/api/bids", alice, map[string]any{
		"title": "Site", "link": "https://example.com/p/1", "amount": 100, "period": 7, "bid_text": "hello",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", res.StatusCode, raw)
	}
	var created struct {
		Success bool   `json:"success"`
		BidID   string `json:"bid_id"`
	}
	decodeBody(t, raw, &created)
	if !created.Success || created.BidID == "" {
		t.Fatalf("created = %+v", created)
	}

	if res, _ := env.do(t, http.MethodPost, "/api/bids", bob, map[string]any{"title": "Bob's"}); res.StatusCode != http.StatusCreated {
		t.Fatalf("bob create status = %d", res.StatusCode)
	}

	// Invalid status rejected
	if res, _ := env.do(t, http.MethodPost, "/api/bids", alice, map[string]any{"status": "bogus"}); res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bogus status accepted: %d", res.StatusCode)
	}

	// Mine is scoped to the caller
	res, raw = env.do(t, http.MethodGet, "/api/bids/mine", alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("mine status = %d", res.StatusCode)
	}
	var mine struct {
		Bids []struct {
			ID    string `json:"_id"`
			Title string `json:"title"`
		} `json:"bids"`
	}
	decodeBody(t, raw, &mine)
	if len(mine.Bids) != 1 || mine.Bids[0].ID != created.BidID {
		t.Fatalf("mine = %+v", mine)
	}

	// All sees both users
	res, raw = env.do(t, http.MethodGet, "/api/bids/all", alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("all status = %d", res.StatusCode)
	}
	var all struct {
		Bids []struct {
			UserEmail string `json:"user_email"`
		} `json:"bids"`
	}
	decodeBody(t, raw, &all)
	if len(all.Bids) != 2 {
		t.Fatalf("all = %+v", all)
	}

	// Update
	res, raw = env.do(t, http.MethodPut, "/api/bids/"+created.BidID, alice, map[string]any{"amount": 250})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d (%s)", res.StatusCode, raw)
	}
	res, _ = env.do(t, http.MethodPut, "/api/bids/"+created.BidID, alice, map[string]any{})
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty update status = %d, want 400", res.StatusCode)
	}
	res, _ = env.do(t, http.MethodPut, "/api/bids/nope", alice, map[string]any{"amount": 1})
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown update status = %d, want 404", res.StatusCode)
	}

	// Delete
	res, _ = env.do(t, http.MethodDelete, "/api/bids/"+created.BidID, alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", res.StatusCode)
	}
	res, _ = env.do(t, http.MethodDelete, "/api/bids/"+created.BidID, alice, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", res.StatusCode)
	}
}

func TestBidInsightScoping(t *testing.T) {
	t.Parallel()

	env := newEnv(t, &fakeMarketplace{}, "http://unused", "http://unused")
	alice := signToken(t, "alice@example.com", time.Hour)
	admin := signToken(t, "admin", time.Hour)

	month := store.CurrentMonth()
	for _, u := range []string{alice, admin} {
		if res, raw := env.do(t, http.MethodPost, "/api/bids", u, map[string]any{
			"title": "b", "amount": 10,
		}); res.StatusCode != http.StatusCreated {
			t.Fatalf("seed status = %d (%s)", res.StatusCode, raw)
		}
	}

	// Regular user only sees their own data.
	res, raw := env.do(t, http.MethodGet, "/api/bid_insight", alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, raw)
	}
	var out struct {
		Month string                       `json:"month"`
		Data  map[string]store.UserInsight `json:"data"`
	}
	decodeBody(t, raw, &out)
	if out.Month != month {
		t.Fatalf("month = %q, want %q", out.Month, month)
	}
	if len(out.Data) != 1 {
		t.Fatalf("user sees %d users, want 1", len(out.Data))
	}
	if _, ok := out.Data["alice@example.com"]; !ok {
		t.Fatalf("data = %v", out.Data)
	}

	// Admin sees everyone.
	res, raw = env.do(t, http.MethodGet, "/api/bid_insight", admin, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d", res.StatusCode)
	}
	var adminOut struct {
		Data map[string]store.UserInsight `json:"data"`
	}
	decodeBody(t, raw, &adminOut)
	if len(adminOut.Data) != 2 {
		t.Fatalf("admin sees %d users, want 2", len(adminOut.Data))
	}

	// Bad month
	res, _ = env.do(t, http.MethodGet, "/api/bid_insight?month=2026-13", alice, nil)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad month status = %d, want 400", res.StatusCode)
	}

	// Explicit empty month elsewhere
	res, raw = env.do(t, http.MethodGet, fmt.Sprintf("/api/bid_insight?month=%s", "2000-01"), alice, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("old month status = %d", res.StatusCode)
	}
	var emptyOut struct {
		Data map[string]store.UserInsight `json:"data"`
	}
	decodeBody(t, raw, &emptyOut)
	if len(emptyOut.Data) != 0 {
		t.Fatalf("old month data = %v", emptyOut.Data)
	}
}
