package httpapi

import (
	"net/http"

	"github.com/naim-haider/freelancer-ai-backend/internal/secrets"
)

type SecretsHandler struct{}

type setSecretReq struct {
	Value string `json:"value"`
}

func (h SecretsHandler) setSecret(w http.ResponseWriter, r *http.Request, account string) {
	var req setSecretReq
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := secrets.Set(account, req.Value); err != nil {
		http.Error(w, "failed to store secret: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stored secrets are read at engine start; a restart picks up new values.

func (h SecretsHandler) SetMarketplaceToken(w http.ResponseWriter, r *http.Request) {
	h.setSecret(w, r, secrets.AccountMarketplaceToken)
}

func (h SecretsHandler) SetGeminiKey(w http.ResponseWriter, r *http.Request) {
	h.setSecret(w, r, secrets.AccountGeminiKey)
}
