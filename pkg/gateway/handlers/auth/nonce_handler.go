package auth

import (
	"net/http"

	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// NonceHandler issues a fresh challenge nonce for a wallet address,
// overwriting any prior live nonce for that address.
//
// GET /v1/auth/nonce?address=<addr>
// Response: { "nonce" }
func (h *Handlers) NonceHandler(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if !httputil.RequireNotEmpty(w, address, "address") {
		return
	}

	nonce, err := h.svc.IssueNonce(r.Context(), address)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"nonce": nonce})
}
