package auth

import (
	"net/http"

	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// VerifyHandler verifies a signed sign-in statement and issues a session
// token. The nonce inside the statement is consumed on success, so the
// same (message, signature) pair cannot be replayed.
//
// POST /v1/auth/verify
// Request body: VerifyRequest
// Response: { "token" }; any verification failure is a uniform 401.
func (h *Handlers) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if !httputil.RequireNotEmpty(w, req.Message, "message") || !httputil.RequireNotEmpty(w, req.Signature, "signature") {
		return
	}

	token, err := h.svc.SignInWithWallet(r.Context(), req.Message, req.Signature)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"token": token})
}
