package auth

import (
	"net/http"

	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// FederatedVerifyHandler verifies a provider-issued identity token and
// issues a session token for the resolved account.
//
// POST /v1/auth/federated/verify
// Request body: FederatedVerifyRequest
// Response: { "token" }; 401 on verification failure, 500 when the
// expected audience is unconfigured server-side.
func (h *Handlers) FederatedVerifyHandler(w http.ResponseWriter, r *http.Request) {
	if h.svc.Federated == nil {
		httputil.WriteError(w, http.StatusInternalServerError, "federated provider not configured")
		return
	}

	var req FederatedVerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if !httputil.RequireNotEmpty(w, req.Token, "token") {
		return
	}

	token, err := h.svc.SignInWithFederated(r.Context(), req.Token)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"token": token})
}
