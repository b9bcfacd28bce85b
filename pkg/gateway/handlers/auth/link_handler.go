package auth

import (
	"net/http"

	"github.com/flaretrack/flaretrack/pkg/gateway/ctxkeys"
	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// LinkWalletHandler attaches a wallet address to the authenticated
// account after re-verifying present-tense control of it.
//
// POST /v1/auth/link/wallet (bearer-authenticated)
// Request body: LinkWalletRequest
// Response: { "success": true }; 409 when the wallet is already bound
// to a different account.
func (h *Handlers) LinkWalletHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	var req LinkWalletRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if !httputil.RequireNotEmpty(w, req.Message, "message") || !httputil.RequireNotEmpty(w, req.Signature, "signature") {
		return
	}

	if err := h.svc.LinkWallet(r.Context(), accountID, req.Message, req.Signature); err != nil {
		h.writeAuthError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}

// LinkFederatedHandler attaches a federated identity to the
// authenticated account after re-verifying its identity token.
//
// POST /v1/auth/link/federated (bearer-authenticated)
// Request body: LinkFederatedRequest
// Response: { "success": true }; 409 when the external uid is already
// bound to a different account.
func (h *Handlers) LinkFederatedHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	var req LinkFederatedRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if !httputil.RequireNotEmpty(w, req.Token, "token") {
		return
	}

	if err := h.svc.LinkFederated(r.Context(), accountID, req.Token); err != nil {
		h.writeAuthError(w, err)
		return
	}
	httputil.WriteSuccess(w)
}
