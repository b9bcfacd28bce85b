package auth

import (
	"net/http"

	"github.com/flaretrack/flaretrack/pkg/gateway/ctxkeys"
	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// IdentitiesHandler lists the authenticated account's linked
// identities in creation order.
//
// GET /v1/auth/identities (bearer-authenticated)
// Response: { "identities": [ { provider, identifier, ... } ] }
func (h *Handlers) IdentitiesHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	identities, err := h.svc.ListIdentities(r.Context(), accountID)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"identities": identities})
}
