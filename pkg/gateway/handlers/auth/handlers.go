// Package auth provides the HTTP handlers for the authentication and
// identity endpoints: nonce challenges, wallet and federated sign-in,
// identity listing, and credential linking.
package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/flaretrack/flaretrack/pkg/auth"
	"github.com/flaretrack/flaretrack/pkg/httputil"
	"github.com/flaretrack/flaretrack/pkg/logging"
)

// Handlers holds dependencies for authentication HTTP handlers.
type Handlers struct {
	logger *logging.ColoredLogger
	svc    *auth.Service
}

// NewHandlers creates a new authentication handlers instance.
func NewHandlers(logger *logging.ColoredLogger, svc *auth.Service) *Handlers {
	return &Handlers{logger: logger, svc: svc}
}

// writeAuthError maps service errors onto the wire contract. Every
// credential failure collapses into one generic 401 so the response is
// not an oracle for valid nonces or signatures; conflicts get an
// actionable 409; anything else is a 500 with minimal detail.
func (h *Handlers) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrIdentityAlreadyLinked):
		httputil.WriteError(w, http.StatusConflict, "identity already linked to another account")
	case errors.Is(err, auth.ErrAuthFailed):
		httputil.WriteError(w, http.StatusUnauthorized, "authentication failed")
	default:
		h.logger.ComponentError(logging.ComponentAuth, "auth request failed", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
