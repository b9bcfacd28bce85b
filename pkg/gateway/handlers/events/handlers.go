// Package events provides the HTTP handlers for the two tracked
// resource types: severity events and free-form timeline events. Every
// statement is predicated on the account id resolved by the auth
// middleware; client-supplied identifiers can never widen a query past
// the caller's own rows.
package events

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/flaretrack/flaretrack/pkg/httputil"
	"github.com/flaretrack/flaretrack/pkg/logging"
)

// Handlers holds dependencies for the event HTTP handlers.
type Handlers struct {
	logger *logging.ColoredLogger
	db     *sql.DB
}

// NewHandlers creates a new event handlers instance.
func NewHandlers(logger *logging.ColoredLogger, db *sql.DB) *Handlers {
	return &Handlers{logger: logger, db: db}
}

// pathID parses the {id} route parameter. Writes a 400 and returns
// false on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "invalid event id")
		return 0, false
	}
	return id, true
}

// writeRowResult turns an account-scoped UPDATE/DELETE result into a
// response: zero affected rows means the row does not exist for this
// account, which is indistinguishable from not existing at all.
func writeRowResult(w http.ResponseWriter, res sql.Result, err error) {
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		httputil.WriteError(w, http.StatusNotFound, "event not found")
		return
	}
	httputil.WriteSuccess(w)
}
