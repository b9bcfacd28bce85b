package events

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/flaretrack/flaretrack/pkg/gateway/ctxkeys"
	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// ListSeverityHandler returns the account's severity events, most
// recent occurrence first.
//
// GET /v1/events/severity
func (h *Handlers) ListSeverityHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	rows, err := h.db.QueryContext(r.Context(),
		"SELECT id, severity, note, occurred_at, created_at FROM severity_events WHERE account_id = ? ORDER BY occurred_at DESC, id DESC",
		accountID,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer rows.Close()

	events := make([]SeverityEvent, 0)
	for rows.Next() {
		var (
			ev   SeverityEvent
			note sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.Severity, &note, &ev.OccurredAt, &ev.CreatedAt); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		ev.Note = note.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// CreateSeverityHandler records a new severity event for the account.
//
// POST /v1/events/severity
func (h *Handlers) CreateSeverityHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	req, ok := h.decodeSeverity(w, r)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"INSERT INTO severity_events(account_id, severity, note, occurred_at) VALUES (?, ?, ?, ?)",
		accountID, req.Severity, req.Note, req.OccurredAt,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	id, _ := res.LastInsertId()
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// UpdateSeverityHandler updates one of the account's severity events.
// A row owned by another account is simply not found.
//
// PUT /v1/events/severity/{id}
func (h *Handlers) UpdateSeverityHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeSeverity(w, r)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"UPDATE severity_events SET severity = ?, note = ?, occurred_at = ? WHERE id = ? AND account_id = ?",
		req.Severity, req.Note, req.OccurredAt, id, accountID,
	)
	writeRowResult(w, res, err)
}

// DeleteSeverityHandler deletes one of the account's severity events.
//
// DELETE /v1/events/severity/{id}
func (h *Handlers) DeleteSeverityHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"DELETE FROM severity_events WHERE id = ? AND account_id = ?",
		id, accountID,
	)
	writeRowResult(w, res, err)
}

func (h *Handlers) decodeSeverity(w http.ResponseWriter, r *http.Request) (SeverityEventRequest, bool) {
	var req SeverityEventRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid json body")
		return req, false
	}
	if req.Severity < 1 || req.Severity > 10 {
		httputil.WriteError(w, http.StatusBadRequest, "severity must be between 1 and 10")
		return req, false
	}
	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now().UTC()
	}
	return req, true
}
