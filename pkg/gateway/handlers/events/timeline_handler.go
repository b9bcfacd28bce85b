package events

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/flaretrack/flaretrack/pkg/gateway/ctxkeys"
	"github.com/flaretrack/flaretrack/pkg/httputil"
)

// ListTimelineHandler returns the account's timeline events, most
// recent occurrence first.
//
// GET /v1/events/timeline
func (h *Handlers) ListTimelineHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	rows, err := h.db.QueryContext(r.Context(),
		"SELECT id, title, detail, occurred_at, created_at FROM timeline_events WHERE account_id = ? ORDER BY occurred_at DESC, id DESC",
		accountID,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer rows.Close()

	events := make([]TimelineEvent, 0)
	for rows.Next() {
		var (
			ev     TimelineEvent
			detail sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.Title, &detail, &ev.OccurredAt, &ev.CreatedAt); err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		ev.Detail = detail.String
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

// CreateTimelineHandler records a new timeline event for the account.
//
// POST /v1/events/timeline
func (h *Handlers) CreateTimelineHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	req, ok := h.decodeTimeline(w, r)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"INSERT INTO timeline_events(account_id, title, detail, occurred_at) VALUES (?, ?, ?, ?)",
		accountID, req.Title, req.Detail, req.OccurredAt,
	)
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	id, _ := res.LastInsertId()
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// UpdateTimelineHandler updates one of the account's timeline events.
//
// PUT /v1/events/timeline/{id}
func (h *Handlers) UpdateTimelineHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeTimeline(w, r)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"UPDATE timeline_events SET title = ?, detail = ?, occurred_at = ? WHERE id = ? AND account_id = ?",
		req.Title, req.Detail, req.OccurredAt, id, accountID,
	)
	writeRowResult(w, res, err)
}

// DeleteTimelineHandler deletes one of the account's timeline events.
//
// DELETE /v1/events/timeline/{id}
func (h *Handlers) DeleteTimelineHandler(w http.ResponseWriter, r *http.Request) {
	accountID := ctxkeys.AccountID(r.Context())

	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"DELETE FROM timeline_events WHERE id = ? AND account_id = ?",
		id, accountID,
	)
	writeRowResult(w, res, err)
}

func (h *Handlers) decodeTimeline(w http.ResponseWriter, r *http.Request) (TimelineEventRequest, bool) {
	var req TimelineEventRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid json body")
		return req, false
	}
	if !httputil.RequireNotEmpty(w, req.Title, "title") {
		return req, false
	}
	if req.OccurredAt.IsZero() {
		req.OccurredAt = time.Now().UTC()
	}
	return req, true
}
