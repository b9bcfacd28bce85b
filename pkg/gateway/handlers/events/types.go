package events

import "time"

// SeverityEvent is a tracked episode with a 1-10 severity rating.
type SeverityEvent struct {
	ID         int64     `json:"id"`
	Severity   int       `json:"severity"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// SeverityEventRequest is the request body for creating or updating a
// severity event.
type SeverityEventRequest struct {
	Severity   int       `json:"severity"`
	Note       string    `json:"note"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TimelineEvent is a free-form dated entry on the account's timeline.
type TimelineEvent struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TimelineEventRequest is the request body for creating or updating a
// timeline event.
type TimelineEventRequest struct {
	Title      string    `json:"title"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}
