package pulse

import "time"

// Event taxonomy levels used by the built-in capture handlers.
const (
	CategoryNavigation = "navigation"
	CategoryEngagement = "engagement"
	CategoryError      = "error"
)

// Event is one discrete occurrence. Events are immutable once constructed;
// membership in the pending queue is their only state.
type Event struct {
	EventID       string         `json:"event_id"`
	SessionID     string         `json:"session_id"`
	EventType     string         `json:"event_type"`
	EventCategory string         `json:"event_category"`
	EventAction   string         `json:"event_action"`
	EventLabel    string         `json:"event_label,omitempty"`
	EventValue    *float64       `json:"event_value,omitempty"`
	PageURL       string         `json:"page_url"`
	PageTitle     string         `json:"page_title"`
	Referrer      string         `json:"referrer,omitempty"`
	DeviceType    string         `json:"device_type"`
	Browser       string         `json:"browser"`
	OS            string         `json:"os"`
	TimeOnPage    *float64       `json:"time_on_page,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Session is the session-open record. Attribution fields are captured once
// at session start and never change afterwards.
type Session struct {
	SessionID   string    `json:"session_id"`
	StartedAt   time.Time `json:"started_at"`
	IsActive    bool      `json:"is_active"`
	PagesViewed int       `json:"pages_viewed"`
	DeviceType  string    `json:"device_type"`
	Browser     string    `json:"browser"`
	OS          string    `json:"os"`
	Referrer    string    `json:"referrer,omitempty"`
	UTMSource   string    `json:"utm_source,omitempty"`
	UTMMedium   string    `json:"utm_medium,omitempty"`
	UTMCampaign string    `json:"utm_campaign,omitempty"`
}

// SessionClose is the teardown beacon payload. It carries no credential;
// the backend keys the close on session_id alone.
type SessionClose struct {
	SessionID       string    `json:"session_id"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	IsActive        bool      `json:"is_active"`
}
