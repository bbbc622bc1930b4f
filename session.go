package pulse

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/pulse-go/adapters"
)

// sessionStorageKey is the session-scoped storage slot for the identifier.
const sessionStorageKey = "pulse_session_id"

// SessionManager owns the session identity and the open/close records.
// The open record travels on the normal path; the close record travels on
// the beacon path only, because an ordinary request may be aborted when
// the host page is torn down.
type SessionManager struct {
	endpoint string
	storage  adapters.StorageAdapter
	page     adapters.PageAdapter
	http     adapters.HTTPAdapter
	beacon   adapters.BeaconAdapter
	logger   adapters.LoggerAdapter
	clock    adapters.Clock
	headers  func() map[string]string

	mu        sync.Mutex
	sessionID string
	startedAt time.Time
}

// NewSessionManager creates a session manager bound to the given
// session-scoped storage.
func NewSessionManager(endpoint string, storage adapters.StorageAdapter, page adapters.PageAdapter, http adapters.HTTPAdapter, beacon adapters.BeaconAdapter, logger adapters.LoggerAdapter, clock adapters.Clock, headers func() map[string]string) *SessionManager {
	if headers == nil {
		headers = func() map[string]string { return nil }
	}
	return &SessionManager{
		endpoint: endpoint,
		storage:  storage,
		page:     page,
		http:     http,
		beacon:   beacon,
		logger:   logger,
		clock:    clock,
		headers:  headers,
	}
}

// SessionID returns the identifier for the current storage scope,
// creating and persisting one if the scope has none yet. Idempotent
// within a scope; a fresh scope always yields a new id.
func (s *SessionManager) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessionID != "" {
		return s.sessionID
	}

	if id, ok, err := s.storage.Get(sessionStorageKey); err == nil && ok && id != "" {
		s.sessionID = id
		return id
	}

	id := newSessionID(s.clock.Now())
	if err := s.storage.Set(sessionStorageKey, id); err != nil {
		// The id still works for this page view; it just won't survive
		// a reload of the same scope.
		s.logger.Warn("failed to persist session id: %v", err)
	}
	s.sessionID = id
	return id
}

// newSessionID builds a time-prefixed identifier with a random suffix.
// Collision probability is negligible at this traffic volume.
func newSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("sess_%d_%s", now.UnixMilli(), suffix)
}

// Start records the session start time and posts the session-open record
// asynchronously. A failed open is logged and swallowed; it must never
// block capture or surface to the host.
func (s *SessionManager) Start(env Environment) {
	startedAt := s.clock.Now()
	s.mu.Lock()
	s.startedAt = startedAt
	s.mu.Unlock()

	record := Session{
		SessionID:   s.SessionID(),
		StartedAt:   startedAt.UTC(),
		IsActive:    true,
		PagesViewed: 1,
		DeviceType:  env.DeviceType,
		Browser:     env.Browser,
		OS:          env.OS,
		Referrer:    s.page.Referrer(),
		UTMSource:   s.page.QueryParam("utm_source"),
		UTMMedium:   s.page.QueryParam("utm_medium"),
		UTMCampaign: s.page.QueryParam("utm_campaign"),
	}

	go func() {
		resp, err := s.http.Send(s.endpoint, record, s.headers())
		if err != nil {
			s.logger.Error("session open failed: %v", err)
			return
		}
		if !resp.OK {
			s.logger.Error("session open rejected with status %d", resp.Status)
		}
	}()
}

// End hands the session-close record to the beacon path. At-most-once:
// no retry, no response, no way to observe failure.
func (s *SessionManager) End() {
	s.mu.Lock()
	id := s.sessionID
	startedAt := s.startedAt
	s.mu.Unlock()

	if id == "" {
		return
	}

	now := s.clock.Now()
	record := SessionClose{
		SessionID:       id,
		EndedAt:         now.UTC(),
		DurationSeconds: now.Sub(startedAt).Seconds(),
		IsActive:        false,
	}

	body, err := json.Marshal(record)
	if err != nil {
		return
	}
	s.beacon.Send(s.endpoint, body)
}
