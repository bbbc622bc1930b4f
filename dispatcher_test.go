package pulse

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPAdapter records every delivery attempt. failNext fails that
// many calls with a network error; status (when non-zero and not 2xx)
// rejects calls with that status.
type mockHTTPAdapter struct {
	mu        sync.Mutex
	attempts  int
	delivered []Event
	sessions  []Session
	headers   []map[string]string
	failNext  int
	status    int
}

func (m *mockHTTPAdapter) Send(endpoint string, record any, headers map[string]string) (*HTTPResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	m.headers = append(m.headers, headers)
	if m.failNext > 0 {
		m.failNext--
		return nil, errors.New("network down")
	}
	if m.status != 0 && (m.status < 200 || m.status >= 300) {
		return &HTTPResponse{Status: m.status}, nil
	}
	switch r := record.(type) {
	case Event:
		m.delivered = append(m.delivered, r)
	case Session:
		m.sessions = append(m.sessions, r)
	}
	return &HTTPResponse{OK: true, Status: 200}, nil
}

func (m *mockHTTPAdapter) attemptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

func (m *mockHTTPAdapter) deliveredEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.delivered))
	copy(out, m.delivered)
	return out
}

func (m *mockHTTPAdapter) deliveredSessions() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

func (m *mockHTTPAdapter) setFailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
}

func (m *mockHTTPAdapter) setStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

func (m *mockHTTPAdapter) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = 0
	m.delivered = nil
	m.sessions = nil
	m.headers = nil
}

// mockBeaconAdapter records fire-and-forget payloads.
type mockBeaconAdapter struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (m *mockBeaconAdapter) Send(endpoint string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload := make([]byte, len(body))
	copy(payload, body)
	m.payloads = append(m.payloads, payload)
}

func (m *mockBeaconAdapter) sent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.payloads))
	copy(out, m.payloads)
	return out
}

// testClock is a manually advanced Clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestDispatcher(adapter *mockHTTPAdapter, flushInterval time.Duration, batchSize int) *Dispatcher {
	return NewDispatcher(DispatcherConfig{
		Endpoint:      "http://collector.test/api/track-event",
		FlushInterval: flushInterval,
		BatchSize:     batchSize,
	}, adapter, newTestLogger(), nil)
}

func newTestLogger() LoggerAdapter {
	return &noopLogger{}
}

type noopLogger struct{}

func (n *noopLogger) Debug(message string, args ...any) {}
func (n *noopLogger) Info(message string, args ...any)  {}
func (n *noopLogger) Warn(message string, args ...any)  {}
func (n *noopLogger) Error(message string, args ...any) {}

func typedEvent(eventType string) Event {
	return Event{EventType: eventType, EventCategory: CategoryEngagement, EventAction: "test"}
}

func TestDispatcherNoFlushBeforeInterval(t *testing.T) {
	adapter := &mockHTTPAdapter{}
	d := newTestDispatcher(adapter, 200*time.Millisecond, 10)

	d.Enqueue(typedEvent("e1"))
	d.Enqueue(typedEvent("e2"))
	d.Enqueue(typedEvent("e3"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, adapter.attemptCount(), "below-threshold events must wait for the timer")
	assert.Equal(t, 3, d.Pending())

	assert.Eventually(t, func() bool {
		return len(adapter.deliveredEvents()) == 3
	}, time.Second, 10*time.Millisecond, "periodic timer should deliver the pending events")
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcherThresholdTriggersImmediateFlush(t *testing.T) {
	adapter := &mockHTTPAdapter{}
	d := newTestDispatcher(adapter, time.Hour, 5)

	for i := 0; i < 5; i++ {
		d.Enqueue(typedEvent("e"))
	}

	require.Eventually(t, func() bool {
		return len(adapter.deliveredEvents()) == 5
	}, time.Second, 5*time.Millisecond, "reaching the threshold should flush without the timer")
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcherThresholdRemovesExactlyOneBatch(t *testing.T) {
	adapter := &mockHTTPAdapter{}
	d := newTestDispatcher(adapter, time.Hour, 10)

	for i := 0; i < 10; i++ {
		d.Enqueue(typedEvent("e"))
	}
	require.Eventually(t, func() bool {
		return len(adapter.deliveredEvents()) == 10
	}, time.Second, 5*time.Millisecond)

	d.Enqueue(typedEvent("late1"))
	d.Enqueue(typedEvent("late2"))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 2, d.Pending(), "events past the full batch start a fresh one")
	assert.Len(t, adapter.deliveredEvents(), 10)
}

func TestDispatcherRetryPreservesOrder(t *testing.T) {
	adapter := &mockHTTPAdapter{failNext: 1}
	d := newTestDispatcher(adapter, time.Hour, 100)

	d.Enqueue(typedEvent("e1"))
	d.Enqueue(typedEvent("e2"))
	d.Enqueue(typedEvent("e3"))

	d.Flush()
	assert.Empty(t, adapter.deliveredEvents(), "failed snapshot must not be partially recorded")
	assert.Equal(t, 3, d.Pending(), "failed snapshot returns to the queue")

	d.Enqueue(typedEvent("e4"))
	d.Flush()

	delivered := adapter.deliveredEvents()
	require.Len(t, delivered, 4)
	for i, want := range []string{"e1", "e2", "e3", "e4"} {
		assert.Equal(t, want, delivered[i].EventType)
	}
}

func TestDispatcherNonSuccessStatusRequeues(t *testing.T) {
	adapter := &mockHTTPAdapter{status: 500}
	d := newTestDispatcher(adapter, time.Hour, 100)

	d.Enqueue(typedEvent("e1"))
	d.Enqueue(typedEvent("e2"))
	d.Flush()
	assert.Equal(t, 2, d.Pending(), "non-2xx counts as failure on this path")

	adapter.setStatus(0)
	d.Flush()
	assert.Len(t, adapter.deliveredEvents(), 2)
	assert.Equal(t, 0, d.Pending())
}

func TestDispatcherFailedBatchDeliveredExactlyOnce(t *testing.T) {
	adapter := &mockHTTPAdapter{failNext: 1}
	d := newTestDispatcher(adapter, time.Hour, 100)

	for i := 0; i < 10; i++ {
		d.Enqueue(typedEvent(string(rune('a' + i))))
	}

	d.Flush()
	d.Flush()

	delivered := adapter.deliveredEvents()
	require.Len(t, delivered, 10)
	seen := map[string]int{}
	for i, event := range delivered {
		seen[event.EventType]++
		assert.Equal(t, string(rune('a'+i)), event.EventType, "original order preserved")
	}
	for eventType, count := range seen {
		assert.Equal(t, 1, count, "event %s delivered once", eventType)
	}
	assert.Equal(t, 11, adapter.attemptCount(), "one failed attempt plus ten deliveries")
}

func TestDispatcherFlushEmptyIsNoop(t *testing.T) {
	adapter := &mockHTTPAdapter{}
	d := newTestDispatcher(adapter, time.Hour, 100)
	d.Flush()
	assert.Equal(t, 0, adapter.attemptCount())
}

func TestDispatcherStopDeliversPending(t *testing.T) {
	adapter := &mockHTTPAdapter{}
	d := newTestDispatcher(adapter, time.Hour, 100)
	d.Enqueue(typedEvent("e1"))
	d.Stop()
	assert.Len(t, adapter.deliveredEvents(), 1)
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	adapter := &mockHTTPAdapter{}
	d := newTestDispatcher(adapter, time.Hour, 100)
	d.Enqueue(typedEvent("e1"))

	d.Stop()
	assert.NotPanics(t, d.Stop, "a second Stop must be a no-op")
	assert.Len(t, adapter.deliveredEvents(), 1)
}
