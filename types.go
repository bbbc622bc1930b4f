package pulse

import (
	"fmt"
	"time"

	"github.com/quizforge/pulse-go/adapters"
)

// Re-export adapter types for convenience
type (
	HTTPAdapter    = adapters.HTTPAdapter
	HTTPResponse   = adapters.HTTPResponse
	BeaconAdapter  = adapters.BeaconAdapter
	StorageAdapter = adapters.StorageAdapter
	PageAdapter    = adapters.PageAdapter
	LoggerAdapter  = adapters.LoggerAdapter
	LogLevel       = adapters.LogLevel
	Clock          = adapters.Clock
)

// HTTPError reports a non-2xx status on the normal delivery path.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("collector request failed with status %d", e.Status)
}

// CollectorConfig configures a Collector. Zero values fall back to the
// defaults applied by NewCollector.
type CollectorConfig struct {
	// EventEndpoint receives one Event record per POST.
	EventEndpoint string
	// SessionEndpoint receives the session-open record and the
	// session-close beacon.
	SessionEndpoint string
	// FlushInterval is the periodic flush cadence. Default 5s.
	FlushInterval time.Duration
	// BatchSize is the pending-queue length that triggers an immediate
	// flush. Default 10.
	BatchSize int
	// HeartbeatInterval is the cadence of time-on-page events. Default 30s.
	HeartbeatInterval time.Duration
	// ScrollDebounce is the quiet period before a scroll position is
	// considered settled. Default 100ms.
	ScrollDebounce time.Duration
	Adapters       struct {
		// HTTP is the normal delivery path. Default: NetHTTPAdapter.
		HTTP adapters.HTTPAdapter
		// Beacon is the unload-safe path. Default: NetBeaconAdapter.
		Beacon adapters.BeaconAdapter
		// SessionStorage holds the session identifier. Default: in-memory.
		SessionStorage adapters.StorageAdapter
		// TokenStorage holds the signed-in user's bearer token. Nil means
		// all telemetry is anonymous.
		TokenStorage adapters.StorageAdapter
		// Page supplies document state snapshots. Default: empty static page.
		Page adapters.PageAdapter
		// Logger receives collector diagnostics. Default: print logger at WARN.
		Logger adapters.LoggerAdapter
		// Clock supplies timestamps. Default: system clock.
		Clock adapters.Clock
	}
}

// DispatcherConfig configures the batching dispatcher.
type DispatcherConfig struct {
	Endpoint      string
	FlushInterval time.Duration
	BatchSize     int
}
