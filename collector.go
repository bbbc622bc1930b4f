package pulse

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/pulse-go/adapters"
)

// Collector is the process-wide telemetry collector. It attaches to a
// host page once and runs for the page's lifetime: the session manager
// opens a session record at Init, capture handlers feed the batching
// dispatcher, and Shutdown emits the closing beacon. The collector is
// strictly additive instrumentation: nothing in it throws to, blocks, or
// otherwise degrades the host.
type Collector struct {
	config     CollectorConfig
	dispatcher *Dispatcher
	session    *SessionManager
	tokens     *TokenSource
	metadata   *MetadataManager
	page       adapters.PageAdapter
	logger     adapters.LoggerAdapter
	clock      adapters.Clock

	mu          sync.RWMutex
	initialized bool

	stopChan     chan struct{}
	shutdownOnce sync.Once

	dwellMu      sync.Mutex
	visibleSince time.Time

	scrollMu      sync.Mutex
	scrollTimer   *time.Timer
	latestScroll  ScrollPosition
	maxScrollPct  int
	milestoneSent map[int]bool
}

// NewCollector creates a collector. Unset config fields fall back to
// defaults; unset adapters fall back to the standard implementations.
func NewCollector(config CollectorConfig) *Collector {
	if config.FlushInterval == 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.HeartbeatInterval == 0 {
		config.HeartbeatInterval = 30 * time.Second
	}
	if config.ScrollDebounce == 0 {
		config.ScrollDebounce = 100 * time.Millisecond
	}

	if config.Adapters.HTTP == nil {
		config.Adapters.HTTP = adapters.NewNetHTTPAdapter()
	}
	if config.Adapters.Beacon == nil {
		config.Adapters.Beacon = adapters.NewNetBeaconAdapter()
	}
	if config.Adapters.SessionStorage == nil {
		config.Adapters.SessionStorage = adapters.NewMemoryStorageAdapter()
	}
	if config.Adapters.Page == nil {
		config.Adapters.Page = &adapters.StaticPageAdapter{}
	}
	if config.Adapters.Logger == nil {
		config.Adapters.Logger = adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
	}
	if config.Adapters.Clock == nil {
		config.Adapters.Clock = adapters.NewSystemClock()
	}

	return &Collector{
		config:        config,
		metadata:      NewMetadataManager(),
		page:          config.Adapters.Page,
		logger:        config.Adapters.Logger,
		clock:         config.Adapters.Clock,
		stopChan:      make(chan struct{}),
		milestoneSent: make(map[int]bool),
	}
}

// Init attaches the collector: it opens the session record, emits the
// initial page_view, and starts the periodic flush and heartbeat timers.
// Idempotent.
func (c *Collector) Init() error {
	c.mu.Lock()

	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	if c.config.EventEndpoint == "" {
		c.mu.Unlock()
		return errors.New("EventEndpoint is required")
	}
	if c.config.SessionEndpoint == "" {
		c.mu.Unlock()
		return errors.New("SessionEndpoint is required")
	}

	c.tokens = NewTokenSource(c.config.Adapters.TokenStorage, c.logger, c.clock)
	c.dispatcher = NewDispatcher(DispatcherConfig{
		Endpoint:      c.config.EventEndpoint,
		FlushInterval: c.config.FlushInterval,
		BatchSize:     c.config.BatchSize,
	}, c.config.Adapters.HTTP, c.logger, c.tokens.Headers)
	c.session = NewSessionManager(
		c.config.SessionEndpoint,
		c.config.Adapters.SessionStorage,
		c.page,
		c.config.Adapters.HTTP,
		c.config.Adapters.Beacon,
		c.logger,
		c.clock,
		c.tokens.Headers,
	)

	c.dwellMu.Lock()
	c.visibleSince = c.clock.Now()
	c.dwellMu.Unlock()

	c.session.Start(ClassifyEnvironment(c.page.UserAgent()))
	c.initialized = true
	c.mu.Unlock()

	c.trackPageView()
	go c.runHeartbeat()

	c.logger.Info("collector initialized")
	return nil
}

// SessionID returns the current session identifier, empty before Init.
func (c *Collector) SessionID() string {
	if !c.isInitialized() {
		return ""
	}
	return c.session.SessionID()
}

// SetMetadata sets a global metadata key merged into every event.
func (c *Collector) SetMetadata(key string, value any) {
	c.metadata.Set(key, value)
}

// TrackCustom records an app-defined event. label, value and metadata
// are optional.
func (c *Collector) TrackCustom(eventType, category, action, label string, value *float64, metadata map[string]any) {
	c.trackEvent(Event{
		EventType:     eventType,
		EventCategory: category,
		EventAction:   action,
		EventLabel:    label,
		EventValue:    value,
		Metadata:      metadata,
	})
}

// trackEvent stamps the envelope fields and hands the event to the
// dispatcher. Dropped silently before Init and after Shutdown: the
// collector fails open.
func (c *Collector) trackEvent(event Event) {
	if !c.isInitialized() {
		return
	}

	env := ClassifyEnvironment(c.page.UserAgent())

	event.EventID = uuid.NewString()
	event.SessionID = c.session.SessionID()
	event.PageURL = c.page.URL()
	event.PageTitle = c.page.Title()
	event.Referrer = c.page.Referrer()
	event.DeviceType = env.DeviceType
	event.Browser = env.Browser
	event.OS = env.OS
	event.Metadata = c.mergeMetadata(event.Metadata)

	c.dispatcher.Enqueue(event)
}

// mergeMetadata overlays event-specific metadata onto the global set.
func (c *Collector) mergeMetadata(own map[string]any) map[string]any {
	global := c.metadata.GetAll()
	if global == nil {
		return own
	}
	for k, v := range own {
		global[k] = v
	}
	return global
}

// Flush forces an immediate delivery attempt of everything pending.
func (c *Collector) Flush() {
	if !c.isInitialized() {
		return
	}
	c.dispatcher.Flush()
}

// Pending returns the number of events waiting for delivery.
func (c *Collector) Pending() int {
	if !c.isInitialized() {
		return 0
	}
	return c.dispatcher.Pending()
}

// Shutdown detaches the collector: it emits the session-close beacon,
// stops the timers, and makes a final delivery attempt for anything
// still pending. Safe to bind to multiple teardown signals; only the
// first call does anything.
func (c *Collector) Shutdown() {
	c.shutdownOnce.Do(func() {
		if !c.isInitialized() {
			return
		}

		close(c.stopChan)

		c.scrollMu.Lock()
		if c.scrollTimer != nil {
			c.scrollTimer.Stop()
		}
		c.scrollMu.Unlock()

		c.session.End()
		c.dispatcher.Stop()

		c.mu.Lock()
		c.initialized = false
		c.mu.Unlock()

		c.logger.Info("collector shut down")
	})
}

func (c *Collector) isInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// runHeartbeat emits time_on_page events for the life of the page.
func (c *Collector) runHeartbeat() {
	ticker := time.NewTicker(c.config.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.heartbeat()
		case <-c.stopChan:
			return
		}
	}
}

// Float64 returns a pointer to v, for optional event values.
func Float64(v float64) *float64 {
	return &v
}
