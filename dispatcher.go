package pulse

import (
	"sync"
	"time"

	"github.com/quizforge/pulse-go/adapters"
)

// Dispatcher owns the pending-event queue and the two flush triggers:
// a periodic timer and the batch-size threshold. Delivery is one record
// per request; a failed flush prepends the whole snapshot back onto the
// queue and the next cycle tries again. There is no retry ceiling and no
// backoff; loss is considered more costly than duplicate attempts, so
// delivery is at-least-once.
type Dispatcher struct {
	config       DispatcherConfig
	queue        *Queue
	httpAdapter  adapters.HTTPAdapter
	logger       adapters.LoggerAdapter
	headers      func() map[string]string
	ticker       *time.Ticker
	stopChan     chan struct{}
	stopOnce     sync.Once
	flushMutex   *Mutex
	wg           sync.WaitGroup
	timerStarted bool
	timerMu      sync.Mutex
}

// NewDispatcher creates a dispatcher. headers is consulted at flush time
// so a token appearing mid-session is picked up; it may return nil for
// anonymous delivery.
func NewDispatcher(config DispatcherConfig, httpAdapter adapters.HTTPAdapter, logger adapters.LoggerAdapter, headers func() map[string]string) *Dispatcher {
	if headers == nil {
		headers = func() map[string]string { return nil }
	}
	return &Dispatcher{
		config:      config,
		queue:       NewQueue(),
		httpAdapter: httpAdapter,
		logger:      logger,
		headers:     headers,
		stopChan:    make(chan struct{}),
		flushMutex:  NewMutex(),
	}
}

// Enqueue appends the event and flushes immediately when the pending
// count reaches the batch threshold.
func (d *Dispatcher) Enqueue(event Event) {
	d.queue.Enqueue(event)

	// Start timer on first event
	d.startTimerIfNeeded()

	if d.queue.Len() >= d.config.BatchSize {
		go d.Flush()
	}
}

// Pending returns the number of events waiting for delivery.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

func (d *Dispatcher) startTimerIfNeeded() {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()

	if !d.timerStarted {
		d.ticker = time.NewTicker(d.config.FlushInterval)
		d.timerStarted = true
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for {
				select {
				case <-d.ticker.C:
					d.Flush()
				case <-d.stopChan:
					return
				}
			}
		}()
	}
}

// Flush takes a snapshot of everything pending, clears the queue, then
// delivers the snapshot one record at a time. Clearing before the send
// means a flush triggered while another is in flight sees an empty queue
// and becomes a no-op, and events captured mid-send start a fresh batch.
func (d *Dispatcher) Flush() {
	d.flushMutex.RunAtomic(func() error {
		if d.queue.IsEmpty() {
			return nil
		}

		snapshot := d.queue.ToSlice()
		d.queue.Clear()

		d.logger.Debug("flushing %d pending events", len(snapshot))

		headers := d.headers()
		for i := range snapshot {
			if err := d.send(snapshot[i], headers); err != nil {
				// Restore the whole snapshot ahead of anything captured
				// since it was taken; the next cycle retries in order.
				d.logger.Warn("delivery failed, re-queueing %d events: %v", len(snapshot), err)
				d.queue.PrependSlice(snapshot)
				return err
			}
		}

		d.logger.Debug("delivered %d events", len(snapshot))
		return nil
	})
}

func (d *Dispatcher) send(event Event, headers map[string]string) error {
	resp, err := d.httpAdapter.Send(d.config.Endpoint, event, headers)
	if err != nil {
		return err
	}
	if !resp.OK {
		return &HTTPError{Status: resp.Status}
	}
	return nil
}

// Stop halts the periodic timer and makes a final delivery attempt.
// Anything still pending after that attempt is dropped; the unload beacon
// is the only teardown-safe path. Safe to call more than once; only the
// first call does anything.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.timerMu.Lock()
		if d.ticker != nil {
			d.ticker.Stop()
		}
		started := d.timerStarted
		d.timerMu.Unlock()

		close(d.stopChan)
		if started {
			d.wg.Wait()
		}

		d.Flush()
	})
}
