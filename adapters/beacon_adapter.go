package adapters

import (
	"bytes"
	"net/http"
	"time"
)

// BeaconAdapter is an interface for unload-safe, fire-and-forget delivery.
// It carries weaker guarantees than HTTPAdapter on purpose: the send is
// queued and non-blocking, there is no response, no retry, and no headers
// beyond the content type. Callers must not wait on a result.
type BeaconAdapter interface {
	// Send queues one payload for delivery to the endpoint.
	Send(endpoint string, body []byte)
}

// NetBeaconAdapter is the default BeaconAdapter built on net/http.
// The request runs on its own goroutine with a short timeout so the
// caller returns immediately, mirroring a browser beacon send.
type NetBeaconAdapter struct {
	client *http.Client
}

var _ BeaconAdapter = (*NetBeaconAdapter)(nil)

// NewNetBeaconAdapter creates a new NetBeaconAdapter instance.
func NewNetBeaconAdapter() BeaconAdapter {
	return &NetBeaconAdapter{
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Send posts the payload without reporting the outcome.
func (b *NetBeaconAdapter) Send(endpoint string, body []byte) {
	payload := make([]byte, len(body))
	copy(payload, body)
	go func() {
		resp, err := b.client.Post(endpoint, "application/json", bytes.NewReader(payload))
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
}
