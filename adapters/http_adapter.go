package adapters

// HTTPResponse represents the response from an HTTP request.
type HTTPResponse struct {
	OK     bool
	Status int
}

// HTTPAdapter is an interface for normal-path HTTP delivery.
// Implement this interface to use custom HTTP clients.
type HTTPAdapter interface {
	// Send posts a single JSON record to the specified endpoint.
	//
	// Parameters:
	//   - endpoint: The collector endpoint URL
	//   - record: The record to serialize as the request body
	//   - headers: Optional custom headers to merge with defaults
	//
	// Returns HTTP response or error.
	Send(endpoint string, record any, headers map[string]string) (*HTTPResponse, error)
}
