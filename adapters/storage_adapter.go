package adapters

// StorageAdapter is an interface for client-side key-value storage.
// Two scopes are typically wired in: a session scope holding the session
// identifier (fresh scope means fresh session) and a durable scope holding
// the signed-in user's token. Implement this interface to back either
// scope with a custom store.
type StorageAdapter interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores the value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes the value under key. Removing a missing key is not
	// an error.
	Remove(key string) error

	// Clear removes all stored values.
	Clear() error
}
