package pulse

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/quizforge/pulse-go/adapters"
)

// tokenStorageKey is where the host app keeps the signed-in user's token.
const tokenStorageKey = "auth_token"

// TokenSource reads the bearer credential from durable storage for the
// normal delivery path. A missing token means anonymous telemetry, never
// an error. A token whose JWT expiry is visibly in the past is not
// attached either; opaque tokens are forwarded as-is and the backend
// decides.
type TokenSource struct {
	storage adapters.StorageAdapter
	logger  adapters.LoggerAdapter
	clock   adapters.Clock
}

// NewTokenSource creates a token source. storage may be nil, in which
// case every request is anonymous.
func NewTokenSource(storage adapters.StorageAdapter, logger adapters.LoggerAdapter, clock adapters.Clock) *TokenSource {
	return &TokenSource{storage: storage, logger: logger, clock: clock}
}

// Headers returns the Authorization header for the current token, or nil.
func (t *TokenSource) Headers() map[string]string {
	if t == nil || t.storage == nil {
		return nil
	}

	token, ok, err := t.storage.Get(tokenStorageKey)
	if err != nil {
		t.logger.Warn("failed to read auth token: %v", err)
		return nil
	}
	if !ok || token == "" {
		return nil
	}
	if t.expired(token) {
		t.logger.Debug("stored token is expired, sending anonymously")
		return nil
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

// expired reports whether the token is a JWT with an expiry in the past.
// The signature is not verified here; only the backend can do that. This
// check just avoids attaching a credential the server is certain to reject.
func (t *TokenSource) expired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(t.clock.Now())
}
