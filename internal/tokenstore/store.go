package tokenstore

import (
	"errors"
	"time"
)

// ErrNoToken is returned when no session token is stored, when the
// underlying storage is unavailable, or when the stored value fails
// integrity checks. Callers treat all three as "unauthenticated".
var ErrNoToken = errors.New("no session token")

// TokenTTL is how long the persisted token survives in browser storage.
// The token payload itself carries no client-side expiry.
const TokenTTL = 365 * 24 * time.Hour

// Store owns the lifecycle of the session token: an opaque bearer
// credential issued by the identity provider. At most one token is
// current per browser profile.
type Store interface {
	// Store persists the token, overwriting any prior value.
	Store(token string) error

	// Read returns the current token, or ErrNoToken if none is stored.
	Read() (string, error)

	// Clear removes the token. Idempotent if already absent.
	Clear() error
}
