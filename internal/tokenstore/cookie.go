package tokenstore

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/dgellow/review-front/internal/cookie"
	"github.com/dgellow/review-front/internal/crypto"
	"github.com/dgellow/review-front/internal/log"
)

// CookieStore persists the session token in an HMAC-signed browser cookie.
// It is bound to a single request/response pair; handlers construct one per
// request. A tampered or malformed cookie reads as no token.
type CookieStore struct {
	w          http.ResponseWriter
	r          *http.Request
	signingKey []byte

	// pending mirrors writes made during this request so that Read
	// observes Store and Clear before the response is sent
	pending    string
	hasPending bool
	cleared    bool
}

// NewCookieStore creates a token store bound to the given request
func NewCookieStore(w http.ResponseWriter, r *http.Request, signingKey []byte) *CookieStore {
	return &CookieStore{
		w:          w,
		r:          r,
		signingKey: signingKey,
	}
}

// Store seals the token and persists it as a long-lived cookie
func (s *CookieStore) Store(token string) error {
	cookie.SetToken(s.w, s.seal(token), TokenTTL)
	s.pending = token
	s.hasPending = true
	s.cleared = false
	return nil
}

// Read returns the current token, or ErrNoToken if the cookie is absent
// or fails signature verification
func (s *CookieStore) Read() (string, error) {
	if s.cleared {
		return "", ErrNoToken
	}
	if s.hasPending {
		return s.pending, nil
	}

	value, err := cookie.GetToken(s.r)
	if err != nil {
		return "", ErrNoToken
	}

	token, ok := s.open(value)
	if !ok {
		log.LogWarnWithFields("tokenstore", "Rejecting token cookie with invalid signature", nil)
		return "", ErrNoToken
	}
	return token, nil
}

// Clear removes the token cookie. Idempotent.
func (s *CookieStore) Clear() error {
	cookie.ClearToken(s.w)
	s.pending = ""
	s.hasPending = false
	s.cleared = true
	return nil
}

// seal encodes the token and appends an HMAC signature so that a
// modified cookie is detected on read
func (s *CookieStore) seal(token string) string {
	encoded := base64.URLEncoding.EncodeToString([]byte(token))
	return encoded + "." + crypto.SignData(encoded, s.signingKey)
}

// open verifies the signature and decodes the token
func (s *CookieStore) open(sealed string) (string, bool) {
	encoded, signature, found := strings.Cut(sealed, ".")
	if !found {
		return "", false
	}
	if !crypto.ValidateSignedData(encoded, signature, s.signingKey) {
		return "", false
	}
	token, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(token), true
}

var _ Store = (*CookieStore)(nil)
