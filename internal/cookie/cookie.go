package cookie

import (
	"net/http"
	"time"

	"github.com/dgellow/review-front/internal/envutil"
	"github.com/dgellow/review-front/internal/log"
)

// TokenCookie is the fixed storage key for the session token,
// scoped to the browser profile
const TokenCookie = "review_token"

// SetToken sets the session token cookie with appropriate security settings
func SetToken(w http.ResponseWriter, value string, maxAge time.Duration) {
	secure := !envutil.IsDev()
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})

	log.LogTraceWithFields("cookie", "Token cookie set", map[string]any{
		"maxAge":   maxAge.String(),
		"secure":   secure,
		"sameSite": "Lax",
	})
}

// Clear removes a cookie by setting MaxAge to -1
func Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

// ClearToken removes the session token cookie
func ClearToken(w http.ResponseWriter) {
	Clear(w, TokenCookie)
	log.LogTraceWithFields("cookie", "Token cookie cleared", nil)
}

// Get retrieves a cookie value from the request
func Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// GetToken retrieves the session token cookie value
func GetToken(r *http.Request) (string, error) {
	return Get(r, TokenCookie)
}
