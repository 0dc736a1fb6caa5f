package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dgellow/review-front/internal/apiclient"
	"github.com/dgellow/review-front/internal/cookie"
	"github.com/dgellow/review-front/internal/crypto"
	"github.com/dgellow/review-front/internal/metrics"
	"github.com/dgellow/review-front/internal/tokenstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv bundles handlers built against a fake backend
type testEnv struct {
	signingKey []byte
	csrf       crypto.CSRFProtection
	auth       *AuthHandlers
	dashboard  *DashboardHandlers
}

func newTestEnv(t *testing.T, backendURL string) *testEnv {
	t.Helper()

	key := []byte(strings.Repeat("k", 32))
	csrf := crypto.NewCSRFProtection(key, time.Hour)
	collector := metrics.NewCollector(prometheus.NewRegistry())
	api := apiclient.NewClient(backendURL)

	return &testEnv{
		signingKey: key,
		csrf:       csrf,
		auth:       NewAuthHandlers(api, key, csrf, collector),
		dashboard:  NewDashboardHandlers(api, key, csrf, collector),
	}
}

// requestWithToken builds a request carrying a stored session token,
// simulating a browser that completed the auth callback
func requestWithToken(t *testing.T, key []byte, method, target, token string) *http.Request {
	t.Helper()

	w := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodGet, callbackPath, nil)
	require.NoError(t, tokenstore.NewCookieStore(w, seed, key).Store(token))

	r := httptest.NewRequest(method, target, nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestRootRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	w := httptest.NewRecorder()
	env.auth.RootHandler(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, dashboardPath, w.Header().Get("Location"))
}

func TestSignInPage(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	w := httptest.NewRecorder()
	env.auth.SignInHandler(w, httptest.NewRequest(http.MethodGet, signInPath, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "http://localhost:8000/api/auth/login")
}

func TestSignInPageShowsMessage(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	w := httptest.NewRecorder()
	env.auth.SignInHandler(w, httptest.NewRequest(http.MethodGet, signInPath+"?message=Signed+out", nil))

	assert.Contains(t, w.Body.String(), "Signed out")
}

func TestCallbackPersistsTokenAndRedirects(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	w := httptest.NewRecorder()
	env.auth.CallbackHandler(w, httptest.NewRequest(http.MethodGet, callbackPath+"?token=xyz123", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, dashboardPath, w.Header().Get("Location"))

	// The persisted value round-trips through the cookie store
	next := httptest.NewRequest(http.MethodGet, dashboardPath, nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	token, err := tokenstore.NewCookieStore(httptest.NewRecorder(), next, env.signingKey).Read()
	require.NoError(t, err)
	assert.Equal(t, "xyz123", token)
}

func TestCallbackWithoutTokenRedirectsToSignIn(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "no query", target: callbackPath},
		{name: "empty token", target: callbackPath + "?token="},
		{name: "unrelated params", target: callbackPath + "?state=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "http://localhost:8000")

			w := httptest.NewRecorder()
			env.auth.CallbackHandler(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, signInPath, w.Header().Get("Location"))
			// Nothing persisted
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestCallbackOverwritesPriorToken(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	r := requestWithToken(t, env.signingKey, http.MethodGet, callbackPath+"?token=new-token", "old-token")
	w := httptest.NewRecorder()
	env.auth.CallbackHandler(w, r)

	next := httptest.NewRequest(http.MethodGet, dashboardPath, nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	token, err := tokenstore.NewCookieStore(httptest.NewRecorder(), next, env.signingKey).Read()
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
}

func logoutRequest(t *testing.T, env *testEnv, csrfToken, sessionToken string) *http.Request {
	t.Helper()

	form := url.Values{}
	form.Set("csrf_token", csrfToken)

	r := httptest.NewRequest(http.MethodPost, logoutPath, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionToken != "" {
		seed := requestWithToken(t, env.signingKey, http.MethodPost, logoutPath, sessionToken)
		for _, c := range seed.Cookies() {
			r.AddCookie(c)
		}
	}
	return r
}

func TestLogoutClearsTokenAndRedirects(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	csrfToken, err := env.csrf.Generate()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	env.auth.LogoutHandler(w, logoutRequest(t, env, csrfToken, "abc"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), signInPath))

	// Token cookie expired
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var cleared bool
	for _, c := range cookies {
		if c.Name == cookie.TokenCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "expected token cookie to be expired")
}

func TestLogoutWithoutStoredToken(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	csrfToken, err := env.csrf.Generate()
	require.NoError(t, err)

	w := httptest.NewRecorder()
	env.auth.LogoutHandler(w, logoutRequest(t, env, csrfToken, ""))

	// Clearing is unconditional and idempotent
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), signInPath))
}

func TestLogoutRejectsInvalidCSRF(t *testing.T) {
	env := newTestEnv(t, "http://localhost:8000")

	w := httptest.NewRecorder()
	env.auth.LogoutHandler(w, logoutRequest(t, env, "forged-token", "abc"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	// Token not cleared on a rejected request
	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, cookie.TokenCookie, c.Name)
	}
}
