package server

import (
	"net/http"
	"net/url"

	"github.com/dgellow/review-front/internal/apiclient"
	"github.com/dgellow/review-front/internal/crypto"
	"github.com/dgellow/review-front/internal/jsonwriter"
	"github.com/dgellow/review-front/internal/log"
	"github.com/dgellow/review-front/internal/metrics"
	"github.com/dgellow/review-front/internal/tokenstore"
)

// Page routes
const (
	signInPath    = "/signin"
	callbackPath  = "/auth/callback"
	dashboardPath = "/dashboard"
	logoutPath    = "/logout"
)

// AuthHandlers handles the sign-in page, the identity-provider callback,
// and logout
type AuthHandlers struct {
	api        *apiclient.Client
	signingKey []byte
	csrf       crypto.CSRFProtection
	metrics    *metrics.Collector
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(api *apiclient.Client, signingKey []byte, csrf crypto.CSRFProtection, collector *metrics.Collector) *AuthHandlers {
	return &AuthHandlers{
		api:        api,
		signingKey: signingKey,
		csrf:       csrf,
		metrics:    collector,
	}
}

// RootHandler routes the bare domain to the dashboard; the dashboard
// itself bounces unauthenticated visitors to sign-in
func (h *AuthHandlers) RootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// SignInHandler shows the sign-in page with a link into the backend's
// identity-provider flow. The login URL is handed to the browser as a
// plain link, never fetched by this server.
func (h *AuthHandlers) SignInHandler(w http.ResponseWriter, r *http.Request) {
	data := SignInPageData{
		LoginURL: h.api.LoginURL(),
		Message:  r.URL.Query().Get("message"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := signInPageTemplate.Execute(w, data); err != nil {
		log.LogErrorWithFields("auth", "Failed to render sign-in page", map[string]any{
			"error": err.Error(),
		})
		jsonwriter.WriteInternalServerError(w, "Internal server error")
	}
}

// CallbackHandler completes sign-in after the identity provider redirects
// back. The token query parameter is read exactly once: present, it is
// persisted and the browser moves on to the dashboard; absent, the
// sign-in attempt failed and the browser goes back to the sign-in page.
// There is no retry path here.
func (h *AuthHandlers) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		log.LogWarnWithFields("auth", "Auth callback without token", map[string]any{
			"remote_addr": r.RemoteAddr,
		})
		h.metrics.RecordSignInRedirect()
		http.Redirect(w, r, signInPath, http.StatusSeeOther)
		return
	}

	ts := tokenstore.NewCookieStore(w, r, h.signingKey)
	if err := ts.Store(token); err != nil {
		log.LogErrorWithFields("auth", "Failed to persist session token", map[string]any{
			"error": err.Error(),
		})
		http.Redirect(w, r, signInPath, http.StatusSeeOther)
		return
	}

	log.LogInfoWithFields("auth", "Session established", nil)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// LogoutHandler clears the session token and returns to sign-in,
// unconditionally: it does not matter whether a token was stored or what
// state the dashboard was in
func (h *AuthHandlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		jsonwriter.WriteBadRequest(w, "Bad request")
		return
	}

	if !h.csrf.Validate(r.FormValue("csrf_token")) {
		jsonwriter.WriteForbidden(w, "Invalid CSRF token")
		return
	}

	ts := tokenstore.NewCookieStore(w, r, h.signingKey)
	if err := ts.Clear(); err != nil {
		log.LogErrorWithFields("auth", "Failed to clear session token", map[string]any{
			"error": err.Error(),
		})
	}

	log.LogInfoWithFields("auth", "User signed out", nil)
	redirectWithMessage(w, r, signInPath, "Signed out")
}

// redirectWithMessage redirects to a page with a user-facing message
func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, message string) {
	http.Redirect(w, r, path+"?message="+url.QueryEscape(message), http.StatusSeeOther)
}
