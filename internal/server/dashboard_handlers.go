package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/dgellow/review-front/internal/apiclient"
	"github.com/dgellow/review-front/internal/crypto"
	"github.com/dgellow/review-front/internal/jsonwriter"
	"github.com/dgellow/review-front/internal/log"
	"github.com/dgellow/review-front/internal/metrics"
	"github.com/dgellow/review-front/internal/tokenstore"
)

// viewState is the dashboard render state for one page activation.
// Every activation starts at loading and ends at loaded or error; both
// are terminal until the next activation.
type viewState int

const (
	stateLoading viewState = iota
	stateLoaded
	stateError
)

func (s viewState) String() string {
	switch s {
	case stateLoaded:
		return "loaded"
	case stateError:
		return "error"
	default:
		return "loading"
	}
}

// genericLoadError is the only failure text shown to the user; the
// underlying error goes to the log
const genericLoadError = "We couldn't load your profile. Please try again."

// DashboardHandlers renders the session-gated dashboard page
type DashboardHandlers struct {
	api        *apiclient.Client
	signingKey []byte
	csrf       crypto.CSRFProtection
	metrics    *metrics.Collector
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(api *apiclient.Client, signingKey []byte, csrf crypto.CSRFProtection, collector *metrics.Collector) *DashboardHandlers {
	return &DashboardHandlers{
		api:        api,
		signingKey: signingKey,
		csrf:       csrf,
		metrics:    collector,
	}
}

// DashboardHandler serves the dashboard. Visitors without a session token
// are redirected to sign-in before any view state is entered.
func (h *DashboardHandlers) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ts := tokenstore.NewCookieStore(w, r, h.signingKey)

	state, profile, err := h.activate(r.Context(), ts)
	if errors.Is(err, tokenstore.ErrNoToken) {
		h.metrics.RecordSignInRedirect()
		http.Redirect(w, r, signInPath, http.StatusSeeOther)
		return
	}

	csrfToken, err := h.csrf.Generate()
	if err != nil {
		log.LogErrorWithFields("dashboard", "Failed to generate CSRF token", map[string]any{
			"error": err.Error(),
		})
		jsonwriter.WriteInternalServerError(w, "Internal server error")
		return
	}

	data := DashboardPageData{
		State:     state.String(),
		CSRFToken: csrfToken,
	}
	switch state {
	case stateLoaded:
		data.Username = profile.GitHubUsername
		data.DisplayName = profile.DisplayName()
		data.Email = profile.Email
		data.AvatarURL = profile.AvatarURL
		data.Tier = profile.SubscriptionTier
	case stateError:
		data.ErrorMessage = genericLoadError
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPageTemplate.Execute(w, data); err != nil {
		log.LogErrorWithFields("dashboard", "Failed to render dashboard page", map[string]any{
			"error": err.Error(),
		})
		jsonwriter.WriteInternalServerError(w, "Internal server error")
	}
}

// activate runs the load state machine for one page activation.
//
// A missing token aborts before any state transition and surfaces
// tokenstore.ErrNoToken; no profile request is issued. Otherwise one
// profile fetch decides the terminal state: loaded with the profile, or
// error with the cause logged. A rejected token is deliberately left in
// the store; only logout removes it.
func (h *DashboardHandlers) activate(ctx context.Context, ts tokenstore.Store) (viewState, *apiclient.UserProfile, error) {
	state := stateLoading

	profile, err := h.api.CurrentUser(ctx, ts)
	if err != nil {
		if errors.Is(err, tokenstore.ErrNoToken) {
			return state, nil, err
		}

		reason := "network"
		fields := map[string]any{"error": err.Error()}
		var reqErr *apiclient.RequestError
		if errors.As(err, &reqErr) {
			reason = "request_failed"
			fields["status"] = reqErr.StatusCode
		}
		log.LogErrorWithFields("dashboard", "Profile fetch failed", fields)
		h.metrics.RecordProfileError(reason)
		return stateError, nil, nil
	}

	h.metrics.RecordProfileLoaded()
	return stateLoaded, profile, nil
}
