package app

import (
	"net/http"

	"github.com/louisbranch/printstudio/internal/services/studio/identity"
)

// handleMe serves the current-user document with role grants.
func (a *App) handleMe(w http.ResponseWriter, r *http.Request) {
	if _, err := identity.Require(r.Context()); err != nil {
		a.writeError(w, r, err)
		return
	}
	me, err := a.roleInfo.CurrentUser(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, me)
}

// handleContinue sends a freshly signed-in user to their landing page.
func (a *App) handleContinue(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, a.router.DetermineDestination(r.Context()))
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		a.logger.Error().Err(err).Msg("health check failed")
		writeJSONError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
