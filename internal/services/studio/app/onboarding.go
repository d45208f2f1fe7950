package app

import (
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/platform/requestctx"
	"github.com/louisbranch/printstudio/internal/services/studio/onboarding"
	"github.com/louisbranch/printstudio/internal/services/studio/sessionstate"
)

type onboardingResponse struct {
	State    onboarding.State     `json:"state"`
	Question *onboarding.Question `json:"question,omitempty"`
	Complete bool                 `json:"complete"`
}

type answerRequest struct {
	Key   string            `json:"key"`
	Value onboarding.Answer `json:"value"`
}

type gotoRequest struct {
	Step string `json:"step"`
}

type completeResponse struct {
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

func (a *App) sessionPort(r *http.Request) sessionstate.Port {
	return sessionstate.Scoped(a.store, requestctx.SessionScopeFromContext(r.Context()))
}

// onboardingStore hydrates the caller's questionnaire. A failed read is
// logged and the caller continues from the initial state.
func (a *App) onboardingStore(r *http.Request) *onboarding.Store {
	store := onboarding.NewStore(a.sessionPort(r))
	if err := store.Hydrate(r.Context()); err != nil {
		a.logger.Warn().Err(err).Msg("hydrate onboarding state")
	}
	return store
}

func onboardingView(state onboarding.State) onboardingResponse {
	response := onboardingResponse{State: state, Complete: onboarding.Complete(state)}
	if question, ok := onboarding.QuestionFor(state.CurrentStep); ok {
		response.Question = &question
	}
	return response
}

func (a *App) respondOnboarding(w http.ResponseWriter, r *http.Request, store *onboarding.Store, err error) {
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, onboardingView(store.State()))
}

func (a *App) handleOnboardingState(w http.ResponseWriter, r *http.Request) {
	store := a.onboardingStore(r)
	a.respondOnboarding(w, r, store, nil)
}

func (a *App) handleOnboardingAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	key := strings.TrimSpace(req.Key)
	if !onboarding.KnownKey(key) {
		a.writeError(w, r, apperrors.WithMetadata(apperrors.CodeInvalidInput, "unknown question", map[string]string{"key": key}))
		return
	}
	store := a.onboardingStore(r)
	a.respondOnboarding(w, r, store, store.SetAnswer(r.Context(), key, req.Value))
}

func (a *App) handleOnboardingNext(w http.ResponseWriter, r *http.Request) {
	store := a.onboardingStore(r)
	a.respondOnboarding(w, r, store, store.NextStep(r.Context()))
}

func (a *App) handleOnboardingBack(w http.ResponseWriter, r *http.Request) {
	store := a.onboardingStore(r)
	a.respondOnboarding(w, r, store, store.PrevStep(r.Context()))
}

func (a *App) handleOnboardingReset(w http.ResponseWriter, r *http.Request) {
	store := a.onboardingStore(r)
	a.respondOnboarding(w, r, store, store.Reset(r.Context()))
}

func (a *App) handleOnboardingGoTo(w http.ResponseWriter, r *http.Request) {
	var req gotoRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	store := a.onboardingStore(r)
	a.respondOnboarding(w, r, store, store.GoToStep(r.Context(), onboarding.Step(req.Step)))
}

// handleOnboardingComplete records the finished questionnaire and points the
// caller at the dashboard for the granted role.
func (a *App) handleOnboardingComplete(w http.ResponseWriter, r *http.Request) {
	store := a.onboardingStore(r)
	role, err := a.commerce.CompleteOnboarding(r.Context(), store.State())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, completeResponse{Role: role, Redirect: dashboardSection(role)})
}
