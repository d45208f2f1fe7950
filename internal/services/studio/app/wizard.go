package app

import (
	"context"
	"net/http"

	"github.com/louisbranch/printstudio/internal/services/studio/commerce"
	"github.com/louisbranch/printstudio/internal/services/studio/wizard"
)

type wizardResponse struct {
	State wizard.State `json:"state"`
	Plan  wizard.Plan  `json:"plan"`
}

func (a *App) wizardStore(r *http.Request) (*wizard.Store, error) {
	store := wizard.NewStore(a.sessionPort(r), a.newID)
	if err := store.Hydrate(r.Context()); err != nil {
		return nil, err
	}
	return store, nil
}

func (a *App) respondWizard(w http.ResponseWriter, r *http.Request, store *wizard.Store, err error) {
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	state := store.State()
	writeJSON(w, http.StatusOK, wizardResponse{State: state, Plan: wizard.PublishPlan(state)})
}

func (a *App) handleWizardState(w http.ResponseWriter, r *http.Request) {
	store, err := a.wizardStore(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.respondWizard(w, r, store, nil)
}

func (a *App) handleWizardReset(w http.ResponseWriter, r *http.Request) {
	store, err := a.wizardStore(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.respondWizard(w, r, store, store.Reset(r.Context()))
}

// patchWizard decodes a section patch and applies it.
func patchWizard[P any](a *App, w http.ResponseWriter, r *http.Request, apply func(*wizard.Store, context.Context, P) error) {
	var patch P
	if err := decodeJSON(r, &patch); err != nil {
		a.writeError(w, r, err)
		return
	}
	store, err := a.wizardStore(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.respondWizard(w, r, store, apply(store, r.Context(), patch))
}

func (a *App) handleWizardProduct(w http.ResponseWriter, r *http.Request) {
	patchWizard(a, w, r, (*wizard.Store).UpdateProduct)
}

func (a *App) handleWizardDesign(w http.ResponseWriter, r *http.Request) {
	patchWizard(a, w, r, (*wizard.Store).UpdateDesign)
}

func (a *App) handleWizardVariants(w http.ResponseWriter, r *http.Request) {
	patchWizard(a, w, r, (*wizard.Store).UpdateVariants)
}

func (a *App) handleWizardSettings(w http.ResponseWriter, r *http.Request) {
	patchWizard(a, w, r, (*wizard.Store).UpdateSettings)
}

func (a *App) handleWizardTemplate(w http.ResponseWriter, r *http.Request) {
	a.submitWizard(w, r, a.commerce.SaveAsTemplate)
}

func (a *App) handleWizardPublish(w http.ResponseWriter, r *http.Request) {
	a.submitWizard(w, r, a.commerce.PublishWizardProduct)
}

// submitWizard runs a commerce submission against the staged draft. The
// draft stays staged either way.
func (a *App) submitWizard(w http.ResponseWriter, r *http.Request, submit func(context.Context, wizard.State) commerce.Result) {
	store, err := a.wizardStore(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	result := submit(r.Context(), store.State())
	status := http.StatusOK
	if !result.Success {
		status = result.Code.HTTPStatus()
	}
	writeJSON(w, status, result)
}
