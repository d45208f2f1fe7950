// Package app serves the studio HTTP surface: rendered pages, the session
// scoped onboarding and wizard APIs, and the tenant product API.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/louisbranch/printstudio/internal/platform/id"
	"github.com/louisbranch/printstudio/internal/services/studio/commerce"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/roleroute"
	"github.com/louisbranch/printstudio/internal/services/studio/storage"
)

// Store is the persistence the app serves from.
type Store interface {
	storage.Store
	Ping(ctx context.Context) error
}

// Config wires an App.
type Config struct {
	Store    Store
	Commerce *commerce.Service
	Verifier identity.Verifier
	// RoleInfo defaults to the local store.
	RoleInfo roleroute.RoleInfo
	Logger   zerolog.Logger
	// NewID generates session scopes and draft ids; nil uses id.NewID.
	NewID         func() (string, error)
	SecureCookies bool
}

// App holds the HTTP handlers.
type App struct {
	store         Store
	commerce      *commerce.Service
	verifier      identity.Verifier
	roleInfo      roleroute.RoleInfo
	router        *roleroute.Router
	logger        zerolog.Logger
	newID         func() (string, error)
	secureCookies bool
}

// New validates cfg and returns an App.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Commerce == nil {
		return nil, errors.New("commerce service is required")
	}
	if len(cfg.Verifier.Secret) == 0 {
		return nil, errors.New("session verifier is required")
	}
	newID := cfg.NewID
	if newID == nil {
		newID = id.NewID
	}
	roleInfo := cfg.RoleInfo
	if roleInfo == nil {
		roleInfo = roleroute.StoreRoleInfo{Users: cfg.Store}
	}
	logger := cfg.Logger.With().Str("component", "http").Logger()
	return &App{
		store:         cfg.Store,
		commerce:      cfg.Commerce,
		verifier:      cfg.Verifier,
		roleInfo:      roleInfo,
		router:        roleroute.New(roleInfo, logger),
		logger:        logger,
		newID:         newID,
		secureCookies: cfg.SecureCookies,
	}, nil
}

// Handler returns the routed HTTP handler.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, recoverPanic(a.logger), a.verifier.Middleware, accessLog(a.logger))

	r.Get("/healthz", a.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(a.sessionScope, language)

		r.Get("/", a.handleLanding)
		r.Get("/onboarding", a.handleOnboardingPage)
		r.Get("/dashboard/{section}", a.handleDashboardPage)
		r.Get("/auth/continue", a.handleContinue)

		r.Route("/api/onboarding", func(r chi.Router) {
			r.Get("/", a.handleOnboardingState)
			r.Post("/answers", a.handleOnboardingAnswer)
			r.Post("/next", a.handleOnboardingNext)
			r.Post("/back", a.handleOnboardingBack)
			r.Post("/reset", a.handleOnboardingReset)
			r.Post("/goto", a.handleOnboardingGoTo)
			r.Post("/complete", a.handleOnboardingComplete)
		})

		r.Route("/api/wizard", func(r chi.Router) {
			r.Get("/", a.handleWizardState)
			r.Delete("/", a.handleWizardReset)
			r.Patch("/product", a.handleWizardProduct)
			r.Patch("/design", a.handleWizardDesign)
			r.Patch("/variants", a.handleWizardVariants)
			r.Patch("/settings", a.handleWizardSettings)
			r.Post("/template", a.handleWizardTemplate)
			r.Post("/publish", a.handleWizardPublish)
		})
	})

	r.Get("/api/auth/me", a.handleMe)
	r.Get("/api/v1/*", a.handleResource)

	return r
}
