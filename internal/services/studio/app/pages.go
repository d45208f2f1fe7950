package app

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/currency"
	"golang.org/x/text/message"

	"github.com/louisbranch/printstudio/internal/platform/i18n"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/onboarding"
	"github.com/louisbranch/printstudio/internal/services/studio/roleroute"
	"github.com/louisbranch/printstudio/internal/services/studio/storage"
	"github.com/louisbranch/printstudio/internal/services/studio/templates"
)

// dashboardSections maps dashboard path segments to their title keys.
var dashboardSections = map[string]struct {
	titleKey  string
	showStock bool
}{
	"tenant-admin": {titleKey: "dashboard.tenant_admin.title", showStock: true},
	"seller":       {titleKey: "dashboard.seller.title", showStock: true},
	"creator":      {titleKey: "dashboard.creator.title", showStock: true},
	"customer":     {titleKey: "dashboard.customer.title"},
}

func requestPrinter(r *http.Request) (*message.Printer, string) {
	tag, _ := i18n.ResolveTag(r)
	return i18n.Printer(tag), tag.String()
}

func localizer(printer *message.Printer) templates.Localizer {
	return func(key string) string {
		return printer.Sprintf(key)
	}
}

func (a *App) renderPage(w http.ResponseWriter, r *http.Request, status int, lang string, title string, body templ.Component) {
	page := templates.Layout(templates.PageOptions{Title: title, Lang: lang}, body)
	templ.Handler(page,
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("render page")
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

func (a *App) handleLanding(w http.ResponseWriter, r *http.Request) {
	printer, lang := requestPrinter(r)
	loc := localizer(printer)
	a.renderPage(w, r, http.StatusOK, lang, loc("core.landing.headline"), templates.Landing(loc, "/auth/continue"))
}

func (a *App) handleOnboardingPage(w http.ResponseWriter, r *http.Request) {
	printer, lang := requestPrinter(r)
	loc := localizer(printer)
	state := a.onboardingStore(r).State()

	view := templates.OnboardingView{
		Step:       string(state.CurrentStep),
		CanGoBack:  len(state.History) > 0 && !state.CurrentStep.Terminal(),
		Processing: state.CurrentStep.Terminal(),
	}
	if question, ok := onboarding.QuestionFor(state.CurrentStep); ok {
		answer, _ := state.Answer(question.Key)
		view.QuestionKey = question.Key
		view.Multi = question.Multi
		view.FreeText = question.FreeText
		if question.FreeText {
			view.Answer = answer.String()
		}
		for _, option := range question.Options {
			view.Options = append(view.Options, templates.OnboardingOption{
				ID:       option.ID,
				Value:    option.Value,
				Selected: answerSelects(answer, option.Value),
			})
		}
	}
	a.renderPage(w, r, http.StatusOK, lang, loc("onboarding.title"), templates.Onboarding(loc, view))
}

func answerSelects(answer onboarding.Answer, value string) bool {
	if answer.IsMulti() {
		for _, selected := range answer.Values {
			if onboarding.Text(selected).Matches(value) {
				return true
			}
		}
		return false
	}
	return answer.Matches(value)
}

func (a *App) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	printer, lang := requestPrinter(r)
	loc := localizer(printer)
	section, ok := dashboardSections[chi.URLParam(r, "section")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	view := templates.DashboardView{TitleKey: section.titleKey, ShowStock: section.showStock}
	principal, err := identity.Require(r.Context())
	if err != nil {
		a.renderPage(w, r, http.StatusUnauthorized, lang, loc(section.titleKey), templates.Dashboard(loc, view))
		return
	}
	view.SignedIn = true
	if section.showStock {
		if err := a.loadStock(r, principal, printer, &view); err != nil {
			a.logger.Error().Err(err).Str("user_id", principal.UserID).Msg("load dashboard")
		}
	}
	a.renderPage(w, r, http.StatusOK, lang, loc(section.titleKey), templates.Dashboard(loc, view))
}

// loadStock lists the tenant's products and templates. A user without a
// tenant has neither.
func (a *App) loadStock(r *http.Request, principal identity.Principal, printer *message.Printer, view *templates.DashboardView) error {
	ctx := r.Context()
	tenant, err := a.store.GetTenantByOwner(ctx, principal.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	products, err := a.store.ListProducts(ctx, tenant.ID, "")
	if err != nil {
		return err
	}
	for _, product := range products {
		view.Products = append(view.Products, templates.DashboardItem{
			Title:  product.Name,
			Detail: printer.Sprint(currency.Symbol(currency.USD.Amount(float64(product.BasePriceCents) / 100))),
			URL:    "/api/v1/" + newProductView(product).Name,
		})
	}
	designs, err := a.store.ListDesigns(ctx, tenant.ID, storage.DesignTemplate)
	if err != nil {
		return err
	}
	for _, design := range designs {
		view.Templates = append(view.Templates, templates.DashboardItem{
			Title:  design.PromptText,
			Detail: design.UpdatedAt.Format("2006-01-02"),
		})
	}
	return nil
}

// dashboardSection returns the nominal dashboard for a role. Customers land
// on their dashboard here rather than being sent back to onboarding.
func dashboardSection(role string) string {
	path, ok := roleroute.DashboardFor(role)
	if !ok {
		return roleroute.PathOnboarding
	}
	return path
}
