// Package templates renders the studio pages as templ components.
package templates

import (
	"strings"

	"github.com/louisbranch/printstudio/internal/platform/branding"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate

// Localizer returns the translated text for a message key.
type Localizer func(key string) string

func (l Localizer) text(key string) string {
	if l == nil {
		return key
	}
	return l(key)
}

// PageOptions describes the document shell.
type PageOptions struct {
	Title string
	Lang  string
}

func (o PageOptions) lang() string {
	if lang := strings.TrimSpace(o.Lang); lang != "" {
		return lang
	}
	return "en-US"
}

func (o PageOptions) title() string {
	return branding.PageTitle(o.Title)
}

// OnboardingOption is one rendered answer choice.
type OnboardingOption struct {
	ID       string
	Value    string
	Selected bool
}

// OnboardingView is the questionnaire screen for the current step.
type OnboardingView struct {
	Step        string
	QuestionKey string
	Multi       bool
	FreeText    bool
	Answer      string
	Options     []OnboardingOption
	CanGoBack   bool
	Processing  bool
}

func stepKey(step string) string {
	return "onboarding.step." + strings.ToLower(step)
}

func optionKey(questionKey, optionID string) string {
	return "onboarding.option." + questionKey + "." + optionID
}

func inputType(multi bool) string {
	if multi {
		return "checkbox"
	}
	return "radio"
}

// DashboardItem is one product or template row.
type DashboardItem struct {
	Title  string
	Detail string
	URL    string
}

// DashboardView is a role dashboard.
type DashboardView struct {
	TitleKey  string
	SignedIn  bool
	ShowStock bool
	Products  []DashboardItem
	Templates []DashboardItem
}
