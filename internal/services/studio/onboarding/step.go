// Package onboarding drives the onboarding questionnaire: it records
// answers, classifies the respondent into a commerce path, and walks the
// fixed step graph forward and back.
//
// Reducers in this package are pure functions over State. Store wraps them
// with a session-scoped persistence port.
package onboarding

import "strings"

// Step identifies one screen of the questionnaire.
type Step string

const (
	StepGoal               Step = "GOAL"
	StepLocation           Step = "LOCATION"
	StepPodJourney         Step = "POD_JOURNEY"
	StepNonProfitIntention Step = "NON_PROFIT_INTENTION"
	StepProductInterest    Step = "PRODUCT_INTEREST"
	StepSalesVolume        Step = "SALES_VOLUME"
	StepUseCase            Step = "USE_CASE"
	StepDiscoveryChannel   Step = "DISCOVERY_CHANNEL"
	// StepStoreName has no inbound edge in the forward graph; it is only
	// reachable through GoToStep.
	StepStoreName  Step = "STORE_NAME"
	StepProcessing Step = "PROCESSING"
)

var allSteps = []Step{
	StepGoal,
	StepLocation,
	StepPodJourney,
	StepNonProfitIntention,
	StepProductInterest,
	StepSalesVolume,
	StepUseCase,
	StepDiscoveryChannel,
	StepStoreName,
	StepProcessing,
}

// Steps returns every step in declaration order.
func Steps() []Step {
	return append([]Step(nil), allSteps...)
}

// ParseStep resolves a step name, case-insensitively.
func ParseStep(raw string) (Step, bool) {
	candidate := Step(strings.ToUpper(strings.TrimSpace(raw)))
	for _, step := range allSteps {
		if step == candidate {
			return step, true
		}
	}
	return "", false
}

// Terminal reports whether no forward transition leaves the step.
func (s Step) Terminal() bool {
	return s == StepProcessing
}
