package onboarding

import (
	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
)

// State is an immutable questionnaire snapshot. Reducers never modify the
// State they receive.
type State struct {
	CurrentStep Step              `json:"currentStep"`
	History     []Step            `json:"history"`
	Answers     map[string]Answer `json:"answers"`
	Path        Path              `json:"computedPath"`
}

// Initial returns the state of a fresh questionnaire.
func Initial() State {
	return State{
		CurrentStep: StepGoal,
		History:     []Step{},
		Answers:     map[string]Answer{},
		Path:        PathNone,
	}
}

func (s State) clone() State {
	next := State{
		CurrentStep: s.CurrentStep,
		History:     append([]Step{}, s.History...),
		Answers:     make(map[string]Answer, len(s.Answers)),
		Path:        s.Path,
	}
	for key, answer := range s.Answers {
		next.Answers[key] = answer.clone()
	}
	return next
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return s.clone()
}

// Answer returns the stored answer for key.
func (s State) Answer(key string) (Answer, bool) {
	answer, ok := s.Answers[key]
	return answer, ok
}

func (s State) isIndividual() bool {
	return s.Answers[KeyGoal].Matches(GoalShopForMyself)
}

func (s State) isNonProfit() bool {
	return s.Answers[KeyPodJourney].Matches(JourneyNonProfit)
}

// SetAnswer records answer under key and updates the derived path.
//
// Rules apply in order: a non-profit journey answer forces NON_PROFIT; a
// goal answer maps one-to-one; any other journey answer maps its two
// phrasings and otherwise defaults to SELLER_STARTER when no path exists.
func SetAnswer(s State, key string, answer Answer) State {
	next := s.clone()
	next.Answers[key] = answer.clone()

	switch {
	case key == KeyPodJourney && answer.Matches(JourneyNonProfit):
		next.Path = PathNonProfit
	case key == KeyGoal:
		if path, ok := pathForGoal(answer); ok {
			next.Path = path
		}
	case key == KeyPodJourney:
		switch {
		case answer.Matches(JourneyAddPOD):
			next.Path = PathSellerExpanding
		case answer.Matches(JourneyNewToSelling):
			next.Path = PathSellerStarter
		case next.Path == PathNone:
			next.Path = PathSellerStarter
		}
	}
	return next
}

func pathForGoal(answer Answer) (Path, bool) {
	switch {
	case answer.Matches(GoalSellArt):
		return PathArtist, true
	case answer.Matches(GoalShopForMyself):
		return PathIndividual, true
	case answer.Matches(GoalLaunchBusiness):
		return PathSellerStarter, true
	case answer.Matches(GoalGrowBusiness):
		return PathSellerExpanding, true
	default:
		return PathNone, false
	}
}

// Successor returns the step that follows s.CurrentStep.
func Successor(s State) Step {
	switch s.CurrentStep {
	case StepGoal:
		if s.isIndividual() {
			return StepProductInterest
		}
		return StepLocation
	case StepLocation:
		return StepPodJourney
	case StepPodJourney:
		if s.isNonProfit() {
			return StepNonProfitIntention
		}
		return StepProductInterest
	case StepNonProfitIntention:
		return StepProductInterest
	case StepProductInterest:
		if s.isIndividual() {
			return StepDiscoveryChannel
		}
		return StepSalesVolume
	case StepSalesVolume:
		return StepUseCase
	case StepUseCase:
		return StepDiscoveryChannel
	default:
		return StepProcessing
	}
}

// NextStep advances along the step graph and records the step left behind.
// PROCESSING has no outgoing edge, so the state is returned unchanged.
func NextStep(s State) State {
	if s.CurrentStep.Terminal() {
		return s.clone()
	}
	next := s.clone()
	next.History = append(next.History, s.CurrentStep)
	next.CurrentStep = Successor(s)
	return next
}

// PrevStep restores the most recently visited step. It does nothing once
// processing has begun or when there is no history.
func PrevStep(s State) State {
	next := s.clone()
	if s.CurrentStep.Terminal() || len(s.History) == 0 {
		return next
	}
	last := len(next.History) - 1
	next.CurrentStep = next.History[last]
	next.History = next.History[:last]
	return next
}

// GoToStep jumps to step, recording the current step so PrevStep returns
// to it.
func GoToStep(s State, step Step) (State, error) {
	target, ok := ParseStep(string(step))
	if !ok {
		return s.clone(), apperrors.WithMetadata(apperrors.CodeInvalidInput, "unknown onboarding step", map[string]string{"step": string(step)})
	}
	next := s.clone()
	if s.CurrentStep.Terminal() {
		return next, nil
	}
	next.History = append(next.History, s.CurrentStep)
	next.CurrentStep = target
	return next, nil
}

// Reset returns the initial state.
func Reset(State) State {
	return Initial()
}

// Complete reports whether the questionnaire reached processing with a
// derived path.
func Complete(s State) bool {
	return s.CurrentStep == StepProcessing && s.Path != PathNone
}

// normalize repairs a decoded snapshot so it satisfies State invariants.
func normalize(s State) (State, bool) {
	current, ok := ParseStep(string(s.CurrentStep))
	if !ok || !s.Path.Valid() {
		return State{}, false
	}
	next := s.clone()
	next.CurrentStep = current
	for i, step := range next.History {
		parsed, ok := ParseStep(string(step))
		if !ok {
			return State{}, false
		}
		next.History[i] = parsed
	}
	return next, true
}
