package onboarding

// Question keys as stored in State.Answers.
const (
	KeyGoal               = "goal"
	KeyLocation           = "location"
	KeyPodJourney         = "podJourney"
	KeyNonProfitIntention = "nonProfitIntention"
	KeyProductInterest    = "productInterest"
	KeySalesVolume        = "salesVolume"
	KeyUseCase            = "useCase"
	KeyDiscoveryChannel   = "discoveryChannel"
	KeyStoreName          = "storeName"
)

// Goal answers.
const (
	GoalSellArt        = "I want to sell my art"
	GoalShopForMyself  = "I want to shop for myself"
	GoalLaunchBusiness = "I want to launch an online business"
	GoalGrowBusiness   = "I want to grow my existing business"
	GoalExploring      = "I'm just exploring"
)

// Journey answers.
const (
	JourneyNonProfit    = "I want to create merch for my community or cause"
	JourneyAddPOD       = "I already sell online and want to add print-on-demand"
	JourneyNewToSelling = "I'm new to selling online"
	JourneyResearching  = "I'm researching my options"
)

// Option is one selectable answer. ID keys the localized label; Value is
// what gets stored.
type Option struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Question describes the prompt shown at a step.
type Question struct {
	Step     Step     `json:"step"`
	Key      string   `json:"key"`
	Multi    bool     `json:"multi,omitempty"`
	FreeText bool     `json:"freeText,omitempty"`
	Options  []Option `json:"options,omitempty"`
}

var questions = []Question{
	{Step: StepGoal, Key: KeyGoal, Options: []Option{
		{ID: "sell_art", Value: GoalSellArt},
		{ID: "shop", Value: GoalShopForMyself},
		{ID: "launch", Value: GoalLaunchBusiness},
		{ID: "grow", Value: GoalGrowBusiness},
		{ID: "explore", Value: GoalExploring},
	}},
	{Step: StepLocation, Key: KeyLocation, Options: []Option{
		{ID: "us", Value: "United States"},
		{ID: "ca", Value: "Canada"},
		{ID: "uk", Value: "United Kingdom"},
		{ID: "eu", Value: "European Union"},
		{ID: "other", Value: "Somewhere else"},
	}},
	{Step: StepPodJourney, Key: KeyPodJourney, Options: []Option{
		{ID: "nonprofit", Value: JourneyNonProfit},
		{ID: "add_pod", Value: JourneyAddPOD},
		{ID: "new", Value: JourneyNewToSelling},
		{ID: "research", Value: JourneyResearching},
	}},
	{Step: StepNonProfitIntention, Key: KeyNonProfitIntention, Options: []Option{
		{ID: "fundraise", Value: "Raise funds for our cause"},
		{ID: "awareness", Value: "Spread awareness"},
		{ID: "members", Value: "Outfit our members and volunteers"},
	}},
	{Step: StepProductInterest, Key: KeyProductInterest, Multi: true, Options: []Option{
		{ID: "apparel", Value: "Apparel"},
		{ID: "home", Value: "Home & living"},
		{ID: "accessories", Value: "Accessories"},
		{ID: "stationery", Value: "Stationery"},
		{ID: "wall_art", Value: "Wall art"},
	}},
	{Step: StepSalesVolume, Key: KeySalesVolume, Options: []Option{
		{ID: "starting", Value: "Just starting out"},
		{ID: "small", Value: "1-50 orders a month"},
		{ID: "medium", Value: "51-500 orders a month"},
		{ID: "large", Value: "More than 500 orders a month"},
	}},
	{Step: StepUseCase, Key: KeyUseCase, Multi: true, Options: []Option{
		{ID: "store", Value: "Online store"},
		{ID: "marketplace", Value: "Marketplace listings"},
		{ID: "events", Value: "Events and pop-ups"},
		{ID: "social", Value: "Social media shop"},
	}},
	{Step: StepDiscoveryChannel, Key: KeyDiscoveryChannel, Options: []Option{
		{ID: "search", Value: "Search engine"},
		{ID: "social", Value: "Social media"},
		{ID: "referral", Value: "Friend or colleague"},
		{ID: "content", Value: "Podcast or blog"},
		{ID: "other", Value: "Other"},
	}},
	{Step: StepStoreName, Key: KeyStoreName, FreeText: true},
}

// QuestionFor returns the question asked at step. PROCESSING has none.
func QuestionFor(step Step) (Question, bool) {
	for _, q := range questions {
		if q.Step == step {
			q.Options = append([]Option(nil), q.Options...)
			return q, true
		}
	}
	return Question{}, false
}

// KnownKey reports whether key belongs to a question.
func KnownKey(key string) bool {
	for _, q := range questions {
		if q.Key == key {
			return true
		}
	}
	return false
}
