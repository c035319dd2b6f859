package chatbot

import "strings"

// Intent is the coarse category a message falls into before any criteria
// extraction happens.
type Intent int

const (
	IntentUnclassified Intent = iota
	IntentGreeting
	IntentProductSearch
	IntentHelp
)

func (intent Intent) String() string {
	switch intent {
	case IntentGreeting:
		return "greeting"
	case IntentProductSearch:
		return "product_search"
	case IntentHelp:
		return "help"
	default:
		return "unclassified"
	}
}

/*
Classifier decides what a message is asking for. Rules are evaluated in
priority order and the first satisfied rule wins; a message matching none
of them is Unclassified.
*/
type Classifier struct {
	rules []rule
}

type rule struct {
	match  func(string) bool
	intent Intent
}

/*
NewClassifier builds a classifier over the given pattern catalog.
*/
func NewClassifier(patterns *Patterns) *Classifier {
	return &Classifier{
		rules: []rule{
			{match: patterns.isGreeting, intent: IntentGreeting},
			{match: patterns.isProductSearch, intent: IntentProductSearch},
			{match: patterns.isHelp, intent: IntentHelp},
		},
	}
}

/*
Classify returns the intent of a message. The message is expected in lower
case; Classify lowercases defensively so callers cannot get this wrong.
*/
func (classifier *Classifier) Classify(message string) Intent {
	message = strings.ToLower(message)

	for _, rule := range classifier.rules {
		if rule.match(message) {
			return rule.intent
		}
	}

	return IntentUnclassified
}

func (patterns *Patterns) isGreeting(message string) bool {
	for _, re := range patterns.Greetings {
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

func (patterns *Patterns) isProductSearch(message string) bool {
	for _, re := range patterns.SearchTriggers {
		if re.MatchString(message) {
			return true
		}
	}

	// A bare category keyword ("any good headphones?") is also a search.
	for _, category := range patterns.Categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(message, keyword) {
				return true
			}
		}
	}

	return false
}

func (patterns *Patterns) isHelp(message string) bool {
	for _, trigger := range patterns.HelpTriggers {
		if strings.Contains(message, trigger) {
			return true
		}
	}
	return false
}
