package chatbot

import "regexp"

/*
Patterns is the static rule catalog driving intent detection and criteria
extraction. It is built once at startup and never mutated afterwards, so a
single instance is safe for unsynchronized concurrent reads.

Category and brand tables are ordered slices rather than maps: on multiple
matches the first declared entry wins, and that tie-break has to stay
deterministic.
*/
type Patterns struct {
	Greetings      []*regexp.Regexp
	SearchTriggers []*regexp.Regexp
	Categories     []Category
	Brands         []string
	HelpTriggers   []string
	StopWords      map[string]struct{}
	priceToken     *regexp.Regexp
}

// Category maps a canonical category name to the keywords customers use
// for it.
type Category struct {
	Name     string
	Keywords []string
}

/*
DefaultPatterns returns the built-in rule catalog.
*/
func DefaultPatterns() *Patterns {
	return &Patterns{
		Greetings: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(hi|hello|hey|good morning|good afternoon|good evening)\b`),
			regexp.MustCompile(`(?i)\b(howdy|greetings|what's up|whats up)\b`),
		},
		SearchTriggers: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(show|find|search|look for|get|need|want)\b.*\b(product|item|thing)\b`),
			regexp.MustCompile(`(?i)\b(i need|i want|looking for|searching for)\b`),
			regexp.MustCompile(`(?i)\b(show me|find me|get me)\b`),
		},
		Categories: []Category{
			{Name: "smartphones", Keywords: []string{"phone", "smartphone", "mobile", "cell phone", "iphone", "android"}},
			{Name: "laptops", Keywords: []string{"laptop", "computer", "notebook", "macbook", "pc"}},
			{Name: "headphones", Keywords: []string{"headphone", "earphone", "earbuds", "headset", "airpods"}},
			{Name: "tablets", Keywords: []string{"tablet", "ipad", "surface"}},
			{Name: "smartwatches", Keywords: []string{"watch", "smartwatch", "fitness tracker"}},
			{Name: "accessories", Keywords: []string{"case", "charger", "cable", "adapter", "stand"}},
		},
		Brands: []string{
			"apple", "samsung", "google", "microsoft", "sony", "bose", "jbl",
			"dell", "hp", "lenovo", "asus", "acer", "huawei", "xiaomi", "oneplus",
		},
		HelpTriggers: []string{"help", "what can you do", "how does this work"},
		StopWords: toSet(
			"i", "need", "want", "looking", "for", "show", "me",
			"find", "get", "a", "an", "the", "some", "any",
		),
		priceToken: regexp.MustCompile(`\$?(\d+(?:\.\d{2})?)`),
	}
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}
