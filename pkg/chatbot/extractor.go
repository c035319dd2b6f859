package chatbot

import (
	"strconv"
	"strings"
)

/*
SearchCriteria is the structured filter set derived from a natural-language
message. Unset optional fields are nil pointers. Extraction does not
validate MinPrice against MaxPrice beyond the documented swap for "between"
phrasing; callers that need the ordering enforced must check it themselves.
*/
type SearchCriteria struct {
	Keywords []string `json:"keywords"`
	Category string   `json:"category,omitempty"`
	Brand    string   `json:"brand,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

const maxKeywords = 3

/*
Extractor derives SearchCriteria from messages already classified as a
product search. It is a pure function over the message text and the
pattern catalog: the same message always yields the same criteria.
*/
type Extractor struct {
	patterns *Patterns
}

func NewExtractor(patterns *Patterns) *Extractor {
	return &Extractor{patterns: patterns}
}

/*
Extract scans a lower-cased message for price bounds, a category, a brand
and up to three free keywords.
*/
func (extractor *Extractor) Extract(message string) SearchCriteria {
	message = strings.ToLower(message)
	criteria := SearchCriteria{Keywords: []string{}}

	extractor.extractPrices(message, &criteria)

	// First declared category with a synonym in the message wins.
	for _, category := range extractor.patterns.Categories {
		if containsAny(message, category.Keywords) {
			criteria.Category = category.Name
			break
		}
	}

	for _, brand := range extractor.patterns.Brands {
		if strings.Contains(message, brand) {
			criteria.Brand = brand
			break
		}
	}

	criteria.Keywords = extractor.extractKeywords(message)

	return criteria
}

/*
extractPrices collects every numeric token (optionally prefixed with a
currency symbol) and interprets the surrounding phrasing. When the message
says "between" the two first numbers are reordered so MinPrice <= MaxPrice
regardless of how they appear in the text. A price phrase with no numbers
at all leaves both bounds unset.
*/
func (extractor *Extractor) extractPrices(message string, criteria *SearchCriteria) {
	var prices []float64
	for _, match := range extractor.patterns.priceToken.FindAllStringSubmatch(message, -1) {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		prices = append(prices, value)
	}

	if len(prices) == 0 {
		return
	}

	switch {
	case containsAny(message, []string{"under", "below", "less than"}):
		criteria.MaxPrice = ptr(minOf(prices))
	case containsAny(message, []string{"over", "above", "more than"}):
		criteria.MinPrice = ptr(maxOf(prices))
	case strings.Contains(message, "between") && len(prices) >= 2:
		lo, hi := prices[0], prices[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		criteria.MinPrice = ptr(lo)
		criteria.MaxPrice = ptr(hi)
	}
}

/*
extractKeywords splits the message on whitespace, drops stop words and
tokens of two characters or fewer, trims surrounding punctuation and keeps
at most the first three survivors in message order.
*/
func (extractor *Extractor) extractKeywords(message string) []string {
	keywords := []string{}
	for _, word := range strings.Fields(message) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := extractor.patterns.StopWords[word]; stop {
			continue
		}
		keywords = append(keywords, strings.Trim(word, ".,!?"))
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func containsAny(message string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(message, needle) {
			return true
		}
	}
	return false
}

func minOf(values []float64) float64 {
	lowest := values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return lowest
}

func maxOf(values []float64) float64 {
	highest := values[0]
	for _, v := range values[1:] {
		if v > highest {
			highest = v
		}
	}
	return highest
}

func ptr(v float64) *float64 { return &v }
