package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPrices(t *testing.T) {
	extractor := NewExtractor(DefaultPatterns())

	tests := []struct {
		name    string
		message string
		min     *float64
		max     *float64
	}{
		{"under sets max only", "show me smartphones under $500", nil, ptr(500)},
		{"below sets max only", "laptops below 1000", nil, ptr(1000)},
		{"less than sets max only", "headphones for less than $99.99", nil, ptr(99.99)},
		{"over sets min only", "laptops over $1500", ptr(1500), nil},
		{"more than sets min only", "tablets more than 300", ptr(300), nil},
		{"between is ordered", "phones between $200 and $400", ptr(200), ptr(400)},
		{"between swaps reversed bounds", "show me products between $300 and $100", ptr(100), ptr(300)},
		{"no numbers leaves bounds unset", "show me cheap phones under budget", nil, nil},
		{"no price phrasing", "show me smartphones", nil, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			criteria := extractor.Extract(test.message)
			assertPrice(t, test.min, criteria.MinPrice)
			assertPrice(t, test.max, criteria.MaxPrice)
		})
	}
}

func assertPrice(t *testing.T, want, got *float64) {
	t.Helper()

	if want == nil {
		assert.Nil(t, got)
		return
	}

	require.NotNil(t, got)
	assert.InDelta(t, *want, *got, 0.001)
}

func TestExtractUnderWithMultiplePrices(t *testing.T) {
	extractor := NewExtractor(DefaultPatterns())

	// "under" takes the lowest number mentioned.
	criteria := extractor.Extract("phones under $500 or maybe $300")

	require.NotNil(t, criteria.MaxPrice)
	assert.InDelta(t, 300, *criteria.MaxPrice, 0.001)
	assert.Nil(t, criteria.MinPrice)
}

func TestExtractCategoryAndBrand(t *testing.T) {
	extractor := NewExtractor(DefaultPatterns())

	criteria := extractor.Extract("show me Samsung smartphones")
	assert.Equal(t, "smartphones", criteria.Category)
	assert.Equal(t, "samsung", criteria.Brand)

	criteria = extractor.Extract("find me an apple macbook")
	assert.Equal(t, "laptops", criteria.Category)
	assert.Equal(t, "apple", criteria.Brand)

	criteria = extractor.Extract("something nice")
	assert.Empty(t, criteria.Category)
	assert.Empty(t, criteria.Brand)
}

func TestExtractCategorySynonyms(t *testing.T) {
	extractor := NewExtractor(DefaultPatterns())

	tests := map[string]string{
		"i want a new mobile":     "smartphones",
		"any earbuds on sale?":    "headphones",
		"looking for a notebook":  "laptops",
		"i need an ipad":          "tablets",
		"show me a fitness tracker": "smartwatches",
		"need a usb cable":        "accessories",
	}

	for message, category := range tests {
		assert.Equal(t, category, extractor.Extract(message).Category, message)
	}
}

func TestExtractKeywords(t *testing.T) {
	extractor := NewExtractor(DefaultPatterns())

	criteria := extractor.Extract("I need a waterproof speaker")
	assert.Equal(t, []string{"waterproof", "speaker"}, criteria.Keywords)

	// Stop words and short tokens never survive.
	criteria = extractor.Extract("show me a TV")
	assert.Empty(t, criteria.Keywords)

	// At most three keywords, in message order.
	criteria = extractor.Extract("durable waterproof portable bluetooth speaker")
	assert.Equal(t, []string{"durable", "waterproof", "portable"}, criteria.Keywords)

	// Punctuation is trimmed from kept tokens.
	criteria = extractor.Extract("need something waterproof!")
	assert.Contains(t, criteria.Keywords, "waterproof")
}

func TestExtractIsIdempotent(t *testing.T) {
	extractor := NewExtractor(DefaultPatterns())

	message := "show me Samsung smartphones between $300 and $100"
	first := extractor.Extract(message)

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, extractor.Extract(message))
	}
}
