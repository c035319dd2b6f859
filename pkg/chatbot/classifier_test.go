package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier(DefaultPatterns())

	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"plain hello", "hello", IntentGreeting},
		{"hi with punctuation", "hi!", IntentGreeting},
		{"good morning", "good morning", IntentGreeting},
		{"whats up", "what's up", IntentGreeting},
		{"show me trigger", "show me laptops", IntentProductSearch},
		{"looking for trigger", "I'm looking for a gift", IntentProductSearch},
		{"bare category word", "any good headphones?", IntentProductSearch},
		{"category synonym", "I need a new mobile", IntentProductSearch},
		{"help keyword", "help", IntentHelp},
		{"what can you do", "what can you do", IntentHelp},
		{"unclassified", "tell me a joke", IntentUnclassified},
		{"empty message", "", IntentUnclassified},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, classifier.Classify(test.message))
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	classifier := NewClassifier(DefaultPatterns())

	// A greeting that also mentions a product category still greets,
	// greeting rules are evaluated first.
	assert.Equal(t, IntentGreeting, classifier.Classify("hello, any laptops?"))

	// A search that also contains a help word resolves as search.
	assert.Equal(t, IntentProductSearch, classifier.Classify("show me what you can do with smartphones"))
}

func TestClassifyIsIdempotent(t *testing.T) {
	classifier := NewClassifier(DefaultPatterns())

	message := "show me Samsung smartphones"
	first := classifier.Classify(message)

	for i := 0; i < 5; i++ {
		assert.Equal(t, first, classifier.Classify(message))
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	classifier := NewClassifier(DefaultPatterns())

	assert.Equal(t, IntentGreeting, classifier.Classify("HELLO"))
	assert.Equal(t, IntentProductSearch, classifier.Classify("SHOW ME LAPTOPS"))
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "greeting", IntentGreeting.String())
	assert.Equal(t, "product_search", IntentProductSearch.String())
	assert.Equal(t, "help", IntentHelp.String())
	assert.Equal(t, "unclassified", IntentUnclassified.String())
}
