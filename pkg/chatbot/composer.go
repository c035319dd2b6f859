package chatbot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/theapemachine/shopchat/pkg/types"
)

// ReplyKind tags what sort of answer a Reply carries.
type ReplyKind string

const (
	ReplyGreeting    ReplyKind = "greeting"
	ReplyHelp        ReplyKind = "help"
	ReplyDefault     ReplyKind = "default"
	ReplyNoResults   ReplyKind = "no_results"
	ReplyProductList ReplyKind = "product_list"
	ReplyError       ReplyKind = "error"
)

/*
Reply is the structured output of the pipeline, ready for the transport
layer to serialize. Products and Metadata are only set for product_list
replies.
*/
type Reply struct {
	Text     string                 `json:"text"`
	Kind     ReplyKind              `json:"type"`
	Products []types.ProductSummary `json:"products,omitempty"`
	Metadata map[string]any         `json:"metadata,omitempty"`
}

const descriptionPreviewLen = 100

var greetingTexts = []string{
	"Hello! 👋 I'm your shopping assistant. I can help you find products, compare prices, and answer questions about our inventory.",
	"Hi there! 🛍️ Welcome to our store! I'm here to help you find the perfect products. What are you looking for today?",
	"Hey! 😊 I'm your personal shopping assistant. Ask me about products, prices, or just tell me what you need!",
}

const helpText = `🤖 **I can help you with:**

• **Product Search**: "Show me smartphones under $500"
• **Category Browsing**: "I need a laptop for gaming"
• **Brand Filtering**: "Find me Samsung products"
• **Price Comparisons**: "What's the cheapest tablet?"
• **Product Details**: Ask about specifications, reviews, and availability

**Try asking me:**
- "Show me the latest smartphones"
- "I need headphones under $100"
- "What laptops do you recommend?"
- "Find me Apple products on sale"

Just type what you're looking for in natural language! 🛍️`

const defaultText = `I'm not sure what you're looking for. 🤔

Try asking me about:
• Specific products (smartphones, laptops, headphones)
• Price ranges ("under $300")
• Brands (Apple, Samsung, Sony)
• Categories (electronics, accessories)

Or type "help" to see what I can do! 💡`

const noResultsText = "I couldn't find any products matching your criteria. " +
	"Try being more specific or browse our categories."

/*
Composer turns intents, criteria and lookup results into replies. The
greeting text is picked at random, so the randomness source is injected:
tests substitute a seeded or stubbed source and treat the greeting as one
of a known set.
*/
type Composer struct {
	rng *rand.Rand
}

/*
NewComposer builds a composer around the given randomness source. A nil
source gets a time-seeded one.
*/
func NewComposer(rng *rand.Rand) *Composer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Composer{rng: rng}
}

// Greeting returns one of the fixed greeting strings.
func (composer *Composer) Greeting() Reply {
	return Reply{
		Text: greetingTexts[composer.rng.Intn(len(greetingTexts))],
		Kind: ReplyGreeting,
	}
}

// Help enumerates the supported query styles with examples.
func (composer *Composer) Help() Reply {
	return Reply{Text: helpText, Kind: ReplyHelp}
}

// Default is the fallback for messages no rule recognized.
func (composer *Composer) Default() Reply {
	return Reply{Text: defaultText, Kind: ReplyDefault}
}

/*
SearchError wraps a lookup failure in a well-formed reply. Errors never
propagate past the pipeline as errors; the caller always receives a Reply.
*/
func (composer *Composer) SearchError(err error) Reply {
	return Reply{
		Text: fmt.Sprintf("Sorry, I had trouble searching for products. Error: %v", err),
		Kind: ReplyError,
	}
}

/*
ProductList renders lookup results as a human-readable block plus the
structured payload. An empty result list becomes a no_results reply.
*/
func (composer *Composer) ProductList(criteria SearchCriteria, products []types.Product) Reply {
	if len(products) == 0 {
		return Reply{Text: noResultsText, Kind: ReplyNoResults}
	}

	plural := "s"
	if len(products) == 1 {
		plural = ""
	}

	var text strings.Builder
	fmt.Fprintf(&text, "I found %d product%s for you:\n\n", len(products), plural)

	summaries := make([]types.ProductSummary, 0, len(products))
	for _, product := range products {
		summaries = append(summaries, product.Summary())

		fmt.Fprintf(&text, "📱 **%s**\n", product.Name)
		fmt.Fprintf(&text, "💰 $%.2f", product.DisplayPrice())
		if product.IsOnSale {
			fmt.Fprintf(&text, " ~~$%.2f~~ (On Sale!)", product.Price)
		}
		fmt.Fprintf(&text, "\n⭐ %.1f/5.0 | 📦 %d in stock\n", product.Rating, product.StockQuantity)
		fmt.Fprintf(&text, "%s...\n\n", preview(product.Description))
	}

	return Reply{
		Text:     text.String(),
		Kind:     ReplyProductList,
		Products: summaries,
		Metadata: map[string]any{
			"search_criteria": criteria,
			"total_results":   len(products),
		},
	}
}

func preview(description string) string {
	runes := []rune(description)
	if len(runes) <= descriptionPreviewLen {
		return description
	}
	return string(runes[:descriptionPreviewLen])
}
