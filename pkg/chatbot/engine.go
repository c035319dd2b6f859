package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/shopchat/pkg/types"
)

// searchLimit caps how many products a single chat reply may list.
const searchLimit = 10

/*
ProductSearcher is the product-lookup capability the engine consumes. It
must OR-match keywords across at least name and description, substring
match category and brand, apply inclusive price bounds, match all strings
case-insensitively and return at most limit items.
*/
type ProductSearcher interface {
	Search(ctx context.Context, criteria SearchCriteria, limit int) ([]types.Product, error)
}

/*
ConversationStore is the persistence capability: the engine hands it the
raw user message and the generated reply as opaque turns under a session
token, and reads history back through it.
*/
type ConversationStore interface {
	GetOrCreateSession(ctx context.Context, userID int64, token string) (*types.ChatSession, error)
	Append(ctx context.Context, sessionID int64, message types.ChatMessage) error
	History(ctx context.Context, userID int64, token string, limit int) ([]types.ChatMessage, error)
	Sessions(ctx context.Context, userID int64) ([]types.ChatSession, error)
}

// TokenGenerator mints opaque, URL-safe session tokens. Supplied by the
// hosting environment; the engine never inspects the value.
type TokenGenerator func() (string, error)

/*
Result pairs the reply with the criteria that produced it, so callers can
log or assert on what the lookup actually used.
*/
type Result struct {
	Reply        Reply           `json:"response"`
	Criteria     *SearchCriteria `json:"criteria,omitempty"`
	SessionToken string          `json:"session_token"`
	SessionID    int64           `json:"session_id,omitempty"`
}

/*
Engine sequences the pipeline: classify, extract, look up, compose, then
persist both turns. It holds no mutable state of its own, so one Engine
serves any number of concurrent messages.
*/
type Engine struct {
	classifier    *Classifier
	extractor     *Extractor
	composer      *Composer
	products      ProductSearcher
	conversations ConversationStore
	newToken      TokenGenerator
}

/*
NewEngine wires the pipeline over the default pattern catalog. A nil rng
is replaced with a time-seeded source; pass a seeded one in tests.
*/
func NewEngine(
	products ProductSearcher,
	conversations ConversationStore,
	newToken TokenGenerator,
	rng *rand.Rand,
) *Engine {
	patterns := DefaultPatterns()

	return &Engine{
		classifier:    NewClassifier(patterns),
		extractor:     NewExtractor(patterns),
		composer:      NewComposer(rng),
		products:      products,
		conversations: conversations,
		newToken:      newToken,
	}
}

/*
ProcessMessage handles one user message to completion and always produces
exactly one reply: storage and lookup failures are folded into an
error-kind reply instead of being returned.
*/
func (engine *Engine) ProcessMessage(
	ctx context.Context, userID int64, message, sessionToken string,
) *Result {
	if sessionToken == "" {
		token, err := engine.newToken()
		if err != nil {
			return engine.failure("", err)
		}
		sessionToken = token
	}

	session, err := engine.conversations.GetOrCreateSession(ctx, userID, sessionToken)
	if err != nil {
		return engine.failure(sessionToken, err)
	}

	if err := engine.conversations.Append(ctx, session.ID, types.ChatMessage{
		SessionID: session.ID,
		Role:      types.RoleUser,
		Content:   message,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		return engine.failure(sessionToken, err)
	}

	reply, criteria := engine.respond(ctx, message)

	metadata := ""
	if reply.Metadata != nil {
		if raw, err := json.Marshal(reply.Metadata); err == nil {
			metadata = string(raw)
		}
	}

	if err := engine.conversations.Append(ctx, session.ID, types.ChatMessage{
		SessionID: session.ID,
		Role:      types.RoleBot,
		Content:   reply.Text,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}); err != nil {
		return engine.failure(sessionToken, err)
	}

	return &Result{
		Reply:        reply,
		Criteria:     criteria,
		SessionToken: sessionToken,
		SessionID:    session.ID,
	}
}

/*
respond runs classification and, for searches, extraction plus the product
lookup. The lookup is the only fallible step and its error is converted
here, never re-raised.
*/
func (engine *Engine) respond(ctx context.Context, message string) (Reply, *SearchCriteria) {
	switch engine.classifier.Classify(message) {
	case IntentGreeting:
		return engine.composer.Greeting(), nil
	case IntentProductSearch:
		criteria := engine.extractor.Extract(message)

		products, err := engine.products.Search(ctx, criteria, searchLimit)
		if err != nil {
			log.Error("product lookup failed", "error", err)
			return engine.composer.SearchError(err), &criteria
		}

		return engine.composer.ProductList(criteria, products), &criteria
	case IntentHelp:
		return engine.composer.Help(), nil
	default:
		return engine.composer.Default(), nil
	}
}

func (engine *Engine) failure(sessionToken string, err error) *Result {
	log.Error("chat processing failed", "error", err)

	return &Result{
		Reply: Reply{
			Text: fmt.Sprintf("Sorry, I encountered an error: %v", err),
			Kind: ReplyError,
		},
		SessionToken: sessionToken,
	}
}

/*
History returns a user's turns oldest-to-newest within the most recent
window, optionally scoped to one session token.
*/
func (engine *Engine) History(
	ctx context.Context, userID int64, sessionToken string, limit int,
) ([]types.ChatMessage, error) {
	return engine.conversations.History(ctx, userID, sessionToken, limit)
}

// Sessions lists a user's chat sessions, most recently updated first.
func (engine *Engine) Sessions(ctx context.Context, userID int64) ([]types.ChatSession, error) {
	return engine.conversations.Sessions(ctx, userID)
}

// NewSessionToken exposes the injected token generator for callers that
// reset a conversation without sending a message.
func (engine *Engine) NewSessionToken() (string, error) {
	return engine.newToken()
}
