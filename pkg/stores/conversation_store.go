package stores

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/types"
)

/*
ConversationStore persists chat sessions and their turns. Content and
metadata are opaque to the store; ordering guarantees are the only
contract: History returns oldest-to-newest within the most recent window,
Sessions returns most recently updated first.
*/
type ConversationStore interface {
	GetOrCreateSession(ctx context.Context, userID int64, token string) (*types.ChatSession, error)
	Append(ctx context.Context, sessionID int64, message types.ChatMessage) error
	History(ctx context.Context, userID int64, token string, limit int) ([]types.ChatMessage, error)
	Sessions(ctx context.Context, userID int64) ([]types.ChatSession, error)
}

// InMemoryConversationStore is the default implementation, safe for
// concurrent use.
type InMemoryConversationStore struct {
	mu            sync.RWMutex
	sessions      map[int64]*types.ChatSession
	byToken       map[string]int64
	messages      map[int64][]types.ChatMessage
	nextSessionID int64
	nextMessageID int64
}

func NewInMemoryConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{
		sessions:      make(map[int64]*types.ChatSession),
		byToken:       make(map[string]int64),
		messages:      make(map[int64][]types.ChatMessage),
		nextSessionID: 1,
		nextMessageID: 1,
	}
}

func (store *InMemoryConversationStore) GetOrCreateSession(
	ctx context.Context, userID int64, token string,
) (*types.ChatSession, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if id, ok := store.byToken[token]; ok {
		session := *store.sessions[id]
		return &session, nil
	}

	now := time.Now().UTC()
	session := &types.ChatSession{
		ID:           store.nextSessionID,
		UserID:       userID,
		SessionToken: token,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}
	store.nextSessionID++
	store.sessions[session.ID] = session
	store.byToken[token] = session.ID

	found := *session
	return &found, nil
}

func (store *InMemoryConversationStore) Append(
	ctx context.Context, sessionID int64, message types.ChatMessage,
) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, ok := store.sessions[sessionID]
	if !ok {
		return errors.ErrSessionNotFound
	}

	message.ID = store.nextMessageID
	store.nextMessageID++
	message.SessionID = sessionID
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	store.messages[sessionID] = append(store.messages[sessionID], message)
	session.UpdatedAt = time.Now().UTC()
	session.MessageCount++

	return nil
}

/*
History collects the user's turns, optionally scoped to one session token,
and returns the most recent limit of them in chronological order.
*/
func (store *InMemoryConversationStore) History(
	ctx context.Context, userID int64, token string, limit int,
) ([]types.ChatMessage, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	collected := []types.ChatMessage{}
	for id, session := range store.sessions {
		if session.UserID != userID {
			continue
		}
		if token != "" && session.SessionToken != token {
			continue
		}
		collected = append(collected, store.messages[id]...)
	}

	sort.SliceStable(collected, func(i, j int) bool {
		if collected[i].Timestamp.Equal(collected[j].Timestamp) {
			return collected[i].ID < collected[j].ID
		}
		return collected[i].Timestamp.Before(collected[j].Timestamp)
	})

	if limit > 0 && len(collected) > limit {
		collected = collected[len(collected)-limit:]
	}

	return collected, nil
}

func (store *InMemoryConversationStore) Sessions(
	ctx context.Context, userID int64,
) ([]types.ChatSession, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	sessions := []types.ChatSession{}
	for _, session := range store.sessions {
		if session.UserID != userID {
			continue
		}
		sessions = append(sessions, *session)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}
