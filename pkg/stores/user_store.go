package stores

import (
	"context"
	"sync"
	"time"

	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/types"
)

/*
UserStore persists accounts. Create enforces username and email
uniqueness; GetByLogin accepts either the username or the email address,
matching what the login form sends.
*/
type UserStore interface {
	Create(ctx context.Context, user *types.User) error
	Get(ctx context.Context, id int64) (*types.User, error)
	GetByLogin(ctx context.Context, login string) (*types.User, error)
}

// InMemoryUserStore is the default implementation.
type InMemoryUserStore struct {
	mu     sync.RWMutex
	users  []types.User
	nextID int64
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{nextID: 1}
}

func (store *InMemoryUserStore) Create(ctx context.Context, user *types.User) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, existing := range store.users {
		if existing.Username == user.Username {
			return errors.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return errors.ErrEmailTaken
		}
	}

	user.ID = store.nextID
	store.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	store.users = append(store.users, *user)
	return nil
}

func (store *InMemoryUserStore) Get(ctx context.Context, id int64) (*types.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, user := range store.users {
		if user.ID == id {
			found := user
			return &found, nil
		}
	}

	return nil, errors.ErrUserNotFound
}

func (store *InMemoryUserStore) GetByLogin(ctx context.Context, login string) (*types.User, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, user := range store.users {
		if user.Username == login || user.Email == login {
			found := user
			return &found, nil
		}
	}

	return nil, errors.ErrUserNotFound
}
