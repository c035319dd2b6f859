package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/shopchat/pkg/chatbot"
	"github.com/theapemachine/shopchat/pkg/errors"
	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/types"
)

// openTestDB opens a fresh shared-cache in-memory database per test, so
// migrations run against a clean slate every time.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestProductStoreRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewProductStore(db)
	ctx := context.Background()

	product := &types.Product{
		Name: "Galaxy S23", Description: "Samsung flagship phone.",
		Price: 899.99, Category: "smartphones", Brand: "Samsung",
		StockQuantity: 25, Rating: 4.5, IsFeatured: true,
	}
	require.NoError(t, store.Put(ctx, product))
	require.NotZero(t, product.ID)

	found, err := store.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Galaxy S23", found.Name)
	assert.InDelta(t, 899.99, found.Price, 0.001)
	assert.True(t, found.IsFeatured)

	_, err = store.Get(ctx, 999)
	assert.Equal(t, errors.ErrProductNotFound, err)
}

func TestProductStoreSearchSQL(t *testing.T) {
	db := openTestDB(t)
	store := NewProductStore(db)
	ctx := context.Background()

	for _, product := range []*types.Product{
		{Name: "Galaxy S23", Description: "Samsung flagship phone.", Price: 899.99, Category: "smartphones", Brand: "Samsung"},
		{Name: "Pixel 7a", Description: "Affordable Google phone.", Price: 499.99, Category: "smartphones", Brand: "Google"},
		{Name: "MacBook Air M2", Description: "Thin and light laptop.", Price: 1199.99, Category: "laptops", Brand: "Apple"},
	} {
		require.NoError(t, store.Put(ctx, product))
	}

	t.Run("category and brand", func(t *testing.T) {
		results, err := store.Search(ctx, chatbot.SearchCriteria{
			Category: "smartphones", Brand: "samsung",
		}, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Galaxy S23", results[0].Name)
	})

	t.Run("price cap", func(t *testing.T) {
		max := 500.0
		results, err := store.Search(ctx, chatbot.SearchCriteria{MaxPrice: &max}, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Pixel 7a", results[0].Name)
	})

	t.Run("keywords OR-match name and description", func(t *testing.T) {
		results, err := store.Search(ctx, chatbot.SearchCriteria{
			Keywords: []string{"macbook", "google"},
		}, 10)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("listing with pagination", func(t *testing.T) {
		page, total, err := store.List(ctx, stores.ProductFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, page, 2)
	})

	t.Run("distinct categories and brands", func(t *testing.T) {
		categories, err := store.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"laptops", "smartphones"}, categories)

		brands, err := store.Brands(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Apple", "Google", "Samsung"}, brands)
	})
}

func TestUserStoreSQL(t *testing.T) {
	db := openTestDB(t)
	store := NewUserStore(db)
	ctx := context.Background()

	user := &types.User{
		Username: "adi", Email: "adi@example.com",
		PasswordHash: "hash", IsActive: true,
	}
	require.NoError(t, store.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("lookup by id and login", func(t *testing.T) {
		found, err := store.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "adi", found.Username)

		found, err = store.GetByLogin(ctx, "adi@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		err := store.Create(ctx, &types.User{Username: "adi", Email: "new@example.com", PasswordHash: "hash"})
		assert.Equal(t, errors.ErrUsernameTaken, err)

		err = store.Create(ctx, &types.User{Username: "new", Email: "adi@example.com", PasswordHash: "hash"})
		assert.Equal(t, errors.ErrEmailTaken, err)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.Get(ctx, 999)
		assert.Equal(t, errors.ErrUserNotFound, err)
	})
}

func TestConversationStoreSQL(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	store := NewConversationStore(db)
	ctx := context.Background()

	user := &types.User{Username: "adi", Email: "adi@example.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, users.Create(ctx, user))

	session, err := store.GetOrCreateSession(ctx, user.ID, "token-a")
	require.NoError(t, err)
	require.NotZero(t, session.ID)

	t.Run("same token returns the same session", func(t *testing.T) {
		again, err := store.GetOrCreateSession(ctx, user.ID, "token-a")
		require.NoError(t, err)
		assert.Equal(t, session.ID, again.ID)
	})

	t.Run("appends update the session", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, session.ID, types.ChatMessage{
			Role: types.RoleUser, Content: "hello",
		}))
		require.NoError(t, store.Append(ctx, session.ID, types.ChatMessage{
			Role: types.RoleBot, Content: "Hi there!", Metadata: `{"total_results":0}`,
		}))

		history, err := store.History(ctx, user.ID, "token-a", 0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, types.RoleUser, history[0].Role)
		assert.Equal(t, "hello", history[0].Content)
		assert.Equal(t, types.RoleBot, history[1].Role)

		sessions, err := store.Sessions(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, 2, sessions[0].MessageCount)
	})

	t.Run("history window keeps the newest turns", func(t *testing.T) {
		history, err := store.History(ctx, user.ID, "token-a", 1)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "Hi there!", history[0].Content)
	})
}
