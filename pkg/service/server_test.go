package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/theapemachine/shopchat/pkg/auth"
	"github.com/theapemachine/shopchat/pkg/chatbot"
	"github.com/theapemachine/shopchat/pkg/stores"
	"github.com/theapemachine/shopchat/pkg/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	products := stores.NewInMemoryProductStore()
	ctx := context.Background()

	for _, product := range []*types.Product{
		{Name: "Galaxy S23", Description: "Samsung flagship phone.", Price: 899.99, Category: "smartphones", Brand: "Samsung", Rating: 4.5, StockQuantity: 25},
		{Name: "Pixel 7a", Description: "Affordable Google phone.", Price: 499.99, Category: "smartphones", Brand: "Google", Rating: 4.4, StockQuantity: 38},
		{Name: "Sony WH-1000XM5", Description: "Noise cancelling headphones.", Price: 399.99, Category: "headphones", Brand: "Sony", Rating: 4.8, StockQuantity: 35},
	} {
		require.NoError(t, products.Put(ctx, product))
	}

	users := stores.NewInMemoryUserStore()
	authService := auth.NewService(users, []byte("test-secret"), bcrypt.MinCost)

	engine := chatbot.NewEngine(
		products,
		stores.NewInMemoryConversationStore(),
		stores.NewSessionToken,
		rand.New(rand.NewSource(42)),
	)

	return New(Config{
		Addr:     ":0",
		Auth:     authService,
		Engine:   engine,
		Products: products,
	})
}

func doJSON(t *testing.T, srv *Server, method, target, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App().Test(req)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}

	return resp, decoded
}

func registerUser(t *testing.T, srv *Server) string {
	t.Helper()

	resp, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "adi",
		"email":    "adi@example.com",
		"password": "Aditya123@",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, fmt.Sprint(body))

	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("valid registration", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "newuser", "email": "new@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotEmpty(t, body["access_token"])

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "newuser", user["username"])
		assert.NotContains(t, user, "password_hash")
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "newuser", "email": "other@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Username already exists", body["error"])
	})

	t.Run("invalid data", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "x", "email": "nope", "password": "y",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["error"], "Username must be at least 3 characters long")
	})
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv)

	t.Run("valid credentials", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "adi", "password": "Aditya123@",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Login successful", body["message"])
		assert.NotEmpty(t, body["access_token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "adi", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "adi",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Username and password are required", body["error"])
	})
}

func TestCurrentUserEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv)

	t.Run("with token", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/auth/me", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "adi", user["username"])
	})

	t.Run("without token", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProductEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("list with pagination", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/products?limit=2", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(3), body["total_count"])
		assert.Equal(t, true, body["has_more"])
		assert.Len(t, body["products"], 2)
	})

	t.Run("list filtered by category", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/products?category=headphones", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["total_count"])
	})

	t.Run("free text search", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/products/search?q=google", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["total_results"])
	})

	t.Run("search without query", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/products/search", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Search query is required", body["error"])
	})

	t.Run("get by id", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/products/1", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		product, ok := body["product"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Galaxy S23", product["name"])
	})

	t.Run("missing product", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/products/999", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Product not found", body["error"])
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodGet, "/api/products/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("categories and brands", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/products/categories", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["categories"], 2)

		resp, body = doJSON(t, srv, http.MethodGet, "/api/products/brands", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["brands"], 3)
	})
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv)

	t.Run("requires auth", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodPost, "/api/chat", "", map[string]string{
			"message": "hello",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects empty messages", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/chat", token, map[string]string{
			"message": "   ",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Message is required", body["error"])
	})

	t.Run("greeting round trip", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/chat", token, map[string]string{
			"message": "hello",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["session_token"])

		response, ok := body["response"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "greeting", response["type"])
	})

	t.Run("product search includes results", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/chat", token, map[string]string{
			"message": "show me Samsung smartphones",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		response, ok := body["response"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "product_list", response["type"])
		assert.Len(t, response["products"], 1)
	})
}

func TestChatHistoryAndSessions(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv)

	_, first := doJSON(t, srv, http.MethodPost, "/api/chat", token, map[string]string{
		"message": "hello",
	})
	sessionToken, _ := first["session_token"].(string)
	require.NotEmpty(t, sessionToken)

	t.Run("history returns both turns", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet,
			"/api/chat/history?session_token="+sessionToken, token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(2), body["total_messages"])
	})

	t.Run("sessions lists the conversation", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodGet, "/api/chat/sessions", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["total_sessions"])
	})

	t.Run("reset mints a fresh token", func(t *testing.T) {
		resp, body := doJSON(t, srv, http.MethodPost, "/api/chat/reset", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		fresh, _ := body["session_token"].(string)
		assert.NotEmpty(t, fresh)
		assert.NotEqual(t, sessionToken, fresh)
	})
}
