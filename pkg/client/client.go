/*
Package client is a small Go client for the shopchat HTTP API, used by the
terminal UI and handy for scripting against a running server.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/theapemachine/shopchat/pkg/chatbot"
	"github.com/theapemachine/shopchat/pkg/types"
)

// Client talks to one shopchat server. It is not safe for concurrent use
// while logging in, because the access token is stored on the client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Token returns the access token from the last login or registration.
func (client *Client) Token() string {
	return client.token
}

// SetToken installs a previously obtained access token.
func (client *Client) SetToken(token string) {
	client.token = token
}

type authResponse struct {
	Message     string      `json:"message"`
	AccessToken string      `json:"access_token"`
	User        *types.User `json:"user"`
}

// Register creates an account and stores the returned access token.
func (client *Client) Register(ctx context.Context, username, email, password string) (*types.User, error) {
	var resp authResponse

	err := client.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	client.token = resp.AccessToken
	return resp.User, nil
}

// Login authenticates by username or email and stores the access token.
func (client *Client) Login(ctx context.Context, login, password string) (*types.User, error) {
	var resp authResponse

	err := client.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": login,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	client.token = resp.AccessToken
	return resp.User, nil
}

// CurrentUser fetches the account behind the stored token.
func (client *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	var resp struct {
		User *types.User `json:"user"`
	}

	if err := client.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}

	return resp.User, nil
}

/*
ChatResult is one server answer: the structured reply plus the session
token to send with the next message.
*/
type ChatResult struct {
	Reply        chatbot.Reply `json:"response"`
	SessionToken string        `json:"session_token"`
	SessionID    int64         `json:"session_id"`
}

// Chat sends one message. An empty sessionToken starts a new conversation.
func (client *Client) Chat(ctx context.Context, message, sessionToken string) (*ChatResult, error) {
	var resp ChatResult

	err := client.do(ctx, http.MethodPost, "/api/chat", map[string]string{
		"message":       message,
		"session_token": sessionToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// History returns previous turns, optionally scoped to one session.
func (client *Client) History(ctx context.Context, sessionToken string, limit int) ([]types.ChatMessage, error) {
	query := url.Values{}
	if sessionToken != "" {
		query.Set("session_token", sessionToken)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Messages []types.ChatMessage `json:"messages"`
	}

	path := "/api/chat/history"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	if err := client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Messages, nil
}

// Sessions lists the account's conversations, newest first.
func (client *Client) Sessions(ctx context.Context) ([]types.ChatSession, error) {
	var resp struct {
		Sessions []types.ChatSession `json:"sessions"`
	}

	if err := client.do(ctx, http.MethodGet, "/api/chat/sessions", nil, &resp); err != nil {
		return nil, err
	}

	return resp.Sessions, nil
}

// ResetSession asks the server for a fresh session token.
func (client *Client) ResetSession(ctx context.Context) (string, error) {
	var resp struct {
		SessionToken string `json:"session_token"`
	}

	if err := client.do(ctx, http.MethodPost, "/api/chat/reset", nil, &resp); err != nil {
		return "", err
	}

	return resp.SessionToken, nil
}

// Products fetches one catalog page.
func (client *Client) Products(ctx context.Context, limit, offset int) ([]types.Product, error) {
	var resp struct {
		Products []types.Product `json:"products"`
	}

	path := fmt.Sprintf("/api/products?limit=%d&offset=%d", limit, offset)
	if err := client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Products, nil
}

// SearchProducts runs a free-text catalog search.
func (client *Client) SearchProducts(ctx context.Context, query string, limit int) ([]types.Product, error) {
	var resp struct {
		Products []types.Product `json:"products"`
	}

	path := "/api/products/search?" + url.Values{
		"q":     []string{query},
		"limit": []string{strconv.Itoa(limit)},
	}.Encode()

	if err := client.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Products, nil
}

func (client *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if client.token != "" {
		req.Header.Set("Authorization", "Bearer "+client.token)
	}

	log.Debug("api request", "method", method, "path", path)

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
			return fmt.Errorf("%s", failure.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(raw, out)
}
