package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trousseauhq/trousseau/internal/types"
)

// APIError represents a non-2xx response from the workspace backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" && e.Message != "" {
		return fmt.Sprintf("backend error: %s (%d): %s", e.Code, e.Status, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend error: %s (%d)", e.Code, e.Status)
	}
	if e.Message != "" {
		return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (%d)", e.Status)
}

type apiErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the workspace backend API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient constructs a backend client.
func NewClient(baseURL, token string) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: normalized,
		token:   token,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}, nil
}

// NormalizeBaseURL normalizes a backend base URL and ensures it has a scheme.
func NormalizeBaseURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("backend url cannot be empty")
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid backend url: %w", err)
	}
	if parsed.Scheme == "" {
		return "", fmt.Errorf("backend url must include scheme (https://)")
	}
	return strings.TrimRight(value, "/"), nil
}

type conversationsResponse struct {
	Conversations []types.Conversation `json:"conversations"`
}

// Conversations lists the addressable conversations for the workspace.
func (c *Client) Conversations(ctx context.Context) ([]types.Conversation, error) {
	var resp conversationsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/conversations", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

type messagesResponse struct {
	Messages []types.Message `json:"messages"`
}

// Messages fetches the most recent page of messages for a conversation.
// A zero before means "from the latest".
func (c *Client) Messages(ctx context.Context, conversationID string, before int64, limit int) ([]types.Message, error) {
	query := url.Values{}
	query.Set("conversation", conversationID)
	if before > 0 {
		query.Set("before", strconv.FormatInt(before, 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp messagesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/messages", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

type sendMessageRequest struct {
	Content     string  `json:"content"`
	RecipientID *string `json:"recipient_id,omitempty"`
}

// SendMessage posts a message and returns the server-confirmed record.
func (c *Client) SendMessage(ctx context.Context, content string, recipientID *string) (types.Message, error) {
	var resp types.Message
	req := sendMessageRequest{Content: content, RecipientID: recipientID}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/messages", nil, req, &resp); err != nil {
		return types.Message{}, err
	}
	return resp, nil
}

type membersResponse struct {
	Members []types.Profile `json:"members"`
}

// MemberDirectory lists the addressable peers in the workspace.
func (c *Client) MemberDirectory(ctx context.Context) ([]types.Profile, error) {
	var resp membersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/members", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

// Profile fetches the display profile for a user.
func (c *Client) Profile(ctx context.Context, userID string) (types.Profile, error) {
	var resp types.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/v1/profiles/"+url.PathEscape(userID), nil, nil, &resp); err != nil {
		return types.Profile{}, err
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody any, respBody any) error {
	endpoint, err := c.buildURL(path, query)
	if err != nil {
		return err
	}

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload apiErrorPayload
		if err := json.Unmarshal(respData, &payload); err == nil {
			apiErr.Code = payload.Error
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(respData))
		}
		return apiErr
	}

	if respBody == nil || len(respData) == 0 {
		return nil
	}
	return json.Unmarshal(respData, respBody)
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	endpoint := base.ResolveReference(ref)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String(), nil
}
