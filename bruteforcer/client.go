package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/ricochet/game/service"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// IsNoTargetsLeft reports whether err means every target was already drawn.
func IsNoTargetsLeft(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict &&
		strings.Contains(apiErr.Message, "no targets left")
}

// Client drives one session through the REST API.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SessionID returns the session the client is bound to.
func (c *Client) SessionID() string {
	return c.sessionID
}

// CreateSession creates a session on boardID and binds the client to it.
func (c *Client) CreateSession(ctx context.Context, boardID string) (*service.SessionInfo, error) {
	var body interface{}
	if boardID != "" {
		body = map[string]string{"board_id": boardID}
	}
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return &info, nil
}

// Resume binds the client to an existing session.
func (c *Client) Resume(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	c.sessionID = sessionID
	info, err := c.GetSession(ctx)
	if err != nil {
		c.sessionID = ""
		return nil, err
	}
	return info, nil
}

func (c *Client) GetSession(ctx context.Context) (*service.SessionInfo, error) {
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodGet, c.sessionPath(), nil, &info); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &info, nil
}

func (c *Client) NextTarget(ctx context.Context) (*service.TargetResult, error) {
	var result service.TargetResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("target", "next"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SetTarget(ctx context.Context, color, shape string) (*service.TargetResult, error) {
	var result service.TargetResult
	body := map[string]string{"color": color, "shape": shape}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("target"), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Solve(ctx context.Context) (*service.SolveResult, error) {
	var result service.SolveResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("solve"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Resolve(ctx context.Context, pawn, direction string) (*service.ResolveResult, error) {
	var result service.ResolveResult
	body := map[string]string{"pawn": pawn, "direction": direction}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("resolve"), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) sessionPath(parts ...string) string {
	path := "/api/sessions/" + url.PathEscape(c.sessionID)
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
