// Package client talks to the navdesk server: config load/save, login and
// token verification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/auth"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
	"github.com/MrSnakeDoc/navdesk/internal/nav"
)

const maxBody = 4 << 20

// Client implements the collaborator operations over HTTP.
type Client struct {
	base string
	http *http.Client
	log  logger.Logger
}

func New(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log.Named("client"),
	}
}

// WithHTTPClient swaps the underlying client, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// Fetch loads the document. Without a token the server answers with the guest view.
func (c *Client) Fetch(ctx context.Context, token string) (*nav.Document, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/config", token, nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperr.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", apperr.ErrNotFound, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch config: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	doc, err := nav.Parse(body)
	if err != nil {
		// a body without categories and dock is treated as no document
		return nil, fmt.Errorf("%w: %v", apperr.ErrNotFound, err)
	}
	return doc, nil
}

// Save replaces the stored document.
func (c *Client) Save(ctx context.Context, token string, doc *nav.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, "/api/config", token, body)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperr.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("save config: %s", errorMessage(resp))
	}
	return nil
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges a password for a token.
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Password: password})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/login", "", body)
	if err != nil {
		return "", err
	}
	defer closeBody(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", apperr.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("login: %s", errorMessage(resp))
	}

	var out loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	return out.Token, nil
}

// Verify checks a token.
func (c *Client) Verify(ctx context.Context, token string) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/verify", token, nil)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusUnauthorized:
		return apperr.ErrUnauthorized
	}
	return fmt.Errorf("verify: %s", errorMessage(resp))
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var rdr io.Reader = http.NoBody
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	auth.SetBearer(req, token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.log.Debug("request",
		logger.String("method", method),
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)
	return resp, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func errorMessage(resp *http.Response) string {
	var e errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e); err == nil && e.Error != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
	_ = resp.Body.Close()
}
