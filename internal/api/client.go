// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiapp backend API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeBadRequest
	ErrTypeServer
	ErrTypeInvalidResponse
	ErrTypeNotSignedIn
)

// Sentinel errors for easy checking.
var (
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "not authorized"}
	ErrNotSignedIn  = &ClientError{Type: ErrTypeNotSignedIn, Message: "not signed in"}
)

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsUnauthorized checks if an error indicates a rejected credential.
func IsUnauthorized(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnauthorized
	}
	return errors.Is(err, ErrUnauthorized)
}

// ErrorMessage extracts a human-readable message from any error for
// user-facing notices. Falls back to a generic default when the error
// carries no message.
func ErrorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "Please try again later."
	}
	return err.Error()
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend API base URL (default: http://localhost:3000)
	BaseURL string

	// Timeout for ordinary requests (default: 15s)
	Timeout time.Duration

	// ImageTimeout for image generation requests (default: 45s).
	// Image synthesis is much slower than text generation.
	ImageTimeout time.Duration

	// RequestsPerSecond throttles outgoing calls (default: 5, 0 disables)
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://localhost:3000",
		Timeout:           15 * time.Second,
		ImageTimeout:      45 * time.Second,
		RequestsPerSecond: 5,
	}
}

// MaxResponseSize is the maximum allowed response body size.
// Generated images arrive base64-encoded in JSON, so the cap is generous.
const MaxResponseSize = 32 * 1024 * 1024

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the aiapp backend API.
//
// Credentials are injected explicitly via SetCredentials rather than read
// from ambient storage, so the client stays testable without a real
// session store. The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client

	// Separate client for image generation (longer timeout)
	imageClient *http.Client

	// Outgoing request pacing
	limiter *rate.Limiter

	mu     sync.RWMutex
	token  string
	userID string
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:3000"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.ImageTimeout == 0 {
		config.ImageTimeout = 45 * time.Second
	}

	// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		imageClient: &http.Client{
			Transport: transport,
			Timeout:   config.ImageTimeout,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// SetCredentials stores the session token and user id used for subsequent
// calls.
func (c *Client) SetCredentials(token, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.userID = userID
}

// ClearCredentials forgets the stored session.
func (c *Client) ClearCredentials() {
	c.SetCredentials("", "")
}

// credentials returns the stored token and user id.
func (c *Client) credentials() (token, userID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.userID
}

// requireUserID returns the stored user id or ErrNotSignedIn.
func (c *Client) requireUserID() (string, error) {
	_, userID := c.credentials()
	if userID == "" {
		return "", ErrNotSignedIn
	}
	return userID, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// doJSON performs a JSON request against the backend and decodes the
// response into out (which may be nil). The provided client selects the
// timeout budget; non-2xx statuses become typed ClientErrors, reading any
// error envelope the backend includes.
func (c *Client) doJSON(ctx context.Context, httpClient *http.Client, method, path string, query url.Values, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "request cancelled", Cause: err}
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, _ := c.credentials(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return ErrTimeout
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return ErrTimeout
		}
		return &ClientError{Type: ErrTypeConnection, Message: "cannot reach server", Cause: err}
	}
	defer resp.Body.Close()

	// SECURITY: Response size limit prevents memory exhaustion.
	reader := io.LimitReader(resp.Body, MaxResponseSize)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, reader)
	}

	if out == nil {
		io.Copy(io.Discard, reader)
		return nil
	}

	if err := json.NewDecoder(reader).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return nil
}

// errorEnvelope is the backend's error response shape.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// statusError converts a non-2xx response into a typed ClientError,
// preferring any message carried in the response body.
func (c *Client) statusError(status int, body io.Reader) error {
	message := ""
	var envelope errorEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err == nil {
		if envelope.Message != "" {
			message = envelope.Message
		} else if envelope.Error != "" {
			message = envelope.Error
		}
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if message == "" {
			return ErrUnauthorized
		}
		return &ClientError{Type: ErrTypeUnauthorized, Message: message}
	case status >= 400 && status < 500:
		if message == "" {
			message = "request rejected: " + http.StatusText(status)
		}
		return &ClientError{Type: ErrTypeBadRequest, Message: message}
	default:
		if message == "" {
			message = "server error: " + http.StatusText(status)
		}
		return &ClientError{Type: ErrTypeServer, Message: message}
	}
}
