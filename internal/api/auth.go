// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiapp backend API.
package api

import (
	"context"
	"net/http"
)

// =============================================================================
// AUTH OPERATIONS
// =============================================================================

// Register creates a new account. On success the returned user id is
// stored as the client's credential (the backend does not issue a token
// until first login).
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var result AuthResult
	payload := registerRequest{Name: name, Email: email, Password: password}
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, "/auth/register", nil, payload, &result); err != nil {
		return nil, err
	}

	if result.User == nil || result.User.ID == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid register response: user id missing"}
	}

	c.SetCredentials(result.Token, result.User.ID)
	return &result, nil
}

// Login authenticates and stores the returned token and user id for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	payload := loginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, "/auth/login", nil, payload, &result); err != nil {
		return nil, err
	}

	if result.User == nil || result.User.ID == "" || result.Token == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid login response: token or user id missing"}
	}

	c.SetCredentials(result.Token, result.User.ID)
	return &result, nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	payload := forgotPasswordRequest{Email: email}
	return c.doJSON(ctx, c.httpClient, http.MethodPost, "/auth/forgot-password", nil, payload, nil)
}

// Logout forgets the stored credentials. Purely local; the backend keeps
// no server-side session state for this client.
func (c *Client) Logout() {
	c.ClearCredentials()
}
