// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiapp backend API.
package api

import (
	"context"
	"net/http"
	"net/url"
)

// =============================================================================
// TEXT CHAT OPERATIONS
// =============================================================================

// SendText submits a prompt for text generation and returns the reply.
func (c *Client) SendText(ctx context.Context, prompt string) (string, error) {
	userID, err := c.requireUserID()
	if err != nil {
		return "", err
	}

	var result sendMessageResponse
	payload := sendMessageRequest{Message: prompt, UserID: userID}
	if err := c.doJSON(ctx, c.httpClient, http.MethodPost, "/chatbotAI/chat", nil, payload, &result); err != nil {
		return "", err
	}

	if result.Reply == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "no response returned from API"}
	}

	return result.Reply, nil
}

// TextHistory fetches all settled text conversation turns for the signed-in
// user.
func (c *Client) TextHistory(ctx context.Context) ([]TextMessage, error) {
	userID, err := c.requireUserID()
	if err != nil {
		return nil, err
	}

	var result []TextMessage
	query := url.Values{"userId": {userID}}
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/chatbotAI/history", query, nil, &result); err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateText replaces the prompt of a stored text turn; the backend
// regenerates the response and returns the updated record.
func (c *Client) UpdateText(ctx context.Context, id, prompt string) (*TextMessage, error) {
	var result TextMessage
	payload := updatePromptRequest{Prompt: prompt}
	if err := c.doJSON(ctx, c.httpClient, http.MethodPut, "/chatbotAI/"+url.PathEscape(id), nil, payload, &result); err != nil {
		return nil, err
	}

	if result.Prompt == "" && result.Response == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "cannot update message"}
	}

	return &result, nil
}

// DeleteText removes a stored text turn.
func (c *Client) DeleteText(ctx context.Context, id string) error {
	return c.doJSON(ctx, c.httpClient, http.MethodDelete, "/chatbotAI/"+url.PathEscape(id), nil, nil, nil)
}
