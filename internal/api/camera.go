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
// CAMERA OPERATIONS
// =============================================================================

// UploadPhoto sends a base64-encoded capture to the backend. The payload
// may be a bare base64 string or a full data URI; it is forwarded as-is.
func (c *Client) UploadPhoto(ctx context.Context, base64Data string) (*Photo, error) {
	if _, err := c.requireUserID(); err != nil {
		return nil, err
	}

	var result Photo
	payload := uploadPhotoRequest{Camera: base64Data}
	if err := c.doJSON(ctx, c.imageClient, http.MethodPost, "/camera/upload", nil, payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Photos lists the uploaded captures.
func (c *Client) Photos(ctx context.Context) ([]Photo, error) {
	var result []Photo
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/camera/list", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DeletePhoto removes an uploaded capture.
func (c *Client) DeletePhoto(ctx context.Context, id string) error {
	return c.doJSON(ctx, c.httpClient, http.MethodDelete, "/camera/"+url.PathEscape(id), nil, nil, nil)
}
