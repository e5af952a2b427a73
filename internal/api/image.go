// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiapp backend API.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// =============================================================================
// IMAGE REFERENCE HANDLING
// =============================================================================

// NormalizeImageRef converts whatever the backend returned for an image
// into a usable reference: a data URI or an http(s) URL. Raw base64
// payloads are wrapped into a JPEG data URI (the backend downloads and
// re-encodes generated images as JPEG). Anything else is rejected.
func NormalizeImageRef(base64Data, imageURL string) (string, error) {
	if base64Data != "" {
		if strings.HasPrefix(base64Data, "data:image/") {
			return base64Data, nil
		}
		return "data:image/jpeg;base64," + base64Data, nil
	}

	if imageURL != "" {
		if strings.HasPrefix(imageURL, "data:image/") ||
			strings.HasPrefix(imageURL, "http://") ||
			strings.HasPrefix(imageURL, "https://") {
			return imageURL, nil
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid image data format received from server"}
	}

	return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "no image data returned from server"}
}

// ImageRef returns the usable reference for a stored image record,
// preferring the inlined base64 payload over the remote URL.
func (g *GeneratedImage) ImageRef() (string, error) {
	return NormalizeImageRef(g.ImageBase64, g.ImageURL)
}

// =============================================================================
// IMAGE OPERATIONS
// =============================================================================

// GenerateImage submits a prompt for image generation and returns the
// image reference (data URI or URL). This call uses the long image
// timeout; expiry surfaces as ErrTimeout like any other failure.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	userID, err := c.requireUserID()
	if err != nil {
		return "", err
	}

	var result generateImageResponse
	payload := generateImageRequest{Prompt: prompt, UserID: userID}
	if err := c.doJSON(ctx, c.imageClient, http.MethodPost, "/chatbotAI/generate-image", nil, payload, &result); err != nil {
		return "", err
	}

	if !result.Success {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "image generation failed"}
	}

	return NormalizeImageRef(result.ImageBase64, result.ImageURL)
}

// ImageHistory fetches all settled image generation records.
func (c *Client) ImageHistory(ctx context.Context) ([]GeneratedImage, error) {
	var result imageHistoryResponse
	if err := c.doJSON(ctx, c.httpClient, http.MethodGet, "/chatbotAI/history-images", nil, nil, &result); err != nil {
		return nil, err
	}

	if !result.Success || result.Images == nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid image history response"}
	}

	return result.Images, nil
}

// UpdateImage replaces the prompt of a stored image record; the backend
// regenerates the image and returns the updated record. Regeneration uses
// the long image timeout.
func (c *Client) UpdateImage(ctx context.Context, id, prompt string) (*GeneratedImage, error) {
	var result updateImageResponse
	payload := updatePromptRequest{Prompt: prompt}
	path := "/chatbotAI/update-image/" + url.PathEscape(id)
	if err := c.doJSON(ctx, c.imageClient, http.MethodPut, path, nil, payload, &result); err != nil {
		return nil, err
	}

	if !result.Success || result.Image == nil {
		message := result.Error
		if message == "" {
			message = "cannot update message"
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: message}
	}

	return result.Image, nil
}

// DeleteImage removes a stored image record.
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	var result deleteImageResponse
	path := "/chatbotAI/delete-image/" + url.PathEscape(id)
	if err := c.doJSON(ctx, c.httpClient, http.MethodDelete, path, nil, nil, &result); err != nil {
		return err
	}

	if !result.Success {
		message := result.Message
		if message == "" {
			message = "failed to delete image"
		}
		return &ClientError{Type: ErrTypeInvalidResponse, Message: message}
	}

	return nil
}
