// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiapp backend API.
package api

import "time"

// =============================================================================
// AUTH TYPES
// =============================================================================

// User identifies an account on the backend.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// AuthResult is the outcome of a successful login or registration.
type AuthResult struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

// registerRequest is the POST /auth/register payload.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the POST /auth/login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// forgotPasswordRequest is the POST /auth/forgot-password payload.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// =============================================================================
// TEXT CHAT TYPES
// =============================================================================

// TextMessage is one settled text conversation turn as stored by the
// backend.
type TextMessage struct {
	ID        string    `json:"_id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// sendMessageRequest is the POST /chatbotAI/chat payload.
type sendMessageRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// sendMessageResponse is the POST /chatbotAI/chat response.
type sendMessageResponse struct {
	Reply string `json:"reply"`
}

// updatePromptRequest is the payload for both update endpoints.
type updatePromptRequest struct {
	Prompt string `json:"prompt"`
}

// =============================================================================
// IMAGE TYPES
// =============================================================================

// GeneratedImage is one settled image generation record as stored by the
// backend. ImageURL carries either a remote URL or a data URI; ImageBase64
// is the raw base64 payload when the backend inlines the image.
type GeneratedImage struct {
	ID          string    `json:"_id"`
	Prompt      string    `json:"prompt"`
	ImageURL    string    `json:"imageUrl"`
	ImageBase64 string    `json:"imageBase64,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// generateImageRequest is the POST /chatbotAI/generate-image payload.
type generateImageRequest struct {
	Prompt string `json:"prompt"`
	UserID string `json:"userId"`
}

// generateImageResponse is the POST /chatbotAI/generate-image response.
type generateImageResponse struct {
	Success     bool   `json:"success"`
	Prompt      string `json:"prompt"`
	ImageBase64 string `json:"imageBase64"`
	ImageURL    string `json:"imageUrl"`
	Size        int    `json:"size"`
}

// imageHistoryResponse is the GET /chatbotAI/history-images response.
type imageHistoryResponse struct {
	Success bool             `json:"success"`
	Images  []GeneratedImage `json:"images"`
}

// updateImageResponse is the PUT /chatbotAI/update-image/{id} response.
type updateImageResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Image   *GeneratedImage `json:"image,omitempty"`
}

// deleteImageResponse is the DELETE /chatbotAI/delete-image/{id} response.
type deleteImageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// =============================================================================
// CAMERA TYPES
// =============================================================================

// Photo is one uploaded camera capture.
type Photo struct {
	ID        string    `json:"_id"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// uploadPhotoRequest is the POST /camera/upload payload.
type uploadPhotoRequest struct {
	Camera string `json:"camera"`
}
