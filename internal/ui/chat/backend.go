// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat screen: the merged transcript of
// text and image history with optimistic submissions, inline edit, and
// confirmed delete.
package chat

import (
	"context"

	"github.com/kagmin23/aiapp-tui/internal/api"
)

// Backend is the remote API surface the chat screen drives. *api.Client
// satisfies it; tests substitute a stub.
type Backend interface {
	TextHistory(ctx context.Context) ([]api.TextMessage, error)
	ImageHistory(ctx context.Context) ([]api.GeneratedImage, error)

	SendText(ctx context.Context, prompt string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)

	UpdateText(ctx context.Context, id, prompt string) (*api.TextMessage, error)
	UpdateImage(ctx context.Context, id, prompt string) (*api.GeneratedImage, error)

	DeleteText(ctx context.Context, id string) error
	DeleteImage(ctx context.Context, id string) error
}
