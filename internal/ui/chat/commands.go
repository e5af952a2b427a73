// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the chat screen: the merged transcript of
// text and image history with optimistic submissions, inline edit, and
// confirmed delete.
package chat

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kagmin23/aiapp-tui/internal/api"
	"github.com/kagmin23/aiapp-tui/internal/feed"
)

// loadHistoryCmd fetches both history collections concurrently and
// merges them. Either failure yields one HistoryFailedMsg; a partial
// merge is never produced.
func loadHistoryCmd(backend Backend) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var (
			wg                sync.WaitGroup
			texts             []api.TextMessage
			images            []api.GeneratedImage
			textErr, imageErr error
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			texts, textErr = backend.TextHistory(ctx)
		}()
		go func() {
			defer wg.Done()
			images, imageErr = backend.ImageHistory(ctx)
		}()
		wg.Wait()

		if textErr != nil {
			return HistoryFailedMsg{Err: textErr}
		}
		if imageErr != nil {
			return HistoryFailedMsg{Err: imageErr}
		}

		return HistoryLoadedMsg{Entries: feed.Merge(texts, images)}
	}
}

// submitCmd issues the generation call for a just-submitted entry,
// routed by its kind. The result comes back keyed by the temp id.
func submitCmd(backend Backend, entry *feed.Entry) tea.Cmd {
	id, kind, prompt := entry.ID, entry.Kind, entry.Prompt
	return func() tea.Msg {
		ctx := context.Background()

		var result string
		var err error
		if kind == feed.KindImage {
			result, err = backend.GenerateImage(ctx, prompt)
		} else {
			result, err = backend.SendText(ctx, prompt)
		}
		if err != nil {
			return SubmitFailedMsg{TempID: id, Kind: kind, Err: err}
		}
		return SettledMsg{TempID: id, Kind: kind, Result: result}
	}
}

// updateCmd issues the kind-scoped update call for a saved edit.
func updateCmd(backend Backend, id string, kind feed.Kind, prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if kind == feed.KindImage {
			img, err := backend.UpdateImage(ctx, id, prompt)
			if err != nil {
				return UpdateFailedMsg{ID: id, Err: err}
			}
			ref, err := img.ImageRef()
			if err != nil {
				return UpdateFailedMsg{ID: id, Err: err}
			}
			return UpdateDoneMsg{ID: id, Prompt: img.Prompt, Result: ref}
		}

		msg, err := backend.UpdateText(ctx, id, prompt)
		if err != nil {
			return UpdateFailedMsg{ID: id, Err: err}
		}
		return UpdateDoneMsg{ID: id, Prompt: msg.Prompt, Result: msg.Response}
	}
}

// deleteCmd issues the kind-scoped delete call for a confirmed delete
// of a persisted entry. Temp entries never reach here.
func deleteCmd(backend Backend, id string, kind feed.Kind) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var err error
		if kind == feed.KindImage {
			err = backend.DeleteImage(ctx, id)
		} else {
			err = backend.DeleteText(ctx, id)
		}
		if err != nil {
			return DeleteFailedMsg{ID: id, Err: err}
		}
		return DeleteDoneMsg{ID: id}
	}
}
