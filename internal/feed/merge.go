// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed maintains the unified chat transcript: settled history
// merged from the backend plus optimistic entries for in-flight
// submissions.
package feed

import (
	"sort"

	"github.com/kagmin23/aiapp-tui/internal/api"
)

// Merge combines the two independently-fetched history collections into
// one feed ordered by CreatedAt ascending (oldest first, transcript
// order). Output length always equals the sum of the input lengths;
// nothing is dropped or duplicated. Ties on CreatedAt keep text records
// ahead of image records (concatenation order, stable sort).
//
// Merge is only called when BOTH fetches succeeded. If either failed the
// caller keeps the previous feed untouched and surfaces one combined
// load failure; a partial merge with one side missing is never shown.
func Merge(texts []api.TextMessage, images []api.GeneratedImage) []*Entry {
	entries := make([]*Entry, 0, len(texts)+len(images))

	for _, msg := range texts {
		entries = append(entries, &Entry{
			ID:        msg.ID,
			Kind:      KindText,
			Prompt:    msg.Prompt,
			Response:  msg.Response,
			CreatedAt: msg.CreatedAt,
		})
	}

	for _, img := range images {
		ref := img.ImageURL
		if r, err := img.ImageRef(); err == nil {
			ref = r
		}
		entries = append(entries, &Entry{
			ID:        img.ID,
			Kind:      KindImage,
			Prompt:    img.Prompt,
			ImageRef:  ref,
			CreatedAt: img.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	return entries
}
