// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"testing"
	"time"

	"github.com/kagmin23/aiapp-tui/internal/api"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", s, err)
	}
	return parsed
}

func TestMerge_Interleaves(t *testing.T) {
	// Text entries at t=1 and t=3, an image at t=2: the merged feed
	// must come out [t1 text, t2 image, t3 text].
	texts := []api.TextMessage{
		{ID: "m1", Prompt: "hi", Response: "hello", CreatedAt: at(t, "2024-01-01T10:01:00Z")},
		{ID: "m2", Prompt: "bye", Response: "later", CreatedAt: at(t, "2024-01-01T10:03:00Z")},
	}
	images := []api.GeneratedImage{
		{ID: "i1", Prompt: "a cat", ImageURL: "https://x/cat.png", CreatedAt: at(t, "2024-01-01T10:02:00Z")},
	}

	entries := Merge(texts, images)

	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	wantIDs := []string{"m1", "i1", "m2"}
	wantKinds := []Kind{KindText, KindImage, KindText}
	for i, e := range entries {
		if e.ID != wantIDs[i] {
			t.Errorf("entries[%d].ID = %q, want %q", i, e.ID, wantIDs[i])
		}
		if e.Kind != wantKinds[i] {
			t.Errorf("entries[%d].Kind = %v, want %v", i, e.Kind, wantKinds[i])
		}
	}

	if entries[1].ImageRef != "https://x/cat.png" {
		t.Errorf("image entry ref = %q", entries[1].ImageRef)
	}
	if entries[0].Response != "hello" {
		t.Errorf("text entry response = %q", entries[0].Response)
	}
}

func TestMerge_LengthAndOrder(t *testing.T) {
	tests := []struct {
		name   string
		texts  []api.TextMessage
		images []api.GeneratedImage
	}{
		{"both empty", nil, nil},
		{"texts only", []api.TextMessage{
			{ID: "a", CreatedAt: at(t, "2024-01-01T10:00:00Z")},
			{ID: "b", CreatedAt: at(t, "2024-01-01T09:00:00Z")},
		}, nil},
		{"images only", nil, []api.GeneratedImage{
			{ID: "c", CreatedAt: at(t, "2024-01-01T08:00:00Z")},
		}},
		{"mixed unsorted", []api.TextMessage{
			{ID: "a", CreatedAt: at(t, "2024-01-03T00:00:00Z")},
			{ID: "b", CreatedAt: at(t, "2024-01-01T00:00:00Z")},
		}, []api.GeneratedImage{
			{ID: "c", CreatedAt: at(t, "2024-01-02T00:00:00Z")},
			{ID: "d", CreatedAt: at(t, "2024-01-04T00:00:00Z")},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries := Merge(tc.texts, tc.images)

			if len(entries) != len(tc.texts)+len(tc.images) {
				t.Fatalf("len = %d, want %d", len(entries), len(tc.texts)+len(tc.images))
			}
			for i := 1; i < len(entries); i++ {
				if entries[i].CreatedAt.Before(entries[i-1].CreatedAt) {
					t.Errorf("entries[%d] out of order: %v before %v",
						i, entries[i].CreatedAt, entries[i-1].CreatedAt)
				}
			}
		})
	}
}

func TestMerge_TiesKeepTextFirst(t *testing.T) {
	// Identical timestamps: stable sort keeps the concatenation order,
	// which puts text records ahead of image records.
	ts := at(t, "2024-01-01T10:00:00Z")
	entries := Merge(
		[]api.TextMessage{{ID: "text", CreatedAt: ts}},
		[]api.GeneratedImage{{ID: "image", CreatedAt: ts}},
	)

	if entries[0].ID != "text" || entries[1].ID != "image" {
		t.Errorf("tie order = [%s %s], want [text image]", entries[0].ID, entries[1].ID)
	}
}

func TestMerge_PrefersInlineBase64(t *testing.T) {
	entries := Merge(nil, []api.GeneratedImage{
		{ID: "i1", ImageURL: "https://x/1.png", ImageBase64: "abc", CreatedAt: at(t, "2024-01-01T10:00:00Z")},
	})

	if entries[0].ImageRef != "data:image/jpeg;base64,abc" {
		t.Errorf("ImageRef = %q, want inlined data URI", entries[0].ImageRef)
	}
}
