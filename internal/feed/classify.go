// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed maintains the unified chat transcript: settled history
// merged from the backend plus optimistic entries for in-flight
// submissions.
package feed

import "strings"

// imageTriggers are the substrings that route a prompt to image
// generation. English plus the Vietnamese draw/create-image vocabulary.
var imageTriggers = []string{
	"draw",
	"generate image",
	"image of",
	"picture of",
	"create image",
	"make image",
	"generate picture",
	"create picture",
	"draw me",
	"vẽ",
	"ảnh",
	"hình ảnh",
	"tạo ảnh",
	"tạo hình",
	"sinh ảnh",
}

// ClassifyPrompt decides whether a prompt requests an image or a text
// reply. The check is substring containment over the lower-cased input,
// not word-boundary matching, so a word merely containing a trigger also
// matches. That false-positive tradeoff is intentional and kept.
//
// Empty and whitespace-only input is rejected upstream and never reaches
// this function.
func ClassifyPrompt(prompt string) Kind {
	lowered := strings.ToLower(prompt)
	for _, trigger := range imageTriggers {
		if strings.Contains(lowered, trigger) {
			return KindImage
		}
	}
	return KindText
}
