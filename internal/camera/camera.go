// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package camera manages the captures directory. Terminals have no
// camera, so the app watches a directory instead: image files dropped
// there (by a phone sync, a screenshot tool, whatever) show up as
// pending captures ready to upload.
package camera

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// imageExts are the file extensions treated as captures.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MaxCaptureSize caps a single capture file. Uploads travel as base64
// inside a JSON body, so huge files would balloon the request.
const MaxCaptureSize = 10 * 1024 * 1024

// Capture is one image file in the captures directory.
type Capture struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// IsImageFile reports whether the path looks like a capture.
func IsImageFile(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// =============================================================================
// DIRECTORY SCANNING
// =============================================================================

// List scans the captures directory and returns its image files, newest
// first. A missing directory is not an error; it just has no captures
// yet.
func List(dir string) ([]Capture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read captures directory: %w", err)
	}

	var captures []Capture
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		captures = append(captures, Capture{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(captures, func(i, j int) bool {
		return captures[i].ModTime.After(captures[j].ModTime)
	})
	return captures, nil
}

// Encode reads a capture and returns its base64 payload for upload.
func Encode(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat capture: %w", err)
	}
	if info.Size() > MaxCaptureSize {
		return "", fmt.Errorf("capture too large: %d bytes (max %d)", info.Size(), MaxCaptureSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read capture: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
