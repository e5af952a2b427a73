// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiapp backend API.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client pointed at the given test server with
// credentials already set.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client := NewClientWithConfig(&ClientConfig{
		BaseURL:           srv.URL,
		Timeout:           2 * time.Second,
		ImageTimeout:      2 * time.Second,
		RequestsPerSecond: 0, // No throttling in tests
	})
	client.SetCredentials("token-123", "user-1")
	return client
}

// =============================================================================
// AUTH TESTS
// =============================================================================

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "a@b.c", payload["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"message": "ok",
			"token":   "tok",
			"user":    map[string]string{"_id": "u1", "email": "a@b.c"},
		})
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	result, err := client.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", result.Token)

	// Credentials are stored for subsequent calls
	token, userID := client.credentials()
	assert.Equal(t, "tok", token)
	assert.Equal(t, "u1", userID)
}

func TestLogin_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ok",
			"user":    map[string]string{"_id": "u1"},
		})
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := client.Login(context.Background(), "a@b.c", "secret")
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeInvalidResponse, clientErr.Type)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", ErrorMessage(err))
}

// =============================================================================
// TEXT CHAT TESTS
// =============================================================================

func TestSendText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chatbotAI/chat", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello", payload["message"])
		assert.Equal(t, "user-1", payload["userId"])

		json.NewEncoder(w).Encode(map[string]string{"reply": "hi there"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	reply, err := client.SendText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
}

func TestSendText_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"reply": ""})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.SendText(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response returned")
}

func TestSendText_NotSignedIn(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{BaseURL: "http://localhost:1"})
	_, err := client.SendText(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestTextHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chatbotAI/history", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("userId"))

		json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "m1", "prompt": "hi", "response": "hello", "createdAt": "2024-01-01T10:00:00Z"},
			{"_id": "m2", "prompt": "how", "response": "fine", "createdAt": "2024-01-01T11:00:00Z"},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	history, err := client.TextHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "m1", history[0].ID)
	assert.Equal(t, 2024, history[0].CreatedAt.Year())
}

func TestDeleteText(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	require.NoError(t, client.DeleteText(context.Background(), "m1"))
	assert.Equal(t, "/chatbotAI/m1", gotPath)
}

// =============================================================================
// IMAGE TESTS
// =============================================================================

func TestGenerateImage_PrefersBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chatbotAI/generate-image", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success":     true,
			"imageBase64": "abc123",
			"imageUrl":    "https://cdn.example.com/cat.png",
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ref, err := client.GenerateImage(context.Background(), "draw a cat")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,abc123", ref)
}

func TestGenerateImage_URLFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"imageUrl": "https://cdn.example.com/cat.png",
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	ref, err := client.GenerateImage(context.Background(), "draw a cat")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/cat.png", ref)
}

func TestGenerateImage_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.GenerateImage(context.Background(), "draw a cat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image data")
}

func TestNormalizeImageRef(t *testing.T) {
	tests := []struct {
		name    string
		base64  string
		url     string
		want    string
		wantErr bool
	}{
		{"raw base64 wrapped", "abc", "", "data:image/jpeg;base64,abc", false},
		{"data URI passthrough", "data:image/png;base64,xyz", "", "data:image/png;base64,xyz", false},
		{"https url", "", "https://x/y.png", "https://x/y.png", false},
		{"http url", "", "http://x/y.png", "http://x/y.png", false},
		{"garbage url", "", "file:///etc/passwd", "", true},
		{"nothing", "", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeImageRef(tc.base64, tc.url)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestImageHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"images": []map[string]any{
				{"_id": "i1", "prompt": "a cat", "imageUrl": "https://x/1.png", "createdAt": "2024-01-01T10:30:00Z"},
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	images, err := client.ImageHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "i1", images[0].ID)
}

func TestImageHistory_InvalidEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.ImageHistory(context.Background())
	require.Error(t, err)
}

func TestUpdateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chatbotAI/update-image/i1", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"image": map[string]any{
				"_id": "i1", "prompt": "a dog", "imageBase64": "zzz",
				"createdAt": "2024-01-02T10:00:00Z",
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	img, err := client.UpdateImage(context.Background(), "i1", "a dog")
	require.NoError(t, err)
	assert.Equal(t, "a dog", img.Prompt)

	ref, err := img.ImageRef()
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,zzz", ref)
}

func TestUpdateImage_BackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "no such image"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.UpdateImage(context.Background(), "i1", "a dog")
	require.Error(t, err)
	assert.Equal(t, "no such image", ErrorMessage(err))
}

// =============================================================================
// ERROR HANDLING TESTS
// =============================================================================

func TestStatusError_ServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid prompt"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.SendText(context.Background(), "hello")
	require.Error(t, err)

	var clientErr *ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, ErrTypeBadRequest, clientErr.Type)
	assert.Equal(t, "Invalid prompt", clientErr.Message)
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	client.SetCredentials("t", "u")

	_, err := client.SendText(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestErrorMessage_Fallback(t *testing.T) {
	assert.Equal(t, "Please try again later.", ErrorMessage(nil))
	assert.Equal(t, "boom", ErrorMessage(&ClientError{Message: "boom"}))
}
