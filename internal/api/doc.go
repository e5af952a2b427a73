// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the aiapp backend API.
//
// The client covers four endpoint groups: auth (register/login/forgot
// password), text chat CRUD, image generation CRUD, and camera uploads.
// All calls accept a context and fail with a typed *ClientError; the
// caller never inspects transport status codes directly. Use
// ErrorMessage to turn any error into user-facing notice text.
//
// Image generation and regeneration run against a dedicated HTTP client
// with a much longer timeout than ordinary requests, since image
// synthesis routinely takes tens of seconds. Timeout expiry is reported
// identically to any other failure.
//
// Credentials (session token and user id) are injected with
// SetCredentials instead of being read from ambient storage, which keeps
// the client usable against httptest servers.
package api
