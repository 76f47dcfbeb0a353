// Package client talks to the PropMan REST backend.
//
// # Overview
//
// HTTPClient.Request is the single primitive every call goes through. It
// attaches "Authorization: Bearer <token>" from the token store unless
// RequestOptions.NoAuth is set, JSON-encodes the body, decodes the JSON
// response, and turns any non-2xx status into *HTTPError. It never retries,
// caches or deduplicates.
//
// The typed helpers (Me, Login, Register, ListProperties, CreateProperty)
// implement the Client interface on top of Request.
//
// # Error Handling
//
// Transport failures wrap ErrNetwork. Auth rejections (401/403) match
// ErrUnauthorized via errors.Is. Use errors.As to get at *HTTPError.Status
// and Payload.
package client
