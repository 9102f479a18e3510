// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import "context"

// Private key type, keeps the value out of reach of other packages.
type contextKey struct{}

var userContextKey = contextKey{}

// WithUserID returns a child context carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// GetUserID returns the authenticated user ID stored by the middleware,
// or false when the request was not authenticated.
func GetUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userContextKey).(string)
	return id, ok
}
