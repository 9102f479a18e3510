// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
)

type ProviderInterface interface {
	// Verifier returns the token verifier for the configured OIDC issuer.
	Verifier(*oidc.Config) *oidc.IDTokenVerifier
}

type TokenVerifierInterface interface {
	// VerifyToken validates a raw JWT and its authorization claims.
	// Returns the token subject when the caller is allowed in.
	VerifyToken(ctx context.Context, rawToken string) (string, error)
}
