// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

// StorageInterface is the subset of the storage layer the webhook
// handlers need.
type StorageInterface interface {
	CreateUserProfile(ctx context.Context, p *types.UserProfile) error
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
}

type AuditInterface interface {
	Record(ctx context.Context, record *types.AuditRecord)
}

type ServiceInterface interface {
	HandleRegistration(ctx context.Context, identityID, email, tenantID string) error
}
