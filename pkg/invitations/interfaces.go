// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

type ServiceInterface interface {
	Create(ctx context.Context, actorID, tenantID, workspaceID, email, role string) (*types.Invitation, error)
	Accept(ctx context.Context, token, identityID string) (*types.Membership, error)
	Revoke(ctx context.Context, actorID, invitationID string) error
	List(ctx context.Context, tenantID, pageToken string) ([]*types.Invitation, string, error)
}

type StorageInterface interface {
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	GetWorkspaceByID(ctx context.Context, id string) (*types.Workspace, error)
	UpdateWorkspaceOwner(ctx context.Context, id, ownerIdentityID string) error
	CreateMembership(ctx context.Context, m *types.Membership) (*types.Membership, error)
	SetMembershipStatus(ctx context.Context, id, status string) error
	SetMembershipRole(ctx context.Context, id, role string) error
	ListMemberships(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.Membership, string, error)
	CreateInvitation(ctx context.Context, i *types.Invitation) (*types.Invitation, error)
	GetInvitationByID(ctx context.Context, id string) (*types.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
	SetInvitationStatus(ctx context.Context, id, status string) error
	ListInvitations(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.Invitation, string, error)
	CreateUserProfile(ctx context.Context, p *types.UserProfile) error
	CreateNotification(ctx context.Context, n *types.Notification) (*types.Notification, error)
}

type AuthzInterface interface {
	CheckWorkspaceAccess(ctx context.Context, workspaceID, user, permission string) (bool, error)
	AssignWorkspaceOwner(ctx context.Context, workspaceID, user string) error
	AssignWorkspaceMember(ctx context.Context, workspaceID, user string) error
}

type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email, tenantID string) (string, error)
}

type MailerInterface interface {
	SendInvitation(ctx context.Context, to, token, workspaceName, role string) error
}

type AuditInterface interface {
	Record(ctx context.Context, record *types.AuditRecord)
}
