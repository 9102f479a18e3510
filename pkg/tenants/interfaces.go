// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

// Member is a membership row joined with the email stored on the
// member's profile.
type Member struct {
	*types.Membership
	Email string `json:"email"`
}

type ServiceInterface interface {
	CreateTenantWithAdmin(ctx context.Context, companyName, adminEmail, plan string) (*types.Tenant, *types.Invitation, error)
	GetTenant(ctx context.Context, tenantID string) (*types.Tenant, error)
	ListTenants(ctx context.Context, pageToken string) ([]*types.Tenant, string, error)
	SuspendTenant(ctx context.Context, actorID, tenantID string) error
	ReactivateTenant(ctx context.Context, actorID, tenantID string) error
	ChangeTenantPlan(ctx context.Context, actorID, tenantID, plan string) error

	CreateWorkspace(ctx context.Context, actorID, tenantID, name string) (*types.Workspace, error)
	ListWorkspaces(ctx context.Context, tenantID, pageToken string) ([]*types.Workspace, string, error)
	ListMembers(ctx context.Context, tenantID, pageToken string) ([]*Member, string, error)
	RemoveMember(ctx context.Context, actorID, tenantID, membershipID string) error

	DeleteTenant(ctx context.Context, actorID, tenantID string) error
	DeleteWorkspace(ctx context.Context, actorID, workspaceID string) error
	ReplaceAdmin(ctx context.Context, actorID, tenantID, newAdminEmail, oldMembershipID string) error
}

type StorageInterface interface {
	CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id string) (*types.Tenant, error)
	UpdateTenant(ctx context.Context, t *types.Tenant, paths []string) error
	DeleteTenant(ctx context.Context, id string) error
	ListTenants(ctx context.Context, pageToken string) ([]*types.Tenant, string, error)

	CreateWorkspace(ctx context.Context, w *types.Workspace) (*types.Workspace, error)
	GetWorkspaceByID(ctx context.Context, id string) (*types.Workspace, error)
	UpdateWorkspaceOwner(ctx context.Context, id, ownerIdentityID string) error
	DeleteWorkspace(ctx context.Context, id string) error
	ListWorkspaces(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.Workspace, string, error)

	CreateMembership(ctx context.Context, m *types.Membership) (*types.Membership, error)
	GetMembershipByID(ctx context.Context, id string) (*types.Membership, error)
	SetMembershipStatus(ctx context.Context, id, status string) error
	SetMembershipRole(ctx context.Context, id, role string) error
	DeleteMembership(ctx context.Context, id string) error
	ListMemberships(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.Membership, string, error)

	CreateInvitation(ctx context.Context, i *types.Invitation) (*types.Invitation, error)
	DeleteInvitation(ctx context.Context, id string) error
	ListInvitations(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.Invitation, string, error)

	CreateUserProfile(ctx context.Context, p *types.UserProfile) error
	GetUserProfile(ctx context.Context, identityID string) (*types.UserProfile, error)
	DeleteUserProfile(ctx context.Context, identityID string) error

	DeleteNotification(ctx context.Context, id string) error
	ListNotifications(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.Notification, string, error)

	DeleteAuditRecord(ctx context.Context, id string) error
	ListAuditRecords(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.AuditRecord, string, error)

	DeleteTaskBoard(ctx context.Context, id string) error
	ListTaskBoards(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.TaskBoard, string, error)

	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.Task, string, error)
}

type AuthzInterface interface {
	AssignTenantAdmin(ctx context.Context, tenantID, user string) error
	RemoveTenantAdmin(ctx context.Context, tenantID, user string) error
	AssignWorkspaceOwner(ctx context.Context, workspaceID, user string) error
	RemoveWorkspaceOwner(ctx context.Context, workspaceID, user string) error
	RemoveWorkspaceMember(ctx context.Context, workspaceID, user string) error
	LinkTenantToPlatform(ctx context.Context, tenantID, platformID string) error
	LinkWorkspaceToTenant(ctx context.Context, workspaceID, tenantID string) error
	CheckTenantAccess(ctx context.Context, tenantID, user, permission string) (bool, error)
	DeleteTenantTuples(ctx context.Context, tenantID string) error
	DeleteWorkspaceTuples(ctx context.Context, workspaceID string) error
}

type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email, tenantID string) (string, error)
	DisableIdentity(ctx context.Context, id string) error
	EnableIdentity(ctx context.Context, id string) error
	DeleteIdentity(ctx context.Context, id string) error
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}

type MailerInterface interface {
	SendRecoveryLink(ctx context.Context, to, link string) error
}

type AuditInterface interface {
	Record(ctx context.Context, record *types.AuditRecord)
}
