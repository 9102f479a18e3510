// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

// StorageInterface is the full surface over the entity collections. Every
// listing is cursor paginated: it returns one page and a continuation
// token, empty when the set is exhausted. There are no cross-collection
// transactions; each call is an independent write or read.
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
	ListWorkspaces(ctx context.Context, filter Filter, pageToken string) ([]*types.Workspace, string, error)

	CreateMembership(ctx context.Context, m *types.Membership) (*types.Membership, error)
	GetMembershipByID(ctx context.Context, id string) (*types.Membership, error)
	SetMembershipStatus(ctx context.Context, id, status string) error
	SetMembershipRole(ctx context.Context, id, role string) error
	DeleteMembership(ctx context.Context, id string) error
	ListMemberships(ctx context.Context, filter Filter, pageToken string) ([]*types.Membership, string, error)

	CreateInvitation(ctx context.Context, i *types.Invitation) (*types.Invitation, error)
	GetInvitationByID(ctx context.Context, id string) (*types.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
	SetInvitationStatus(ctx context.Context, id, status string) error
	DeleteInvitation(ctx context.Context, id string) error
	ListInvitations(ctx context.Context, filter Filter, pageToken string) ([]*types.Invitation, string, error)

	CreateUserProfile(ctx context.Context, p *types.UserProfile) error
	GetUserProfile(ctx context.Context, identityID string) (*types.UserProfile, error)
	DeleteUserProfile(ctx context.Context, identityID string) error

	CreateNotification(ctx context.Context, n *types.Notification) (*types.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
	ListNotifications(ctx context.Context, filter Filter, pageToken string) ([]*types.Notification, string, error)

	CreateAuditRecord(ctx context.Context, r *types.AuditRecord) (*types.AuditRecord, error)
	DeleteAuditRecord(ctx context.Context, id string) error
	ListAuditRecords(ctx context.Context, filter Filter, pageToken string) ([]*types.AuditRecord, string, error)

	CreateTaskBoard(ctx context.Context, b *types.TaskBoard) (*types.TaskBoard, error)
	DeleteTaskBoard(ctx context.Context, id string) error
	ListTaskBoards(ctx context.Context, filter Filter, pageToken string) ([]*types.TaskBoard, string, error)

	CreateTask(ctx context.Context, t *types.Task) (*types.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter Filter, pageToken string) ([]*types.Task, string, error)
}
