// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Roles a membership or invitation can carry. Admin roles are only ever
// granted by the provisioning and replacement orchestrators, never through
// the invitation path.
const (
	RoleTenantAdmin        = "tenant_admin"
	RoleOwner              = "owner"
	RoleMember             = "member"
	RolePlatformSuperAdmin = "platform_super_admin"
)

const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)

const (
	MembershipStatusActive  = "active"
	MembershipStatusRemoved = "removed"
)

const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRevoked  = "revoked"
	InvitationStatusExpired  = "expired"
)

type Tenant struct {
	ID             string    `db:"id" json:"id"`
	CompanyName    string    `db:"company_name" json:"company_name"`
	Status         string    `db:"status" json:"status"`
	Plan           string    `db:"plan" json:"plan"`
	SubscriptionID string    `db:"subscription_id" json:"subscription_id"`
	CustomerID     string    `db:"customer_id" json:"customer_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type Workspace struct {
	ID              string    `db:"id" json:"id"`
	TenantID        string    `db:"tenant_id" json:"tenant_id"`
	Name            string    `db:"name" json:"name"`
	OwnerIdentityID string    `db:"owner_identity_id" json:"owner_identity_id"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	IsDeleted       bool      `db:"is_deleted" json:"is_deleted"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Membership struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	IdentityID  string    `db:"identity_id" json:"identity_id"`
	Role        string    `db:"role" json:"role"`
	Status      string    `db:"status" json:"status"`
	JoinedAt    time.Time `db:"joined_at" json:"joined_at"`
}

type Invitation struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	Email       string    `db:"email" json:"email"`
	Role        string    `db:"role" json:"role"`
	InvitedBy   string    `db:"invited_by" json:"invited_by"`
	Token       string    `db:"token" json:"token"`
	Status      string    `db:"status" json:"status"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
}

// UserProfile is denormalized identity metadata keyed by the Kratos
// identity id, used to resolve identity to email without a round trip to
// the identity provider.
type UserProfile struct {
	IdentityID string    `db:"identity_id" json:"identity_id"`
	TenantID   string    `db:"tenant_id" json:"tenant_id"`
	Email      string    `db:"email" json:"email"`
	Name       string    `db:"name" json:"name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type Notification struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	IdentityID  string    `db:"identity_id" json:"identity_id"`
	Kind        string    `db:"kind" json:"kind"`
	Payload     string    `db:"payload" json:"payload"`
	Read        bool      `db:"read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AuditRecord rows are append-only. Nothing in the engine updates or
// deletes them outside of the tenant-wide cascading deletion.
type AuditRecord struct {
	ID           string    `db:"id" json:"id"`
	TenantID     string    `db:"tenant_id" json:"tenant_id"`
	WorkspaceID  string    `db:"workspace_id" json:"workspace_id"`
	ActorID      string    `db:"actor_id" json:"actor_id"`
	Action       string    `db:"action" json:"action"`
	ResourceType string    `db:"resource_type" json:"resource_type"`
	ResourceID   string    `db:"resource_id" json:"resource_id"`
	Result       string    `db:"result" json:"result"`
	Metadata     string    `db:"metadata" json:"metadata"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type TaskBoard struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	Name        string    `db:"name" json:"name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Task struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	BoardID     string    `db:"board_id" json:"board_id"`
	Title       string    `db:"title" json:"title"`
	Status      string    `db:"status" json:"status"`
	AssigneeID  string    `db:"assignee_id" json:"assignee_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// IsAdminRole reports whether role is one of the administrator roles that
// must never be granted through invitation acceptance.
func IsAdminRole(role string) bool {
	return role == RoleTenantAdmin || role == RolePlatformSuperAdmin
}
