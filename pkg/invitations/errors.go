// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import "errors"

var (
	// ErrForbiddenRoleEscalation rejects invitations carrying an
	// administrator role. Admin roles are granted only by the provisioning
	// and replacement flows.
	ErrForbiddenRoleEscalation = errors.New("administrator roles cannot be granted through invitations")
	ErrUnknownRole             = errors.New("unknown invitation role")
	ErrUnauthorized            = errors.New("actor is not allowed to manage invitations for this workspace")
	ErrOwnerExists             = errors.New("workspace already has an owner")
	ErrOwnerInvitePending      = errors.New("workspace already has a pending owner invitation")
	ErrWorkspaceNotFound       = errors.New("workspace not found")
	ErrWorkspaceInactive       = errors.New("workspace is inactive or deleted")
	ErrTenantSuspended         = errors.New("tenant is suspended")
	ErrInvitationNotFound      = errors.New("invitation not found")
	ErrInvitationNotPending    = errors.New("invitation is not pending")
	ErrInvitationRevoked       = errors.New("invitation has been revoked")
	ErrInvitationExpired       = errors.New("invitation has expired")
)
