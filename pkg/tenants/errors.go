// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import "errors"

var (
	// ErrAdminEmailInUse guards tenant provisioning. The administrator
	// email must be fresh so identities are never shared across tenants.
	ErrAdminEmailInUse = errors.New("an identity already exists for the administrator email")
	// ErrActiveMembersExist blocks tenant deletion while any non-admin
	// membership is still active.
	ErrActiveMembersExist = errors.New("tenant still has active members")
	// ErrOldAdminProfileMissing aborts admin replacement when the outgoing
	// administrator has no stored profile to resolve.
	ErrOldAdminProfileMissing = errors.New("no profile found for the outgoing administrator")
	// ErrNoWorkspaceFound aborts admin replacement when the tenant has no
	// workspace to attach the new administrator to.
	ErrNoWorkspaceFound = errors.New("tenant has no workspace")

	ErrTenantNotFound     = errors.New("tenant not found")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrNotAdminMembership = errors.New("membership does not carry the tenant administrator role")
	// ErrAdminMembership keeps administrator memberships out of the plain
	// removal path, they only leave through the replacement flow.
	ErrAdminMembership = errors.New("administrator memberships are removed through the replacement flow")
	ErrUnauthorized       = errors.New("actor is not allowed to manage this tenant")
)
