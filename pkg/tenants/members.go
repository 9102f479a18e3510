// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/authorization"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
)

// RemoveMember retires a workspace membership. The row is kept and
// flipped to removed rather than deleted, the removal has to stay
// visible to the deletion guard and the audit trail. Administrator
// memberships are refused, they only change hands through ReplaceAdmin.
func (s *Service) RemoveMember(ctx context.Context, actorID, tenantID, membershipID string) error {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.RemoveMember")
	defer span.End()

	allowed, err := s.authz.CheckTenantAccess(ctx, tenantID, actorID, authorization.CAN_EDIT_PERMISSION)
	if err != nil {
		return fmt.Errorf("failed to check tenant access: %w", err)
	}
	if !allowed {
		s.auditRemoval(ctx, tenantID, actorID, membershipID, audit.ResultFailure, "actor not allowed")
		return ErrUnauthorized
	}

	membership, err := s.storage.GetMembershipByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to load membership: %w", err)
	}
	if membership.TenantID != tenantID {
		return ErrMembershipNotFound
	}
	if types.IsAdminRole(membership.Role) {
		s.auditRemoval(ctx, tenantID, actorID, membershipID, audit.ResultFailure, "administrator membership")
		return ErrAdminMembership
	}

	if err := s.storage.SetMembershipStatus(ctx, membership.ID, types.MembershipStatusRemoved); err != nil {
		s.auditRemoval(ctx, tenantID, actorID, membershipID, audit.ResultFailure, "membership retirement failed")
		return fmt.Errorf("failed to retire membership: %w", err)
	}

	// The row is retired at this point, a failing tuple delete leaves the
	// role grant dangling and is reported as partial. A retry removes it.
	if membership.Role == types.RoleOwner {
		if err := s.authz.RemoveWorkspaceOwner(ctx, membership.WorkspaceID, membership.IdentityID); err != nil {
			s.auditRemoval(ctx, tenantID, actorID, membershipID, audit.ResultPartialFailure, "owner tuple removal failed")
			return fmt.Errorf("failed to remove owner role: %w", err)
		}
		// The owner column follows the membership out so the workspace
		// can take a new owner invitation.
		if err := s.storage.UpdateWorkspaceOwner(ctx, membership.WorkspaceID, ""); err != nil {
			s.auditRemoval(ctx, tenantID, actorID, membershipID, audit.ResultPartialFailure, "owner column clear failed")
			return fmt.Errorf("failed to clear workspace owner: %w", err)
		}
	} else {
		if err := s.authz.RemoveWorkspaceMember(ctx, membership.WorkspaceID, membership.IdentityID); err != nil {
			s.auditRemoval(ctx, tenantID, actorID, membershipID, audit.ResultPartialFailure, "member tuple removal failed")
			return fmt.Errorf("failed to remove member role: %w", err)
		}
	}

	s.auditRemoval(ctx, tenantID, actorID, membershipID, audit.ResultSuccess, membership.IdentityID)
	return nil
}

func (s *Service) auditRemoval(ctx context.Context, tenantID, actorID, membershipID, result, metadata string) {
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     tenantID,
		ActorID:      actorID,
		Action:       "member.remove",
		ResourceType: "membership",
		ResourceID:   membershipID,
		Result:       result,
		Metadata:     metadata,
	})
}
