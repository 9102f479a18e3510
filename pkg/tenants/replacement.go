// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/kratos"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
)

// ReplaceAdmin swaps the tenant administrator. The outgoing admin is
// disabled before the incoming one exists, so the tenant never has two
// enabled administrators mid-transition. The price is a window with
// zero administrators if a later step fails, which this flow accepts.
func (s *Service) ReplaceAdmin(ctx context.Context, actorID, tenantID, newAdminEmail, oldMembershipID string) error {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.ReplaceAdmin")
	defer span.End()

	// 1. The outgoing membership and its profile.
	oldMembership, err := s.storage.GetMembershipByID(ctx, oldMembershipID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to load membership: %w", err)
	}
	if oldMembership.TenantID != tenantID {
		return ErrMembershipNotFound
	}
	if oldMembership.Role != types.RoleTenantAdmin {
		return ErrNotAdminMembership
	}

	oldProfile, err := s.storage.GetUserProfile(ctx, oldMembership.IdentityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.auditReplacement(ctx, tenantID, actorID, audit.ResultFailure, "old admin profile missing")
			return ErrOldAdminProfileMissing
		}
		return fmt.Errorf("failed to load profile: %w", err)
	}

	// 2-3. Disable the outgoing identity and drop its admin role.
	if err := s.kratos.DisableIdentity(ctx, oldMembership.IdentityID); err != nil && !errors.Is(err, kratos.ErrIdentityNotFound) {
		return s.replacementFailed(ctx, tenantID, actorID, "identity disable failed", err)
	}
	if err := s.authz.RemoveTenantAdmin(ctx, tenantID, oldMembership.IdentityID); err != nil {
		return s.replacementFailed(ctx, tenantID, actorID, "admin role removal failed", err)
	}

	// 4. Retire the membership row.
	if err := s.storage.SetMembershipStatus(ctx, oldMembership.ID, types.MembershipStatusRemoved); err != nil {
		return s.replacementFailed(ctx, tenantID, actorID, "membership retirement failed", err)
	}

	// 5. Resolve or create the incoming identity.
	newIdentityID, err := s.kratos.GetIdentityIDByEmail(ctx, newAdminEmail)
	if err != nil {
		return s.replacementFailed(ctx, tenantID, actorID, "identity lookup failed", err)
	}
	if newIdentityID == "" {
		newIdentityID, err = s.kratos.CreateIdentity(ctx, newAdminEmail, tenantID)
		if err != nil {
			return s.replacementFailed(ctx, tenantID, actorID, "identity creation failed", err)
		}
	}

	// 6. Grant the admin role.
	if err := s.authz.AssignTenantAdmin(ctx, tenantID, newIdentityID); err != nil {
		return s.replacementFailed(ctx, tenantID, actorID, "admin role assignment failed", err)
	}

	// 7. Profile is best effort, it may already exist.
	err = s.storage.CreateUserProfile(ctx, &types.UserProfile{
		IdentityID: newIdentityID,
		TenantID:   tenantID,
		Email:      newAdminEmail,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.logger.Warnf("failed to create profile for %s: %v", newIdentityID, err)
	}

	// 8. The new membership attaches to the tenant's first workspace.
	workspaces, _, err := s.storage.ListWorkspaces(ctx, storage.Filter{TenantID: tenantID}, "")
	if err != nil {
		return s.replacementFailed(ctx, tenantID, actorID, "workspace lookup failed", err)
	}
	if len(workspaces) == 0 {
		s.auditReplacement(ctx, tenantID, actorID, audit.ResultPartialFailure, "no workspace found")
		return ErrNoWorkspaceFound
	}

	// 9. Activate the incoming administrator. The incoming identity may
	// already hold a membership in that workspace, promotion reuses the
	// row instead of tripping over the uniqueness constraint.
	if _, err := s.storage.CreateMembership(ctx, &types.Membership{
		TenantID:    tenantID,
		WorkspaceID: workspaces[0].ID,
		IdentityID:  newIdentityID,
		Role:        types.RoleTenantAdmin,
		Status:      types.MembershipStatusActive,
	}); err != nil {
		if !errors.Is(err, storage.ErrDuplicateKey) {
			return s.replacementFailed(ctx, tenantID, actorID, "membership creation failed", err)
		}
		if err := s.promoteMembership(ctx, workspaces[0].ID, newIdentityID); err != nil {
			return s.replacementFailed(ctx, tenantID, actorID, "membership promotion failed", err)
		}
	}

	// 10. The audit record captures both sides of the handover.
	s.auditReplacement(ctx, tenantID, actorID, audit.ResultSuccess,
		fmt.Sprintf("replaced %s with %s", oldProfile.Email, newAdminEmail))
	return nil
}

// promoteMembership lifts an existing membership row to the
// administrator role, reactivating it if it was soft-removed.
func (s *Service) promoteMembership(ctx context.Context, workspaceID, identityID string) error {
	members, _, err := s.storage.ListMemberships(ctx, storage.Filter{
		WorkspaceID: workspaceID,
		IdentityID:  identityID,
	}, "")
	if err != nil {
		return fmt.Errorf("failed to look up membership: %w", err)
	}
	if len(members) == 0 {
		return fmt.Errorf("no membership found for %s in workspace %s", identityID, workspaceID)
	}

	membership := members[0]
	if membership.Role != types.RoleTenantAdmin {
		if err := s.storage.SetMembershipRole(ctx, membership.ID, types.RoleTenantAdmin); err != nil {
			return fmt.Errorf("failed to update membership role: %w", err)
		}
	}
	if membership.Status != types.MembershipStatusActive {
		if err := s.storage.SetMembershipStatus(ctx, membership.ID, types.MembershipStatusActive); err != nil {
			return fmt.Errorf("failed to reactivate membership: %w", err)
		}
	}
	return nil
}

func (s *Service) replacementFailed(ctx context.Context, tenantID, actorID, step string, err error) error {
	s.auditReplacement(ctx, tenantID, actorID, audit.ResultPartialFailure, step)
	return fmt.Errorf("%s: %w", step, err)
}

func (s *Service) auditReplacement(ctx context.Context, tenantID, actorID, result, metadata string) {
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     tenantID,
		ActorID:      actorID,
		Action:       "tenant.replace_admin",
		ResourceType: "tenant",
		ResourceID:   tenantID,
		Result:       result,
		Metadata:     metadata,
	})
}
