// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/authorization"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
)

type Service struct {
	storage  StorageInterface
	authz    AuthzInterface
	kratos   KratosClientInterface
	mailer   MailerInterface
	audit    AuditInterface
	lifetime time.Duration

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	authz AuthzInterface,
	kratos KratosClientInterface,
	mailer MailerInterface,
	auditor AuditInterface,
	lifetime time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:  storage,
		authz:    authz,
		kratos:   kratos,
		mailer:   mailer,
		audit:    auditor,
		lifetime: lifetime,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

// Create issues a workspace invitation. Administrator roles are rejected
// outright, the owner role is only accepted while the workspace has
// neither an owner nor a pending owner invitation.
func (s *Service) Create(ctx context.Context, actorID, tenantID, workspaceID, email, role string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Create")
	defer span.End()

	// 1. Role gate before anything else, an admin invitation is never valid.
	if types.IsAdminRole(role) {
		s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "forbidden role escalation")
		return nil, ErrForbiddenRoleEscalation
	}
	if role != types.RoleOwner && role != types.RoleMember {
		s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "unknown role")
		return nil, ErrUnknownRole
	}

	// 2. The actor must hold can_invite on the workspace, which resolves
	// for the active owner and the tenant administrator.
	allowed, err := s.authz.CheckWorkspaceAccess(ctx, workspaceID, actorID, authorization.CAN_INVITE_PERMISSION)
	if err != nil {
		return nil, fmt.Errorf("failed to check invite permission: %w", err)
	}
	if !allowed {
		s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "actor not allowed")
		return nil, ErrUnauthorized
	}

	// 3. The workspace must exist, be active and belong to the tenant,
	// and the tenant must not be suspended.
	workspace, err := s.storage.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace.TenantID != tenantID || workspace.IsDeleted {
		return nil, ErrWorkspaceNotFound
	}
	if !workspace.IsActive {
		return nil, ErrWorkspaceInactive
	}

	tenant, err := s.storage.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if tenant.Status == types.TenantStatusSuspended {
		s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "tenant suspended")
		return nil, ErrTenantSuspended
	}

	// 4. Owner uniqueness covers both the committed owner and in-flight
	// owner invitations. Committed means an active OWNER membership, the
	// workspace owner column is a display field that provisioning points
	// at the administrator. The window between the list and the insert is
	// accepted, acceptance re-checks before activating.
	if role == types.RoleOwner {
		owners, _, err := s.storage.ListMemberships(ctx, storage.Filter{
			WorkspaceID: workspaceID,
			Role:        types.RoleOwner,
			Status:      types.MembershipStatusActive,
		}, "")
		if err != nil {
			return nil, fmt.Errorf("failed to check workspace owner: %w", err)
		}
		if len(owners) > 0 {
			s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "owner exists")
			return nil, ErrOwnerExists
		}
		pending, _, err := s.storage.ListInvitations(ctx, storage.Filter{
			WorkspaceID: workspaceID,
			Role:        types.RoleOwner,
			Status:      types.InvitationStatusPending,
		}, "")
		if err != nil {
			return nil, fmt.Errorf("failed to check pending owner invitations: %w", err)
		}
		if len(pending) > 0 {
			s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "owner invitation pending")
			return nil, ErrOwnerInvitePending
		}
	}

	// 5. Resolve or create the identity up front so the invitee exists in
	// Kratos before the invitation does.
	identityID, err := s.kratos.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity for %s: %w", email, err)
	}
	preExisting := identityID != ""
	if !preExisting {
		identityID, err = s.kratos.CreateIdentity(ctx, email, tenantID)
		if err != nil {
			s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "identity creation failed")
			return nil, fmt.Errorf("failed to create identity: %w", err)
		}
	}

	// 6. Profile creation is best effort, a duplicate means another
	// workspace got there first.
	err = s.storage.CreateUserProfile(ctx, &types.UserProfile{
		IdentityID: identityID,
		TenantID:   tenantID,
		Email:      email,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.logger.Warnf("failed to create profile for %s: %v", identityID, err)
	}

	now := time.Now().UTC()
	invitation, err := s.storage.CreateInvitation(ctx, &types.Invitation{
		TenantID:    tenantID,
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        role,
		InvitedBy:   actorID,
		Token:       uuid.NewString(),
		Status:      types.InvitationStatusPending,
		SentAt:      now,
		ExpiresAt:   now.Add(s.lifetime),
	})
	if err != nil {
		s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultFailure, "storage write failed")
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	// 7. Delivery is best effort. A fresh identity receives its first
	// login credential from Kratos itself, only pre-existing identities
	// get an invitation email.
	s.deliver(ctx, invitation, workspace, identityID, preExisting)

	s.auditCreate(ctx, tenantID, workspaceID, actorID, email, audit.ResultSuccess, invitation.ID)
	return invitation, nil
}

func (s *Service) deliver(ctx context.Context, invitation *types.Invitation, workspace *types.Workspace, identityID string, preExisting bool) {
	if preExisting {
		if err := s.mailer.SendInvitation(ctx, invitation.Email, invitation.Token, workspace.Name, invitation.Role); err != nil {
			s.logger.Errorf("failed to deliver invitation %s to %s: %v", invitation.ID, invitation.Email, err)
		}
	}

	if _, err := s.storage.CreateNotification(ctx, &types.Notification{
		TenantID:    invitation.TenantID,
		WorkspaceID: invitation.WorkspaceID,
		IdentityID:  identityID,
		Kind:        "invitation_sent",
		Payload:     invitation.ID,
	}); err != nil {
		s.logger.Errorf("failed to store invitation notification for %s: %v", invitation.ID, err)
	}
}

// Accept activates the membership an invitation describes. Accepting an
// already accepted invitation is a no-op that reports success.
func (s *Service) Accept(ctx context.Context, token, identityID string) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Accept")
	defer span.End()

	invitation, err := s.storage.GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}

	switch invitation.Status {
	case types.InvitationStatusAccepted:
		return s.existingMembership(ctx, invitation, identityID)
	case types.InvitationStatusRevoked:
		s.auditAccept(ctx, invitation, identityID, audit.ResultFailure, "revoked")
		return nil, ErrInvitationRevoked
	case types.InvitationStatusExpired:
		s.auditAccept(ctx, invitation, identityID, audit.ResultFailure, "expired")
		return nil, ErrInvitationExpired
	}

	// Expiry is advisory until observed. The row flips to EXPIRED here,
	// not on a timer.
	if time.Now().After(invitation.ExpiresAt) {
		if err := s.storage.SetInvitationStatus(ctx, invitation.ID, types.InvitationStatusExpired); err != nil {
			s.logger.Errorf("failed to mark invitation %s expired: %v", invitation.ID, err)
		}
		s.auditAccept(ctx, invitation, identityID, audit.ResultFailure, "expired on observation")
		return nil, ErrInvitationExpired
	}

	// A stored admin invitation is an informational artifact of tenant
	// provisioning, never a gate that grants the role. Refuse to
	// activate it.
	if types.IsAdminRole(invitation.Role) {
		s.auditAccept(ctx, invitation, identityID, audit.ResultFailure, "forbidden role escalation")
		return nil, ErrForbiddenRoleEscalation
	}

	// The uniqueness re-check counts active OWNER memberships held by
	// anyone else, closing the window left open at invitation time.
	if invitation.Role == types.RoleOwner {
		owners, _, err := s.storage.ListMemberships(ctx, storage.Filter{
			WorkspaceID: invitation.WorkspaceID,
			Role:        types.RoleOwner,
			Status:      types.MembershipStatusActive,
		}, "")
		if err != nil {
			return nil, fmt.Errorf("failed to check workspace owner: %w", err)
		}
		for _, owner := range owners {
			if owner.IdentityID != identityID {
				s.auditAccept(ctx, invitation, identityID, audit.ResultFailure, "owner exists")
				return nil, ErrOwnerExists
			}
		}
	}

	// Profile creation is tri-state: created, already there, or failed.
	// A duplicate means invitation creation or an earlier partial run got
	// there first, both are fine.
	err = s.storage.CreateUserProfile(ctx, &types.UserProfile{
		IdentityID: identityID,
		TenantID:   invitation.TenantID,
		Email:      invitation.Email,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		s.auditAccept(ctx, invitation, identityID, audit.ResultFailure, "profile write failed")
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}

	membership, err := s.storage.CreateMembership(ctx, &types.Membership{
		TenantID:    invitation.TenantID,
		WorkspaceID: invitation.WorkspaceID,
		IdentityID:  identityID,
		Role:        invitation.Role,
		Status:      types.MembershipStatusActive,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// A previous run created the membership but never closed out
			// the invitation. Pick it up and finish.
			membership, err = s.existingMembership(ctx, invitation, identityID)
			if err != nil {
				return nil, err
			}
		} else {
			s.auditAccept(ctx, invitation, identityID, audit.ResultFailure, "membership write failed")
			return nil, fmt.Errorf("failed to create membership: %w", err)
		}
	}

	if invitation.Role == types.RoleOwner {
		if err := s.storage.UpdateWorkspaceOwner(ctx, invitation.WorkspaceID, identityID); err != nil {
			s.auditAccept(ctx, invitation, identityID, audit.ResultPartialFailure, "owner column update failed")
			return nil, fmt.Errorf("failed to set workspace owner: %w", err)
		}
		err = s.authz.AssignWorkspaceOwner(ctx, invitation.WorkspaceID, identityID)
	} else {
		err = s.authz.AssignWorkspaceMember(ctx, invitation.WorkspaceID, identityID)
	}
	if err != nil {
		// The membership row stays, there is no rollback. A retry of the
		// accept lands on the duplicate-key path and rewrites the tuple.
		s.auditAccept(ctx, invitation, identityID, audit.ResultPartialFailure, "role tuple write failed")
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}

	if err := s.storage.SetInvitationStatus(ctx, invitation.ID, types.InvitationStatusAccepted); err != nil {
		s.auditAccept(ctx, invitation, identityID, audit.ResultPartialFailure, "status update failed")
		return nil, fmt.Errorf("failed to mark invitation accepted: %w", err)
	}

	if _, err := s.storage.CreateNotification(ctx, &types.Notification{
		TenantID:    invitation.TenantID,
		WorkspaceID: invitation.WorkspaceID,
		IdentityID:  invitation.InvitedBy,
		Kind:        "invitation_accepted",
		Payload:     invitation.ID,
	}); err != nil {
		s.logger.Errorf("failed to store acceptance notification for %s: %v", invitation.ID, err)
	}

	s.auditAccept(ctx, invitation, identityID, audit.ResultSuccess, membership.ID)
	return membership, nil
}

// existingMembership resolves the membership row an accept lands on when
// one already exists. A row that was soft-removed since the invitation
// went out is reactivated, and its role is realigned with the invitation
// so a re-invited member comes back with what they were invited as.
func (s *Service) existingMembership(ctx context.Context, invitation *types.Invitation, identityID string) (*types.Membership, error) {
	members, _, err := s.storage.ListMemberships(ctx, storage.Filter{
		WorkspaceID: invitation.WorkspaceID,
		IdentityID:  identityID,
	}, "")
	if err != nil {
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("invitation %s is accepted but no membership exists for %s", invitation.ID, identityID)
	}

	membership := members[0]
	if membership.Status != types.MembershipStatusActive {
		if err := s.storage.SetMembershipStatus(ctx, membership.ID, types.MembershipStatusActive); err != nil {
			s.auditAccept(ctx, invitation, identityID, audit.ResultPartialFailure, "membership reactivation failed")
			return nil, fmt.Errorf("failed to reactivate membership: %w", err)
		}
		membership.Status = types.MembershipStatusActive
	}
	if membership.Role != invitation.Role {
		if err := s.storage.SetMembershipRole(ctx, membership.ID, invitation.Role); err != nil {
			s.auditAccept(ctx, invitation, identityID, audit.ResultPartialFailure, "membership role update failed")
			return nil, fmt.Errorf("failed to update membership role: %w", err)
		}
		membership.Role = invitation.Role
	}
	return membership, nil
}

// Revoke cancels a pending invitation. Terminal invitations are left
// untouched.
func (s *Service) Revoke(ctx context.Context, actorID, invitationID string) error {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.Revoke")
	defer span.End()

	invitation, err := s.storage.GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvitationNotFound
		}
		return fmt.Errorf("failed to look up invitation: %w", err)
	}

	if invitation.Status != types.InvitationStatusPending {
		s.auditRevoke(ctx, invitation, actorID, audit.ResultFailure, "not pending")
		return ErrInvitationNotPending
	}

	allowed, err := s.authz.CheckWorkspaceAccess(ctx, invitation.WorkspaceID, actorID, authorization.CAN_INVITE_PERMISSION)
	if err != nil {
		return fmt.Errorf("failed to check revoke permission: %w", err)
	}
	if !allowed {
		s.auditRevoke(ctx, invitation, actorID, audit.ResultFailure, "actor not allowed")
		return ErrUnauthorized
	}

	if err := s.storage.SetInvitationStatus(ctx, invitation.ID, types.InvitationStatusRevoked); err != nil {
		s.auditRevoke(ctx, invitation, actorID, audit.ResultFailure, "status update failed")
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}

	s.auditRevoke(ctx, invitation, actorID, audit.ResultSuccess, "")
	return nil
}

func (s *Service) List(ctx context.Context, tenantID, pageToken string) ([]*types.Invitation, string, error) {
	ctx, span := s.tracer.Start(ctx, "invitations.Service.List")
	defer span.End()

	return s.storage.ListInvitations(ctx, storage.Filter{TenantID: tenantID}, pageToken)
}

func (s *Service) auditCreate(ctx context.Context, tenantID, workspaceID, actorID, email, result, metadata string) {
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     tenantID,
		WorkspaceID:  workspaceID,
		ActorID:      actorID,
		Action:       "invitation.create",
		ResourceType: "invitation",
		ResourceID:   email,
		Result:       result,
		Metadata:     metadata,
	})
}

func (s *Service) auditAccept(ctx context.Context, invitation *types.Invitation, identityID, result, metadata string) {
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     invitation.TenantID,
		WorkspaceID:  invitation.WorkspaceID,
		ActorID:      identityID,
		Action:       "invitation.accept",
		ResourceType: "invitation",
		ResourceID:   invitation.ID,
		Result:       result,
		Metadata:     metadata,
	})
}

func (s *Service) auditRevoke(ctx context.Context, invitation *types.Invitation, actorID, result, metadata string) {
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     invitation.TenantID,
		WorkspaceID:  invitation.WorkspaceID,
		ActorID:      actorID,
		Action:       "invitation.revoke",
		ResourceType: "invitation",
		ResourceID:   invitation.ID,
		Result:       result,
		Metadata:     metadata,
	})
}
