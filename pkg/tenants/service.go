// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/authorization"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/pagination"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
)

// DefaultWorkspaceName is the workspace every tenant starts with.
const DefaultWorkspaceName = "General"

type Service struct {
	storage    StorageInterface
	authz      AuthzInterface
	kratos     KratosClientInterface
	mailer     MailerInterface
	audit      AuditInterface
	platformID string
	lifetime   time.Duration

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
	platformID string,
	lifetime time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:    storage,
		authz:      authz,
		kratos:     kratos,
		mailer:     mailer,
		audit:      auditor,
		platformID: platformID,
		lifetime:   lifetime,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

// CreateTenantWithAdmin provisions a tenant, its default workspace and
// its first administrator in one pass. The store has no transactions, a
// failing step leaves every earlier write in place and is reported as a
// partial failure, never rolled back.
func (s *Service) CreateTenantWithAdmin(ctx context.Context, companyName, adminEmail, plan string) (*types.Tenant, *types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.CreateTenantWithAdmin")
	defer span.End()

	// 1. The administrator email must not resolve to an existing
	// identity, identities are never shared across tenants.
	existingID, err := s.kratos.GetIdentityIDByEmail(ctx, adminEmail)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check administrator email: %w", err)
	}
	if existingID != "" {
		s.auditProvision(ctx, "", adminEmail, audit.ResultFailure, "admin email in use")
		return nil, nil, ErrAdminEmailInUse
	}

	// 2. Tenant row first, everything below hangs off its id.
	tenant, err := s.storage.CreateTenant(ctx, &types.Tenant{
		CompanyName: companyName,
		Status:      types.TenantStatusActive,
		Plan:        plan,
	})
	if err != nil {
		s.auditProvision(ctx, "", adminEmail, audit.ResultFailure, "tenant creation failed")
		return nil, nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	if err := s.authz.LinkTenantToPlatform(ctx, tenant.ID, s.platformID); err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "platform link failed", err)
	}

	// 3. Default workspace with a placeholder owner until the
	// administrator identity exists.
	workspace, err := s.storage.CreateWorkspace(ctx, &types.Workspace{
		TenantID: tenant.ID,
		Name:     DefaultWorkspaceName,
		IsActive: true,
	})
	if err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "workspace creation failed", err)
	}
	if err := s.authz.LinkWorkspaceToTenant(ctx, workspace.ID, tenant.ID); err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "workspace link failed", err)
	}

	// 4. Administrator identity, tagged with the tenant, plus the admin
	// role tuple and the resolved workspace owner.
	adminID, err := s.kratos.CreateIdentity(ctx, adminEmail, tenant.ID)
	if err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "identity creation failed", err)
	}
	if err := s.authz.AssignTenantAdmin(ctx, tenant.ID, adminID); err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "admin role assignment failed", err)
	}
	if err := s.storage.UpdateWorkspaceOwner(ctx, workspace.ID, adminID); err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "workspace owner update failed", err)
	}
	if err := s.authz.AssignWorkspaceOwner(ctx, workspace.ID, adminID); err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "owner tuple write failed", err)
	}

	// 5. Profile and membership.
	err = s.storage.CreateUserProfile(ctx, &types.UserProfile{
		IdentityID: adminID,
		TenantID:   tenant.ID,
		Email:      adminEmail,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "profile creation failed", err)
	}

	// 6. The membership is what grants access, not the invitation below.
	if _, err := s.storage.CreateMembership(ctx, &types.Membership{
		TenantID:    tenant.ID,
		WorkspaceID: workspace.ID,
		IdentityID:  adminID,
		Role:        types.RoleTenantAdmin,
		Status:      types.MembershipStatusActive,
	}); err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "membership creation failed", err)
	}

	// 7. Informational invitation record. It is a tracking artifact, the
	// acceptance path refuses admin roles so it can never be redeemed.
	now := time.Now().UTC()
	invitation, err := s.storage.CreateInvitation(ctx, &types.Invitation{
		TenantID:    tenant.ID,
		WorkspaceID: workspace.ID,
		Email:       adminEmail,
		Role:        types.RoleTenantAdmin,
		InvitedBy:   "system",
		Token:       uuid.NewString(),
		Status:      types.InvitationStatusPending,
		SentAt:      now,
		ExpiresAt:   now.Add(s.lifetime),
	})
	if err != nil {
		return tenant, nil, s.provisionFailed(ctx, tenant.ID, adminEmail, "invitation record failed", err)
	}

	// First login goes through a recovery link, delivery is best effort.
	if link, _, err := s.kratos.CreateRecoveryLink(ctx, adminID, s.lifetime.String()); err != nil {
		s.logger.Errorf("failed to create recovery link for %s: %v", adminID, err)
	} else if err := s.mailer.SendRecoveryLink(ctx, adminEmail, link); err != nil {
		s.logger.Errorf("failed to send recovery link to %s: %v", adminEmail, err)
	}

	s.auditProvision(ctx, tenant.ID, adminEmail, audit.ResultSuccess, invitation.ID)
	return tenant, invitation, nil
}

func (s *Service) provisionFailed(ctx context.Context, tenantID, adminEmail, step string, err error) error {
	s.auditProvision(ctx, tenantID, adminEmail, audit.ResultPartialFailure, step)
	return fmt.Errorf("%s: %w", step, err)
}

func (s *Service) GetTenant(ctx context.Context, tenantID string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.GetTenant")
	defer span.End()

	tenant, err := s.storage.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return tenant, nil
}

func (s *Service) ListTenants(ctx context.Context, pageToken string) ([]*types.Tenant, string, error) {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.ListTenants")
	defer span.End()

	return s.storage.ListTenants(ctx, pageToken)
}

// SuspendTenant marks the tenant suspended and disables every member's
// identity. Identity disabling is idempotent and best effort.
func (s *Service) SuspendTenant(ctx context.Context, actorID, tenantID string) error {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.SuspendTenant")
	defer span.End()

	if err := s.setTenantStatus(ctx, tenantID, types.TenantStatusSuspended); err != nil {
		return err
	}

	members, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Membership, string, error) {
		return s.storage.ListMemberships(ctx, storage.Filter{TenantID: tenantID}, pageToken)
	})
	if err != nil {
		s.logger.Warnf("failed to collect memberships while suspending tenant %s: %v", tenantID, err)
	}
	for _, member := range members {
		if err := s.kratos.DisableIdentity(ctx, member.IdentityID); err != nil {
			s.logger.Warnf("failed to disable identity %s: %v", member.IdentityID, err)
		}
	}

	s.auditLifecycle(ctx, tenantID, actorID, "tenant.suspend", audit.ResultSuccess, "")
	return nil
}

// ReactivateTenant puts the tenant back in service and re-enables the
// identities the suspension locked out. Removed memberships keep their
// identity disabled.
func (s *Service) ReactivateTenant(ctx context.Context, actorID, tenantID string) error {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.ReactivateTenant")
	defer span.End()

	if err := s.setTenantStatus(ctx, tenantID, types.TenantStatusActive); err != nil {
		return err
	}

	members, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Membership, string, error) {
		return s.storage.ListMemberships(ctx, storage.Filter{TenantID: tenantID}, pageToken)
	})
	if err != nil {
		s.logger.Warnf("failed to collect memberships while reactivating tenant %s: %v", tenantID, err)
	}
	for _, member := range members {
		if member.Status == types.MembershipStatusRemoved {
			continue
		}
		if err := s.kratos.EnableIdentity(ctx, member.IdentityID); err != nil {
			s.logger.Warnf("failed to enable identity %s: %v", member.IdentityID, err)
		}
	}

	s.auditLifecycle(ctx, tenantID, actorID, "tenant.reactivate", audit.ResultSuccess, "")
	return nil
}

func (s *Service) setTenantStatus(ctx context.Context, tenantID, status string) error {
	tenant, err := s.storage.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTenantNotFound
		}
		return err
	}

	tenant.Status = status
	if err := s.storage.UpdateTenant(ctx, tenant, []string{"status"}); err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}
	return nil
}

func (s *Service) ChangeTenantPlan(ctx context.Context, actorID, tenantID, plan string) error {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.ChangeTenantPlan")
	defer span.End()

	tenant, err := s.storage.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTenantNotFound
		}
		return err
	}

	tenant.Plan = plan
	if err := s.storage.UpdateTenant(ctx, tenant, []string{"plan"}); err != nil {
		return fmt.Errorf("failed to update tenant plan: %w", err)
	}

	s.auditLifecycle(ctx, tenantID, actorID, "tenant.change_plan", audit.ResultSuccess, plan)
	return nil
}

func (s *Service) CreateWorkspace(ctx context.Context, actorID, tenantID, name string) (*types.Workspace, error) {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.CreateWorkspace")
	defer span.End()

	allowed, err := s.authz.CheckTenantAccess(ctx, tenantID, actorID, authorization.CAN_EDIT_PERMISSION)
	if err != nil {
		return nil, fmt.Errorf("failed to check tenant access: %w", err)
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	if _, err := s.storage.GetTenantByID(ctx, tenantID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	workspace, err := s.storage.CreateWorkspace(ctx, &types.Workspace{
		TenantID: tenantID,
		Name:     name,
		IsActive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if err := s.authz.LinkWorkspaceToTenant(ctx, workspace.ID, tenantID); err != nil {
		s.auditLifecycle(ctx, tenantID, actorID, "workspace.create", audit.ResultPartialFailure, workspace.ID)
		return workspace, fmt.Errorf("failed to link workspace to tenant: %w", err)
	}

	s.auditLifecycle(ctx, tenantID, actorID, "workspace.create", audit.ResultSuccess, workspace.ID)
	return workspace, nil
}

func (s *Service) ListWorkspaces(ctx context.Context, tenantID, pageToken string) ([]*types.Workspace, string, error) {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.ListWorkspaces")
	defer span.End()

	return s.storage.ListWorkspaces(ctx, storage.Filter{TenantID: tenantID}, pageToken)
}

// ListMembers resolves each membership's email from the stored profile.
// Members whose profile is gone are reported with an unknown email
// rather than dropped.
func (s *Service) ListMembers(ctx context.Context, tenantID, pageToken string) ([]*Member, string, error) {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.ListMembers")
	defer span.End()

	memberships, nextToken, err := s.storage.ListMemberships(ctx, storage.Filter{TenantID: tenantID}, pageToken)
	if err != nil {
		return nil, "", err
	}

	members := make([]*Member, 0, len(memberships))
	for _, m := range memberships {
		email := "unknown"
		profile, err := s.storage.GetUserProfile(ctx, m.IdentityID)
		if err != nil {
			s.logger.Warnf("failed to resolve profile for identity %s: %v", m.IdentityID, err)
		} else {
			email = profile.Email
		}
		members = append(members, &Member{Membership: m, Email: email})
	}

	return members, nextToken, nil
}

func (s *Service) auditProvision(ctx context.Context, tenantID, adminEmail, result, metadata string) {
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     tenantID,
		ActorID:      "system",
		Action:       "tenant.create",
		ResourceType: "tenant",
		ResourceID:   adminEmail,
		Result:       result,
		Metadata:     metadata,
	})
}

func (s *Service) auditLifecycle(ctx context.Context, tenantID, actorID, action, result, metadata string) {
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     tenantID,
		ActorID:      actorID,
		Action:       action,
		ResourceType: "tenant",
		ResourceID:   tenantID,
		Result:       result,
		Metadata:     metadata,
	})
}
