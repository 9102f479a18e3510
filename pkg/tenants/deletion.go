// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"
	"errors"
	"fmt"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/kratos"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/pagination"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
)

// DeleteTenant removes a tenant and everything scoped to it. Every
// collection is drained with the paginated collector before deletion
// starts, a cursor is never held open against a mutating collection.
// The cascade has no rollback, a failing step aborts with the partial
// state left visible.
func (s *Service) DeleteTenant(ctx context.Context, actorID, tenantID string) error {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.DeleteTenant")
	defer span.End()

	if _, err := s.storage.GetTenantByID(ctx, tenantID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTenantNotFound
		}
		return err
	}

	// 1. Safety guard: the cascade only runs once every non-admin
	// membership has been removed.
	memberships, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Membership, string, error) {
		return s.storage.ListMemberships(ctx, storage.Filter{TenantID: tenantID}, pageToken)
	})
	if err != nil {
		return fmt.Errorf("failed to collect memberships: %w", err)
	}
	for _, m := range memberships {
		if m.Role != types.RoleTenantAdmin && m.Status != types.MembershipStatusRemoved {
			s.auditDeletion(ctx, tenantID, actorID, "tenant.delete", tenantID, audit.ResultFailure, "active members exist")
			return ErrActiveMembersExist
		}
	}

	filter := storage.Filter{TenantID: tenantID}

	// 2. Tenant-scoped rows. Tasks go before their boards, the audit
	// trail goes last of the four so earlier cascade steps stay
	// traceable if this run aborts.
	if err := s.drainInvitations(ctx, filter); err != nil {
		return s.deletionFailed(ctx, tenantID, actorID, "invitation cascade failed", err)
	}
	if err := s.drainNotifications(ctx, filter); err != nil {
		return s.deletionFailed(ctx, tenantID, actorID, "notification cascade failed", err)
	}
	if err := s.drainTasks(ctx, filter); err != nil {
		return s.deletionFailed(ctx, tenantID, actorID, "task cascade failed", err)
	}
	if err := s.drainTaskBoards(ctx, filter); err != nil {
		return s.deletionFailed(ctx, tenantID, actorID, "task board cascade failed", err)
	}
	if err := s.drainAuditRecords(ctx, filter); err != nil {
		return s.deletionFailed(ctx, tenantID, actorID, "audit cascade failed", err)
	}

	// 3. Workspaces, tuples included.
	workspaces, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Workspace, string, error) {
		return s.storage.ListWorkspaces(ctx, filter, pageToken)
	})
	if err != nil {
		return s.deletionFailed(ctx, tenantID, actorID, "workspace collection failed", err)
	}
	for _, workspace := range workspaces {
		if err := s.authz.DeleteWorkspaceTuples(ctx, workspace.ID); err != nil {
			s.logger.Warnf("failed to delete tuples for workspace %s: %v", workspace.ID, err)
		}
		if err := s.storage.DeleteWorkspace(ctx, workspace.ID); err != nil {
			return s.deletionFailed(ctx, tenantID, actorID, "workspace deletion failed", err)
		}
	}

	// 4. Remaining memberships, identities and profiles. A missing
	// identity or profile was removed out of band and is tolerated.
	for _, m := range memberships {
		if err := s.kratos.DeleteIdentity(ctx, m.IdentityID); err != nil && !errors.Is(err, kratos.ErrIdentityNotFound) {
			s.logger.Warnf("failed to delete identity %s: %v", m.IdentityID, err)
		}
		if err := s.storage.DeleteUserProfile(ctx, m.IdentityID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warnf("failed to delete profile %s: %v", m.IdentityID, err)
		}
		if err := s.storage.DeleteMembership(ctx, m.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return s.deletionFailed(ctx, tenantID, actorID, "membership deletion failed", err)
		}
	}

	// 5. Tenant tuples and the tenant row last.
	if err := s.authz.DeleteTenantTuples(ctx, tenantID); err != nil {
		s.logger.Warnf("failed to delete tuples for tenant %s: %v", tenantID, err)
	}
	if err := s.storage.DeleteTenant(ctx, tenantID); err != nil {
		return s.deletionFailed(ctx, tenantID, actorID, "tenant row deletion failed", err)
	}

	// The closing record outlives the deleted trail as the single trace
	// of the cascade.
	s.auditDeletion(ctx, tenantID, actorID, "tenant.delete", tenantID, audit.ResultSuccess, "")
	return nil
}

// DeleteWorkspace runs the narrower per-workspace cascade. There is no
// member guard here, removing a workspace removes its memberships.
func (s *Service) DeleteWorkspace(ctx context.Context, actorID, workspaceID string) error {
	ctx, span := s.tracer.Start(ctx, "tenants.Service.DeleteWorkspace")
	defer span.End()

	workspace, err := s.storage.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		return err
	}
	tenantID := workspace.TenantID

	filter := storage.Filter{WorkspaceID: workspaceID}

	if err := s.drainTasks(ctx, filter); err != nil {
		return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "task cascade failed", err)
	}
	if err := s.drainTaskBoards(ctx, filter); err != nil {
		return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "task board cascade failed", err)
	}
	if err := s.drainInvitations(ctx, filter); err != nil {
		return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "invitation cascade failed", err)
	}

	members, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Membership, string, error) {
		return s.storage.ListMemberships(ctx, filter, pageToken)
	})
	if err != nil {
		return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "membership collection failed", err)
	}
	for _, m := range members {
		if err := s.storage.DeleteMembership(ctx, m.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "membership deletion failed", err)
		}
	}

	if err := s.drainNotifications(ctx, filter); err != nil {
		return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "notification cascade failed", err)
	}
	if err := s.drainAuditRecords(ctx, filter); err != nil {
		return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "audit cascade failed", err)
	}

	if err := s.authz.DeleteWorkspaceTuples(ctx, workspaceID); err != nil {
		s.logger.Warnf("failed to delete tuples for workspace %s: %v", workspaceID, err)
	}
	if err := s.storage.DeleteWorkspace(ctx, workspaceID); err != nil {
		return s.workspaceDeletionFailed(ctx, tenantID, actorID, workspaceID, "workspace row deletion failed", err)
	}

	s.auditDeletion(ctx, tenantID, actorID, "workspace.delete", workspaceID, audit.ResultSuccess, "")
	return nil
}

func (s *Service) drainInvitations(ctx context.Context, filter storage.Filter) error {
	rows, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Invitation, string, error) {
		return s.storage.ListInvitations(ctx, filter, pageToken)
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.storage.DeleteInvitation(ctx, row.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) drainNotifications(ctx context.Context, filter storage.Filter) error {
	rows, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Notification, string, error) {
		return s.storage.ListNotifications(ctx, filter, pageToken)
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.storage.DeleteNotification(ctx, row.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) drainTasks(ctx context.Context, filter storage.Filter) error {
	rows, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.Task, string, error) {
		return s.storage.ListTasks(ctx, filter, pageToken)
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.storage.DeleteTask(ctx, row.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) drainTaskBoards(ctx context.Context, filter storage.Filter) error {
	rows, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.TaskBoard, string, error) {
		return s.storage.ListTaskBoards(ctx, filter, pageToken)
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.storage.DeleteTaskBoard(ctx, row.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) drainAuditRecords(ctx context.Context, filter storage.Filter) error {
	rows, err := pagination.CollectAll(ctx, func(ctx context.Context, pageToken string) ([]*types.AuditRecord, string, error) {
		return s.storage.ListAuditRecords(ctx, filter, pageToken)
	})
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.storage.DeleteAuditRecord(ctx, row.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}
	return nil
}

func (s *Service) deletionFailed(ctx context.Context, tenantID, actorID, step string, err error) error {
	s.auditDeletion(ctx, tenantID, actorID, "tenant.delete", tenantID, audit.ResultPartialFailure, step)
	return fmt.Errorf("%s: %w", step, err)
}

func (s *Service) workspaceDeletionFailed(ctx context.Context, tenantID, actorID, workspaceID, step string, err error) error {
	s.auditDeletion(ctx, tenantID, actorID, "workspace.delete", workspaceID, audit.ResultPartialFailure, step)
	return fmt.Errorf("%s: %w", step, err)
}

func (s *Service) auditDeletion(ctx context.Context, tenantID, actorID, action, resourceID, result, metadata string) {
	resourceType := "tenant"
	if action == "workspace.delete" {
		resourceType = "workspace"
	}
	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     tenantID,
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Result:       result,
		Metadata:     metadata,
	})
}
