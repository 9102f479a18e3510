// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	gomock "go.uber.org/mock/gomock"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/authorization"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package tenants -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenants -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenants -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package tenants -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

type serviceMocks struct {
	storage *MockStorageInterface
	authz   *MockAuthzInterface
	kratos  *MockKratosClientInterface
	mailer  *MockMailerInterface
	audit   *MockAuditInterface
	tracer  *MockTracingInterface
	monitor *MockMonitorInterface
	logger  *MockLoggerInterface
}

func newServiceMocks(ctrl *gomock.Controller) serviceMocks {
	return serviceMocks{
		storage: NewMockStorageInterface(ctrl),
		authz:   NewMockAuthzInterface(ctrl),
		kratos:  NewMockKratosClientInterface(ctrl),
		mailer:  NewMockMailerInterface(ctrl),
		audit:   NewMockAuditInterface(ctrl),
		tracer:  NewMockTracingInterface(ctrl),
		monitor: NewMockMonitorInterface(ctrl),
		logger:  NewMockLoggerInterface(ctrl),
	}
}

func (m serviceMocks) service() *Service {
	return NewService(m.storage, m.authz, m.kratos, m.mailer, m.audit, "platform-1", 168*time.Hour, m.tracer, m.monitor, m.logger)
}

func TestServiceCreateTenantWithAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.CreateTenantWithAdmin").Return(ctx, trace.SpanFromContext(ctx))
	mocks.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "admin@example.com").Return("", nil)
	mocks.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tenant *types.Tenant) (*types.Tenant, error) {
			if tenant.Status != types.TenantStatusActive {
				t.Errorf("expected active tenant, got status %q", tenant.Status)
			}
			tenant.ID = "tenant-1"
			return tenant, nil
		},
	)
	mocks.authz.EXPECT().LinkTenantToPlatform(gomock.Any(), "tenant-1", "platform-1").Return(nil)
	mocks.storage.EXPECT().CreateWorkspace(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, workspace *types.Workspace) (*types.Workspace, error) {
			if workspace.Name != DefaultWorkspaceName {
				t.Errorf("expected default workspace name, got %q", workspace.Name)
			}
			if !workspace.IsActive {
				t.Error("expected the default workspace to be active")
			}
			workspace.ID = "workspace-1"
			return workspace, nil
		},
	)
	mocks.authz.EXPECT().LinkWorkspaceToTenant(gomock.Any(), "workspace-1", "tenant-1").Return(nil)
	mocks.kratos.EXPECT().CreateIdentity(gomock.Any(), "admin@example.com", "tenant-1").Return("identity-1", nil)
	mocks.authz.EXPECT().AssignTenantAdmin(gomock.Any(), "tenant-1", "identity-1").Return(nil)
	mocks.storage.EXPECT().UpdateWorkspaceOwner(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.authz.EXPECT().AssignWorkspaceOwner(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), &types.UserProfile{
		IdentityID: "identity-1",
		TenantID:   "tenant-1",
		Email:      "admin@example.com",
	}).Return(nil)
	mocks.storage.EXPECT().CreateMembership(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, membership *types.Membership) (*types.Membership, error) {
			if membership.Role != types.RoleTenantAdmin {
				t.Errorf("expected administrator membership, got role %q", membership.Role)
			}
			if membership.Status != types.MembershipStatusActive {
				t.Errorf("expected active membership, got status %q", membership.Status)
			}
			membership.ID = "membership-1"
			return membership, nil
		},
	)
	mocks.storage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, invitation *types.Invitation) (*types.Invitation, error) {
			if invitation.Status != types.InvitationStatusPending {
				t.Errorf("expected pending invitation, got status %q", invitation.Status)
			}
			if invitation.Role != types.RoleTenantAdmin {
				t.Errorf("expected tenant admin invitation, got role %q", invitation.Role)
			}
			if invitation.InvitedBy != "system" {
				t.Errorf("expected system inviter, got %q", invitation.InvitedBy)
			}
			invitation.ID = "invitation-1"
			return invitation, nil
		},
	)
	mocks.kratos.EXPECT().CreateRecoveryLink(gomock.Any(), "identity-1", gomock.Any()).Return("https://recovery.example.com/x", "", nil)
	mocks.mailer.EXPECT().SendRecoveryLink(gomock.Any(), "admin@example.com", "https://recovery.example.com/x").Return(nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "success" {
				t.Errorf("expected success audit record, got %q", record.Result)
			}
			if record.Action != "tenant.create" {
				t.Errorf("unexpected audit action %q", record.Action)
			}
		},
	)

	tenant, invitation, err := mocks.service().CreateTenantWithAdmin(ctx, "Acme", "admin@example.com", "team")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if tenant == nil || tenant.ID != "tenant-1" {
		t.Errorf("unexpected tenant returned: %v", tenant)
	}
	if invitation == nil || invitation.ID != "invitation-1" {
		t.Errorf("unexpected invitation returned: %v", invitation)
	}
}

func TestServiceCreateTenantWithAdminEmailInUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.CreateTenantWithAdmin").Return(ctx, trace.SpanFromContext(ctx))
	mocks.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "taken@example.com").Return("identity-9", nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "failure" {
				t.Errorf("expected failure audit record, got %q", record.Result)
			}
			if record.TenantID != "" {
				t.Errorf("expected no tenant id before provisioning, got %q", record.TenantID)
			}
		},
	)

	tenant, _, err := mocks.service().CreateTenantWithAdmin(ctx, "Acme", "taken@example.com", "team")
	if !errors.Is(err, ErrAdminEmailInUse) {
		t.Errorf("expected ErrAdminEmailInUse, got %v", err)
	}
	if tenant != nil {
		t.Errorf("expected no tenant, got %v", tenant)
	}
}

func TestServiceCreateTenantWithAdminPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.CreateTenantWithAdmin").Return(ctx, trace.SpanFromContext(ctx))
	mocks.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "admin@example.com").Return("", nil)
	mocks.storage.EXPECT().CreateTenant(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tenant *types.Tenant) (*types.Tenant, error) {
			tenant.ID = "tenant-1"
			return tenant, nil
		},
	)
	mocks.authz.EXPECT().LinkTenantToPlatform(gomock.Any(), "tenant-1", "platform-1").Return(nil)
	mocks.storage.EXPECT().CreateWorkspace(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, workspace *types.Workspace) (*types.Workspace, error) {
			workspace.ID = "workspace-1"
			return workspace, nil
		},
	)
	mocks.authz.EXPECT().LinkWorkspaceToTenant(gomock.Any(), "workspace-1", "tenant-1").Return(nil)
	mocks.kratos.EXPECT().CreateIdentity(gomock.Any(), "admin@example.com", "tenant-1").Return("", errors.New("kratos down"))
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "partial_failure" {
				t.Errorf("expected partial_failure audit record, got %q", record.Result)
			}
			if record.TenantID != "tenant-1" {
				t.Errorf("expected audit record scoped to the created tenant, got %q", record.TenantID)
			}
		},
	)

	tenant, invitation, err := mocks.service().CreateTenantWithAdmin(ctx, "Acme", "admin@example.com", "team")
	if err == nil {
		t.Error("expected an error, got nil")
	}
	// The tenant row was written before the failing step and stays visible.
	if tenant == nil || tenant.ID != "tenant-1" {
		t.Errorf("expected the partially provisioned tenant back, got %v", tenant)
	}
	if invitation != nil {
		t.Errorf("expected no invitation, got %v", invitation)
	}
}

func TestServiceSuspendTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.SuspendTenant").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Status: types.TenantStatusActive}, nil)
	mocks.storage.EXPECT().UpdateTenant(gomock.Any(), gomock.Any(), []string{"status"}).DoAndReturn(
		func(_ context.Context, tenant *types.Tenant, _ []string) error {
			if tenant.Status != types.TenantStatusSuspended {
				t.Errorf("expected suspended status, got %q", tenant.Status)
			}
			return nil
		},
	)
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{TenantID: "tenant-1"}, "").Return(
		[]*types.Membership{
			{ID: "membership-1", IdentityID: "identity-1"},
			{ID: "membership-2", IdentityID: "identity-2"},
		}, "", nil,
	)
	mocks.kratos.EXPECT().DisableIdentity(gomock.Any(), "identity-1").Return(nil)
	// A failing disable is logged and does not abort the suspension.
	mocks.kratos.EXPECT().DisableIdentity(gomock.Any(), "identity-2").Return(errors.New("kratos down"))
	mocks.logger.EXPECT().Warnf(gomock.Any(), gomock.Any(), gomock.Any())
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Action != "tenant.suspend" || record.Result != "success" {
				t.Errorf("unexpected audit record %q/%q", record.Action, record.Result)
			}
		},
	)

	if err := mocks.service().SuspendTenant(ctx, "actor-1", "tenant-1"); err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

func TestServiceReactivateTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.ReactivateTenant").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Status: types.TenantStatusSuspended}, nil)
	mocks.storage.EXPECT().UpdateTenant(gomock.Any(), gomock.Any(), []string{"status"}).DoAndReturn(
		func(_ context.Context, tenant *types.Tenant, _ []string) error {
			if tenant.Status != types.TenantStatusActive {
				t.Errorf("expected active status, got %q", tenant.Status)
			}
			return nil
		},
	)
	// Suspension disabled these identities, reactivation brings them
	// back. The removed membership stays locked out.
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{TenantID: "tenant-1"}, "").Return(
		[]*types.Membership{
			{ID: "membership-1", IdentityID: "identity-1", Status: types.MembershipStatusActive},
			{ID: "membership-2", IdentityID: "identity-2", Status: types.MembershipStatusRemoved},
			{ID: "membership-3", IdentityID: "identity-3", Status: types.MembershipStatusActive},
		}, "", nil,
	)
	mocks.kratos.EXPECT().EnableIdentity(gomock.Any(), "identity-1").Return(nil)
	// A failing enable is logged and does not abort the reactivation.
	mocks.kratos.EXPECT().EnableIdentity(gomock.Any(), "identity-3").Return(errors.New("kratos down"))
	mocks.logger.EXPECT().Warnf(gomock.Any(), gomock.Any(), gomock.Any())
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Action != "tenant.reactivate" || record.Result != "success" {
				t.Errorf("unexpected audit record %q/%q", record.Action, record.Result)
			}
		},
	)

	if err := mocks.service().ReactivateTenant(ctx, "actor-1", "tenant-1"); err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

func TestServiceChangeTenantPlan(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(m serviceMocks, ctx context.Context)
		expectedErr error
	}{
		{
			name: "Success",
			setupMocks: func(m serviceMocks, ctx context.Context) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Plan: "free"}, nil)
				m.storage.EXPECT().UpdateTenant(gomock.Any(), gomock.Any(), []string{"plan"}).DoAndReturn(
					func(_ context.Context, tenant *types.Tenant, _ []string) error {
						if tenant.Plan != "enterprise" {
							return errors.New("unexpected plan")
						}
						return nil
					},
				)
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "TenantMissing",
			setupMocks: func(m serviceMocks, ctx context.Context) {
				m.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(nil, storage.ErrNotFound)
			},
			expectedErr: ErrTenantNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mocks := newServiceMocks(ctrl)
			ctx := context.Background()

			mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.ChangeTenantPlan").Return(ctx, trace.SpanFromContext(ctx))
			test.setupMocks(mocks, ctx)

			err := mocks.service().ChangeTenantPlan(ctx, "actor-1", "tenant-1", "enterprise")
			if test.expectedErr == nil && err != nil {
				t.Errorf("expected error to be nil, got %v", err)
			}
			if test.expectedErr != nil && !errors.Is(err, test.expectedErr) {
				t.Errorf("expected %v, got %v", test.expectedErr, err)
			}
		})
	}
}

func TestServiceCreateWorkspace(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.CreateWorkspace").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1"}, nil)
	mocks.storage.EXPECT().CreateWorkspace(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, workspace *types.Workspace) (*types.Workspace, error) {
			if !workspace.IsActive {
				t.Error("expected the new workspace to be active")
			}
			workspace.ID = "workspace-2"
			return workspace, nil
		},
	)
	mocks.authz.EXPECT().LinkWorkspaceToTenant(gomock.Any(), "workspace-2", "tenant-1").Return(nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	workspace, err := mocks.service().CreateWorkspace(ctx, "actor-1", "tenant-1", "Design")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if workspace == nil || workspace.ID != "workspace-2" {
		t.Errorf("unexpected workspace returned: %v", workspace)
	}
}

func TestServiceCreateWorkspaceUnauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.CreateWorkspace").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(false, nil)

	if _, err := mocks.service().CreateWorkspace(ctx, "actor-1", "tenant-1", "Design"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestServiceListMembers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.ListMembers").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{TenantID: "tenant-1"}, "").Return(
		[]*types.Membership{
			{ID: "membership-1", IdentityID: "identity-1"},
			{ID: "membership-2", IdentityID: "identity-2"},
		}, "next-token", nil,
	)
	mocks.storage.EXPECT().GetUserProfile(gomock.Any(), "identity-1").Return(&types.UserProfile{IdentityID: "identity-1", Email: "one@example.com"}, nil)
	// A missing profile is reported with an unknown email, not dropped.
	mocks.storage.EXPECT().GetUserProfile(gomock.Any(), "identity-2").Return(nil, storage.ErrNotFound)
	mocks.logger.EXPECT().Warnf(gomock.Any(), gomock.Any(), gomock.Any())

	members, nextToken, err := mocks.service().ListMembers(ctx, "tenant-1", "")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if nextToken != "next-token" {
		t.Errorf("expected next-token, got %q", nextToken)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Email != "one@example.com" {
		t.Errorf("expected resolved email, got %q", members[0].Email)
	}
	if members[1].Email != "unknown" {
		t.Errorf("expected unknown email for missing profile, got %q", members[1].Email)
	}
}
