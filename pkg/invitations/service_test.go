// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

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

//go:generate mockgen -build_flags=--mod=mod -package invitations -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package invitations -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package invitations -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package invitations -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

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
	return NewService(m.storage, m.authz, m.kratos, m.mailer, m.audit, 168*time.Hour, m.tracer, m.monitor, m.logger)
}

func activeWorkspace() *types.Workspace {
	return &types.Workspace{
		ID:       "workspace-1",
		TenantID: "tenant-1",
		Name:     "General",
		IsActive: true,
	}
}

func TestServiceCreateFreshIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().GetWorkspaceByID(gomock.Any(), "workspace-1").Return(activeWorkspace(), nil)
	mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Status: types.TenantStatusActive}, nil)
	mocks.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("", nil)
	mocks.kratos.EXPECT().CreateIdentity(gomock.Any(), "new@example.com", "tenant-1").Return("identity-1", nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), &types.UserProfile{
		IdentityID: "identity-1",
		TenantID:   "tenant-1",
		Email:      "new@example.com",
	}).Return(nil)
	mocks.storage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, i *types.Invitation) (*types.Invitation, error) {
			if i.Status != types.InvitationStatusPending {
				t.Errorf("expected pending invitation, got status %q", i.Status)
			}
			if i.Token == "" {
				t.Error("expected a token to be generated")
			}
			if !i.ExpiresAt.After(i.SentAt) {
				t.Error("expected expiry after issuance")
			}
			i.ID = "invitation-1"
			return i, nil
		},
	)
	// A freshly created identity gets its first login credential from
	// Kratos, no invitation email is sent.
	mocks.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "success" {
				t.Errorf("expected success audit record, got %q", record.Result)
			}
		},
	)

	invitation, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "new@example.com", types.RoleMember)
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if invitation == nil || invitation.ID != "invitation-1" {
		t.Errorf("unexpected invitation returned: %v", invitation)
	}
}

func TestServiceCreateEmailsExistingIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().GetWorkspaceByID(gomock.Any(), "workspace-1").Return(activeWorkspace(), nil)
	mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Status: types.TenantStatusActive}, nil)
	mocks.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "known@example.com").Return("identity-1", nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(storage.ErrDuplicateKey)
	mocks.storage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, i *types.Invitation) (*types.Invitation, error) {
			i.ID = "invitation-1"
			return i, nil
		},
	)
	mocks.mailer.EXPECT().SendInvitation(gomock.Any(), "known@example.com", gomock.Any(), "General", types.RoleMember).Return(nil)
	mocks.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	_, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "known@example.com", types.RoleMember)
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

func TestServiceCreateRejectsAdminRoles(t *testing.T) {
	tests := []struct {
		name string
		role string
	}{
		{name: "TenantAdmin", role: types.RoleTenantAdmin},
		{name: "PlatformSuperAdmin", role: types.RolePlatformSuperAdmin},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mocks := newServiceMocks(ctrl)
			ctx := context.Background()

			mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
			mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
				func(_ context.Context, record *types.AuditRecord) {
					if record.Result != "failure" {
						t.Errorf("expected failure audit record, got %q", record.Result)
					}
				},
			)

			_, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "a@example.com", test.role)
			if !errors.Is(err, ErrForbiddenRoleEscalation) {
				t.Errorf("expected ErrForbiddenRoleEscalation, got %v", err)
			}
		})
	}
}

func TestServiceCreateOwnerConflicts(t *testing.T) {
	tests := []struct {
		name     string
		owners   []*types.Membership
		pending  []*types.Invitation
		expected error
	}{
		{
			name:     "CommittedOwner",
			owners:   []*types.Membership{{ID: "membership-9", IdentityID: "identity-9", Role: types.RoleOwner, Status: types.MembershipStatusActive}},
			expected: ErrOwnerExists,
		},
		{
			name:     "PendingOwnerInvitation",
			pending:  []*types.Invitation{{ID: "invitation-9", Role: types.RoleOwner}},
			expected: ErrOwnerInvitePending,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mocks := newServiceMocks(ctrl)
			ctx := context.Background()

			mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
			mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(true, nil)
			mocks.storage.EXPECT().GetWorkspaceByID(gomock.Any(), "workspace-1").Return(activeWorkspace(), nil)
			mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Status: types.TenantStatusActive}, nil)
			mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{
				WorkspaceID: "workspace-1",
				Role:        types.RoleOwner,
				Status:      types.MembershipStatusActive,
			}, "").Return(test.owners, "", nil)
			if test.pending != nil {
				mocks.storage.EXPECT().ListInvitations(gomock.Any(), storage.Filter{
					WorkspaceID: "workspace-1",
					Role:        types.RoleOwner,
					Status:      types.InvitationStatusPending,
				}, "").Return(test.pending, "", nil)
			}
			mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

			_, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "o@example.com", types.RoleOwner)
			if !errors.Is(err, test.expected) {
				t.Errorf("expected %v, got %v", test.expected, err)
			}
		})
	}
}

// A workspace whose owner column points at the tenant administrator has
// no owner membership and must still accept an owner invitation.
func TestServiceCreateOwnerWithAdminOwnedColumn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	workspace := activeWorkspace()
	workspace.OwnerIdentityID = "identity-admin"

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().GetWorkspaceByID(gomock.Any(), "workspace-1").Return(workspace, nil)
	mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Status: types.TenantStatusActive}, nil)
	// The administrator's membership carries the admin role, so the
	// owner slot is open.
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{
		WorkspaceID: "workspace-1",
		Role:        types.RoleOwner,
		Status:      types.MembershipStatusActive,
	}, "").Return(nil, "", nil)
	mocks.storage.EXPECT().ListInvitations(gomock.Any(), gomock.Any(), "").Return(nil, "", nil)
	mocks.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "o@example.com").Return("identity-1", nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(nil)
	mocks.storage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, i *types.Invitation) (*types.Invitation, error) {
			i.ID = "invitation-1"
			return i, nil
		},
	)
	mocks.mailer.EXPECT().SendInvitation(gomock.Any(), "o@example.com", gomock.Any(), "General", types.RoleOwner).Return(nil)
	mocks.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	if _, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "o@example.com", types.RoleOwner); err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

func TestServiceCreateUnknownRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	_, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "a@example.com", "superuser")
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
}

func TestServiceCreateGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("Unauthorized", func(t *testing.T) {
		mocks := newServiceMocks(ctrl)
		ctx := context.Background()

		mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
		mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(false, nil)
		mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "a@example.com", types.RoleMember)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("TenantSuspended", func(t *testing.T) {
		mocks := newServiceMocks(ctrl)
		ctx := context.Background()

		mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
		mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(true, nil)
		mocks.storage.EXPECT().GetWorkspaceByID(gomock.Any(), "workspace-1").Return(activeWorkspace(), nil)
		mocks.storage.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1", Status: types.TenantStatusSuspended}, nil)
		mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

		_, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "a@example.com", types.RoleMember)
		if !errors.Is(err, ErrTenantSuspended) {
			t.Errorf("expected ErrTenantSuspended, got %v", err)
		}
	})

	t.Run("WorkspaceFromAnotherTenant", func(t *testing.T) {
		mocks := newServiceMocks(ctrl)
		ctx := context.Background()

		workspace := activeWorkspace()
		workspace.TenantID = "tenant-2"

		mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Create").Return(ctx, trace.SpanFromContext(ctx))
		mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(true, nil)
		mocks.storage.EXPECT().GetWorkspaceByID(gomock.Any(), "workspace-1").Return(workspace, nil)

		_, err := mocks.service().Create(ctx, "actor-1", "tenant-1", "workspace-1", "a@example.com", types.RoleMember)
		if !errors.Is(err, ErrWorkspaceNotFound) {
			t.Errorf("expected ErrWorkspaceNotFound, got %v", err)
		}
	})
}

func pendingInvitation(role string) *types.Invitation {
	return &types.Invitation{
		ID:          "invitation-1",
		TenantID:    "tenant-1",
		WorkspaceID: "workspace-1",
		Email:       "a@example.com",
		Role:        role,
		InvitedBy:   "actor-1",
		Token:       "token-1",
		Status:      types.InvitationStatusPending,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestServiceAccept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(pendingInvitation(types.RoleMember), nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(nil)
	mocks.storage.EXPECT().CreateMembership(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *types.Membership) (*types.Membership, error) {
			if m.Status != types.MembershipStatusActive {
				t.Errorf("expected active membership, got status %q", m.Status)
			}
			m.ID = "membership-1"
			return m, nil
		},
	)
	mocks.authz.EXPECT().AssignWorkspaceMember(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.storage.EXPECT().SetInvitationStatus(gomock.Any(), "invitation-1", types.InvitationStatusAccepted).Return(nil)
	mocks.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "success" {
				t.Errorf("expected success audit record, got %q", record.Result)
			}
		},
	)

	membership, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if membership == nil || membership.ID != "membership-1" {
		t.Errorf("unexpected membership returned: %v", membership)
	}
}

func TestServiceAcceptOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(pendingInvitation(types.RoleOwner), nil)
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{
		WorkspaceID: "workspace-1",
		Role:        types.RoleOwner,
		Status:      types.MembershipStatusActive,
	}, "").Return(nil, "", nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(storage.ErrDuplicateKey)
	mocks.storage.EXPECT().CreateMembership(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *types.Membership) (*types.Membership, error) {
			m.ID = "membership-1"
			return m, nil
		},
	)
	mocks.storage.EXPECT().UpdateWorkspaceOwner(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.authz.EXPECT().AssignWorkspaceOwner(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.storage.EXPECT().SetInvitationStatus(gomock.Any(), "invitation-1", types.InvitationStatusAccepted).Return(nil)
	mocks.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	_, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

func TestServiceAcceptOwnerConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(pendingInvitation(types.RoleOwner), nil)
	// Another identity claimed the owner slot between issuance and
	// acceptance.
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{
		WorkspaceID: "workspace-1",
		Role:        types.RoleOwner,
		Status:      types.MembershipStatusActive,
	}, "").Return([]*types.Membership{{ID: "membership-9", IdentityID: "identity-9", Role: types.RoleOwner, Status: types.MembershipStatusActive}}, "", nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	_, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if !errors.Is(err, ErrOwnerExists) {
		t.Errorf("expected ErrOwnerExists, got %v", err)
	}
}

func TestServiceAcceptIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	accepted := pendingInvitation(types.RoleMember)
	accepted.Status = types.InvitationStatusAccepted

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(accepted, nil)
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{
		WorkspaceID: "workspace-1",
		IdentityID:  "identity-1",
	}, "").Return([]*types.Membership{{ID: "membership-1", Role: types.RoleMember, Status: types.MembershipStatusActive}}, "", nil)

	membership, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if membership == nil || membership.ID != "membership-1" {
		t.Errorf("unexpected membership returned: %v", membership)
	}
}

// A member who was soft-removed and then re-invited hits the unique
// membership constraint on accept. The stale row has to come back
// active, with the invited role, before the role tuple is written.
func TestServiceAcceptReactivatesRemovedMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(pendingInvitation(types.RoleMember), nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(storage.ErrDuplicateKey)
	mocks.storage.EXPECT().CreateMembership(gomock.Any(), gomock.Any()).Return(nil, storage.ErrDuplicateKey)
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{
		WorkspaceID: "workspace-1",
		IdentityID:  "identity-1",
	}, "").Return([]*types.Membership{{
		ID:          "membership-1",
		TenantID:    "tenant-1",
		WorkspaceID: "workspace-1",
		IdentityID:  "identity-1",
		Role:        types.RoleMember,
		Status:      types.MembershipStatusRemoved,
	}}, "", nil)
	mocks.storage.EXPECT().SetMembershipStatus(gomock.Any(), "membership-1", types.MembershipStatusActive).Return(nil)
	mocks.authz.EXPECT().AssignWorkspaceMember(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.storage.EXPECT().SetInvitationStatus(gomock.Any(), "invitation-1", types.InvitationStatusAccepted).Return(nil)
	mocks.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "success" {
				t.Errorf("expected success audit record, got %q", record.Result)
			}
		},
	)

	membership, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if membership == nil || membership.Status != types.MembershipStatusActive {
		t.Errorf("expected the returned membership to be active, got %+v", membership)
	}
}

// The stale row may also carry a different role than the one invited,
// a removed owner re-invited as a plain member must not come back as
// owner.
func TestServiceAcceptRealignsRoleOnExistingMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(pendingInvitation(types.RoleMember), nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(storage.ErrDuplicateKey)
	mocks.storage.EXPECT().CreateMembership(gomock.Any(), gomock.Any()).Return(nil, storage.ErrDuplicateKey)
	mocks.storage.EXPECT().ListMemberships(gomock.Any(), storage.Filter{
		WorkspaceID: "workspace-1",
		IdentityID:  "identity-1",
	}, "").Return([]*types.Membership{{
		ID:          "membership-1",
		WorkspaceID: "workspace-1",
		IdentityID:  "identity-1",
		Role:        types.RoleOwner,
		Status:      types.MembershipStatusRemoved,
	}}, "", nil)
	mocks.storage.EXPECT().SetMembershipStatus(gomock.Any(), "membership-1", types.MembershipStatusActive).Return(nil)
	mocks.storage.EXPECT().SetMembershipRole(gomock.Any(), "membership-1", types.RoleMember).Return(nil)
	mocks.authz.EXPECT().AssignWorkspaceMember(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.storage.EXPECT().SetInvitationStatus(gomock.Any(), "invitation-1", types.InvitationStatusAccepted).Return(nil)
	mocks.storage.EXPECT().CreateNotification(gomock.Any(), gomock.Any()).Return(&types.Notification{}, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	membership, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if membership == nil || membership.Role != types.RoleMember {
		t.Errorf("expected the membership role to follow the invitation, got %+v", membership)
	}
}

func TestServiceAcceptTerminalStates(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected error
	}{
		{name: "Revoked", status: types.InvitationStatusRevoked, expected: ErrInvitationRevoked},
		{name: "Expired", status: types.InvitationStatusExpired, expected: ErrInvitationExpired},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mocks := newServiceMocks(ctrl)
			ctx := context.Background()

			invitation := pendingInvitation(types.RoleMember)
			invitation.Status = test.status

			mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
			mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(invitation, nil)
			mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

			_, err := mocks.service().Accept(ctx, "token-1", "identity-1")
			if !errors.Is(err, test.expected) {
				t.Errorf("expected %v, got %v", test.expected, err)
			}
		})
	}
}

func TestServiceAcceptExpiresOnObservation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	invitation := pendingInvitation(types.RoleMember)
	invitation.ExpiresAt = time.Now().Add(-time.Hour)

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(invitation, nil)
	mocks.storage.EXPECT().SetInvitationStatus(gomock.Any(), "invitation-1", types.InvitationStatusExpired).Return(nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	_, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if !errors.Is(err, ErrInvitationExpired) {
		t.Errorf("expected ErrInvitationExpired, got %v", err)
	}
}

func TestServiceAcceptRefusesStoredAdminInvitation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(pendingInvitation(types.RoleTenantAdmin), nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	_, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if !errors.Is(err, ErrForbiddenRoleEscalation) {
		t.Errorf("expected ErrForbiddenRoleEscalation, got %v", err)
	}
}

func TestServiceAcceptTupleWriteFailureLeavesMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Accept").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByToken(gomock.Any(), "token-1").Return(pendingInvitation(types.RoleMember), nil)
	mocks.storage.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(nil)
	mocks.storage.EXPECT().CreateMembership(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, m *types.Membership) (*types.Membership, error) {
			m.ID = "membership-1"
			return m, nil
		},
	)
	mocks.authz.EXPECT().AssignWorkspaceMember(gomock.Any(), "workspace-1", "identity-1").Return(errors.New("openfga unavailable"))
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "partial_failure" {
				t.Errorf("expected partial_failure audit record, got %q", record.Result)
			}
		},
	)

	_, err := mocks.service().Accept(ctx, "token-1", "identity-1")
	if err == nil {
		t.Error("expected an error when the role tuple write fails")
	}
}

func TestServiceRevoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Revoke").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByID(gomock.Any(), "invitation-1").Return(pendingInvitation(types.RoleMember), nil)
	mocks.authz.EXPECT().CheckWorkspaceAccess(gomock.Any(), "workspace-1", "actor-1", authorization.CAN_INVITE_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().SetInvitationStatus(gomock.Any(), "invitation-1", types.InvitationStatusRevoked).Return(nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	if err := mocks.service().Revoke(ctx, "actor-1", "invitation-1"); err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

func TestServiceRevokeTerminalState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	accepted := pendingInvitation(types.RoleMember)
	accepted.Status = types.InvitationStatusAccepted

	mocks.tracer.EXPECT().Start(gomock.Any(), "invitations.Service.Revoke").Return(ctx, trace.SpanFromContext(ctx))
	mocks.storage.EXPECT().GetInvitationByID(gomock.Any(), "invitation-1").Return(accepted, nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	err := mocks.service().Revoke(ctx, "actor-1", "invitation-1")
	if !errors.Is(err, ErrInvitationNotPending) {
		t.Errorf("expected ErrInvitationNotPending, got %v", err)
	}
}
