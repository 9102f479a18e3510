// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	gomock "go.uber.org/mock/gomock"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/authorization"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

func plainMembership(role string) *types.Membership {
	return &types.Membership{
		ID:          "membership-1",
		TenantID:    "tenant-1",
		WorkspaceID: "workspace-1",
		IdentityID:  "identity-1",
		Role:        role,
		Status:      types.MembershipStatusActive,
	}
}

func TestServiceRemoveMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.RemoveMember").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().GetMembershipByID(gomock.Any(), "membership-1").Return(plainMembership(types.RoleMember), nil)
	mocks.storage.EXPECT().SetMembershipStatus(gomock.Any(), "membership-1", types.MembershipStatusRemoved).Return(nil)
	mocks.authz.EXPECT().RemoveWorkspaceMember(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Action != "member.remove" || record.Result != "success" {
				t.Errorf("unexpected audit record %q/%q", record.Action, record.Result)
			}
		},
	)

	if err := mocks.service().RemoveMember(ctx, "actor-1", "tenant-1", "membership-1"); err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

// Removing an owner also drops the owner tuple and clears the workspace
// owner column so a new owner can be invited.
func TestServiceRemoveMemberOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.RemoveMember").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().GetMembershipByID(gomock.Any(), "membership-1").Return(plainMembership(types.RoleOwner), nil)
	mocks.storage.EXPECT().SetMembershipStatus(gomock.Any(), "membership-1", types.MembershipStatusRemoved).Return(nil)
	mocks.authz.EXPECT().RemoveWorkspaceOwner(gomock.Any(), "workspace-1", "identity-1").Return(nil)
	mocks.storage.EXPECT().UpdateWorkspaceOwner(gomock.Any(), "workspace-1", "").Return(nil)
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any())

	if err := mocks.service().RemoveMember(ctx, "actor-1", "tenant-1", "membership-1"); err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
}

func TestServiceRemoveMemberGuards(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(m serviceMocks)
		expectedErr error
	}{
		{
			name: "Unauthorized",
			setupMocks: func(m serviceMocks) {
				m.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(false, nil)
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any())
			},
			expectedErr: ErrUnauthorized,
		},
		{
			name: "MembershipMissing",
			setupMocks: func(m serviceMocks) {
				m.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil)
				m.storage.EXPECT().GetMembershipByID(gomock.Any(), "membership-1").Return(nil, storage.ErrNotFound)
			},
			expectedErr: ErrMembershipNotFound,
		},
		{
			name: "MembershipFromAnotherTenant",
			setupMocks: func(m serviceMocks) {
				other := plainMembership(types.RoleMember)
				other.TenantID = "tenant-2"
				m.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil)
				m.storage.EXPECT().GetMembershipByID(gomock.Any(), "membership-1").Return(other, nil)
			},
			expectedErr: ErrMembershipNotFound,
		},
		{
			name: "AdministratorMembership",
			setupMocks: func(m serviceMocks) {
				m.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil)
				m.storage.EXPECT().GetMembershipByID(gomock.Any(), "membership-1").Return(plainMembership(types.RoleTenantAdmin), nil)
				m.audit.EXPECT().Record(gomock.Any(), gomock.Any())
			},
			expectedErr: ErrAdminMembership,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mocks := newServiceMocks(ctrl)
			ctx := context.Background()

			mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.RemoveMember").Return(ctx, trace.SpanFromContext(ctx))
			test.setupMocks(mocks)

			err := mocks.service().RemoveMember(ctx, "actor-1", "tenant-1", "membership-1")
			if !errors.Is(err, test.expectedErr) {
				t.Errorf("expected %v, got %v", test.expectedErr, err)
			}
		})
	}
}

// The row is retired before the tuple delete, a failing delete leaves
// the removal half applied and is reported as partial.
func TestServiceRemoveMemberTupleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mocks := newServiceMocks(ctrl)
	ctx := context.Background()

	mocks.tracer.EXPECT().Start(gomock.Any(), "tenants.Service.RemoveMember").Return(ctx, trace.SpanFromContext(ctx))
	mocks.authz.EXPECT().CheckTenantAccess(gomock.Any(), "tenant-1", "actor-1", authorization.CAN_EDIT_PERMISSION).Return(true, nil)
	mocks.storage.EXPECT().GetMembershipByID(gomock.Any(), "membership-1").Return(plainMembership(types.RoleMember), nil)
	mocks.storage.EXPECT().SetMembershipStatus(gomock.Any(), "membership-1", types.MembershipStatusRemoved).Return(nil)
	mocks.authz.EXPECT().RemoveWorkspaceMember(gomock.Any(), "workspace-1", "identity-1").Return(errors.New("openfga unavailable"))
	mocks.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, record *types.AuditRecord) {
			if record.Result != "partial_failure" {
				t.Errorf("expected partial_failure audit record, got %q", record.Result)
			}
		},
	)

	if err := mocks.service().RemoveMember(ctx, "actor-1", "tenant-1", "membership-1"); err == nil {
		t.Error("expected an error when the role tuple delete fails")
	}
}
