// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	gomock "go.uber.org/mock/gomock"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestHandleRegistration(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(s *MockStorageInterface, a *MockAuditInterface, l *MockLoggerInterface)
		identityID string
		email      string
		tenantID   string
		expectErr  bool
	}{
		{
			name: "Success",
			setupMocks: func(s *MockStorageInterface, a *MockAuditInterface, l *MockLoggerInterface) {
				s.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1"}, nil)
				s.EXPECT().CreateUserProfile(gomock.Any(), &types.UserProfile{
					IdentityID: "identity-1",
					TenantID:   "tenant-1",
					Email:      "a@example.com",
				}).Return(nil)
				a.EXPECT().Record(gomock.Any(), gomock.Any()).Do(
					func(_ context.Context, record *types.AuditRecord) {
						if record.Action != "identity.register" {
							t.Errorf("unexpected audit action %q", record.Action)
						}
					},
				)
				l.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			identityID: "identity-1",
			email:      "a@example.com",
			tenantID:   "tenant-1",
		},
		{
			name: "ProfileAlreadyExists",
			setupMocks: func(s *MockStorageInterface, a *MockAuditInterface, l *MockLoggerInterface) {
				s.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1"}, nil)
				s.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(storage.ErrDuplicateKey)
				a.EXPECT().Record(gomock.Any(), gomock.Any())
				l.EXPECT().Debugf(gomock.Any(), gomock.Any(), gomock.Any())
			},
			identityID: "identity-1",
			email:      "a@example.com",
			tenantID:   "tenant-1",
		},
		{
			name:       "MissingTenantTrait",
			setupMocks: func(s *MockStorageInterface, a *MockAuditInterface, l *MockLoggerInterface) {},
			identityID: "identity-1",
			email:      "a@example.com",
			tenantID:   "",
			expectErr:  true,
		},
		{
			name: "UnknownTenant",
			setupMocks: func(s *MockStorageInterface, a *MockAuditInterface, l *MockLoggerInterface) {
				s.EXPECT().GetTenantByID(gomock.Any(), "tenant-9").Return(nil, storage.ErrNotFound)
			},
			identityID: "identity-1",
			email:      "a@example.com",
			tenantID:   "tenant-9",
			expectErr:  true,
		},
		{
			name: "StorageFailure",
			setupMocks: func(s *MockStorageInterface, a *MockAuditInterface, l *MockLoggerInterface) {
				s.EXPECT().GetTenantByID(gomock.Any(), "tenant-1").Return(&types.Tenant{ID: "tenant-1"}, nil)
				s.EXPECT().CreateUserProfile(gomock.Any(), gomock.Any()).Return(errors.New("store unavailable"))
			},
			identityID: "identity-1",
			email:      "a@example.com",
			tenantID:   "tenant-1",
			expectErr:  true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockAudit := NewMockAuditInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockLogger := NewMockLoggerInterface(ctrl)

			ctx := context.Background()
			mockTracer.EXPECT().Start(gomock.Any(), "webhooks.Service.HandleRegistration").Return(ctx, trace.SpanFromContext(ctx))
			test.setupMocks(mockStorage, mockAudit, mockLogger)

			service := NewService(mockStorage, mockAudit, mockTracer, mockMonitor, mockLogger)

			err := service.HandleRegistration(ctx, test.identityID, test.email, test.tenantID)
			if test.expectErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !test.expectErr && err != nil {
				t.Errorf("expected error to be nil, got %v", err)
			}
		})
	}
}
