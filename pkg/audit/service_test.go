// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"
	gomock "go.uber.org/mock/gomock"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_interfaces.go -source=./interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package audit -destination ./mock_tracing.go -source=../../internal/tracing/interfaces.go

func TestRecorderRecord(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "Success",
			err:  nil,
		},
		{
			name: "StorageErrorIsSwallowed",
			err:  errors.New("connection reset"),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLogger := NewMockLoggerInterface(ctrl)
			mockTracer := NewMockTracingInterface(ctrl)
			mockMonitor := NewMockMonitorInterface(ctrl)
			mockStorage := NewMockStorageInterface(ctrl)

			ctx := context.Background()

			record := &types.AuditRecord{
				TenantID:     "tenant-1",
				ActorID:      "actor-1",
				Action:       "tenant.delete",
				ResourceType: "tenant",
				ResourceID:   "tenant-1",
				Result:       ResultSuccess,
			}

			mockTracer.EXPECT().Start(ctx, "audit.Recorder.Record").Return(ctx, trace.SpanFromContext(ctx))
			mockStorage.EXPECT().CreateAuditRecord(ctx, record).Return(record, test.err)

			if test.err != nil {
				mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())
			}

			recorder := NewRecorder(mockStorage, mockTracer, mockMonitor, mockLogger)
			recorder.Record(ctx, record)
		})
	}
}

func TestRecorderList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)
	mockTracer := NewMockTracingInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)
	mockStorage := NewMockStorageInterface(ctrl)

	ctx := context.Background()

	records := []*types.AuditRecord{
		{TenantID: "tenant-1", Action: "tenant.create", Result: ResultSuccess},
	}

	mockTracer.EXPECT().Start(ctx, "audit.Recorder.List").Return(ctx, trace.SpanFromContext(ctx))
	mockStorage.EXPECT().ListAuditRecords(ctx, storage.Filter{TenantID: "tenant-1"}, "").Return(records, "", nil)

	recorder := NewRecorder(mockStorage, mockTracer, mockMonitor, mockLogger)

	got, nextToken, err := recorder.List(ctx, "tenant-1", "")
	if err != nil {
		t.Errorf("expected error to be nil, got %v", err)
	}
	if nextToken != "" {
		t.Errorf("expected empty continuation token, got %q", nextToken)
	}
	if len(got) != 1 || got[0].Action != "tenant.create" {
		t.Errorf("unexpected records returned: %v", got)
	}
}
