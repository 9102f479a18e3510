// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"context"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

const (
	ResultSuccess        = "success"
	ResultFailure        = "failure"
	ResultPartialFailure = "partial_failure"
)

type Recorder struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewRecorder(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Recorder {
	return &Recorder{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (r *Recorder) Record(ctx context.Context, record *types.AuditRecord) {
	ctx, span := r.tracer.Start(ctx, "audit.Recorder.Record")
	defer span.End()

	if _, err := r.storage.CreateAuditRecord(ctx, record); err != nil {
		r.logger.Errorf(
			"failed to write audit record %s %s/%s result %s: %v",
			record.Action, record.ResourceType, record.ResourceID, record.Result, err,
		)
	}
}

func (r *Recorder) List(ctx context.Context, tenantID, pageToken string) ([]*types.AuditRecord, string, error) {
	ctx, span := r.tracer.Start(ctx, "audit.Recorder.List")
	defer span.End()

	return r.storage.ListAuditRecords(ctx, storage.Filter{TenantID: tenantID}, pageToken)
}
