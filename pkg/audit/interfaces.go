// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"context"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

type RecorderInterface interface {
	// Record appends an audit row for an operation outcome. It never
	// returns an error, the forensic trail must not change the result of
	// the operation it describes.
	Record(ctx context.Context, record *types.AuditRecord)
	List(ctx context.Context, tenantID, pageToken string) ([]*types.AuditRecord, string, error)
}

type StorageInterface interface {
	CreateAuditRecord(ctx context.Context, r *types.AuditRecord) (*types.AuditRecord, error)
	ListAuditRecords(ctx context.Context, filter storage.Filter, pageToken string) ([]*types.AuditRecord, string, error)
}
