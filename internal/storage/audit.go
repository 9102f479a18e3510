// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

func (s *Storage) CreateAuditRecord(ctx context.Context, r *types.AuditRecord) (*types.AuditRecord, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateAuditRecord")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate audit record ID: %w", err)
	}

	var created types.AuditRecord
	err = s.db.Statement(ctx).
		Insert("audit_records").
		Columns("id", "tenant_id", "workspace_id", "actor_id", "action", "resource_type", "resource_id", "result", "metadata").
		Values(id.String(), r.TenantID, r.WorkspaceID, r.ActorID, r.Action, r.ResourceType, r.ResourceID, r.Result, r.Metadata).
		Suffix("RETURNING id, tenant_id, workspace_id, actor_id, action, resource_type, resource_id, result, metadata, created_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.TenantID, &created.WorkspaceID, &created.ActorID, &created.Action, &created.ResourceType, &created.ResourceID, &created.Result, &created.Metadata, &created.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert audit record: %w", err)
	}

	return &created, nil
}

func (s *Storage) DeleteAuditRecord(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteAuditRecord")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("audit_records").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete audit record: %w", err)
	}
	return nil
}

func (s *Storage) ListAuditRecords(ctx context.Context, filter Filter, pageToken string) ([]*types.AuditRecord, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListAuditRecords")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "actor_id", "action", "resource_type", "resource_id", "result", "metadata", "created_at").
		From("audit_records").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize)
	query = filter.apply(query)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var records []*types.AuditRecord
	for rows.Next() {
		var r types.AuditRecord
		if err := rows.Scan(&r.ID, &r.TenantID, &r.WorkspaceID, &r.ActorID, &r.Action, &r.ResourceType, &r.ResourceID, &r.Result, &r.Metadata, &r.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan audit record: %w", err)
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nextPageToken(offset, len(records)), nil
}
