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

func (s *Storage) CreateNotification(ctx context.Context, n *types.Notification) (*types.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateNotification")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notification ID: %w", err)
	}

	var created types.Notification
	err = s.db.Statement(ctx).
		Insert("notifications").
		Columns("id", "tenant_id", "workspace_id", "identity_id", "kind", "payload", "read").
		Values(id.String(), n.TenantID, n.WorkspaceID, n.IdentityID, n.Kind, n.Payload, false).
		Suffix("RETURNING id, tenant_id, workspace_id, identity_id, kind, payload, read, created_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.TenantID, &created.WorkspaceID, &created.IdentityID, &created.Kind, &created.Payload, &created.Read, &created.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	return &created, nil
}

func (s *Storage) DeleteNotification(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteNotification")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("notifications").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *Storage) ListNotifications(ctx context.Context, filter Filter, pageToken string) ([]*types.Notification, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListNotifications")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "identity_id", "kind", "payload", "read", "created_at").
		From("notifications").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize)
	query = filter.apply(query)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*types.Notification
	for rows.Next() {
		var n types.Notification
		if err := rows.Scan(&n.ID, &n.TenantID, &n.WorkspaceID, &n.IdentityID, &n.Kind, &n.Payload, &n.Read, &n.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return notifications, nextPageToken(offset, len(notifications)), nil
}
