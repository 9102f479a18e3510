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

func (s *Storage) CreateTaskBoard(ctx context.Context, b *types.TaskBoard) (*types.TaskBoard, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTaskBoard")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate board ID: %w", err)
	}

	var created types.TaskBoard
	err = s.db.Statement(ctx).
		Insert("task_boards").
		Columns("id", "tenant_id", "workspace_id", "name").
		Values(id.String(), b.TenantID, b.WorkspaceID, b.Name).
		Suffix("RETURNING id, tenant_id, workspace_id, name, created_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.TenantID, &created.WorkspaceID, &created.Name, &created.CreatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert task board: %w", err)
	}

	return &created, nil
}

func (s *Storage) DeleteTaskBoard(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteTaskBoard")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("task_boards").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete task board: %w", err)
	}
	return nil
}

func (s *Storage) ListTaskBoards(ctx context.Context, filter Filter, pageToken string) ([]*types.TaskBoard, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTaskBoards")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "name", "created_at").
		From("task_boards").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize)
	query = filter.apply(query)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list task boards: %w", err)
	}
	defer rows.Close()

	var boards []*types.TaskBoard
	for rows.Next() {
		var b types.TaskBoard
		if err := rows.Scan(&b.ID, &b.TenantID, &b.WorkspaceID, &b.Name, &b.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan task board: %w", err)
		}
		boards = append(boards, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return boards, nextPageToken(offset, len(boards)), nil
}
