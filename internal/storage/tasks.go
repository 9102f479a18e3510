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

func (s *Storage) CreateTask(ctx context.Context, t *types.Task) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTask")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task ID: %w", err)
	}

	var created types.Task
	err = s.db.Statement(ctx).
		Insert("tasks").
		Columns("id", "tenant_id", "workspace_id", "board_id", "title", "status", "assignee_id").
		Values(id.String(), t.TenantID, t.WorkspaceID, t.BoardID, t.Title, t.Status, t.AssigneeID).
		Suffix("RETURNING id, tenant_id, workspace_id, board_id, title, status, assignee_id, created_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.TenantID, &created.WorkspaceID, &created.BoardID, &created.Title, &created.Status, &created.AssigneeID, &created.CreatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return &created, nil
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteTask")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("tasks").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *Storage) ListTasks(ctx context.Context, filter Filter, pageToken string) ([]*types.Task, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTasks")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "board_id", "title", "status", "assignee_id", "created_at").
		From("tasks").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize)
	query = filter.apply(query)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		var t types.Task
		if err := rows.Scan(&t.ID, &t.TenantID, &t.WorkspaceID, &t.BoardID, &t.Title, &t.Status, &t.AssigneeID, &t.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return tasks, nextPageToken(offset, len(tasks)), nil
}
