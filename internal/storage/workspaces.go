// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

func (s *Storage) CreateWorkspace(ctx context.Context, w *types.Workspace) (*types.Workspace, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateWorkspace")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate workspace ID: %w", err)
	}

	var created types.Workspace
	err = s.db.Statement(ctx).
		Insert("workspaces").
		Columns("id", "tenant_id", "name", "owner_identity_id", "is_active", "is_deleted").
		Values(id.String(), w.TenantID, w.Name, w.OwnerIdentityID, true, false).
		Suffix("RETURNING id, tenant_id, name, owner_identity_id, is_active, is_deleted, created_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.TenantID, &created.Name, &created.OwnerIdentityID, &created.IsActive, &created.IsDeleted, &created.CreatedAt)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert workspace: %w", err)
	}

	return &created, nil
}

func (s *Storage) GetWorkspaceByID(ctx context.Context, id string) (*types.Workspace, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetWorkspaceByID")
	defer span.End()

	var w types.Workspace
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "name", "owner_identity_id", "is_active", "is_deleted", "created_at").
		From("workspaces").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&w.ID, &w.TenantID, &w.Name, &w.OwnerIdentityID, &w.IsActive, &w.IsDeleted, &w.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &w, nil
}

func (s *Storage) UpdateWorkspaceOwner(ctx context.Context, id, ownerIdentityID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateWorkspaceOwner")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("workspaces").
		Set("owner_identity_id", ownerIdentityID).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to update workspace owner: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) DeleteWorkspace(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteWorkspace")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("workspaces").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

func (s *Storage) ListWorkspaces(ctx context.Context, filter Filter, pageToken string) ([]*types.Workspace, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListWorkspaces")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "name", "owner_identity_id", "is_active", "is_deleted", "created_at").
		From("workspaces").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize)
	query = filter.apply(query)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*types.Workspace
	for rows.Next() {
		var w types.Workspace
		if err := rows.Scan(&w.ID, &w.TenantID, &w.Name, &w.OwnerIdentityID, &w.IsActive, &w.IsDeleted, &w.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan workspace: %w", err)
		}
		workspaces = append(workspaces, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return workspaces, nextPageToken(offset, len(workspaces)), nil
}
