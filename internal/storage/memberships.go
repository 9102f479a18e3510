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

func (s *Storage) CreateMembership(ctx context.Context, m *types.Membership) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateMembership")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate membership ID: %w", err)
	}

	var created types.Membership
	err = s.db.Statement(ctx).
		Insert("memberships").
		Columns("id", "tenant_id", "workspace_id", "identity_id", "role", "status").
		Values(id.String(), m.TenantID, m.WorkspaceID, m.IdentityID, m.Role, m.Status).
		Suffix("RETURNING id, tenant_id, workspace_id, identity_id, role, status, joined_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.TenantID, &created.WorkspaceID, &created.IdentityID, &created.Role, &created.Status, &created.JoinedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		if IsForeignKeyViolation(err) {
			return nil, ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to insert membership: %w", err)
	}

	return &created, nil
}

func (s *Storage) GetMembershipByID(ctx context.Context, id string) (*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetMembershipByID")
	defer span.End()

	var m types.Membership
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "identity_id", "role", "status", "joined_at").
		From("memberships").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&m.ID, &m.TenantID, &m.WorkspaceID, &m.IdentityID, &m.Role, &m.Status, &m.JoinedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return &m, nil
}

func (s *Storage) SetMembershipStatus(ctx context.Context, id, status string) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetMembershipStatus")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("memberships").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to set membership status: %w", err)
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

func (s *Storage) SetMembershipRole(ctx context.Context, id, role string) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetMembershipRole")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("memberships").
		Set("role", role).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to set membership role: %w", err)
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

func (s *Storage) DeleteMembership(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteMembership")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("memberships").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

func (s *Storage) ListMemberships(ctx context.Context, filter Filter, pageToken string) ([]*types.Membership, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListMemberships")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "identity_id", "role", "status", "joined_at").
		From("memberships").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize)
	query = filter.apply(query)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*types.Membership
	for rows.Next() {
		var m types.Membership
		if err := rows.Scan(&m.ID, &m.TenantID, &m.WorkspaceID, &m.IdentityID, &m.Role, &m.Status, &m.JoinedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return memberships, nextPageToken(offset, len(memberships)), nil
}
