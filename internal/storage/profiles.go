// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

// CreateUserProfile inserts the profile keyed by its identity id. Callers
// rely on ErrDuplicateKey to detect a profile left behind by an earlier
// partial run, so the conflict is surfaced rather than upserted away.
func (s *Storage) CreateUserProfile(ctx context.Context, p *types.UserProfile) error {
	ctx, span := s.tracer.Start(ctx, "storage.CreateUserProfile")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Insert("user_profiles").
		Columns("identity_id", "tenant_id", "email", "name").
		Values(p.IdentityID, p.TenantID, p.Email, p.Name).
		ExecContext(ctx)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert user profile: %w", err)
	}

	return nil
}

func (s *Storage) GetUserProfile(ctx context.Context, identityID string) (*types.UserProfile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetUserProfile")
	defer span.End()

	var p types.UserProfile
	err := s.db.Statement(ctx).
		Select("identity_id", "tenant_id", "email", "name", "created_at").
		From("user_profiles").
		Where(sq.Eq{"identity_id": identityID}).
		QueryRowContext(ctx).
		Scan(&p.IdentityID, &p.TenantID, &p.Email, &p.Name, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	return &p, nil
}

func (s *Storage) DeleteUserProfile(ctx context.Context, identityID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteUserProfile")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("user_profiles").
		Where(sq.Eq{"identity_id": identityID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete user profile: %w", err)
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
