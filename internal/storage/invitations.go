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

const invitationColumns = "id, tenant_id, workspace_id, email, role, invited_by, token, status, sent_at, expires_at"

func (s *Storage) CreateInvitation(ctx context.Context, i *types.Invitation) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateInvitation")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation ID: %w", err)
	}

	var created types.Invitation
	err = s.db.Statement(ctx).
		Insert("invitations").
		Columns("id", "tenant_id", "workspace_id", "email", "role", "invited_by", "token", "status", "expires_at").
		Values(id.String(), i.TenantID, i.WorkspaceID, i.Email, i.Role, i.InvitedBy, i.Token, i.Status, i.ExpiresAt).
		Suffix("RETURNING " + invitationColumns).
		QueryRowContext(ctx).
		Scan(&created.ID, &created.TenantID, &created.WorkspaceID, &created.Email, &created.Role, &created.InvitedBy, &created.Token, &created.Status, &created.SentAt, &created.ExpiresAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert invitation: %w", err)
	}

	return &created, nil
}

func (s *Storage) GetInvitationByID(ctx context.Context, id string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetInvitationByID")
	defer span.End()

	return s.getInvitation(ctx, sq.Eq{"id": id})
}

func (s *Storage) GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetInvitationByToken")
	defer span.End()

	return s.getInvitation(ctx, sq.Eq{"token": token})
}

func (s *Storage) getInvitation(ctx context.Context, where sq.Eq) (*types.Invitation, error) {
	var i types.Invitation
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "email", "role", "invited_by", "token", "status", "sent_at", "expires_at").
		From("invitations").
		Where(where).
		QueryRowContext(ctx).
		Scan(&i.ID, &i.TenantID, &i.WorkspaceID, &i.Email, &i.Role, &i.InvitedBy, &i.Token, &i.Status, &i.SentAt, &i.ExpiresAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return &i, nil
}

func (s *Storage) SetInvitationStatus(ctx context.Context, id, status string) error {
	ctx, span := s.tracer.Start(ctx, "storage.SetInvitationStatus")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("invitations").
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to set invitation status: %w", err)
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

func (s *Storage) DeleteInvitation(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteInvitation")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("invitations").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	return nil
}

func (s *Storage) ListInvitations(ctx context.Context, filter Filter, pageToken string) ([]*types.Invitation, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListInvitations")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	query := s.db.Statement(ctx).
		Select("id", "tenant_id", "workspace_id", "email", "role", "invited_by", "token", "status", "sent_at", "expires_at").
		From("invitations").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize)
	query = filter.apply(query)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*types.Invitation
	for rows.Next() {
		var i types.Invitation
		if err := rows.Scan(&i.ID, &i.TenantID, &i.WorkspaceID, &i.Email, &i.Role, &i.InvitedBy, &i.Token, &i.Status, &i.SentAt, &i.ExpiresAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, &i)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return invitations, nextPageToken(offset, len(invitations)), nil
}
