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

const tenantColumns = "id, company_name, status, plan, subscription_id, customer_id, created_at, updated_at"

func (s *Storage) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTenant")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tenant ID: %w", err)
	}

	var created types.Tenant
	err = s.db.Statement(ctx).
		Insert("tenants").
		Columns("id", "company_name", "status", "plan", "subscription_id", "customer_id").
		Values(id.String(), t.CompanyName, t.Status, t.Plan, t.SubscriptionID, t.CustomerID).
		Suffix("RETURNING " + tenantColumns).
		QueryRowContext(ctx).
		Scan(&created.ID, &created.CompanyName, &created.Status, &created.Plan, &created.SubscriptionID, &created.CustomerID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	return &created, nil
}

func (s *Storage) GetTenantByID(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByID")
	defer span.End()

	var t types.Tenant
	err := s.db.Statement(ctx).
		Select("id", "company_name", "status", "plan", "subscription_id", "customer_id", "created_at", "updated_at").
		From("tenants").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx).
		Scan(&t.ID, &t.CompanyName, &t.Status, &t.Plan, &t.SubscriptionID, &t.CustomerID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return &t, nil
}

// UpdateTenant updates the fields named in paths, PATCH style. Supported
// paths are company_name, status and plan.
func (s *Storage) UpdateTenant(ctx context.Context, t *types.Tenant, paths []string) error {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateTenant")
	defer span.End()

	updateMap := make(map[string]interface{})
	for _, p := range paths {
		switch p {
		case "company_name":
			updateMap["company_name"] = t.CompanyName
		case "status":
			updateMap["status"] = t.Status
		case "plan":
			updateMap["plan"] = t.Plan
		}
	}

	if len(updateMap) == 0 {
		return nil
	}
	updateMap["updated_at"] = sq.Expr("now()")

	res, err := s.db.Statement(ctx).
		Update("tenants").
		SetMap(updateMap).
		Where(sq.Eq{"id": t.ID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
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

func (s *Storage) DeleteTenant(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.DeleteTenant")
	defer span.End()

	_, err := s.db.Statement(ctx).
		Delete("tenants").
		Where(sq.Eq{"id": id}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	return nil
}

func (s *Storage) ListTenants(ctx context.Context, pageToken string) ([]*types.Tenant, string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListTenants")
	defer span.End()

	offset, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", ErrInvalidPageToken
	}

	rows, err := s.db.Statement(ctx).
		Select("id", "company_name", "status", "plan", "subscription_id", "customer_id", "created_at", "updated_at").
		From("tenants").
		OrderBy("id").
		Offset(offset).
		Limit(listPageSize).
		QueryContext(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*types.Tenant
	for rows.Next() {
		var t types.Tenant
		if err := rows.Scan(&t.ID, &t.CompanyName, &t.Status, &t.Plan, &t.SubscriptionID, &t.CustomerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, "", fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration error: %w", err)
	}

	return tenants, nextPageToken(offset, len(tenants)), nil
}
