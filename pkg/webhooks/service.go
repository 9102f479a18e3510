// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
)

type Service struct {
	storage StorageInterface
	audit   AuditInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	auditor AuditInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		audit:   auditor,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// HandleRegistration stores the profile for an identity that completed
// registration in Kratos. The identity's tenant trait must resolve to a
// known tenant, a registration without one is rejected.
func (s *Service) HandleRegistration(ctx context.Context, identityID, email, tenantID string) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	if identityID == "" || email == "" {
		return fmt.Errorf("identity id or email is empty")
	}
	if tenantID == "" {
		return fmt.Errorf("identity %s carries no tenant trait", identityID)
	}

	if _, err := s.storage.GetTenantByID(ctx, tenantID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("unknown tenant %s on identity %s", tenantID, identityID)
		}
		return fmt.Errorf("failed to resolve tenant: %w", err)
	}

	// The profile may already exist when the invitation flow wrote it
	// ahead of registration.
	err := s.storage.CreateUserProfile(ctx, &types.UserProfile{
		IdentityID: identityID,
		TenantID:   tenantID,
		Email:      email,
	})
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	s.audit.Record(ctx, &types.AuditRecord{
		TenantID:     tenantID,
		ActorID:      identityID,
		Action:       "identity.register",
		ResourceType: "identity",
		ResourceID:   identityID,
		Result:       audit.ResultSuccess,
	})

	s.logger.Debugf("stored profile for identity %s in tenant %s", identityID, tenantID)
	return nil
}
