// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	ory "github.com/ory/client-go"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
)

var (
	ErrIdentityAlreadyExists = errors.New("identity already exists")
	ErrIdentityNotFound      = errors.New("identity not found")
)

type ClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email, tenantID string) (string, error)
	GetIdentity(ctx context.Context, id string) (*ory.Identity, error)
	DisableIdentity(ctx context.Context, id string) error
	EnableIdentity(ctx context.Context, id string) error
	DeleteIdentity(ctx context.Context, id string) error
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}

type Client struct {
	client  *ory.APIClient
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(kratosAdminURL string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{{URL: kratosAdminURL}}
	return &Client{
		client:  ory.NewAPIClient(conf),
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// GetIdentityIDByEmail returns the id of the identity whose credentials
// identifier matches email, or the empty string when none exists.
func (c *Client) GetIdentityIDByEmail(ctx context.Context, email string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.GetIdentityIDByEmail")
	defer span.End()

	// NOTE: we are setting an empty page token because of https://github.com/ory/sdk/issues/461
	// TODO: remove
	ids, r, err := c.client.IdentityAPI.ListIdentities(ctx).CredentialsIdentifier(email).PageToken("").Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to list identities: %w", err)
	}

	if len(ids) == 0 {
		return "", nil
	}

	// Emails are unique credentials identifiers in Kratos.
	return ids[0].Id, nil
}

func (c *Client) CreateIdentity(ctx context.Context, email, tenantID string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.CreateIdentity")
	defer span.End()

	traits := map[string]interface{}{
		"email":     email,
		"tenant_id": tenantID,
	}

	createIdentityBody := ory.CreateIdentityBody{
		SchemaId: "default",
		Traits:   traits,
	}

	identity, r, err := c.client.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(createIdentityBody).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusConflict {
			return "", ErrIdentityAlreadyExists
		}
		return "", fmt.Errorf("failed to create identity: %w", err)
	}

	return identity.Id, nil
}

func (c *Client) GetIdentity(ctx context.Context, id string) (*ory.Identity, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.GetIdentity")
	defer span.End()

	identity, r, err := c.client.IdentityAPI.GetIdentity(ctx, id).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return identity, nil
}

// DisableIdentity moves the identity to the inactive state so it can no
// longer start sessions. Disabling an already inactive identity is a no-op.
func (c *Client) DisableIdentity(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "kratos.DisableIdentity")
	defer span.End()

	state := "inactive"
	patch := []ory.JsonPatch{
		{Op: "replace", Path: "/state", Value: &state},
	}

	_, r, err := c.client.IdentityAPI.PatchIdentity(ctx, id).JsonPatch(patch).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("failed to disable identity: %w", err)
	}

	return nil
}

// EnableIdentity moves the identity back to the active state. Enabling
// an already active identity is a no-op.
func (c *Client) EnableIdentity(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "kratos.EnableIdentity")
	defer span.End()

	state := "active"
	patch := []ory.JsonPatch{
		{Op: "replace", Path: "/state", Value: &state},
	}

	_, r, err := c.client.IdentityAPI.PatchIdentity(ctx, id).JsonPatch(patch).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("failed to enable identity: %w", err)
	}

	return nil
}

func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "kratos.DeleteIdentity")
	defer span.End()

	r, err := c.client.IdentityAPI.DeleteIdentity(ctx, id).Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return ErrIdentityNotFound
		}
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	return nil
}

func (c *Client) CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.CreateRecoveryLink")
	defer span.End()

	body := ory.CreateRecoveryCodeForIdentityBody{
		IdentityId: identityID,
		ExpiresIn:  &expiresIn,
	}

	recoveryCode, _, err := c.client.IdentityAPI.CreateRecoveryCodeForIdentity(ctx).CreateRecoveryCodeForIdentityBody(body).Execute()
	if err != nil {
		return "", "", fmt.Errorf("failed to create recovery code: %w", err)
	}

	return recoveryCode.RecoveryLink, recoveryCode.RecoveryCode, nil
}
