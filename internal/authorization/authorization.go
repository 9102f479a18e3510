// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"
	"slices"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/openfga"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
)

var ErrInvalidAuthModel = fmt.Errorf("invalid authorization model schema")

type Authorizer struct {
	client AuthzClientInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (a *Authorizer) Check(ctx context.Context, user string, relation string, object string, contextualTuples ...openfga.Tuple) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.Check")
	defer span.End()

	return a.client.Check(ctx, user, relation, object, contextualTuples...)
}

func (a *Authorizer) ListObjects(ctx context.Context, user string, relation string, objectType string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ListObjects")
	defer span.End()

	return a.client.ListObjects(ctx, user, relation, objectType)
}

func (a *Authorizer) FilterObjects(ctx context.Context, user string, relation string, objectType string, objs []string) ([]string, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.FilterObjects")
	defer span.End()

	allowedObjs, err := a.ListObjects(ctx, user, relation, objectType)
	if err != nil {
		return nil, err
	}

	var ret []string
	for _, obj := range allowedObjs {
		if slices.Contains(objs, obj) {
			ret = append(ret, obj)
		}
	}
	return ret, nil
}

func (a *Authorizer) ValidateModel(ctx context.Context) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.ValidateModel")
	defer span.End()

	v0AuthzModel := NewAuthorizationModelProvider("v0")
	model := *v0AuthzModel.GetModel()

	eq, err := a.client.CompareModel(ctx, model)
	if err != nil {
		return err
	}
	if !eq {
		return ErrInvalidAuthModel
	}
	return nil
}

func (a *Authorizer) AssignTenantAdmin(ctx context.Context, tenantId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignTenantAdmin")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), ADMIN_RELATION, TenantTuple(tenantId))
}

func (a *Authorizer) RemoveTenantAdmin(ctx context.Context, tenantId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveTenantAdmin")
	defer span.End()

	return a.client.DeleteTuple(ctx, UserTuple(userId), ADMIN_RELATION, TenantTuple(tenantId))
}

func (a *Authorizer) AssignWorkspaceOwner(ctx context.Context, workspaceId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignWorkspaceOwner")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), OWNER_RELATION, WorkspaceTuple(workspaceId))
}

func (a *Authorizer) RemoveWorkspaceOwner(ctx context.Context, workspaceId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveWorkspaceOwner")
	defer span.End()

	return a.client.DeleteTuple(ctx, UserTuple(userId), OWNER_RELATION, WorkspaceTuple(workspaceId))
}

func (a *Authorizer) AssignWorkspaceMember(ctx context.Context, workspaceId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignWorkspaceMember")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), MEMBER_RELATION, WorkspaceTuple(workspaceId))
}

func (a *Authorizer) RemoveWorkspaceMember(ctx context.Context, workspaceId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.RemoveWorkspaceMember")
	defer span.End()

	return a.client.DeleteTuple(ctx, UserTuple(userId), MEMBER_RELATION, WorkspaceTuple(workspaceId))
}

func (a *Authorizer) AssignPlatformSuperAdmin(ctx context.Context, platformId, userId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.AssignPlatformSuperAdmin")
	defer span.End()

	return a.client.WriteTuple(ctx, UserTuple(userId), ADMIN_RELATION, PlatformTuple(platformId))
}

func (a *Authorizer) LinkTenantToPlatform(ctx context.Context, tenantId, platformId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.LinkTenantToPlatform")
	defer span.End()

	return a.client.WriteTuple(ctx, PlatformTuple(platformId), PLATFORM_RELATION, TenantTuple(tenantId))
}

func (a *Authorizer) LinkWorkspaceToTenant(ctx context.Context, workspaceId, tenantId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.LinkWorkspaceToTenant")
	defer span.End()

	return a.client.WriteTuple(ctx, TenantTuple(tenantId), TENANT_RELATION, WorkspaceTuple(workspaceId))
}

func (a *Authorizer) CheckTenantAccess(ctx context.Context, tenantId, userId, relation string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckTenantAccess")
	defer span.End()

	return a.Check(ctx, UserTuple(userId), relation, TenantTuple(tenantId))
}

func (a *Authorizer) CheckWorkspaceAccess(ctx context.Context, workspaceId, userId, relation string) (bool, error) {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.CheckWorkspaceAccess")
	defer span.End()

	return a.Check(ctx, UserTuple(userId), relation, WorkspaceTuple(workspaceId))
}

// DeleteTenantTuples drops every tuple attached to the tenant object,
// page by page. Workspace scoped tuples are removed separately via
// DeleteWorkspaceTuples when the cascade walks the workspaces.
func (a *Authorizer) DeleteTenantTuples(ctx context.Context, tenantId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.DeleteTenantTuples")
	defer span.End()

	return a.deleteObjectTuples(ctx, TenantTuple(tenantId))
}

func (a *Authorizer) DeleteWorkspaceTuples(ctx context.Context, workspaceId string) error {
	ctx, span := a.tracer.Start(ctx, "authorization.Authorizer.DeleteWorkspaceTuples")
	defer span.End()

	return a.deleteObjectTuples(ctx, WorkspaceTuple(workspaceId))
}

func (a *Authorizer) deleteObjectTuples(ctx context.Context, object string) error {
	cToken := ""
	for {
		r, err := a.client.ReadTuples(ctx, "", "", object, cToken)
		if err != nil {
			a.logger.Errorf("error when retrieving tuples: %s", err)
			return err
		}
		if len(r.Tuples) == 0 {
			break
		}
		ts := make([]openfga.Tuple, len(r.Tuples))
		for i, t := range r.Tuples {
			ts[i] = *openfga.NewTuple(t.Key.User, t.Key.Relation, t.Key.Object)
		}
		if err := a.client.DeleteTuples(ctx, ts...); err != nil {
			a.logger.Errorf("error when deleting tuples %v: %s", ts, err)
			return err
		}
		if r.ContinuationToken == "" {
			break
		}
		cToken = r.ContinuationToken
	}
	return nil
}

func NewAuthorizer(client AuthzClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)
	authorizer.client = client
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
