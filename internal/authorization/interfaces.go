// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/go-sdk/client"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/openfga"
)

type AuthorizerInterface interface {
	ListObjects(context.Context, string, string, string) ([]string, error)
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	FilterObjects(context.Context, string, string, string, []string) ([]string, error)
	ValidateModel(context.Context) error

	AssignTenantAdmin(context.Context, string, string) error
	RemoveTenantAdmin(context.Context, string, string) error
	AssignWorkspaceOwner(context.Context, string, string) error
	RemoveWorkspaceOwner(context.Context, string, string) error
	AssignWorkspaceMember(context.Context, string, string) error
	RemoveWorkspaceMember(context.Context, string, string) error
	// AssignPlatformSuperAdmin grants a user admin access to every tenant
	// linked to the platform group.
	AssignPlatformSuperAdmin(context.Context, string, string) error
	// LinkTenantToPlatform binds a tenant to a platform group so platform
	// super admins can reach it.
	LinkTenantToPlatform(context.Context, string, string) error
	// LinkWorkspaceToTenant makes tenant admins resolve on the workspace
	// through the parent relation.
	LinkWorkspaceToTenant(context.Context, string, string) error

	DeleteTenantTuples(context.Context, string) error
	DeleteWorkspaceTuples(context.Context, string) error
	CheckTenantAccess(context.Context, string, string, string) (bool, error)
	CheckWorkspaceAccess(context.Context, string, string, string) (bool, error)
}

type AuthzClientInterface interface {
	ListObjects(context.Context, string, string, string) ([]string, error)
	Check(context.Context, string, string, string, ...openfga.Tuple) (bool, error)
	BatchCheck(context.Context, ...openfga.TupleWithContext) (bool, error)
	ReadModel(context.Context) (*fga.AuthorizationModel, error)
	CompareModel(context.Context, fga.AuthorizationModel) (bool, error)
	ReadTuples(context.Context, string, string, string, string) (*client.ClientReadResponse, error)
	WriteTuple(ctx context.Context, user, relation, object string) error
	DeleteTuple(ctx context.Context, user, relation, object string) error
	WriteTuples(context.Context, ...openfga.Tuple) error
	DeleteTuples(context.Context, ...openfga.Tuple) error
}
