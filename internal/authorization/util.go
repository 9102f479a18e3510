// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

const (
	ADMIN_RELATION  = "admin"
	OWNER_RELATION  = "owner"
	MEMBER_RELATION = "member"

	TENANT_RELATION   = "tenant"
	PLATFORM_RELATION = "platform"

	CAN_VIEW_PERMISSION   = "can_view"
	CAN_EDIT_PERMISSION   = "can_edit"
	CAN_INVITE_PERMISSION = "can_invite"
	CAN_DELETE_PERMISSION = "can_delete"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func TenantTuple(tenantId string) string {
	return "tenant:" + tenantId
}

func WorkspaceTuple(workspaceId string) string {
	return "workspace:" + workspaceId
}

func PlatformTuple(platformId string) string {
	return "platform:" + platformId
}
