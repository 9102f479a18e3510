// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package mail

import "context"

type MailerInterface interface {
	Send(ctx context.Context, to, subject, body string) error
	SendInvitation(ctx context.Context, to, token, workspaceName, role string) error
	SendRecoveryLink(ctx context.Context, to, link string) error
}
