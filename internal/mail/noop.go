// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package mail

import (
	"context"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
)

// NoopMailer logs instead of sending. It backs deployments without an
// SMTP relay.
type NoopMailer struct {
	logger logging.LoggerInterface
}

func NewNoopMailer(logger logging.LoggerInterface) *NoopMailer {
	return &NoopMailer{logger: logger}
}

func (m *NoopMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Debugf("mail disabled, dropping message to %s: %s", to, subject)
	return nil
}

func (m *NoopMailer) SendInvitation(ctx context.Context, to, token, workspaceName, role string) error {
	m.logger.Debugf("mail disabled, dropping invitation for %s to workspace %s", to, workspaceName)
	return nil
}

func (m *NoopMailer) SendRecoveryLink(ctx context.Context, to, link string) error {
	m.logger.Debugf("mail disabled, dropping recovery link for %s", to)
	return nil
}
