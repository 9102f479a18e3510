// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package mail delivers transactional mail over SMTP. Delivery failures
// are reported to callers and never retried here; orchestrators decide
// whether a failed send fails the whole operation.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type Mailer struct {
	config Config
	server string
	auth   smtp.Auth

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewMailer(config Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Mailer {
	m := new(Mailer)
	m.config = config
	m.server = config.Host + ":" + config.Port
	m.auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	m.tracer = tracer
	m.monitor = monitor
	m.logger = logger
	return m
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	_, span := m.tracer.Start(ctx, "mail.Mailer.Send")
	defer span.End()

	from := m.config.From
	if m.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.config.FromName, m.config.From)
	}

	msg := []byte(strings.Join([]string{
		"To: " + to,
		"From: " + from,
		"Subject: " + subject,
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n"))

	if err := smtp.SendMail(m.server, m.auth, m.config.From, []string{to}, msg); err != nil {
		m.logger.Errorf("failed to send mail to %s: %s", to, err)
		return err
	}

	return nil
}

func (m *Mailer) SendInvitation(ctx context.Context, to, token, workspaceName, role string) error {
	ctx, span := m.tracer.Start(ctx, "mail.Mailer.SendInvitation")
	defer span.End()

	subject := fmt.Sprintf("You have been invited to join %s", workspaceName)
	body := fmt.Sprintf(
		"You have been invited to join the workspace %q as %s.\n\n"+
			"Use the following token to accept the invitation:\n\n%s\n",
		workspaceName, role, token,
	)

	return m.Send(ctx, to, subject, body)
}

func (m *Mailer) SendRecoveryLink(ctx context.Context, to, link string) error {
	ctx, span := m.tracer.Start(ctx, "mail.Mailer.SendRecoveryLink")
	defer span.End()

	subject := "Set up your account"
	body := fmt.Sprintf("Follow this link to set your credentials:\n\n%s\n", link)

	return m.Send(ctx, to, subject, body)
}
