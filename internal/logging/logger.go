// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ LoggerInterface = (*Logger)(nil)

type Logger struct {
	*zap.SugaredLogger

	security *SecurityLogger
}

func (l *Logger) Security() *SecurityLogger {
	return l.security
}

// SecurityLogger emits structured audit-grade log lines for security
// relevant lifecycle events, separate from application logging.
type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "system_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "system_shutdown"))
}

func (s *SecurityLogger) AuthzFailure(subject, policy string) {
	s.l.Warn(
		"authorization failure",
		zap.String("event", "authz_failure"),
		zap.String("subject", subject),
		zap.String("policy", policy),
	)
}

func (s *SecurityLogger) IdentityDisabled(identityID, actorID string) {
	s.l.Info(
		"identity disabled",
		zap.String("event", "identity_disabled"),
		zap.String("identity_id", identityID),
		zap.String("actor_id", actorID),
	)
}

func NewLogger(level string) *Logger {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		l = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(l)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	return &Logger{
		SugaredLogger: logger.Sugar(),
		security:      &SecurityLogger{l: logger},
	}
}
