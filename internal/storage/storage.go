// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"encoding/base64"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/db"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
)

const listPageSize uint64 = 100

var _ StorageInterface = (*Storage)(nil)

// Filter narrows a collection listing. Zero-valued fields are ignored.
type Filter struct {
	TenantID    string
	WorkspaceID string
	IdentityID  string
	Email       string
	Role        string
	Status      string
}

func (f Filter) apply(query sq.SelectBuilder) sq.SelectBuilder {
	if f.TenantID != "" {
		query = query.Where(sq.Eq{"tenant_id": f.TenantID})
	}
	if f.WorkspaceID != "" {
		query = query.Where(sq.Eq{"workspace_id": f.WorkspaceID})
	}
	if f.IdentityID != "" {
		query = query.Where(sq.Eq{"identity_id": f.IdentityID})
	}
	if f.Email != "" {
		query = query.Where(sq.Eq{"email": f.Email})
	}
	if f.Role != "" {
		query = query.Where(sq.Eq{"role": f.Role})
	}
	if f.Status != "" {
		query = query.Where(sq.Eq{"status": f.Status})
	}
	return query
}

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

// Continuation tokens are base64 encoded offsets. They carry no
// structure callers may rely on.
func encodePageToken(offset uint64) string {
	return base64.URLEncoding.EncodeToString([]byte(strconv.FormatUint(offset, 10)))
}

func decodePageToken(token string) (uint64, error) {
	if token == "" {
		return 0, nil
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(string(data), 10, 64)
}

// nextPageToken returns the continuation token for the following page, or
// an empty string when the current page was not full.
func nextPageToken(offset uint64, fetched int) string {
	if uint64(fetched) < listPageSize {
		return ""
	}
	return encodePageToken(offset + listPageSize)
}
