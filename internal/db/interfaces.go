// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
)

// DBClientInterface exposes single-statement, autocommit execution only.
// The store offers per-item read-after-write consistency but no
// multi-item atomicity; multi-entity operations are ordered sagas built
// on top of it, never transactions.
type DBClientInterface interface {
	Statement(context.Context) sq.StatementBuilderType
	Close()
}
