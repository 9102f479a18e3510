// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package pagination drains cursor paginated listings into full result
// sets. Cascading deletion collects every affected row up front before a
// single delete is issued, so the collector is the building block for
// those operations.
package pagination

import "context"

// PageFunc fetches one page for the given continuation token and returns
// the page plus the token for the next one, empty when exhausted.
type PageFunc[T any] func(ctx context.Context, pageToken string) ([]T, string, error)

// CollectAll walks fetch until the continuation token comes back empty and
// returns the concatenation of every page. An error on any page aborts the
// walk and returns what was collected so far alongside the error.
func CollectAll[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var all []T
	var pageToken string

	for {
		page, next, err := fetch(ctx, pageToken)
		if err != nil {
			return all, err
		}

		all = append(all, page...)

		if next == "" {
			return all, nil
		}
		pageToken = next
	}
}
