// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package pagination

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestCollectAllSinglePage(t *testing.T) {
	fetch := func(ctx context.Context, pageToken string) ([]string, string, error) {
		if pageToken != "" {
			t.Errorf("expected empty token on first call, got %q", pageToken)
		}
		return []string{"a", "b"}, "", nil
	}

	got, err := CollectAll(context.Background(), fetch)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCollectAllMultiplePages(t *testing.T) {
	pages := map[string]struct {
		items []int
		next  string
	}{
		"":   {items: []int{1, 2}, next: "p2"},
		"p2": {items: []int{3}, next: "p3"},
		"p3": {items: []int{4, 5}, next: ""},
	}

	var calls int
	fetch := func(ctx context.Context, pageToken string) ([]int, string, error) {
		calls++
		p, ok := pages[pageToken]
		if !ok {
			t.Fatalf("unexpected page token %q", pageToken)
		}
		return p.items, p.next, nil
	}

	got, err := CollectAll(context.Background(), fetch)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if want := []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if calls != 3 {
		t.Errorf("expected 3 fetches, got %d", calls)
	}
}

func TestCollectAllEmpty(t *testing.T) {
	fetch := func(ctx context.Context, pageToken string) ([]string, string, error) {
		return nil, "", nil
	}

	got, err := CollectAll(context.Background(), fetch)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no items, got %v", got)
	}
}

func TestCollectAllPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(ctx context.Context, pageToken string) ([]int, string, error) {
		if pageToken == "" {
			return []int{1}, "p2", nil
		}
		return nil, "", boom
	}

	got, err := CollectAll(context.Background(), fetch)
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if want := []int{1}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected partial results %v, got %v", want, got)
	}
}
