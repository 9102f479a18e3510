// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import "fmt"

type Tuple struct {
	User     string
	Relation string
	Object   string
}

func (t *Tuple) String() string {
	return fmt.Sprintf("%s %s %s", t.User, t.Relation, t.Object)
}

func NewTuple(user, relation, object string) *Tuple {
	return &Tuple{
		User:     user,
		Relation: relation,
		Object:   object,
	}
}

// TupleWithContext is a check target plus the contextual tuples evaluated
// alongside it.
type TupleWithContext struct {
	Tuple            Tuple
	ContextualTuples []Tuple
}
