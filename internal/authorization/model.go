// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	_ "embed"
	"encoding/json"
	"fmt"

	fga "github.com/openfga/go-sdk"
)

//go:embed v0_model.json
var v0Model []byte

// AuthorizationModelProvider hands out the authorization model shipped
// with this binary, keyed by version.
type AuthorizationModelProvider struct {
	version string
}

func NewAuthorizationModelProvider(version string) *AuthorizationModelProvider {
	return &AuthorizationModelProvider{version: version}
}

func (p *AuthorizationModelProvider) GetModel() *fga.AuthorizationModel {
	var raw []byte
	switch p.version {
	case "v0":
		raw = v0Model
	default:
		panic(fmt.Sprintf("unknown authorization model version %q", p.version))
	}

	model := new(fga.AuthorizationModel)
	if err := json.Unmarshal(raw, model); err != nil {
		panic(fmt.Sprintf("invalid embedded authorization model: %s", err))
	}
	return model
}
