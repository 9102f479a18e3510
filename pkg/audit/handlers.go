// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package audit

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
)

type API struct {
	recorder RecorderInterface

	logger logging.LoggerInterface
}

func NewAPI(recorder RecorderInterface, logger logging.LoggerInterface) *API {
	return &API{
		recorder: recorder,
		logger:   logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/tenants/{tenant_id}/audit", a.list)
}

type listResponse struct {
	Data          []*types.AuditRecord `json:"data"`
	NextPageToken string               `json:"next_page_token,omitempty"`
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	records, nextToken, err := a.recorder.List(r.Context(), tenantID, r.URL.Query().Get("page_token"))
	if err != nil {
		a.logger.Errorf("failed to list audit records for tenant %s: %v", tenantID, err)
		http.Error(w, "Failed to list audit records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{Data: records, NextPageToken: nextToken})
}
