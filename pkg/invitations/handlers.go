// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitations

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/authentication"
)

type API struct {
	service  ServiceInterface
	validate *validator.Validate

	logger logging.LoggerInterface
}

func NewAPI(service ServiceInterface, logger logging.LoggerInterface) *API {
	return &API{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/v0/tenants/{tenant_id}/workspaces/{workspace_id}/invitations", a.create)
	mux.Get("/api/v0/tenants/{tenant_id}/invitations", a.list)
	mux.Post("/api/v0/invitations/accept", a.accept)
	mux.Post("/api/v0/invitations/{id}/revoke", a.revoke)
}

// The role is validated by the service, not here. Admin roles must reach
// the escalation gate so they are refused with its fixed message instead
// of a generic validation error.
type createRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

type acceptRequest struct {
	Token string `json:"token" validate:"required"`
}

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request body."})
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return
	}

	invitation, err := a.service.Create(
		r.Context(),
		actorID,
		chi.URLParam(r, "tenant_id"),
		chi.URLParam(r, "workspace_id"),
		req.Email,
		req.Role,
	)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusCreated, response{
		Success: true,
		Message: "Invitation created.",
		Data:    invitation,
	})
}

func (a *API) accept(w http.ResponseWriter, r *http.Request) {
	identityID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request body."})
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return
	}

	membership, err := a.service.Accept(r.Context(), req.Token, identityID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{
		Success: true,
		Message: "Invitation accepted.",
		Data:    membership,
	})
}

func (a *API) revoke(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	if err := a.service.Revoke(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{Success: true, Message: "Invitation revoked."})
}

type listResponse struct {
	Data          []*types.Invitation `json:"data"`
	NextPageToken string              `json:"next_page_token,omitempty"`
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	tenantID := chi.URLParam(r, "tenant_id")

	invitations, nextToken, err := a.service.List(r.Context(), tenantID, r.URL.Query().Get("page_token"))
	if err != nil {
		a.logger.Errorf("failed to list invitations for tenant %s: %v", tenantID, err)
		http.Error(w, "Failed to list invitations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listResponse{Data: invitations, NextPageToken: nextToken})
}

// writeError maps domain sentinels onto status codes and the fixed
// messages the frontend matches on.
func (a *API) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbiddenRoleEscalation):
		writeResponse(w, http.StatusForbidden, response{Success: false, Message: "Administrator roles cannot be granted through invitations."})
	case errors.Is(err, ErrUnknownRole):
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Unknown role."})
	case errors.Is(err, ErrUnauthorized):
		writeResponse(w, http.StatusForbidden, response{Success: false, Message: "You are not allowed to manage invitations for this workspace."})
	case errors.Is(err, ErrOwnerExists):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Workspace already has an owner."})
	case errors.Is(err, ErrOwnerInvitePending):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Workspace already has a pending owner invitation."})
	case errors.Is(err, ErrWorkspaceNotFound):
		writeResponse(w, http.StatusNotFound, response{Success: false, Message: "Workspace not found."})
	case errors.Is(err, ErrWorkspaceInactive):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Workspace is inactive."})
	case errors.Is(err, ErrTenantSuspended):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Tenant is suspended."})
	case errors.Is(err, ErrInvitationNotFound):
		writeResponse(w, http.StatusNotFound, response{Success: false, Message: "Invitation not found."})
	case errors.Is(err, ErrInvitationNotPending):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Invitation is not pending."})
	case errors.Is(err, ErrInvitationRevoked):
		writeResponse(w, http.StatusGone, response{Success: false, Message: "Invitation has been revoked."})
	case errors.Is(err, ErrInvitationExpired):
		writeResponse(w, http.StatusGone, response{Success: false, Message: "Invitation has expired."})
	default:
		a.logger.Errorf("invitation request failed: %v", err)
		writeResponse(w, http.StatusInternalServerError, response{Success: false, Message: "Internal server error."})
	}
}

func writeResponse(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
