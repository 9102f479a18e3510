// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
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
	mux.Post("/api/v0/tenants", a.create)
	mux.Get("/api/v0/tenants", a.list)
	mux.Get("/api/v0/tenants/{id}", a.get)
	mux.Delete("/api/v0/tenants/{id}", a.delete)
	mux.Post("/api/v0/tenants/{id}/suspend", a.suspend)
	mux.Post("/api/v0/tenants/{id}/reactivate", a.reactivate)
	mux.Post("/api/v0/tenants/{id}/plan", a.changePlan)
	mux.Post("/api/v0/tenants/{id}/replace-admin", a.replaceAdmin)
	mux.Post("/api/v0/tenants/{id}/workspaces", a.createWorkspace)
	mux.Get("/api/v0/tenants/{id}/workspaces", a.listWorkspaces)
	mux.Get("/api/v0/tenants/{id}/members", a.listMembers)
	mux.Delete("/api/v0/tenants/{id}/members/{membership_id}", a.removeMember)
	mux.Delete("/api/v0/workspaces/{id}", a.deleteWorkspace)
}

type createTenantRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
	AdminEmail  string `json:"admin_email" validate:"required,email"`
	Plan        string `json:"plan" validate:"required"`
}

type changePlanRequest struct {
	Plan string `json:"plan" validate:"required"`
}

type createWorkspaceRequest struct {
	Name string `json:"name" validate:"required"`
}

type replaceAdminRequest struct {
	NewAdminEmail   string `json:"new_admin_email" validate:"required,email"`
	OldMembershipID string `json:"old_membership_id" validate:"required"`
}

type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type pageResponse struct {
	Data          interface{} `json:"data"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request body."})
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return
	}

	tenant, invitation, err := a.service.CreateTenantWithAdmin(r.Context(), req.CompanyName, req.AdminEmail, req.Plan)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusCreated, response{
		Success: true,
		Message: "Tenant created.",
		Data: map[string]interface{}{
			"tenant":     tenant,
			"invitation": invitation,
		},
	})
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	tenant, err := a.service.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tenant)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	tenants, nextToken, err := a.service.ListTenants(r.Context(), r.URL.Query().Get("page_token"))
	if err != nil {
		a.logger.Errorf("failed to list tenants: %v", err)
		http.Error(w, "Failed to list tenants", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pageResponse{Data: tenants, NextPageToken: nextToken})
}

func (a *API) delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	if err := a.service.DeleteTenant(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{Success: true, Message: "Tenant deleted."})
}

func (a *API) suspend(w http.ResponseWriter, r *http.Request) {
	a.lifecycle(w, r, a.service.SuspendTenant, "Tenant suspended.")
}

func (a *API) reactivate(w http.ResponseWriter, r *http.Request) {
	a.lifecycle(w, r, a.service.ReactivateTenant, "Tenant reactivated.")
}

func (a *API) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actorID, tenantID string) error, message string) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	if err := op(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{Success: true, Message: message})
}

func (a *API) changePlan(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	var req changePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request body."})
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return
	}

	if err := a.service.ChangeTenantPlan(r.Context(), actorID, chi.URLParam(r, "id"), req.Plan); err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{Success: true, Message: "Plan updated."})
}

func (a *API) replaceAdmin(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	var req replaceAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request body."})
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return
	}

	if err := a.service.ReplaceAdmin(r.Context(), actorID, chi.URLParam(r, "id"), req.NewAdminEmail, req.OldMembershipID); err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{Success: true, Message: "Administrator replaced."})
}

func (a *API) createWorkspace(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	var req createWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request body."})
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: err.Error()})
		return
	}

	workspace, err := a.service.CreateWorkspace(r.Context(), actorID, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusCreated, response{Success: true, Message: "Workspace created.", Data: workspace})
}

func (a *API) listWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, nextToken, err := a.service.ListWorkspaces(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("page_token"))
	if err != nil {
		a.logger.Errorf("failed to list workspaces: %v", err)
		http.Error(w, "Failed to list workspaces", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pageResponse{Data: workspaces, NextPageToken: nextToken})
}

func (a *API) listMembers(w http.ResponseWriter, r *http.Request) {
	members, nextToken, err := a.service.ListMembers(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("page_token"))
	if err != nil {
		a.logger.Errorf("failed to list members: %v", err)
		http.Error(w, "Failed to list members", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pageResponse{Data: members, NextPageToken: nextToken})
}

func (a *API) removeMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	if err := a.service.RemoveMember(r.Context(), actorID, chi.URLParam(r, "id"), chi.URLParam(r, "membership_id")); err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{Success: true, Message: "Member removed."})
}

func (a *API) deleteWorkspace(w http.ResponseWriter, r *http.Request) {
	actorID, ok := authentication.GetUserID(r.Context())
	if !ok {
		writeResponse(w, http.StatusUnauthorized, response{Success: false, Message: "Missing caller identity."})
		return
	}

	if err := a.service.DeleteWorkspace(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}

	writeResponse(w, http.StatusOK, response{Success: true, Message: "Workspace deleted."})
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAdminEmailInUse):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "An account already exists for this email."})
	case errors.Is(err, ErrActiveMembersExist):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Tenant still has active members."})
	case errors.Is(err, ErrOldAdminProfileMissing):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "No profile found for the outgoing administrator."})
	case errors.Is(err, ErrNoWorkspaceFound):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Tenant has no workspace."})
	case errors.Is(err, ErrNotAdminMembership):
		writeResponse(w, http.StatusBadRequest, response{Success: false, Message: "Membership does not carry the administrator role."})
	case errors.Is(err, ErrAdminMembership):
		writeResponse(w, http.StatusConflict, response{Success: false, Message: "Administrators are replaced, not removed."})
	case errors.Is(err, ErrTenantNotFound):
		writeResponse(w, http.StatusNotFound, response{Success: false, Message: "Tenant not found."})
	case errors.Is(err, ErrWorkspaceNotFound):
		writeResponse(w, http.StatusNotFound, response{Success: false, Message: "Workspace not found."})
	case errors.Is(err, ErrMembershipNotFound):
		writeResponse(w, http.StatusNotFound, response{Success: false, Message: "Membership not found."})
	case errors.Is(err, ErrUnauthorized):
		writeResponse(w, http.StatusForbidden, response{Success: false, Message: "You are not allowed to manage this tenant."})
	default:
		a.logger.Errorf("tenant request failed: %v", err)
		writeResponse(w, http.StatusInternalServerError, response{Success: false, Message: "Internal server error."})
	}
}

func writeResponse(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
