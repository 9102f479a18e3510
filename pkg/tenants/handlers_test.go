// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tenants

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	gomock "go.uber.org/mock/gomock"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/types"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/authentication"
)

func TestHandleCreateTenant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)
	mockService := NewMockServiceInterface(ctrl)

	mockService.EXPECT().CreateTenantWithAdmin(gomock.Any(), "Acme", "admin@example.com", "team").
		Return(&types.Tenant{ID: "tenant-1"}, &types.Invitation{ID: "invitation-1"}, nil)

	mux := chi.NewMux()
	NewAPI(mockService, mockLogger).RegisterEndpoints(mux)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v0/tenants",
		strings.NewReader(`{"company_name": "Acme", "admin_email": "admin@example.com", "plan": "team"}`),
	)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}

	var body response
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !body.Success {
		t.Errorf("expected success response, got %+v", body)
	}
}

func TestHandleCreateTenantValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "MissingCompanyName",
			body: `{"admin_email": "admin@example.com", "plan": "team"}`,
		},
		{
			name: "InvalidEmail",
			body: `{"company_name": "Acme", "admin_email": "not-an-email", "plan": "team"}`,
		},
		{
			name: "MissingPlan",
			body: `{"company_name": "Acme", "admin_email": "admin@example.com"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLogger := NewMockLoggerInterface(ctrl)
			mockService := NewMockServiceInterface(ctrl)

			mux := chi.NewMux()
			NewAPI(mockService, mockLogger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodPost, "/api/v0/tenants", strings.NewReader(test.body))
			rr := httptest.NewRecorder()

			mux.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestHandleDeleteTenantErrorMapping(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedCode    int
		expectedMessage string
	}{
		{
			name:            "ActiveMembersExist",
			err:             ErrActiveMembersExist,
			expectedCode:    http.StatusConflict,
			expectedMessage: "Tenant still has active members.",
		},
		{
			name:            "TenantNotFound",
			err:             ErrTenantNotFound,
			expectedCode:    http.StatusNotFound,
			expectedMessage: "Tenant not found.",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLogger := NewMockLoggerInterface(ctrl)
			mockService := NewMockServiceInterface(ctrl)

			mockService.EXPECT().DeleteTenant(gomock.Any(), "actor-1", "tenant-1").Return(test.err)

			mux := chi.NewMux()
			NewAPI(mockService, mockLogger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodDelete, "/api/v0/tenants/tenant-1", nil)
			req = req.WithContext(authentication.WithUserID(req.Context(), "actor-1"))
			rr := httptest.NewRecorder()

			mux.ServeHTTP(rr, req)

			if rr.Code != test.expectedCode {
				t.Errorf("expected status %d, got %d", test.expectedCode, rr.Code)
			}

			var body response
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Message != test.expectedMessage {
				t.Errorf("expected message %q, got %q", test.expectedMessage, body.Message)
			}
		})
	}
}

func TestHandleDeleteTenantMissingIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)
	mockService := NewMockServiceInterface(ctrl)

	mux := chi.NewMux()
	NewAPI(mockService, mockLogger).RegisterEndpoints(mux)

	req := httptest.NewRequest(http.MethodDelete, "/api/v0/tenants/tenant-1", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestHandleRemoveMember(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
	}{
		{name: "Success", err: nil, expectedCode: http.StatusOK},
		{name: "AdminMembership", err: ErrAdminMembership, expectedCode: http.StatusConflict},
		{name: "MembershipNotFound", err: ErrMembershipNotFound, expectedCode: http.StatusNotFound},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockLogger := NewMockLoggerInterface(ctrl)
			mockService := NewMockServiceInterface(ctrl)

			mockService.EXPECT().RemoveMember(gomock.Any(), "actor-1", "tenant-1", "membership-1").Return(test.err)

			mux := chi.NewMux()
			NewAPI(mockService, mockLogger).RegisterEndpoints(mux)

			req := httptest.NewRequest(http.MethodDelete, "/api/v0/tenants/tenant-1/members/membership-1", nil)
			req = req.WithContext(authentication.WithUserID(req.Context(), "actor-1"))
			rr := httptest.NewRecorder()

			mux.ServeHTTP(rr, req)

			if rr.Code != test.expectedCode {
				t.Errorf("expected status %d, got %d", test.expectedCode, rr.Code)
			}
		})
	}
}

func TestHandleReplaceAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLogger := NewMockLoggerInterface(ctrl)
	mockService := NewMockServiceInterface(ctrl)

	mockService.EXPECT().ReplaceAdmin(gomock.Any(), "actor-1", "tenant-1", "new@example.com", "membership-1").Return(nil)

	mux := chi.NewMux()
	NewAPI(mockService, mockLogger).RegisterEndpoints(mux)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/v0/tenants/tenant-1/replace-admin",
		strings.NewReader(`{"new_admin_email": "new@example.com", "old_membership_id": "membership-1"}`),
	)
	req = req.WithContext(authentication.WithUserID(req.Context(), "actor-1"))
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}
