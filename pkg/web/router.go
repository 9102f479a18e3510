// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/authentication"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/invitations"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/metrics"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/status"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/tenants"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/webhooks"
)

// NewRouter assembles the HTTP surface. Status, metrics and webhook
// endpoints stay open, the domain APIs sit behind the authentication
// middleware when one is provided.
func NewRouter(
	tenantsAPI *tenants.API,
	invitationsAPI *invitations.API,
	auditAPI *audit.API,
	webhooksAPI *webhooks.API,
	authnMiddleware *authentication.Middleware,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS([]string{"*"}),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(tracer, monitor, logger).RegisterEndpoints(router)
	// Kratos calls the registration webhook without a user token.
	webhooksAPI.RegisterEndpoints(router)

	apiRouter := chi.NewMux()
	if authnMiddleware != nil {
		apiRouter.Use(authnMiddleware.Authenticate())
	}
	tenantsAPI.RegisterEndpoints(apiRouter)
	invitationsAPI.RegisterEndpoints(apiRouter)
	auditAPI.RegisterEndpoints(apiRouter)

	router.Mount("/", apiRouter)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
