// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/PEswaran/tether-tasks-management-sub000/internal/authorization"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/config"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/db"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/kratos"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/logging"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/mail"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/monitoring/prometheus"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/openfga"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/storage"
	"github.com/PEswaran/tether-tasks-management-sub000/internal/tracing"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/audit"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/authentication"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/invitations"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/tenants"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/web"
	"github.com/PEswaran/tether-tasks-management-sub000/pkg/webhooks"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("tether-tasks", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()
	s := storage.NewStorage(dbClient, tracer, monitor, logger)

	var authorizer *authorization.Authorizer
	if specs.AuthorizationEnabled {
		ofga := openfga.NewClient(
			openfga.NewConfig(
				specs.OpenfgaApiScheme,
				specs.OpenfgaApiHost,
				specs.OpenfgaStoreId,
				specs.OpenfgaApiToken,
				specs.OpenfgaModelId,
				specs.Debug,
				tracer,
				monitor,
				logger,
			),
		)
		authorizer = authorization.NewAuthorizer(
			ofga,
			tracer,
			monitor,
			logger,
		)
		logger.Info("Authorization is enabled")
		if authorizer.ValidateModel(context.Background()) != nil {
			panic("Invalid authorization model provided")
		}
	} else {
		authorizer = authorization.NewAuthorizer(
			openfga.NewNoopClient(tracer, monitor, logger),
			tracer,
			monitor,
			logger,
		)
		logger.Info("Using noop authorizer")
	}

	kratosClient := kratos.NewClient(
		specs.KratosAdminURL,
		tracer,
		monitor,
		logger,
	)

	var mailer mail.MailerInterface
	if specs.MailEnabled {
		mailer = mail.NewMailer(
			mail.Config{
				Host:     specs.SMTPHost,
				Port:     specs.SMTPPort,
				Username: specs.SMTPUsername,
				Password: specs.SMTPPassword,
				From:     specs.MailFrom,
				FromName: specs.MailFromName,
			},
			tracer,
			monitor,
			logger,
		)
		logger.Info("Mail delivery is enabled")
	} else {
		mailer = mail.NewNoopMailer(logger)
		logger.Info("Using noop mailer")
	}

	auditRecorder := audit.NewRecorder(s, tracer, monitor, logger)

	invitationService := invitations.NewService(
		s,
		authorizer,
		kratosClient,
		mailer,
		auditRecorder,
		specs.InvitationLifetime,
		tracer,
		monitor,
		logger,
	)

	tenantService := tenants.NewService(
		s,
		authorizer,
		kratosClient,
		mailer,
		auditRecorder,
		specs.PlatformID,
		specs.InvitationLifetime,
		tracer,
		monitor,
		logger,
	)

	var authnMiddleware *authentication.Middleware
	if specs.AuthenticationEnabled {
		verifier, err := authentication.NewJWTAuthenticator(
			context.Background(),
			specs.OIDCIssuer,
			specs.OIDCJWKSURL,
			specs.AllowedSubjects,
			specs.RequiredScope,
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to set up authentication: %v", err)
		}
		authnMiddleware = authentication.NewMiddleware(verifier, tracer, monitor, logger)
		logger.Info("Authentication is enabled")
	} else {
		// The noop verifier takes the bearer token as the caller id.
		authnMiddleware = authentication.NewMiddleware(authentication.NewNoopVerifier(), tracer, monitor, logger)
		logger.Info("Authentication is disabled, bearer tokens are trusted as user ids")
	}

	webhookService := webhooks.NewService(s, auditRecorder, tracer, monitor, logger)

	router := web.NewRouter(
		tenants.NewAPI(tenantService, logger),
		invitations.NewAPI(invitationService, logger),
		audit.NewAPI(auditRecorder, logger),
		webhooks.NewAPI(webhookService, logger),
		authnMiddleware,
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
