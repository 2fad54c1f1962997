package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"fitcoach/services/coach-api/internal/config"
	"fitcoach/services/coach-api/internal/domain/coach"
	"fitcoach/services/coach-api/internal/domain/tools"
	"fitcoach/services/coach-api/internal/infrastructure/auth"
	"fitcoach/services/coach-api/internal/infrastructure/billing"
	"fitcoach/services/coach-api/internal/infrastructure/database"
	"fitcoach/services/coach-api/internal/infrastructure/database/repository/fitnessrepo"
	"fitcoach/services/coach-api/internal/infrastructure/database/repository/usagerepo"
	"fitcoach/services/coach-api/internal/infrastructure/gateway"
	"fitcoach/services/coach-api/internal/infrastructure/logger"
	"fitcoach/services/coach-api/internal/infrastructure/observability"
	"fitcoach/services/coach-api/internal/interfaces/httpserver"
	"fitcoach/services/coach-api/internal/interfaces/httpserver/handlers/chathandler"
	v1 "fitcoach/services/coach-api/internal/interfaces/httpserver/routes/v1"
	"fitcoach/services/coach-api/internal/interfaces/httpserver/routes/v1/chat"
	"fitcoach/services/coach-api/internal/utils/httpclients"
)

func main() {
	ctx := context.Background()
	log := logger.GetLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	if appLog, err := logger.New(cfg.LogLevel, cfg.LogFormat); err == nil {
		log = appLog
	} else {
		log.Warn().Err(err).Msg("invalid log settings, keeping defaults")
	}

	otelShutdown, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("initialize observability")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("shutdown telemetry")
			}
		}()
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	validator, err := auth.NewJWKSValidator(ctx, cfg.JWKSURL, cfg.Issuer, cfg.Audience,
		cfg.RefreshJWKSInterval, cfg.AuthClockSkew, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize jwt validator")
	}

	registry, err := tools.NewRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("build tool registry")
	}

	store := fitnessrepo.NewFitnessGormRepository(db)
	executor := tools.NewExecutor(registry, store)

	gatewayHTTP := httpclients.NewClient("llm-gateway").SetTimeout(cfg.GatewayTimeout)
	gatewayClient := gateway.NewClient(gatewayHTTP, cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayTimeout)

	orchestrator := coach.NewOrchestrator(gatewayClient, executor, registry,
		coach.NewKeywordMatcher(), cfg.GatewayModel, cfg.MaxToolIterations)

	usage := usagerepo.NewInteractionGormRepository(db)

	var checker billing.Checker = billing.AlwaysEntitled{}
	if cfg.BillingBaseURL != "" {
		billingClient := httpclients.NewClient("billing").SetTimeout(cfg.BillingTimeout)
		checker = billing.NewHTTPChecker(billingClient, cfg.BillingBaseURL)
	}
	entitlement := billing.NewEntitlementService(checker, usage)

	chatHandler := chathandler.NewChatHandler(orchestrator, gatewayClient, registry,
		entitlement, usage, cfg.GatewayModel)
	v1Route := v1.NewV1Route(chat.NewChatRoute(chatHandler))

	server := httpserver.NewHTTPServer(v1Route, validator, log, cfg)

	var eg errgroup.Group
	eg.Go(func() error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		return http.ListenAndServe(fmt.Sprintf(":%d", cfg.MetricsPort), mux)
	})
	eg.Go(server.Run)

	if err := eg.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
