package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rtvox/rtvox-billing/internal/api"
	v1 "github.com/rtvox/rtvox-billing/internal/api/v1"
	"github.com/rtvox/rtvox-billing/internal/config"
	"github.com/rtvox/rtvox-billing/internal/domain/membership"
	"github.com/rtvox/rtvox-billing/internal/domain/order"
	"github.com/rtvox/rtvox-billing/internal/integration/stripe"
	"github.com/rtvox/rtvox-billing/internal/logger"
	orderrepo "github.com/rtvox/rtvox-billing/internal/repository/postgres"
	"github.com/rtvox/rtvox-billing/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			newDB,
			newOrderRepository,
			newProviderClient,
			newServiceParams,
			service.NewRefundService,
			service.NewMembershipService,
			v1.NewRefundHandler,
			v1.NewMembershipHandler,
			v1.NewHealthHandler,
			newHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
		fx.NopLogger,
	)

	app.Run()
}

// newDB opens the postgres connection, or returns nil when storage is
// disabled. The service stays up either way; storage-dependent routes then
// answer with their degraded verdicts.
func newDB(cfg *config.Configuration, log *logger.Logger) (*gorm.DB, error) {
	if !cfg.Postgres.Enabled {
		log.Infow("postgres disabled, running without order storage")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	log.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"dbname", cfg.Postgres.DBName)
	return db, nil
}

func newOrderRepository(db *gorm.DB, log *logger.Logger) order.Repository {
	if db == nil {
		return nil
	}
	return orderrepo.NewOrderRepository(db, log)
}

func newProviderClient(cfg *config.Configuration, log *logger.Logger) membership.ProviderClient {
	return stripe.NewClient(cfg, log)
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	orderRepo order.Repository,
	provider membership.ProviderClient,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:    log,
		Config:    cfg,
		OrderRepo: orderRepo,
		Provider:  provider,
	}
}

func newHandlers(
	refundHandler *v1.RefundHandler,
	membershipHandler *v1.MembershipHandler,
	healthHandler *v1.HealthHandler,
) api.Handlers {
	return api.Handlers{
		Refund:     refundHandler,
		Membership: membershipHandler,
		Health:     healthHandler,
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *gin.Engine,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return server.Shutdown(ctx)
		},
	})
}
