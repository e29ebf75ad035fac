package service

import (
	"github.com/rtvox/rtvox-billing/internal/config"
	"github.com/rtvox/rtvox-billing/internal/domain/membership"
	"github.com/rtvox/rtvox-billing/internal/domain/order"
	"github.com/rtvox/rtvox-billing/internal/logger"
)

// ServiceParams holds the dependencies shared by all services. OrderRepo
// and Provider may be nil when the corresponding backend is not configured.
type ServiceParams struct {
	Logger    *logger.Logger
	Config    *config.Configuration
	OrderRepo order.Repository
	Provider  membership.ProviderClient
}
