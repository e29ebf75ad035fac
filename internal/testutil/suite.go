package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/rtvox/rtvox-billing/internal/config"
	"github.com/rtvox/rtvox-billing/internal/logger"
)

// Stores groups the in-memory repositories available to service tests.
type Stores struct {
	OrderRepo *InMemoryOrderStore
}

// BaseServiceTestSuite provides fresh in-memory dependencies per test.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	cfg      *config.Configuration
	log      *logger.Logger
	stores   Stores
	provider *StubProviderClient
}

// SetupTest initializes fresh stores before each test.
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()
	s.log = logger.GetLogger()
	s.stores = Stores{OrderRepo: NewInMemoryOrderStore()}
	s.provider = NewStubProviderClient()
}

// TearDownTest cleans up after each test.
func (s *BaseServiceTestSuite) TearDownTest() {}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.log
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetProvider() *StubProviderClient {
	return s.provider
}
