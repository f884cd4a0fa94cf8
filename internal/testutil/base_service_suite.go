package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tracegate/tracegate/internal/cache"
	"github.com/tracegate/tracegate/internal/config"
	"github.com/tracegate/tracegate/internal/domain/cte"
	"github.com/tracegate/tracegate/internal/domain/lot"
	"github.com/tracegate/tracegate/internal/domain/plan"
	"github.com/tracegate/tracegate/internal/domain/tenant"
	"github.com/tracegate/tracegate/internal/domain/usage"
	"github.com/tracegate/tracegate/internal/logger"
	"github.com/tracegate/tracegate/internal/types"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	TenantRepo tenant.Repository
	PlanRepo   plan.Repository
	LotRepo    lot.Repository
	CTERepo    cte.Repository
	UsageRepo  usage.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     *NoopTxRunner
	cache  cache.Cache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	cteStore := NewInMemoryCTEStore()
	s.stores = Stores{
		TenantRepo: NewInMemoryTenantStore(),
		PlanRepo:   plan.NewCatalogRepository(),
		LotRepo:    NewInMemoryLotStore(),
		CTERepo:    cteStore,
		UsageRepo:  NewInMemoryUsageStore(cteStore),
	}

	s.db = NewNoopTxRunner()
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TenantRepo.(*InMemoryTenantStore).Clear()
	s.stores.LotRepo.(*InMemoryLotStore).Clear()
	s.stores.CTERepo.(*InMemoryCTEStore).Clear()
	s.stores.UsageRepo.(*InMemoryUsageStore).Clear()
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test transaction runner
func (s *BaseServiceTestSuite) GetDB() *NoopTxRunner {
	return s.db
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
