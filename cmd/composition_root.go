package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	apihttp "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/eventlog"
	"orders/internal/adapters/out/kafka"
	"orders/internal/adapters/out/memory"
	"orders/internal/adapters/out/persistence"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
	"orders/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type uowFactory interface {
	Create() ports.UnitOfWork
}

// CompositionRoot owns the storage driver and builds every use case on top of it.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB     *gorm.DB
	store      *memory.Store
	uowFactory uowFactory
	readModel  ports.ReadModel
	publisher  ports.EventPublisher

	closers []io.Closer
}

// NewCompositionRoot opens the configured driver. Relational drivers are
// migrated on start; the memory driver gets a small seeded catalog.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{cfg: cfg, logger: logger}

	switch cfg.DBDriver {
	case DriverMemory:
		root.store = memory.New()
		users, products := root.store.SeedCatalog(10, 20)
		logger.InfoContext(ctx, "Memory store seeded", "users", len(users), "products", len(products))
		root.uowFactory = memory.NewUnitOfWorkFactory(root.store)
		root.readModel = memory.NewReadModel(root.store)
	default:
		db, err := persistence.Open(cfg.Database())
		if err != nil {
			return nil, err
		}
		if err := root.adoptDatabase(db, persistence.Migrate); err != nil {
			return nil, err
		}
	}

	if cfg.KafkaHost != "" {
		publisher, err := kafka.NewPublisher(cfg.KafkaHost, cfg.KafkaOrderChangedTopic)
		if err != nil {
			return nil, errors.Join(err, root.Close())
		}
		root.closers = append(root.closers, publisher)
		root.publisher = publisher
	} else {
		root.publisher = eventlog.NewPublisher(logger)
	}

	return root, nil
}

// adoptDatabase takes ownership of the pool before migrating, so a failed
// migration still releases every connection.
func (c *CompositionRoot) adoptDatabase(db *gorm.DB, migrate func(*gorm.DB) error) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	c.closers = append(c.closers, sqlDB)
	if err := migrate(db); err != nil {
		return errors.Join(err, c.Close())
	}
	c.gormDB = db
	c.uowFactory = persistence.NewGormUnitOfWorkFactory(db)
	c.readModel = persistence.NewGormReadModel(db)
	return nil
}

// GormDB is nil for the memory driver.
func (c *CompositionRoot) GormDB() *gorm.DB {
	return c.gormDB
}

// Store is nil for relational drivers.
func (c *CompositionRoot) Store() *memory.Store {
	return c.store
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	f := commands.CreateOrderUoWFactoryFunc(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f)
}

func (c *CompositionRoot) transitionFactory() commands.TransitionUoWFactory {
	return commands.TransitionUoWFactoryFunc(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePayOrderCommandHandler() commands.PayOrderCommandHandler {
	return commands.NewPayOrderCommandHandler(c.transitionFactory())
}

func (c *CompositionRoot) CreateShipOrderCommandHandler() commands.ShipOrderCommandHandler {
	return commands.NewShipOrderCommandHandler(c.transitionFactory())
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.transitionFactory())
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	f := commands.OutboxUoWFactoryFunc(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateHandlers() apihttp.Handlers {
	return apihttp.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		PayOrder:          c.CreatePayOrderCommandHandler(),
		ShipOrder:         c.CreateShipOrderCommandHandler(),
		CompleteOrder:     c.CreateCompleteOrderCommandHandler(),
		GetOrder:          queries.NewGetOrderQueryHandler(c.readModel),
		GetRevenue:        queries.NewGetRevenueQueryHandler(c.readModel),
		GetRevenueByUser:  queries.NewGetRevenueByUserQueryHandler(c.readModel),
		GetOrdersByStatus: queries.NewGetOrdersByStatusQueryHandler(c.readModel),
		GetTopProducts:    queries.NewGetTopProductsQueryHandler(c.readModel),
	}
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	relay := c.CreateRelayOutboxCommandHandler()
	relayJob, err := jobs.NewOutboxRelayJob(&relay, c.cfg.OutboxRelaySchedule, c.cfg.OutboxBatchSize, c.logger)
	if err != nil {
		return nil, fmt.Errorf("outbox relay job: %w", err)
	}
	return jobs.NewJobManager(relayJob), nil
}

// HealthCheck pings the database; the memory driver is always healthy.
func (c *CompositionRoot) HealthCheck() apihttp.HealthCheck {
	if c.gormDB == nil {
		return func(context.Context) error { return nil }
	}
	return func(ctx context.Context) error {
		return persistence.Ping(ctx, c.gormDB)
	}
}

func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	server := apihttp.NewServer(c.CreateHandlers(), apihttp.NewMetrics())
	return apihttp.NewRouter(ctx, server, c.HealthCheck(), c.logger)
}

// Close releases the publisher and the connection pool in reverse open order.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i].Close())
	}
	c.closers = nil
	return err
}
