package cmd

import (
	"context"
	"fmt"
	"net/http"

	"ddd-course/api"
	apicourse "ddd-course/api/course"
	"ddd-course/api/health"
	apiorder "ddd-course/api/order"
	apishipment "ddd-course/api/shipment"
	courseapp "ddd-course/application/course"
	orderapp "ddd-course/application/order"
	shipmentapp "ddd-course/application/shipment"
	"ddd-course/config"
	"ddd-course/domain/course"
	"ddd-course/domain/order"
	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"
	"ddd-course/infrastructure/eventbus"
	"ddd-course/infrastructure/messaging/redisstream"
	"ddd-course/infrastructure/persistence/memory"
	"ddd-course/infrastructure/persistence/mysql"
	"ddd-course/infrastructure/persistence/retry"
	"ddd-course/pkg/logger"
	"ddd-course/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// eventNames every event the service emits; all of them are logged on dispatch
var eventNames = []string{
	course.EventCourseCreated,
	course.EventStudentEnrolled,
	course.EventEnrollmentClosed,
	shipment.EventShipmentCreated,
	shipment.EventParcelAdded,
	shipment.EventShipmentDispatched,
	shipment.EventShipmentInTransit,
	shipment.EventShipmentDelivered,
	shipment.EventShipmentCancelled,
	order.EventOrderCreated,
	order.EventOrderItemAdded,
	order.EventOrderItemQuantityChanged,
	order.EventOrderItemRemoved,
	order.EventOrderPaid,
	order.EventOrderShipped,
	order.EventOrderCancelled,
}

// AppBuilder builds an App from configuration
type AppBuilder struct {
	cfg        *config.Config
	publisher  mysql.OutboxPublisher
	dispatcher *eventbus.Dispatcher
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithOutboxPublisher replaces the publisher chosen from the redis config
func (b *AppBuilder) WithOutboxPublisher(p mysql.OutboxPublisher) *AppBuilder {
	b.publisher = p
	return b
}

// WithDispatcher replaces the default dispatcher, e.g. to subscribe extra handlers
func (b *AppBuilder) WithDispatcher(d *eventbus.Dispatcher) *AppBuilder {
	b.dispatcher = d
	return b
}

// repositories the storage selected by database.type
type repositories struct {
	courses    course.Repository
	shipments  shipment.Repository
	orders     order.Repository
	uowFactory shared.UnitOfWorkFactory
	db         *gorm.DB
}

// Build creates the App instance. The logger must already be initialized.
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	app := &App{config: b.cfg}

	shutdownTracing, err := tracing.Init(ctx, b.cfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	app.onClose(shutdownTracing)

	dispatcher := b.dispatcher
	if dispatcher == nil {
		dispatcher = eventbus.NewDispatcher(logger.L())
	}
	if err := registerEventHandlers(dispatcher); err != nil {
		return nil, app.abort(ctx, fmt.Errorf("register event handlers: %w", err))
	}

	repos, err := b.buildRepositories(dispatcher)
	if err != nil {
		return nil, app.abort(ctx, err)
	}
	checks := map[string]health.Pinger{}
	if repos.db != nil {
		app.db = repos.db
		app.onClose(closeDatabase(repos.db))
		checks["database"] = health.DatabasePinger(repos.db)
	}

	if b.cfg.Worker.Enabled {
		if repos.db == nil {
			logger.Warn("Outbox worker needs a SQL database; not started",
				zap.String("database_type", b.cfg.Database.Type))
		} else {
			publisher, pinger, closeFn, err := b.buildPublisher()
			if err != nil {
				return nil, app.abort(ctx, err)
			}
			app.onClose(closeFn)
			if pinger != nil {
				checks["redis"] = pinger
			}
			worker, err := mysql.NewOutboxWorkerFromConfig(mysql.NewOutboxRepository(repos.db), publisher, b.cfg.Worker)
			if err != nil {
				return nil, app.abort(ctx, fmt.Errorf("create outbox worker: %w", err))
			}
			app.worker = worker
		}
	}

	router := api.NewRouter(b.cfg,
		health.NewController(b.cfg, checks),
		apicourse.NewController(courseapp.NewApplicationService(repos.courses, repos.uowFactory)),
		apishipment.NewController(shipmentapp.NewApplicationService(repos.shipments, repos.uowFactory)),
		apiorder.NewController(orderapp.NewApplicationService(repos.orders, repos.uowFactory)),
	)
	router.SetupRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}
	return app, nil
}

func (b *AppBuilder) buildRepositories(dispatcher shared.EventDispatcher) (*repositories, error) {
	retryConfig := retry.FromAppConfig(b.cfg)

	if b.cfg.Database.Type == config.DatabaseMemory {
		logger.Info("Using in-memory persistence layer")
		return &repositories{
			courses:    memory.NewCourseRepository(),
			shipments:  memory.NewShipmentRepository(),
			orders:     memory.NewOrderRepository(),
			uowFactory: memory.NewUnitOfWorkFactory(dispatcher, retryConfig),
		}, nil
	}

	db, err := openDatabase(b.cfg)
	if err != nil {
		return nil, err
	}
	return &repositories{
		courses:    mysql.NewCourseRepository(db),
		shipments:  mysql.NewShipmentRepository(db),
		orders:     mysql.NewOrderRepository(db),
		uowFactory: mysql.NewUnitOfWorkFactory(db, dispatcher, retryConfig),
		db:         db,
	}, nil
}

// buildPublisher picks the outbox publisher: the injected one, redis streams, or the log
func (b *AppBuilder) buildPublisher() (mysql.OutboxPublisher, health.Pinger, func(context.Context) error, error) {
	if b.publisher != nil {
		return b.publisher, nil, nil, nil
	}
	return newOutboxPublisher(b.cfg)
}

func newOutboxPublisher(cfg *config.Config) (mysql.OutboxPublisher, health.Pinger, func(context.Context) error, error) {
	if !cfg.Redis.Enabled {
		logger.Info("Outbox events are written to the log; redis publisher disabled")
		return &mysql.LoggingOutboxPublisher{}, nil, nil, nil
	}

	publisher, err := redisstream.NewPublisher(redisstream.NewClient(cfg.Redis), cfg.Redis.Stream, cfg.Redis.MaxLen)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create redis publisher: %w", err)
	}
	logger.Info("Publishing outbox events to redis stream",
		zap.String("addr", cfg.Redis.Addr),
		zap.String("stream", cfg.Redis.Stream))
	return publisher, publisher, func(context.Context) error { return publisher.Close() }, nil
}

// openDatabase connects and migrates. SQLite is always migrated, MySQL only in development.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Using GORM persistence layer", zap.String("database_type", cfg.Database.Type))

	db, err := mysql.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.Database.Type == config.DatabaseSQLite || cfg.IsDevelopment() {
		if err := mysql.AutoMigrate(db); err != nil {
			_ = closeDatabase(db)(context.Background())
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) func(context.Context) error {
	return func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

func registerEventHandlers(d *eventbus.Dispatcher) error {
	if err := eventbus.SubscribeAll(d, eventbus.NewLoggingHandler(logger.Named("events")), eventNames...); err != nil {
		return err
	}
	return eventbus.On(d, "course-full-notice", func(_ context.Context, e course.EnrollmentClosed) error {
		logger.Named("course").Info("Course is full, enrollment closed",
			zap.String("course_id", e.AggregateID().String()))
		return nil
	})
}
