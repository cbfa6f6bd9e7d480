package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"resort/api"
	apibooking "resort/api/booking"
	"resort/api/health"
	"resort/api/middleware"
	apiroom "resort/api/room"
	bookingapp "resort/application/booking"
	"resort/application/cart"
	"resort/config"
	"resort/domain/catalog"
	"resort/domain/order"
	"resort/domain/reservation"
	"resort/domain/shared"
	"resort/infrastructure/outbox"
	"resort/infrastructure/persistence/mocks"
	"resort/infrastructure/persistence/mongodb"
	"resort/infrastructure/persistence/mysql"
	"resort/infrastructure/persistence/retry"
	"resort/infrastructure/rediscache"
	"resort/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AppBuilder builds an App with customizable components
type AppBuilder struct {
	cfg          *config.Config
	controllers  []api.ControllerRegister
	middlewares  []api.MiddlewareRegister
	customRoutes []api.Route
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:          cfg,
		controllers:  []api.ControllerRegister{},
		middlewares:  []api.MiddlewareRegister{},
		customRoutes: []api.Route{},
	}
}

// WithController adds a controller to the app
func (b *AppBuilder) WithController(c api.ControllerRegister) *AppBuilder {
	b.controllers = append(b.controllers, c)
	return b
}

// WithMiddleware adds a middleware to the app
func (b *AppBuilder) WithMiddleware(m api.MiddlewareRegister) *AppBuilder {
	b.middlewares = append(b.middlewares, m)
	return b
}

// WithRoute adds a custom route
func (b *AppBuilder) WithRoute(method, path string, handler gin.HandlerFunc) *AppBuilder {
	b.customRoutes = append(b.customRoutes, api.Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})
	return b
}

// infra is everything the services are wired from
type infra struct {
	orders       order.Repository
	catalog      catalog.Repository
	listings     catalog.ListingFinder
	reservations reservation.Repository
	uowFactory   shared.UnitOfWorkFactory
	ledgerCache  catalog.LedgerCache
	outbox       outbox.Store
	publisher    outbox.Publisher
	memoryStore  bool
	probes       map[string]health.Probe
	closers      []closer
}

type closer struct {
	name  string
	close func(ctx context.Context) error
}

// Build connects the configured backends and creates the App instance.
// Anything already opened is closed again when a later step fails.
func (b *AppBuilder) Build(ctx context.Context) (app *App, err error) {
	logger.Info("Building application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	loc, err := b.cfg.Booking.Location()
	if err != nil {
		return nil, err
	}

	in := &infra{probes: make(map[string]health.Probe)}
	defer func() {
		if err != nil {
			closeAll(context.Background(), in.closers)
		}
	}()

	if err := b.initPersistence(ctx, in); err != nil {
		return nil, err
	}
	if err := b.initReservations(ctx, in); err != nil {
		return nil, err
	}
	if err := b.initRedis(ctx, in); err != nil {
		return nil, err
	}

	deps := bookingapp.Dependencies{
		Orders:       in.orders,
		Catalog:      in.catalog,
		Listings:     in.listings,
		Reservations: in.reservations,
		UoWFactory:   in.uowFactory,
		LedgerCache:  in.ledgerCache,
		Location:     loc,
	}
	cartService := cart.NewService(in.orders, in.listings, in.uowFactory, b.cfg.Booking.Currency, loc)
	bookingService := bookingapp.NewService(deps)
	queryService := bookingapp.NewQueryService(deps)

	controllers := []api.ControllerRegister{
		health.NewController(b.cfg, in.probes),
		apibooking.NewController(cartService, bookingService, queryService,
			middleware.UserIdentityMiddleware(b.cfg.Auth.UserHeader)),
		apiroom.NewController(queryService),
	}
	controllers = append(controllers, b.controllers...)

	router := api.NewRouter(b.cfg, controllers, b.middlewares, b.customRoutes)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         ":" + b.cfg.Server.Port,
		Handler:      router.GetEngine(),
		ReadTimeout:  b.cfg.Server.ReadTimeout,
		WriteTimeout: b.cfg.Server.WriteTimeout,
	}

	app = &App{
		config:  b.cfg,
		router:  router,
		server:  server,
		closers: in.closers,
	}

	// An in-memory outbox is only visible to this process, so the relay
	// runs here instead of in cmd/worker.
	if in.memoryStore && b.cfg.Worker.Enabled {
		worker, err := outbox.NewWorker(in.outbox, in.publisher,
			b.cfg.Worker.PollInterval, b.cfg.Worker.BatchSize, b.cfg.Worker.MaxRetries)
		if err != nil {
			return nil, fmt.Errorf("failed to create outbox worker: %w", err)
		}
		app.worker = worker
	}

	return app, nil
}

func (b *AppBuilder) initPersistence(ctx context.Context, in *infra) error {
	retryConfig := retry.FromAppConfig(b.cfg.Database.Retry)

	if strings.EqualFold(b.cfg.Database.Type, "mysql") {
		logger.Info("Using MySQL/GORM persistence layer")

		db, err := OpenMySQL(ctx, b.cfg)
		if err != nil {
			return err
		}
		in.closers = append(in.closers, closer{name: "mysql", close: func(context.Context) error {
			return closeGorm(db)
		}})

		catalogRepo := mysql.NewCatalogRepository(db)
		in.orders = mysql.NewOrderRepository(db)
		in.catalog = catalogRepo
		in.listings = catalogRepo
		in.uowFactory = mysql.NewUnitOfWorkFactory(db, retryConfig)
		in.outbox = mysql.NewOutboxRepository(db)
		in.probes["database"] = func(ctx context.Context) error { return mysql.Ping(ctx, db) }
		return nil
	}

	logger.Info("Using in-memory persistence layer")

	store := mocks.NewSeededStore(b.cfg.Booking.Currency)
	catalogRepo := mocks.NewCatalogRepository(store)
	in.orders = mocks.NewOrderRepository(store)
	in.catalog = catalogRepo
	in.listings = catalogRepo
	in.reservations = mocks.NewReservationRepository(store)
	in.uowFactory = mocks.NewUnitOfWorkFactory(store, retryConfig)
	in.outbox = mocks.NewOutboxRepository(store)
	in.memoryStore = true
	return nil
}

func (b *AppBuilder) initReservations(ctx context.Context, in *infra) error {
	if !b.cfg.Mongo.Enabled {
		if in.reservations == nil {
			logger.Warn("Mongo disabled, legacy bookings are kept in memory")
			in.reservations = mocks.NewReservationRepository(mocks.NewStore())
		}
		return nil
	}

	client, err := mongodb.Connect(ctx, b.cfg.Mongo)
	if err != nil {
		return err
	}
	in.closers = append(in.closers, closer{name: "mongo", close: client.Disconnect})

	collection := client.Database(b.cfg.Mongo.Database).Collection(b.cfg.Mongo.Collection)
	in.reservations = mongodb.NewReservationRepository(collection, b.cfg.Booking.Currency)
	in.probes["mongo"] = func(ctx context.Context) error { return mongodb.Ping(ctx, client) }
	return nil
}

func (b *AppBuilder) initRedis(ctx context.Context, in *infra) error {
	if !b.cfg.Redis.Enabled {
		in.publisher = &outbox.LoggingPublisher{}
		return nil
	}

	client, err := rediscache.NewClient(ctx, b.cfg.Redis)
	if err != nil {
		return err
	}
	in.closers = append(in.closers, closer{name: "redis", close: func(context.Context) error {
		return client.Close()
	}})

	in.listings = rediscache.NewCachedListingFinder(in.listings, client, b.cfg.Redis.ListingTTL)
	in.ledgerCache = rediscache.NewLedgerCache(client, b.cfg.Redis.LedgerTTL)
	in.publisher = rediscache.NewPublisher(client, b.cfg.Redis.ChannelPrefix)
	in.probes["redis"] = redisProbe(client)
	return nil
}

func redisProbe(client redis.Cmdable) health.Probe {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func closeAll(ctx context.Context, closers []closer) {
	// reverse order of opening
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].close(ctx); err != nil {
			logger.Warn("Failed to close backend", zap.String("backend", closers[i].name), zap.Error(err))
		}
	}
}
