package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"staybook/internal/app/commands"
	bookingapp "staybook/internal/app/handlers/booking"
	"staybook/internal/app/middleware"
	"staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainaccommodation "staybook/internal/domain/accommodation"
	domainbooking "staybook/internal/domain/booking"
	domainguest "staybook/internal/domain/guest"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongostore "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	"staybook/internal/infra/storage/memory"
	redisstore "staybook/internal/infra/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.stores != nil {
		path := getenv("FIXTURES_PATH", filepath.Join("data", "fixtures.json"))
		if err := app.loadFixtures(path, logger); err != nil {
			logger.Warn("fixtures load failed", "error", err, "path", path)
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "backend", app.backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	backend  string
	ready    func() error
	closers  []func() error

	// stores is non-nil only on the in-memory backend, where fixtures seed
	// the accommodation and guest read models.
	stores *memoryStores
}

type memoryStores struct {
	accommodations *memory.AccommodationRepository
	guests         *memory.GuestRepository
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (*application, error) {
	app := &application{backend: "memory", ready: func() error { return nil }}

	factory, err := app.buildPersistence(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	idStore := app.buildIdempotency(cfg, logger)
	outboxStore, err := app.buildOutbox(cfg, logger)
	if err != nil {
		return nil, err
	}

	policy, err := domainbooking.NewCancellationPolicy(cfg.CancellationWindow)
	if err != nil {
		return nil, err
	}
	encoder := outbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), &bookingapp.CreateBookingHandler{
		UoWFactory:    factory,
		Outbox:        outboxStore,
		Encoder:       encoder,
		MaxStayNights: cfg.MaxStayNights,
	})
	commands.RegisterHandler(commandBus, bookingapp.UpdateBookingCommand{}.Key(), &bookingapp.UpdateBookingHandler{
		UoWFactory: factory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		UoWFactory: factory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Policy:     policy,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{
		UoWFactory: factory,
		Logger:     logger,
	})
	queries.RegisterHandler(queryBus, bookingapp.ListAccommodationBookingsQuery{}.Key(), &bookingapp.ListAccommodationBookingsHandler{
		UoWFactory: factory,
		Logger:     logger,
	})

	// OutboxFlush wraps Transaction so staged events only publish after
	// the unit of work committed.
	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.OutboxFlush(outboxStore),
		middleware.Transaction(factory, nil),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app.handlers = ginserver.Handlers{
		Booking: ginserver.BookingHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		IdentityResolver: ginserver.IdentityMiddleware{
			Secret: []byte(cfg.JWTSecret),
			Logger: logger,
		}.Handle,
	}
	return app, nil
}

func (a *application) buildPersistence(ctx context.Context, cfg config.Config, logger *slog.Logger) (uow.UoWFactory, error) {
	if cfg.MongoURI == "" {
		accommodations := memory.NewAccommodationRepository()
		guests := memory.NewGuestRepository()
		a.stores = &memoryStores{accommodations: accommodations, guests: guests}
		logger.Info("persistence: in-memory")
		return memory.Factory{
			AccommodationRepo: accommodations,
			GuestRepo:         guests,
			BookingRepo:       memory.NewBookingRepository(),
			DetailRepo:        memory.NewDetailRepository(),
			CalendarStore:     memory.NewCalendar(),
		}, nil
	}

	client, err := mongostore.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	a.backend = "mongo"
	a.ready = func() error {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return client.Ping(pingCtx)
	}
	a.closers = append(a.closers, func() error {
		return client.DB.Client().Disconnect(context.Background())
	})

	// Multi-document transactions need a replica set; standalone deployments
	// run with MONGO_TX=false and rely on the calendar claim alone.
	transactions := getenv("MONGO_TX", "true") != "false"
	logger.Info("persistence: mongo", "db", cfg.MongoDB, "transactions", transactions)
	return mongostore.NewFactory(client, transactions), nil
}

func (a *application) buildIdempotency(cfg config.Config, logger *slog.Logger) middleware.IdempotencyStore {
	if cfg.RedisAddr == "" {
		logger.Info("idempotency store: in-memory")
		return memory.NewIdempotencyStore()
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	a.closers = append(a.closers, client.Close)
	logger.Info("idempotency store: redis", "addr", cfg.RedisAddr, "ttl", cfg.IdempotencyTTL)
	return redisstore.NewIdempotencyStore(client, cfg.IdempotencyTTL)
}

func (a *application) buildOutbox(cfg config.Config, logger *slog.Logger) (outbox.Outbox, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("outbox: in-memory")
		return memory.NewOutbox(), nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	a.closers = append(a.closers, producer.Close)
	logger.Info("outbox: kafka", "brokers", cfg.KafkaBrokers, "topic_prefix", cfg.KafkaTopicPrefix)
	return kafka.NewOutbox(producer, cfg.KafkaTopicPrefix, logger), nil
}

func (a *application) close(logger *slog.Logger) {
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}
}

func (a *application) loadFixtures(path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures fixtureFile
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, fx := range fixtures.Accommodations {
		a.stores.accommodations.Put(domainaccommodation.Accommodation{
			ID:                domainaccommodation.AccommodationID(fx.ID),
			Host:              domainaccommodation.HostID(fx.Host),
			Name:              fx.Name,
			MaxGuestCapacity:  fx.MaxGuestCapacity,
			NightlyRateCents:  fx.NightlyRateCents,
			Currency:          fx.Currency,
			ApprovalStatus:    domainaccommodation.ApprovalStatus(fx.ApprovalStatus),
			OperationalStatus: domainaccommodation.OperationalStatus(fx.OperationalStatus),
		})
	}
	for _, fx := range fixtures.Guests {
		a.stores.guests.Put(domainguest.Guest{
			ID:    domainguest.GuestID(fx.ID),
			Name:  fx.Name,
			Email: fx.Email,
		})
	}
	logger.Info("fixtures imported", "accommodations", len(fixtures.Accommodations), "guests", len(fixtures.Guests))
	return nil
}

type fixtureFile struct {
	Accommodations []accommodationFixture `json:"accommodations"`
	Guests         []guestFixture         `json:"guests"`
}

type accommodationFixture struct {
	ID                string `json:"id"`
	Host              string `json:"host"`
	Name              string `json:"name"`
	MaxGuestCapacity  int    `json:"max_guest_capacity"`
	NightlyRateCents  int64  `json:"nightly_rate_cents"`
	Currency          string `json:"currency"`
	ApprovalStatus    string `json:"approval_status"`
	OperationalStatus string `json:"operational_status"`
}

type guestFixture struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
