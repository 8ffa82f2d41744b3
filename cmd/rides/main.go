package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/riopardo/rides/internal/pkg/circuitbreaker"
	"github.com/riopardo/rides/internal/pkg/config"
	"github.com/riopardo/rides/internal/pkg/database"
	"github.com/riopardo/rides/internal/pkg/health"
	"github.com/riopardo/rides/internal/pkg/logger"
	"github.com/riopardo/rides/internal/pkg/middleware"
	"github.com/riopardo/rides/internal/pkg/models"
	"github.com/riopardo/rides/internal/pkg/nats"
	"github.com/riopardo/rides/internal/pkg/nsq"
	"github.com/riopardo/rides/internal/pkg/server"
	"github.com/riopardo/rides/services/rides"
	"github.com/riopardo/rides/services/rides/gateway"
	"github.com/riopardo/rides/services/rides/handler"
	"github.com/riopardo/rides/services/rides/repository"
	"github.com/riopardo/rides/services/rides/usecase"
)

const appName = "rides-service"

type broker interface {
	rides.RideGW
	rides.RideStream
	rides.MessageGW
	rides.MessageStream
}

// stores holds the ride and message repositories selected by RIDES_STORE
type stores struct {
	rides    rides.RideRepo
	messages rides.MessageRepo
	redis    *redis.Client // nil without redis, which disables rate limiting
	close    func()
}

func main() {
	configs := config.InitConfig("config/rides.env")

	zapLogger, err := logger.InitZapLoggerFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.String("broker", configs.Rides.Broker),
		logger.String("store", configs.Rides.Store),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthService := health.NewService(0)

	store, err := newStores(ctx, configs, healthService)
	if err != nil {
		zapLogger.Fatal("Failed to initialize ride store", logger.Err(err))
	}
	defer store.close()

	ridesGW, closeBroker, err := newBroker(configs, healthService)
	if err != nil {
		zapLogger.Fatal("Failed to initialize ride broker", logger.Err(err))
	}
	defer closeBroker()

	// transitions and chat go through the same broker, so they share one breaker
	breaker := circuitbreaker.New(circuitbreaker.DefaultConfig(configs.Rides.Broker))

	rideUC, err := usecase.NewRideUC(configs, store.rides, gateway.NewGuardedGW(ridesGW, breaker))
	if err != nil {
		zapLogger.Fatal("Failed to initialize ride use case", logger.Err(err))
	}
	messageUC, err := usecase.NewMessageUC(configs, store.rides, store.messages, gateway.NewGuardedMessageGW(ridesGW, breaker))
	if err != nil {
		zapLogger.Fatal("Failed to initialize message use case", logger.Err(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = time.Duration(configs.Server.ReadTimeout) * time.Second
	// the event streams are long lived, SERVER_WRITE_TIMEOUT is applied per route instead

	// panic recovery runs first so it also covers the request logger
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)
	handler.NewHandler(rideUC, messageUC, ridesGW, configs, store.redis).RegisterRoutes(e)

	srv := server.NewGracefulServer(e,
		fmt.Sprintf("%s:%d", configs.Server.Host, configs.Server.Port),
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	srv.AddJob(rideUC.RunExpiry)

	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("Server stopped with error", logger.Err(err))
		return
	}
	zapLogger.Info("Server exited")
}

// newStores connects the store named by RIDES_STORE and registers its health
// checks. The memory store needs neither postgres nor redis.
func newStores(ctx context.Context, configs *models.Config, healthService *health.Service) (*stores, error) {
	switch configs.Rides.Store {
	case "postgres", "":
		postgresClient, err := database.NewPostgresClient(configs.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		redisClient, err := database.NewRedisClient(configs.Redis)
		if err != nil {
			postgresClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		closeAll := func() {
			redisClient.Close()
			postgresClient.Close()
		}

		rideStore := repository.NewRideRepository(configs, postgresClient.GetDB())
		if err := rideStore.Migrate(ctx); err != nil {
			closeAll()
			return nil, fmt.Errorf("failed to migrate ride schema: %w", err)
		}
		healthService.AddChecker("postgres", health.CheckerFunc(postgresClient.Ping))
		healthService.AddChecker("redis", health.CheckerFunc(redisClient.Ping))

		return &stores{
			rides:    repository.NewCachedRideRepo(rideStore, redisClient.GetClient(), configs.Rides.CacheTTL),
			messages: repository.NewMessageRepository(postgresClient.GetDB()),
			redis:    redisClient.GetClient(),
			close:    closeAll,
		}, nil

	case "memory":
		logger.Warn("Using in-memory store, rides are lost on restart and not shared between instances")
		return &stores{
			rides:    repository.NewMemoryRideRepo(),
			messages: repository.NewMemoryMessageRepo(),
			close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store %q", configs.Rides.Store)
}

// newBroker connects the transition broker named by RIDES_BROKER and
// registers its health check
func newBroker(configs *models.Config, healthService *health.Service) (broker, func(), error) {
	switch configs.Rides.Broker {
	case "nats", "":
		natsClient, err := nats.NewClient(configs.NATS.URL, appName)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		healthService.AddChecker("nats", health.ConnectedChecker("nats", natsClient.IsConnected))
		logger.Info("NATS client initialized", logger.String("url", configs.NATS.URL))
		return gateway.NewNATSGateway(natsClient), natsClient.Close, nil

	case "nsq":
		producer, err := nsq.NewProducer(configs.NSQ.NSQDAddress)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create NSQ producer: %w", err)
		}
		healthService.AddChecker("nsq", health.CheckerFunc(func(context.Context) error {
			return producer.Ping()
		}))
		logger.Info("NSQ producer initialized", logger.String("nsqd", configs.NSQ.NSQDAddress))
		return gateway.NewNSQGateway(producer, configs.NSQ), producer.Stop, nil

	case "local":
		local := gateway.NewLocalBroker()
		logger.Warn("Using in-process broker, transitions are not shared between instances")
		return local, local.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown broker %q", configs.Rides.Broker)
}
