package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/addressbook/config"
	"github.com/Payphone-Digital/addressbook/internal/constants"
	"github.com/Payphone-Digital/addressbook/internal/handler"
	"github.com/Payphone-Digital/addressbook/internal/middleware"
	"github.com/Payphone-Digital/addressbook/internal/repository"
	"github.com/Payphone-Digital/addressbook/internal/router"
	"github.com/Payphone-Digital/addressbook/internal/service"
	"github.com/Payphone-Digital/addressbook/pkg/cache"
	"github.com/Payphone-Digital/addressbook/pkg/circuit"
	"github.com/Payphone-Digital/addressbook/pkg/database"
	"github.com/Payphone-Digital/addressbook/pkg/health"
	"github.com/Payphone-Digital/addressbook/pkg/logger"
	"github.com/Payphone-Digital/addressbook/pkg/mailer"
	"github.com/Payphone-Digital/addressbook/pkg/queue"
	"github.com/Payphone-Digital/addressbook/pkg/redis"
	"github.com/Payphone-Digital/addressbook/pkg/validation"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.GetLogger()
	log.Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
		zap.String("contact_store", config.Store.Contacts),
		zap.String("cache_driver", config.Cache.Driver),
	)

	if err := validation.RegisterGinRules(); err != nil {
		log.Fatal("Failed to register validation rules", zap.Error(err))
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	// Credentials always live in Postgres, contacts only with CONTACT_STORE=postgres
	db, err := database.NewPostgresDB(startCtx, config)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db, config.Store.Contacts); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrated successfully")

	if config.Database.Seed {
		seeded, err := database.Seed(startCtx, db)
		if err != nil {
			log.Error("Failed to seed database", zap.Error(err))
		} else {
			log.Info("Database seed finished", zap.Bool("inserted", seeded))
		}
	}

	var redisClient *redis.Client
	if config.Redis.Enabled {
		redisClient, err = redis.NewClient(startCtx, redis.Options(config))
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	}

	breakerConfig := circuit.DefaultConfig()
	breakerConfig.CallTimeout = config.Cache.OperationTimeout
	breakers := circuit.NewBreakerRegistry(breakerConfig, log)

	// Cache backend
	var (
		cacheBackend service.CacheBackend
		memoryCache  *cache.Cache
	)
	switch config.Cache.Driver {
	case configs.CacheDriverRedis:
		cacheBackend = redisClient
	default:
		memoryCache = cache.NewCache(time.Minute)
		cacheBackend = memoryCache
	}
	cacheService := service.NewCacheService(cacheBackend, breakers.GetOrCreate("cache"), config.Cache.TTL)

	// Queue
	var (
		publisher queue.Publisher
		consumer  *queue.Consumer
	)
	if config.Queue.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     config.RedisAddress(),
			Password: config.Redis.Password,
			DB:       config.Redis.Database,
		}

		queueBreakerConfig := circuit.DefaultConfig()
		queueBreakerConfig.CallTimeout = config.Queue.PublishTimeout
		publisher = queue.NewAsynqPublisher(redisOpt, breakers.GetOrCreateWith("queue", queueBreakerConfig))

		consumer = queue.NewConsumer(redisOpt, config.Queue.Concurrency, log)
		service.NewNotificationService().Register(consumer)
		if err := consumer.Start(); err != nil {
			log.Fatal("Failed to start queue consumer", zap.Error(err))
		}
	} else {
		publisher = queue.NewNoopPublisher(log)
	}
	// must outlive the queue breaker's call timeout or a slow broker is never
	// recorded as a failure
	notifier := service.NewNotifier(publisher, 2*config.Queue.PublishTimeout)

	// Mail
	var sender mailer.Sender
	if config.SMTP.Enabled {
		sender = mailer.NewSMTPSender(config.SMTP)
	} else {
		sender = mailer.NewLogSender(log)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	var contactRepo repository.ContactRepository
	if config.Store.Contacts == configs.StorePostgres {
		contactRepo = repository.NewGormContactRepository(db)
	} else {
		contactRepo = repository.NewMemoryContactRepository()
	}

	// Services
	jwtService := service.NewJWTService(config.JWT)
	authService := service.NewAuthService(userRepo, jwtService, sender, notifier, config.SMTP.ResetTokenTTL)
	contactService := service.NewContactService(contactRepo, cacheService, notifier, config.Cache.InvalidateOnWrite)

	// Health
	monitor := health.NewMonitor(time.Minute, 5*time.Second, log)
	monitor.Register("database", true, func(ctx context.Context) error { return database.Ping(ctx, db) })
	monitor.Register("cache", false, cacheService.Ping)
	monitor.Start()
	log.Info("Health monitor started", zap.Strings("checks", monitor.Names()))

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)
	healthHandler := handler.NewHealthHandler(constants.AppVersion, monitor, breakers)

	r := router.NewRouter(
		authHandler,
		contactHandler,
		healthHandler,

		middleware.NewJWTMiddleware(jwtService),
		config,
	).SetupRoutes()

	server := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdown(server, consumer, notifier, publisher, monitor, memoryCache, redisClient, db, config.App.Timeout)
}

// shutdown drains HTTP first so no request can publish after the queue is
// closed, then releases the backing connections.
func shutdown(
	server *http.Server,
	consumer *queue.Consumer,
	notifier *service.Notifier,
	publisher queue.Publisher,
	monitor *health.Monitor,
	memoryCache *cache.Cache,
	redisClient *redis.Client,
	db *gorm.DB,
	timeout time.Duration,
) {
	log := logger.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if consumer != nil {
		consumer.Shutdown()
	}

	notifier.Wait()
	if err := publisher.Close(); err != nil {
		log.Warn("Failed to close queue publisher", zap.Error(err))
	}

	monitor.Stop()

	if memoryCache != nil {
		memoryCache.Close()
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}

	if err := database.CloseDB(db); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}

	log.Info("Server exited")
}
