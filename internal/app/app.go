package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/bazaarfly/go-storefront/internal/cfg"
	v1Http "github.com/bazaarfly/go-storefront/internal/delivery/v1/http"
	"github.com/bazaarfly/go-storefront/internal/infrastructure/backend"
	"github.com/bazaarfly/go-storefront/internal/infrastructure/kafka"
	"github.com/bazaarfly/go-storefront/internal/repository/cartstore"
	"github.com/bazaarfly/go-storefront/internal/repository/pgdb"
	pgdbConv "github.com/bazaarfly/go-storefront/internal/repository/pgdb/converter/generated"
	"github.com/bazaarfly/go-storefront/internal/repository/redis"
	redisConv "github.com/bazaarfly/go-storefront/internal/repository/redis/converter/generated"
	"github.com/bazaarfly/go-storefront/internal/usecase"
	"github.com/bazaarfly/go-storefront/pkg/clients"
	"github.com/bazaarfly/go-storefront/pkg/closer"
	"github.com/bazaarfly/go-storefront/pkg/e"
	"github.com/bazaarfly/go-storefront/pkg/logger"
	"github.com/bazaarfly/go-storefront/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App связывает хранилища, журнал событий, каталог и HTTP-сервер.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	httpSrv *v1Http.Server
	worker  *kafka.OutboxWorker
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	store, err := initCartStore(log, cfg, db, redisClient)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	outConv := pgdbConv.NewOutboxEventConverterImpl()
	infoConv := redisConv.NewProductInfoConverterImpl()

	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outConv)
	checkoutRepo := pgdb.NewCheckoutRepo()
	journal := pgdb.NewEventJournal(db.Pool, outboxRepo, checkoutRepo)

	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)
	backendClient := backend.NewClient(cfg.Backend, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Warnf("failed to ensure kafka topic: %v", err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	worker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)

	cartUC := usecase.NewCartUC(store, journal, journal, log)
	catalogUC := usecase.NewCatalogUC(backendClient, cacheRepo, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(cartUC, catalogUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		closer:  cl,
		httpSrv: v1Http.NewServer(r, cfg.Http),
		worker:  worker,
	}, nil
}

// Run запускает воркер журнала и HTTP-сервер, блокируясь до сигнала или ошибки.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	workerCancel()
	a.worker.Stop()
	a.logger.Infof("Outbox worker stopped")

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("resource shutdown: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// initCartStore выбирает бэкенд хранения снапшотов корзин по конфигурации.
func initCartStore(log logger.Logger, cfg *config.Config, db *postgres.PgDatabase, redisClient *clients.RedisClient) (usecase.CartStore, error) {
	switch cfg.CartStore.Kind {
	case config.CartStoreFile:
		return cartstore.NewFileStore(cfg.CartStore.FileDir, log)

	case config.CartStoreRedis:
		return cartstore.NewRedisStore(redisClient, cfg.Redis, log), nil

	case config.CartStoreMinio:
		minioClient, err := clients.NewMinIOClient(cfg.Minio)
		if err != nil {
			log.Errorf(err, "failed to initialize minio client")
			return nil, err
		}

		minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer minioCancel()
		if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
			log.Errorf(err, "failed to initialize MinIO bucket")
			return nil, err
		}

		return cartstore.NewMinioStore(minioClient, cfg.Minio, log), nil

	case config.CartStorePostgres:
		return pgdb.NewCartRepo(db.Pool, log), nil

	default:
		return nil, fmt.Errorf("unknown cart store kind %q", cfg.CartStore.Kind)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
