package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/dropx-tech/marketplace-backend/internal/cfg"
	v1Http "github.com/dropx-tech/marketplace-backend/internal/delivery/v1/http"
	"github.com/dropx-tech/marketplace-backend/internal/infrastructure/kafka"
	s3Repo "github.com/dropx-tech/marketplace-backend/internal/repository/minio"
	"github.com/dropx-tech/marketplace-backend/internal/repository/pgdb"
	pgdbConv "github.com/dropx-tech/marketplace-backend/internal/repository/pgdb/converter"
	"github.com/dropx-tech/marketplace-backend/internal/repository/redis"
	"github.com/dropx-tech/marketplace-backend/internal/usecase"
	"github.com/dropx-tech/marketplace-backend/pkg/clients"
	"github.com/dropx-tech/marketplace-backend/pkg/closer"
	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
	"github.com/dropx-tech/marketplace-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	db, err := initPGDB(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}

	cl := closer.NewCloser(0)
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	productConv := pgdbConv.NewProductConverter()
	merchantConv := pgdbConv.NewMerchantConverter()
	addressConv := pgdbConv.NewAddressConverter()
	userConv := pgdbConv.NewUserConverter()
	orderConv := pgdbConv.NewOrderConverter()
	outboxConv := pgdbConv.NewOutboxEventConverter()

	productRepo := pgdb.NewProductRepo(db.Pool, productConv)
	merchantRepo := pgdb.NewMerchantRepo(db.Pool, merchantConv)
	addressRepo := pgdb.NewAddressRepo(db.Pool, addressConv)
	userRepo := pgdb.NewUserRepo(db.Pool, userConv)
	orderRepo := pgdb.NewOrderRepo(db.Pool, orderConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		logger.Errorf(err, "failed to initialize minio client")
		os.Exit(1)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		logger.Errorf(err, "failed to initialize MinIO bucket")
		os.Exit(1)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		logger.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	sessionRepo := redis.NewSessionRepo(redisClient, cfg.Redis, logger)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	outboxWorker := kafka.NewOutboxWorker(outboxRepo, logger, producer, db.Dsn)
	outboxWorker.Start(workerCtx)
	cl.Add(func(ctx context.Context) error {
		workerCancel()
		outboxWorker.Stop()
		return nil
	})

	listingUC := usecase.NewListingUC(productRepo, merchantRepo, imageRepo, logger)
	addressUC := usecase.NewAddressUC(addressRepo, outboxRepo, db.Pool, logger)
	profileUC := usecase.NewProfileUC(userRepo, orderRepo, outboxRepo, db.Pool, logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(listingUC, profileUC, addressUC, sessionRepo)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed: %v", err)
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Stop(shutdownCtx); err != nil {
		logger.Errorf(err, "HTTP server shutdown error")
	} else {
		logger.Infof("HTTP server stopped")
	}

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("shutdown finished with errors: %v", err)
	}

	logger.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
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
