package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/shop-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/shop-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/shop-backend/internal/infrastructure/auth"
	"github.com/DRSN-tech/shop-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/shop-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/shop-backend/internal/repository/minio"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter/generated"
	"github.com/DRSN-tech/shop-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/shop-backend/internal/repository/redis/converter/generated"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/clients"
	"github.com/DRSN-tech/shop-backend/pkg/closer"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/DRSN-tech/shop-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

// App собирает зависимости приложения и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	httpSrv *v1Http.Server
	closer  *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	// Закрытие ресурсов в обратном порядке регистрации
	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	userConv := pgdbConv.NewUserConverterImpl()
	prConv := pgdbConv.NewProductConverterImpl()
	orderConv := pgdbConv.NewOrderConverterImpl()
	outboxConv := pgdbConv.NewOutboxEventConverterImpl()
	cacheConv := redisConv.NewProductConverterImpl()

	userRepo := pgdb.NewUserRepo(db.Pool, userConv)
	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	orderRepo := pgdb.NewOrderRepo(db.Pool, orderConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient, cacheConv, cfg.Redis, log)
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	// Контекст, живущий дольше HTTP-запросов: для фоновой очистки MinIO и outbox-воркера
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, shutdownCtx)
	cl.Add(func(ctx context.Context) error {
		return imagesInfra.WaitForCleanup(ctx)
	})

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Warnf("Kafka topic check failed, events will retry later: %v", err)
	}

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	outboxWorker.Start(shutdownCtx)
	cl.Add(func(ctx context.Context) error {
		shutdownCancel()
		outboxWorker.Stop()
		return nil
	})

	hasher := auth.NewBcryptHasher()
	tokenManager := auth.NewJWTManager(cfg.Auth)

	userUC := usecase.NewUserUC(userRepo, hasher, tokenManager, log)
	productUC := usecase.NewProductUC(productRepo, cacheRepo, imagesInfra, log)
	orderUC := usecase.NewOrderUC(orderRepo, userRepo, outboxRepo, db.Pool, log)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(userUC, productUC, orderUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	return &App{
		cfg:     cfg,
		logger:  log,
		httpSrv: httpSrv,
		closer:  cl,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до сигнала завершения или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.stop()

	return appErr
}

// stop закрывает зарегистрированные ресурсы (LIFO: сервер, воркер, клиенты, БД).
func (a *App) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	}

	a.logger.Infof("Application shutdown complete")
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
