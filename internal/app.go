package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fileshare-api/config"
	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/application/services"
	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/infrastructure/db/postgres"
	"fileshare-api/internal/infrastructure/db/postgres/file"
	"fileshare-api/internal/infrastructure/db/postgres/grant"
	"fileshare-api/internal/infrastructure/db/postgres/user"
	"fileshare-api/internal/infrastructure/jwt"
	"fileshare-api/internal/infrastructure/metrics"
	"fileshare-api/internal/infrastructure/mq"
	"fileshare-api/internal/infrastructure/s3"
	"fileshare-api/internal/infrastructure/sharetoken"
	"fileshare-api/internal/interface/api/rest"
	"fileshare-api/internal/interface/api/rest/middleware"
	"fileshare-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	storage    ports.ObjectStorage
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	if err = godotenv.Load(".env"); err != nil {
		logger.Info("no .env file, using process environment", zap.Error(err))
	}
	cfg := config.Load()
	if err = cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r, err := newRouter(cfg.HTTP, logger, mCounter)
	if err != nil {
		logger.Fatal("router config error", zap.Error(err))
	}

	// httpServer
	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err = postgres.Migrate(ctx, logger, dbPool); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// s3
	s3Client, err := s3.New(ctx, logger, cfg.S3)
	if err != nil {
		logger.Fatal("failed to configure S3", zap.Error(err))
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	//rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	return &App{
		logger:     logger,
		cfg:        cfg,
		db:         dbPool,
		storage:    s3Client,
		httpSrv:    httpSrv,
		router:     r,
		mCounter:   mCounter,
		mq:         rbMQ,
		mqConsumer: rmqConsumer,
	}, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.mqConsumer.DeliveryWorker(ctx)
		return nil
	})

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	fileRepo := file.NewRepository(a.db)
	grantRepo := grant.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret, a.cfg.App.JWTTTL)
	authService := services.NewAuthService(jwtService)
	userService := services.NewUserService(userRepo, authService, sharetoken.New(), a.mq, a.mCounter)
	accessService := services.NewAccessService(a.logger, fileRepo, grantRepo, a.storage, ttlPolicy(a.cfg.Links), a.mCounter)
	shareService := services.NewShareService(a.logger, fileRepo, grantRepo, sharetoken.New(), a.mq, a.mCounter, a.cfg.App.PublicBaseURL)
	fileService := services.NewFileService(
		a.logger,
		fileRepo,
		a.storage,
		a.mq,
		a.mCounter,
		a.cfg.Links.PreviewTTL,
		a.cfg.S3.UploadURLTTL,
		a.cfg.Storage.QuotaBytes,
	)

	// controllers
	rest.NewAuthController(a.router, a.logger, userService, authService)
	rest.NewUserController(a.router, userService, a.logger, jwtService)
	rest.NewFileController(a.router, fileService, accessService, a.logger, jwtService, a.cfg.HTTP.MaxUploadSize)
	rest.NewShareController(a.router, shareService, a.logger, jwtService)
	limiter := middleware.NewRateLimiter(a.cfg.HTTP.PublicRPS, a.cfg.HTTP.PublicBurst)
	rest.NewPublicController(a.router, accessService, a.logger, limiter.Middleware())

	// ops
	a.router.GET(rest.RouteHealth, a.healthHandler)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := a.db.Ping(ctx); err != nil {
		a.logger.Warn("health check: database unreachable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func ttlPolicy(l config.Links) access.TTLPolicy {
	return access.TTLPolicy{
		Preview:        l.PreviewTTL,
		Download:       l.DownloadTTL,
		DownloadNow:    l.DownloadNowTTL,
		PublicPreview:  l.PublicPreviewTTL,
		PublicDownload: l.PublicDownloadTTL,
	}
}

func (a *App) Logger() *zap.Logger { return a.logger }
