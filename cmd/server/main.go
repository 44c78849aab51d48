package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	grpcAdapter "github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/grpc"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/httpapi"
	natsAdapter "github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/repository/mongodb"
	s3Adapter "github.com/Abdurahmanit/GroupProject/estate-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/mailer"

	// Config
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/config"
	// Domain & Usecase
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/usecase"
	// Platform
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const healthCheckInterval = 10 * time.Second

func main() {
	// Load .env file (optional, for local development)
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Logger
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	// 2. Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	serviceName := cfg.ServiceName
	appLogger = appLogger.With(zap.String("service_name", serviceName))
	appLogger.Info("Application starting...")

	bestOfferMode, _ := domain.ParseBestOfferMode(cfg.BestOfferMode)
	priceGuard, _ := domain.ParsePriceGuard(cfg.OfferPriceGuard)
	settings := usecase.Settings{BestOfferMode: bestOfferMode, PriceGuard: priceGuard}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Tracer
	tp := tracer.InitTracer(serviceName, cfg.OTelEndpoint, appLogger)
	defer tracer.Shutdown(tp, 5*time.Second, appLogger)

	// 4. MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		appLogger.Info("Disconnecting from MongoDB...")
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		cancelPing()
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	cancelPing()
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	// 5. Repositories
	propertyRepo, err := mongoRepo.NewPropertyRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize PropertyRepository", zap.Error(err))
	}
	offerRepo, err := mongoRepo.NewOfferRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize OfferRepository", zap.Error(err))
	}
	tagRepo, err := mongoRepo.NewTagRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize TagRepository", zap.Error(err))
	}
	typeRepo, err := mongoRepo.NewPropertyTypeRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize PropertyTypeRepository", zap.Error(err))
	}
	invoiceRepo, err := mongoRepo.NewInvoiceRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize InvoiceRepository", zap.Error(err))
	}
	repos := usecase.Repositories{
		Tx:         mongoRepo.NewTransactor(mongoClient, appLogger),
		Properties: propertyRepo,
		Offers:     offerRepo,
		Tags:       tagRepo,
		Types:      typeRepo,
		Invoices:   invoiceRepo,
	}
	appLogger.Info("Repositories initialized.")

	// 6. Optional adapters. Interface values stay untyped nil when unconfigured.
	checks := map[string]grpcAdapter.CheckFunc{
		"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}

	var propertyCache usecase.PropertyCache
	var redisClient *redis.Client
	if cfg.RedisAddress != "" {
		redisClient, err = cache.NewRedisClient(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				appLogger.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		propertyCache = cache.NewPropertyCache(redisClient, cfg.CacheTTL, appLogger)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		appLogger.Info("Property cache disabled (REDIS_ADDRESS not set).")
	}

	var publisher usecase.EventPublisher
	if cfg.NATSURL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, serviceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		appLogger.Info("Event publishing disabled (NATS_URL not set).")
	}

	var photoStorage usecase.Storage
	if cfg.MinioEndpoint != "" {
		s3Storage, err := s3Adapter.NewS3Storage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		photoStorage = s3Storage
	} else {
		appLogger.Info("Photo uploads disabled (MINIO_ENDPOINT not set).")
	}

	var notifier usecase.SaleNotifier
	if cfg.SMTPHost != "" && cfg.SalesNotifyEmail != "" {
		notifier = mailer.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.SalesNotifyEmail, appLogger)
	} else {
		appLogger.Info("Sale notifications disabled (SMTP_HOST or SALES_NOTIFY_EMAIL not set).")
	}

	// 7. Metrics
	var metricsManager *metrics.MetricsManager
	if cfg.PrometheusMetricsPort != "" {
		metricsManager = metrics.NewMetricsManager(serviceName)
		go func() {
			if err := metrics.StartMetricsServer(ctx, cfg.PrometheusMetricsPort, appLogger, metricsManager); err != nil {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set).")
	}

	// 8. Usecases
	propertyUsecase := usecase.NewPropertyUsecase(repos, propertyCache, publisher, notifier, photoStorage, metricsManager, nil, appLogger)
	offerUsecase := usecase.NewOfferUsecase(repos, settings, propertyCache, publisher, metricsManager, nil, appLogger)
	tagUsecase := usecase.NewTagUsecase(repos, propertyCache, nil, appLogger)
	typeUsecase := usecase.NewPropertyTypeUsecase(repos, propertyCache, nil, appLogger)
	appLogger.Info("Usecases initialized.",
		zap.String("best_offer_mode", string(bestOfferMode)),
		zap.String("offer_price_guard", string(priceGuard)),
	)

	// 9. gRPC health server
	grpcSrv, healthServer := grpcAdapter.NewHealthServer(serviceName, appLogger)
	lis, err := net.Listen("tcp", ":"+cfg.GRPCHealthPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCHealthPort), zap.Error(err))
	}
	go func() {
		appLogger.Info("Starting gRPC health server", zap.String("port", cfg.GRPCHealthPort))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Error("gRPC server Serve error", zap.Error(err))
		}
	}()
	go grpcAdapter.WatchDependencies(ctx, healthServer, serviceName, healthCheckInterval, appLogger.Named("HealthWatch"), checks)

	// 10. HTTP API
	handler := httpapi.NewHandler(propertyUsecase, offerUsecase, tagUsecase, typeUsecase, appLogger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		ServiceName:    serviceName,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins(),
	}, metricsManager, appLogger)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		appLogger.Error("HTTP server failed", zap.Error(err))
	}

	stop()
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcSrv.GracefulStop()

	appLogger.Info("Application shutting down...")
}
