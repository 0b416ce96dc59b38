package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/encounterhub/listing-service/internal/adapter/httpapi"
	ownmiddleware "github.com/encounterhub/listing-service/internal/adapter/httpapi/middleware"
	natsadapter "github.com/encounterhub/listing-service/internal/adapter/messaging/nats"
	"github.com/encounterhub/listing-service/internal/adapter/repository/cache"
	"github.com/encounterhub/listing-service/internal/adapter/repository/mongodb"
	"github.com/encounterhub/listing-service/internal/adapter/storage/s3"
	"github.com/encounterhub/listing-service/internal/config"
	"github.com/encounterhub/listing-service/internal/listing/usecase"
	"github.com/encounterhub/listing-service/internal/location"
	"github.com/encounterhub/listing-service/internal/mailer"
	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/encounterhub/listing-service/internal/platform/metrics"
	"github.com/encounterhub/listing-service/internal/platform/tracer"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// a missing .env file just means the OS environment is authoritative
	_ = godotenv.Load()

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	tracerProvider := tracer.InitTracer(cfg.ServiceName)
	if tracerProvider != nil {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				appLogger.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)
	appLogger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	listingCache, err := cache.NewListingCache(cfg.RedisAddr)
	if err != nil {
		appLogger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer listingCache.Close()
	appLogger.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	publisher, err := natsadapter.NewPublisher(cfg.NATSURL, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()
	appLogger.Info("connected to NATS", zap.String("url", cfg.NATSURL))

	mediaStore, err := s3.NewMediaStore(ctx, s3.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MediaPublicURL,
	})
	if err != nil {
		appLogger.Fatal("failed to initialize media storage", zap.Error(err))
	}

	taxonomy := location.NewStore(cfg.LocationsFile, appLogger)

	metricsManager := metrics.NewManager("listing_service")
	go func() {
		if err := metrics.StartServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && err != http.ErrServerClosed {
			appLogger.Error("metrics server failed", zap.Error(err))
		}
	}()

	listingRepo := mongodb.NewListingRepository(db, appLogger)
	favoriteRepo := mongodb.NewFavoriteRepository(db, appLogger)
	messageRepo := mongodb.NewMessageRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)

	decisionMailer := mailer.NewMailer(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Email:    cfg.SMTPEmail,
		Password: cfg.SMTPPassword,
	})

	listingUC := usecase.NewListingUsecase(listingRepo, listingCache, publisher, taxonomy, mediaStore, metricsManager, appLogger)
	moderationUC := usecase.NewModerationUsecase(listingRepo, userRepo, listingCache, publisher, decisionMailer, metricsManager, appLogger)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, listingRepo, appLogger)
	messageUC := usecase.NewMessageUsecase(messageRepo, listingRepo, appLogger)
	mediaUC := usecase.NewMediaUsecase(mediaStore, listingRepo, listingCache, appLogger)
	userUC := usecase.NewUserUsecase(userRepo, listingRepo, favoriteRepo, messageRepo, appLogger)

	auth := ownmiddleware.NewAuth(cfg.JWTSecret, userRepo, appLogger)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:       auth,
		Listings:   httpapi.NewListingHandler(listingUC),
		Favorites:  httpapi.NewFavoriteHandler(favoriteUC),
		Messages:   httpapi.NewMessageHandler(messageUC),
		Admin:      httpapi.NewAdminHandler(moderationUC, userUC),
		Misc:       httpapi.NewMiscHandler(taxonomy, mediaUC, userUC),
		Metrics:    metricsManager,
		Logger:     appLogger,
		CORSOrigin: cfg.CORSOriginList(),
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server starting", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
