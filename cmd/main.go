package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gift-service/internal/cache"
	"gift-service/internal/event"
	"gift-service/internal/handler"
	"gift-service/internal/middleware"
	"gift-service/internal/port"
	"gift-service/internal/service"
	"gift-service/pkg/config"
	"gift-service/pkg/jwtutil"
	"gift-service/pkg/kakao"
	"gift-service/pkg/logger"
	"gift-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("Starting gift service...", cfg.LogConfig()...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer closeStore()

	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey: cfg.JWT.SigningKey,
		Lifetime:   cfg.JWT.Lifetime,
	})
	log.Info("JWT utility initialized")

	var orderCache port.OrderCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		orderCache = cache.NewRedisOrderCache(client, cfg.Redis.TTL)
		log.Info("Order cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	kakaoClient := kakao.NewClient(cfg.Kakao.AuthURL, cfg.Kakao.APIURL, cfg.Kakao.ClientID, cfg.Kakao.RedirectURI, log)
	kakaoService := service.NewKakaoService(store, kakaoClient, tokens, cfg.Kakao.WebURL, log)

	notifiers := []port.OrderNotifier{kakaoService}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := event.NewKafkaPublisher(event.NewWriter(&cfg.Kafka), cfg.ServiceName)
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("Failed to close kafka writer", zap.Error(err))
			}
		}()
		notifiers = append(notifiers, publisher)
		log.Info("Order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.OrderTopic))
	}

	dispatcher := service.NewDispatcher(service.DispatcherConfig{
		Workers:   cfg.Notify.Workers,
		QueueSize: cfg.Notify.QueueSize,
		Timeout:   cfg.Notify.Timeout,
	}, log, notifiers...)

	prometheus.SetInfo(version, cfg.Storage.Driver)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, logger.RequestIDKey},
		ExposeHeaders: []string{echo.HeaderLocation, logger.RequestIDKey},
	}))
	e.Use(middleware.RequestIDMiddleware)
	e.Use(prometheus.MetricsMiddleware())
	e.Use(logger.Middleware(log))
	e.Use(middleware.Authenticate(tokens, store.Members(), middleware.DefaultAllowList))

	e.GET("/health", handler.HealthCheck(cfg.ServiceName))
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	handler.RegisterRoutes(e, handler.Handlers{
		Auth:    handler.NewAuthHandler(service.NewAuthService(store, tokens, log), kakaoService),
		Members: handler.NewMemberHandler(service.NewMemberService(store, orderCache, log), service.NewPointService(store, log)),
		Orders:  handler.NewOrderHandler(service.NewOrderService(store, orderCache, dispatcher, log), cfg.Order.Timeout),
		Options: handler.NewOptionHandler(service.NewOptionService(store, orderCache, log)),
	})

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}

	// In-flight orders are done; deliver what is still queued
	dispatcher.Close()
	log.Info("Server stopped")
}
