package logger

import (
	"fmt"
	"net/http"
	"time"

	"gift-service/pkg/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// quietPaths are polled by infrastructure and logged at debug level only
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// New builds a logger for the environment: JSON with ISO8601 timestamps in
// production, coloured console output otherwise.
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Server.Env == "production" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	l, err := zc.Build(zap.Fields(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Server.Env),
		zap.String("storage", cfg.Storage.Driver),
	))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// InitLogger installs the global logger
func InitLogger(cfg *config.Config) {
	l, err := New(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log = l
	zap.ReplaceGlobals(l)
	l.Info("Logger initialized", zap.String("level", l.Level().String()))
}

// GetLogger returns the global logger, or a production logger before InitLogger runs
func GetLogger() *zap.Logger {
	if log == nil {
		l, err := zap.NewProduction()
		if err != nil {
			panic("Failed to create fallback logger: " + err.Error())
		}
		log = l
	}
	return log
}

// Middleware stores a request-scoped logger and logs each request once its
// final status is known. Errors are handed to echo's error handler here so the
// logged status matches the response.
func Middleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get(RequestIDKey)
			if requestID == "" {
				requestID = c.Response().Header().Get(RequestIDKey)
			}
			reqLogger := logger.With(zap.String("request_id", requestID))
			c.Set(loggerKey, reqLogger)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", status),
				zap.Int64("bytes_out", c.Response().Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			switch {
			case status >= http.StatusInternalServerError:
				reqLogger.Error("HTTP request failed", fields...)
			case status >= http.StatusBadRequest:
				reqLogger.Warn("HTTP request rejected", fields...)
			case quietPaths[c.Request().URL.Path]:
				reqLogger.Debug("HTTP request completed", fields...)
			default:
				reqLogger.Info("HTTP request completed", fields...)
			}
			return nil
		}
	}
}
