package config

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StoragePostgres)
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("JWT_LIFETIME", "")
	t.Setenv("DB_LOCK_TIMEOUT", "")
	t.Setenv("KAFKA_ORDER_TOPIC", "gift.order.placed")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.DB.LockTimeout != 3*time.Second {
		t.Errorf("expected lock timeout 3s, got %s", cfg.DB.LockTimeout)
	}
	if cfg.JWT.Lifetime != 24*time.Hour {
		t.Errorf("expected JWT lifetime 24h, got %s", cfg.JWT.Lifetime)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("expected no kafka brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Kafka.OrderTopic != "gift.order.placed" {
		t.Errorf("unexpected order topic %q", cfg.Kafka.OrderTopic)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("JWT_LIFETIME", "1s")
	t.Setenv("DB_LOCK_TIMEOUT", "250ms")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")
	t.Setenv("NOTIFY_WORKERS", "0")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Storage.Driver != StorageMemory {
		t.Errorf("expected memory driver, got %q", cfg.Storage.Driver)
	}
	if cfg.JWT.Lifetime != time.Second {
		t.Errorf("expected 1s lifetime, got %s", cfg.JWT.Lifetime)
	}
	if cfg.DB.LockTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms lock timeout, got %s", cfg.DB.LockTimeout)
	}
	if cfg.DB.LogLevel != logger.Silent {
		t.Errorf("expected silent gorm log level, got %v", cfg.DB.LogLevel)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
	if cfg.Notify.Workers != 1 {
		t.Errorf("expected workers clamped to 1, got %d", cfg.Notify.Workers)
	}
}

func TestFromEnv_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mysql")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestGetDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "gift", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=gift sslmode=disable"
	if got := c.GetDSN(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
