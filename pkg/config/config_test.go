package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
server:
  port: 8080
  read_timeout: 5s
  write_timeout: 10s
  shutdown_timeout: 15s
databases:
  - name: econ
    backend: sqlite
    path: /data/econ.db
  - name: mirror
    backend: clickhouse
    path: mirror
cache:
  backend: memory
  ttl: 2m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
	if len(cfg.Databases) != 2 || cfg.Databases[0].Name != "econ" {
		t.Fatalf("unexpected databases %+v", cfg.Databases)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.Cache.TTL)
	}
	if !cfg.NeedsClickHouse() {
		t.Fatalf("expected clickhouse backend detected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateNoDatabases(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\ndatabases: []\n"))
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	body := `
environment: test
databases:
  - name: econ
    backend: sqlite
    path: /a.db
  - name: econ
    backend: sqlite
    path: /b.db
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestValidateUnknownBackend(t *testing.T) {
	body := `
environment: test
databases:
  - name: econ
    backend: postgres
    path: /a.db
`
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected backend error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FAMEFEED_LOG_LEVEL", "debug")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level %s", cfg.Log.Level)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected redis addr %s", cfg.Cache.Redis.Addr)
	}
	if len(cfg.Audit.Kafka.Brokers) != 2 {
		t.Fatalf("unexpected brokers %v", cfg.Audit.Kafka.Brokers)
	}
}
