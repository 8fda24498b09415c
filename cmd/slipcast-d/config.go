package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultAddr      = "127.0.0.1:8790"
	defaultRetention = 30 * 24 * time.Hour
)

type Config struct {
	DBPath    string
	Addr      string
	RedisAddr string
	Retention time.Duration
	TLSCert   string
	TLSKey    string
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	defaultDBPath := filepath.Join(cwd, "slipcast.db")

	dbPath := envOrDefault("SLIPCAST_DB_PATH", defaultDBPath)
	addr := addrFromEnv(defaultAddr)
	redisAddr := os.Getenv("SLIPCAST_REDIS_ADDR")
	retention := defaultRetention
	if retentionEnv := os.Getenv("SLIPCAST_RETENTION"); retentionEnv != "" {
		parsed, err := time.ParseDuration(retentionEnv)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SLIPCAST_RETENTION: %w", err)
		}
		if parsed <= 0 {
			return Config{}, errors.New("SLIPCAST_RETENTION must be positive")
		}
		retention = parsed
	}

	flagSet := flag.NewFlagSet("slipcast-d", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagDB := flagSet.String("db", dbPath, "path to SQLite audit database")
	flagAddr := flagSet.String("addr", addr, "HTTP listen address")
	flagRedis := flagSet.String("redis", redisAddr, "Redis address for the recent-analyses mirror (optional)")
	flagRetention := flagSet.String("retention", retention.String(), "audit log retention window")
	flagTLSCert := flagSet.String("tls-cert", os.Getenv("SLIPCAST_TLS_CERT"), "TLS certificate file (optional)")
	flagTLSKey := flagSet.String("tls-key", os.Getenv("SLIPCAST_TLS_KEY"), "TLS key file (optional)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	retentionParsed, err := time.ParseDuration(*flagRetention)
	if err != nil {
		return Config{}, fmt.Errorf("invalid retention: %w", err)
	}
	if retentionParsed <= 0 {
		return Config{}, errors.New("retention must be positive")
	}

	config := Config{
		DBPath:    resolvePath(*flagDB, cwd),
		Addr:      strings.TrimSpace(*flagAddr),
		RedisAddr: strings.TrimSpace(*flagRedis),
		Retention: retentionParsed,
		TLSCert:   strings.TrimSpace(*flagTLSCert),
		TLSKey:    strings.TrimSpace(*flagTLSKey),
	}

	if config.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}

	if (config.TLSCert == "") != (config.TLSKey == "") {
		return Config{}, errors.New("tls-cert and tls-key must be set together")
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func addrFromEnv(fallback string) string {
	if value := os.Getenv("SLIPCAST_ADDR"); value != "" {
		return value
	}
	if port := os.Getenv("SLIPCAST_PORT"); port != "" {
		return fmt.Sprintf("127.0.0.1:%s", port)
	}
	return fallback
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}
