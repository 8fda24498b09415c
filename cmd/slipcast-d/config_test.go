package main

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_RetentionValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		envVars     map[string]string
		expectError bool
		errorSubstr string
	}{
		{
			name:        "valid retention from flag",
			args:        []string{"-retention", "168h"},
			expectError: false,
		},
		{
			name:        "zero retention from flag",
			args:        []string{"-retention", "0s"},
			expectError: true,
			errorSubstr: "retention must be positive",
		},
		{
			name:        "negative retention from flag",
			args:        []string{"-retention", "-5h"},
			expectError: true,
			errorSubstr: "retention must be positive",
		},
		{
			name:        "valid retention from env",
			envVars:     map[string]string{"SLIPCAST_RETENTION": "168h"},
			expectError: false,
		},
		{
			name:        "zero retention from env",
			envVars:     map[string]string{"SLIPCAST_RETENTION": "0s"},
			expectError: true,
			errorSubstr: "SLIPCAST_RETENTION must be positive",
		},
		{
			name:        "invalid retention format from flag",
			args:        []string{"-retention", "invalid"},
			expectError: true,
			errorSubstr: "invalid retention",
		},
		{
			name:        "invalid retention format from env",
			envVars:     map[string]string{"SLIPCAST_RETENTION": "invalid"},
			expectError: true,
			errorSubstr: "invalid SLIPCAST_RETENTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				os.Setenv(k, v)
				defer os.Unsetenv(k)
			}

			cfg, err := LoadConfig(tt.args)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errorSubstr)
				} else if !strings.Contains(err.Error(), tt.errorSubstr) {
					t.Errorf("expected error containing %q, got %q", tt.errorSubstr, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				} else if cfg.Retention <= 0 {
					t.Errorf("expected positive retention, got %v", cfg.Retention)
				}
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig([]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Addr != "127.0.0.1:8790" {
		t.Errorf("expected default addr 127.0.0.1:8790, got %s", cfg.Addr)
	}
	if cfg.Retention != 30*24*time.Hour {
		t.Errorf("expected default retention of 720h, got %v", cfg.Retention)
	}
	if !strings.HasSuffix(cfg.DBPath, "slipcast.db") {
		t.Errorf("expected default db path ending in slipcast.db, got %s", cfg.DBPath)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected no redis addr by default, got %s", cfg.RedisAddr)
	}
}

func TestLoadConfig_PortEnv(t *testing.T) {
	os.Setenv("SLIPCAST_PORT", "9000")
	defer os.Unsetenv("SLIPCAST_PORT")

	cfg, err := LoadConfig([]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("expected addr from SLIPCAST_PORT, got %s", cfg.Addr)
	}
}

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	os.Setenv("SLIPCAST_ADDR", "127.0.0.1:9001")
	defer os.Unsetenv("SLIPCAST_ADDR")

	cfg, err := LoadConfig([]string{"-addr", "127.0.0.1:9002"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9002" {
		t.Errorf("expected flag to override env, got %s", cfg.Addr)
	}
}

func TestLoadConfig_TLSRequiresBoth(t *testing.T) {
	_, err := LoadConfig([]string{"-tls-cert", "/tmp/cert.pem"})
	if err == nil || !strings.Contains(err.Error(), "must be set together") {
		t.Errorf("expected tls pairing error, got %v", err)
	}
}
