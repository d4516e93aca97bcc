package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port = %s", cfg.Port)
	}
	if cfg.DataBackend != "json" {
		t.Fatalf("default backend = %s", cfg.DataBackend)
	}
	if cfg.SnapshotPath != "./data/expenses.json" {
		t.Fatalf("default snapshot path = %s", cfg.SnapshotPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", "/tmp/x.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/x.db" || cfg.LogLevel != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid json backend",
			config:  Config{Port: "8080", DataBackend: "json", SnapshotPath: "./data/expenses.json", LogLevel: "info"},
			wantErr: false,
		},
		{
			name:    "valid memory backend",
			config:  Config{Port: "8080", DataBackend: "memory", LogLevel: "warn"},
			wantErr: false,
		},
		{
			name:    "non-numeric port",
			config:  Config{Port: "abc", DataBackend: "json", SnapshotPath: "x.json", LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "port out of range",
			config:  Config{Port: "70000", DataBackend: "json", SnapshotPath: "x.json", LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			config:  Config{Port: "8080", DataBackend: "redis", LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "json backend without path",
			config:  Config{Port: "8080", DataBackend: "json", SnapshotPath: "", LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "sqlite backend without path",
			config:  Config{Port: "8080", DataBackend: "sqlite", SQLiteDBPath: "", LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "bad log level",
			config:  Config{Port: "8080", DataBackend: "memory", LogLevel: "loud"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"WARN", slog.LevelWarn, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, true},
		{"loud", slog.LevelInfo, false},
	}
	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %v (err=%v)", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}
