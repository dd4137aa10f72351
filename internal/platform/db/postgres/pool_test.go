package postgres

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/ogurasousui/codex-skill-tracker/internal/platform/config"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "user",
		Password:        "pass",
		Name:            "db",
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}

	poolCfg, err := BuildPoolConfig(dbCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 {
		t.Errorf("expected MaxConns 20, got %d", poolCfg.MaxConns)
	}

	if poolCfg.MinConns != 5 {
		t.Errorf("expected MinConns 5, got %d", poolCfg.MinConns)
	}

	if poolCfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("unexpected MaxConnLifetime: %v", poolCfg.MaxConnLifetime)
	}

	if poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected MaxConnIdleTime: %v", poolCfg.MaxConnIdleTime)
	}

	if poolCfg.ConnConfig.Database != "db" {
		t.Errorf("expected database db, got %s", poolCfg.ConnConfig.Database)
	}

	if poolCfg.ConnConfig.Tracer != nil {
		t.Errorf("expected no tracer without log level")
	}
}

func TestBuildPoolConfig_QueryLogging(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass",
		Name:     "db",
		LogLevel: "debug",
	}

	poolCfg, err := BuildPoolConfig(dbCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	tracer, ok := poolCfg.ConnConfig.Tracer.(*tracelog.TraceLog)
	if !ok {
		t.Fatalf("expected tracelog tracer, got %T", poolCfg.ConnConfig.Tracer)
	}
	if tracer.LogLevel != tracelog.LogLevelDebug {
		t.Errorf("unexpected tracer level: %v", tracer.LogLevel)
	}

	dbCfg.LogLevel = "loud"
	if _, err := BuildPoolConfig(dbCfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestQueryLogger_WritesFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ql := NewQueryLogger(zerolog.New(&buf))

	ql.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{"sql": "SELECT 1"})

	out := buf.String()
	if !strings.Contains(out, `"component":"pgx"`) || !strings.Contains(out, `"sql":"SELECT 1"`) || !strings.Contains(out, `"level":"info"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
