package configparser

import (
	"errors"
	"testing"
	"time"
)

type testConfig struct {
	Name     string        `env:"TEST_NAME" default:"fallback"`
	Port     int           `env:"TEST_PORT" default:"3000"`
	Enabled  bool          `env:"TEST_ENABLED" default:"true"`
	Rate     float64       `env:"TEST_RATE" default:"1.5"`
	Interval time.Duration `env:"TEST_INTERVAL" default:"30s"`

	Nested struct {
		Secret string `env:"TEST_SECRET" default:"hidden"`
	}

	Untagged string
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.Name != "fallback" {
		t.Fatalf("string default not applied: %q", cfg.Name)
	}
	if cfg.Port != 3000 {
		t.Fatalf("int default not applied: %d", cfg.Port)
	}
	if !cfg.Enabled {
		t.Fatal("bool default not applied")
	}
	if cfg.Rate != 1.5 {
		t.Fatalf("float default not applied: %v", cfg.Rate)
	}
	if cfg.Interval != 30*time.Second {
		t.Fatalf("duration default not applied: %v", cfg.Interval)
	}
	if cfg.Nested.Secret != "hidden" {
		t.Fatalf("nested default not applied: %q", cfg.Nested.Secret)
	}
	if cfg.Untagged != "" {
		t.Fatalf("untagged field touched: %q", cfg.Untagged)
	}
}

func TestParseEnv_EnvOverridesDefault(t *testing.T) {
	t.Setenv("TEST_NAME", "from-env")
	t.Setenv("TEST_INTERVAL", "1m")
	t.Setenv("TEST_SECRET", "env-secret")

	var cfg testConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.Name != "from-env" {
		t.Fatalf("env not applied: %q", cfg.Name)
	}
	if cfg.Interval != time.Minute {
		t.Fatalf("duration env not applied: %v", cfg.Interval)
	}
	if cfg.Nested.Secret != "env-secret" {
		t.Fatalf("nested env not applied: %q", cfg.Nested.Secret)
	}
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("TEST_PORT", "not-a-number")

	var cfg testConfig
	if err := ParseEnv(&cfg); err == nil {
		t.Fatal("expected an error for a malformed int")
	}
}

func TestParseEnv_RejectsNonStructPointer(t *testing.T) {
	var cfg testConfig
	if err := ParseEnv(cfg); !errors.Is(err, ErrNotStructPointer) {
		t.Fatalf("expected ErrNotStructPointer, got %v", err)
	}

	var n int
	if err := ParseEnv(&n); !errors.Is(err, ErrNotStructPointer) {
		t.Fatalf("expected ErrNotStructPointer, got %v", err)
	}
}
