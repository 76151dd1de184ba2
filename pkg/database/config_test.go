package database_test

import (
	"strings"
	"testing"
	"time"

	"github.com/albmartin/po-intake/pkg/database"
)

func validConfig() database.Config {
	return database.Config{Name: "pointake", User: "pointake"}
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.Host != "localhost" || cfg.Port != 5432 {
		t.Errorf("host/port = %s/%d", cfg.Host, cfg.Port)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("ssl mode = %s", cfg.SSLMode)
	}
	if cfg.MaxOpenConns != 25 || cfg.MaxIdleConns != 5 {
		t.Errorf("conns = %d/%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeDuration() != 15*time.Minute {
		t.Errorf("conn max lifetime = %v", cfg.ConnMaxLifetimeDuration())
	}
	if cfg.ConnTimeoutDuration() != 5*time.Second {
		t.Errorf("conn timeout = %v", cfg.ConnTimeoutDuration())
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "dbhost")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_PASSWORD", "secret")

	cfg := validConfig()
	env := &database.Env{
		Host:     "TEST_DB_HOST",
		Port:     "TEST_DB_PORT",
		Password: "TEST_DB_PASSWORD",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if cfg.Host != "dbhost" || cfg.Port != 5433 {
		t.Errorf("host/port = %s/%d", cfg.Host, cfg.Port)
	}
	if cfg.Password != "secret" {
		t.Errorf("password = %s", cfg.Password)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "pointake"}, "name required"},
		{"missing user", database.Config{Name: "pointake"}, "user required"},
		{"bad lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "bad"}, "conn_max_lifetime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Finalize = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestDsn(t *testing.T) {
	cfg := database.Config{
		Host: "localhost", Port: 5432,
		Name: "pointake", User: "pointake", Password: "pw",
		SSLMode: "disable",
	}

	want := "host=localhost port=5432 dbname=pointake user=pointake password=pw sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn = %q, want %q", got, want)
	}
}

func TestMerge(t *testing.T) {
	cfg := database.Config{Host: "localhost", Port: 5432, Name: "pointake", User: "pointake"}
	cfg.Merge(&database.Config{Host: "prodhost", Password: "pw"})

	if cfg.Host != "prodhost" {
		t.Errorf("host = %s, want prodhost", cfg.Host)
	}
	if cfg.Port != 5432 || cfg.Name != "pointake" {
		t.Errorf("zero overlay fields must not clobber: %+v", cfg)
	}
	if cfg.Password != "pw" {
		t.Errorf("password = %s", cfg.Password)
	}
}
